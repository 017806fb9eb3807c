// Package v1 serves the catalog collections over HTTP
package v1

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
	"github.com/KirkDiggler/teyvat-catalog/internal/handlers/middleware"
	"github.com/KirkDiggler/teyvat-catalog/internal/orchestrators/collection"
	"github.com/KirkDiggler/teyvat-catalog/internal/repositories/records"
)

// CollectionHandlerConfig holds dependencies for a collection handler
type CollectionHandlerConfig[T records.Record] struct {
	// Entity is the path segment under /api, e.g. "characters"
	Entity  string
	Service collection.Service[T]
}

// Validate ensures all required dependencies are present
func (c *CollectionHandlerConfig[T]) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Entity == "" {
		vb.RequiredField("Entity")
	}
	if c.Service == nil {
		vb.RequiredField("Service")
	}
	return vb.Build()
}

// CollectionHandler exposes one collection as a REST resource
type CollectionHandler[T records.Record] struct {
	entity  string
	service collection.Service[T]
}

// NewCollectionHandler creates a new collection handler with the given configuration
func NewCollectionHandler[T records.Record](cfg *CollectionHandlerConfig[T]) (*CollectionHandler[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &CollectionHandler[T]{
		entity:  cfg.Entity,
		service: cfg.Service,
	}, nil
}

// Register mounts the handler's routes under /{entity} of router
func (h *CollectionHandler[T]) Register(router fiber.Router) {
	group := router.Group("/" + h.entity)
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Get("/:id", h.Get)
	group.Put("/:id", h.Update)
	group.Delete("/:id", h.Delete)
}

// List returns the whole collection, or one record when ?id= is given
func (h *CollectionHandler[T]) List(c *fiber.Ctx) error {
	input := &collection.ListInput{}

	if raw := c.Query("id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return middleware.WriteError(c, err)
		}
		input.ID = &id
	}

	out, err := h.service.List(c.UserContext(), input)
	if err != nil {
		return middleware.WriteError(c, err)
	}

	if input.ID != nil {
		return c.JSON(out.Record)
	}
	if out.Records == nil {
		return c.JSON([]T{})
	}
	return c.JSON(out.Records)
}

// Get returns the record named in the path
func (h *CollectionHandler[T]) Get(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return middleware.WriteError(c, err)
	}

	out, err := h.service.List(c.UserContext(), &collection.ListInput{ID: &id})
	if err != nil {
		return middleware.WriteError(c, err)
	}

	return c.JSON(out.Record)
}

// Create validates the body, assigns an id and stores the record
func (h *CollectionHandler[T]) Create(c *fiber.Ctx) error {
	fields, err := decodeFields(c)
	if err != nil {
		return middleware.WriteError(c, err)
	}

	out, err := h.service.Create(c.UserContext(), &collection.CreateInput{Fields: fields})
	if err != nil {
		return middleware.WriteError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(out.Record)
}

// Update merges the body into the record named in the path
func (h *CollectionHandler[T]) Update(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return middleware.WriteError(c, err)
	}

	fields, err := decodeFields(c)
	if err != nil {
		return middleware.WriteError(c, err)
	}

	out, err := h.service.ReplaceFields(c.UserContext(), &collection.ReplaceFieldsInput{
		ID:     id,
		Fields: fields,
	})
	if err != nil {
		return middleware.WriteError(c, err)
	}

	return c.JSON(out.Record)
}

// Delete removes the record named in the path
func (h *CollectionHandler[T]) Delete(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return middleware.WriteError(c, err)
	}

	if _, err := h.service.Delete(c.UserContext(), &collection.DeleteInput{ID: id}); err != nil {
		return middleware.WriteError(c, err)
	}

	return c.JSON(MessageResponse{Message: singular(h.entity) + " deleted"})
}

// MessageResponse is the body of a successful delete
type MessageResponse struct {
	Message string `json:"message"`
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.InvalidArgumentf("id must be an integer, got %q", raw)
	}
	return id, nil
}

func decodeFields(c *fiber.Ctx) (map[string]any, error) {
	body := c.Body()
	if len(body) == 0 {
		return nil, errors.InvalidArgument("request body is required")
	}

	var fields map[string]any
	if err := c.App().Config().JSONDecoder(body, &fields); err != nil || fields == nil {
		return nil, errors.InvalidArgument("request body must be a JSON object")
	}
	return fields, nil
}

func singular(entity string) string {
	if n := len(entity); n > 0 && entity[n-1] == 's' {
		return entity[:n-1]
	}
	return entity
}
