package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
	"github.com/KirkDiggler/teyvat-catalog/internal/handlers/middleware"
	"github.com/KirkDiggler/teyvat-catalog/internal/orchestrators/collection"
	"github.com/KirkDiggler/teyvat-catalog/internal/pkg/idgen"
)

// AppConfig holds everything the HTTP app serves
type AppConfig struct {
	Characters collection.Service[*entities.Character]
	Weapons    collection.Service[*entities.Weapon]
	Monsters   collection.Service[*entities.Monster]

	// RequestIDs generates the X-Request-ID of requests that arrive without one
	RequestIDs idgen.Generator
	// AllowOrigins is the CORS origin list; empty allows any origin
	AllowOrigins string
	// BodyLimit caps request bodies in bytes; zero keeps fiber's default
	BodyLimit int
}

// Validate ensures all required dependencies are present
func (c *AppConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Characters == nil {
		vb.RequiredField("Characters")
	}
	if c.Weapons == nil {
		vb.RequiredField("Weapons")
	}
	if c.Monsters == nil {
		vb.RequiredField("Monsters")
	}
	if c.RequestIDs == nil {
		vb.RequiredField("RequestIDs")
	}
	return vb.Build()
}

// NewApp builds the fiber app with middleware, the health check and one
// resource per collection under /api.
func NewApp(cfg *AppConfig) (*fiber.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid app config")
	}

	characters, err := NewCollectionHandler(&CollectionHandlerConfig[*entities.Character]{
		Entity:  entities.CharactersCollection,
		Service: cfg.Characters,
	})
	if err != nil {
		return nil, err
	}
	weapons, err := NewCollectionHandler(&CollectionHandlerConfig[*entities.Weapon]{
		Entity:  entities.WeaponsCollection,
		Service: cfg.Weapons,
	})
	if err != nil {
		return nil, err
	}
	monsters, err := NewCollectionHandler(&CollectionHandlerConfig[*entities.Monster]{
		Entity:  entities.MonstersCollection,
		Service: cfg.Monsters,
	})
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "teyvat-catalog",
		ErrorHandler:          middleware.ErrorHandler,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
	})

	allowOrigins := cfg.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: cfg.RequestIDs.Generate,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))
	app.Use(middleware.RequestLogging())

	app.Get("/health", Health)

	api := app.Group("/api")
	characters.Register(api)
	weapons.Register(api)
	monsters.Register(api)

	return app, nil
}

// Health reports that the process is serving
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
