// Package collection implements the business rules shared by every catalog
// collection: id assignment, validation and not-found semantics.
package collection

//go:generate mockgen -destination=mock/mock_service.go -package=collectionmock github.com/KirkDiggler/teyvat-catalog/internal/orchestrators/collection Service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
	"github.com/KirkDiggler/teyvat-catalog/internal/repositories/records"
	"github.com/KirkDiggler/teyvat-catalog/internal/schema"
)

// Service defines the operations exposed for one collection
type Service[T records.Record] interface {
	// List returns the whole collection, or the single record named by
	// ListInput.ID
	// Returns errors.NotFound if an id was given and no record has it
	List(ctx context.Context, input *ListInput) (*ListOutput[T], error)

	// Create validates a full record body, assigns the next id and persists it
	// Returns errors.InvalidArgument naming every offending field
	Create(ctx context.Context, input *CreateInput) (*CreateOutput[T], error)

	// ReplaceFields validates the named fields and merges them into an
	// existing record
	// Returns errors.NotFound if no record has the id
	// Returns errors.InvalidArgument naming every offending field
	ReplaceFields(ctx context.Context, input *ReplaceFieldsInput) (*ReplaceFieldsOutput[T], error)

	// Delete removes a record
	// Returns errors.NotFound if no record has the id
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// Config holds the dependencies for a collection orchestrator
type Config[T records.Record] struct {
	Repository records.Repository[T]
	Schema     *schema.Schema
}

// Validate ensures all required dependencies are provided
func (c *Config[T]) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Schema == nil {
		vb.RequiredField("Schema")
	}

	return vb.Build()
}

type orchestrator[T records.Record] struct {
	repo   records.Repository[T]
	schema *schema.Schema
}

// NewOrchestrator creates a new collection orchestrator with the provided dependencies
func NewOrchestrator[T records.Record](cfg *Config[T]) (Service[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator[T]{
		repo:   cfg.Repository,
		schema: cfg.Schema,
	}, nil
}

func (o *orchestrator[T]) List(ctx context.Context, input *ListInput) (*ListOutput[T], error) {
	if input == nil {
		input = &ListInput{}
	}

	if input.ID != nil {
		rec, err := o.get(ctx, *input.ID)
		if err != nil {
			return nil, err
		}
		return &ListOutput[T]{Record: rec}, nil
	}

	listOutput, err := o.repo.List(ctx, records.ListInput{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", o.schema.Entity)
	}

	return &ListOutput[T]{Records: listOutput.Records}, nil
}

func (o *orchestrator[T]) get(ctx context.Context, id int64) (T, error) {
	var zero T

	getOutput, err := o.repo.Get(ctx, records.GetInput{ID: id})
	if err != nil {
		return zero, errors.Wrapf(err, "failed to get %s %d", o.schema.Singular(), id)
	}
	if !getOutput.Found {
		return zero, o.notFound(id)
	}

	return getOutput.Record, nil
}

func (o *orchestrator[T]) Create(ctx context.Context, input *CreateInput) (*CreateOutput[T], error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	fields, err := o.schema.Validate(input.Fields, schema.ModeFull)
	if err != nil {
		return nil, err
	}

	rec, err := build[T](fields)
	if err != nil {
		return nil, err
	}

	maxID, err := o.repo.MaxID(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to assign %s id", o.schema.Singular())
	}
	rec.SetRecordID(maxID + 1)

	insertOutput, err := o.repo.Insert(ctx, records.InsertInput[T]{Record: rec})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", o.schema.Singular())
	}

	slog.InfoContext(ctx, "Record created",
		"entity", o.schema.Entity,
		"id", rec.RecordID(),
	)

	return &CreateOutput[T]{Record: insertOutput.Record}, nil
}

func (o *orchestrator[T]) ReplaceFields(ctx context.Context, input *ReplaceFieldsInput) (*ReplaceFieldsOutput[T], error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	fields, err := o.schema.Validate(input.Fields, schema.ModePartial)
	if err != nil {
		return nil, err
	}

	updateOutput, err := o.repo.Update(ctx, records.UpdateInput{
		ID:     input.ID,
		Fields: fields,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update %s %d", o.schema.Singular(), input.ID)
	}
	if !updateOutput.Found {
		return nil, o.notFound(input.ID)
	}

	slog.InfoContext(ctx, "Record updated",
		"entity", o.schema.Entity,
		"id", input.ID,
		"fields_count", len(fields),
	)

	return &ReplaceFieldsOutput[T]{Record: updateOutput.Record}, nil
}

func (o *orchestrator[T]) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	deleteOutput, err := o.repo.Delete(ctx, records.DeleteInput{ID: input.ID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete %s %d", o.schema.Singular(), input.ID)
	}
	if !deleteOutput.Deleted {
		return nil, o.notFound(input.ID)
	}

	slog.InfoContext(ctx, "Record deleted",
		"entity", o.schema.Entity,
		"id", input.ID,
	)

	return &DeleteOutput{}, nil
}

func (o *orchestrator[T]) notFound(id int64) error {
	return errors.NotFoundf("%s %d not found", o.schema.Singular(), id).
		WithMeta("entity", o.schema.Entity).
		WithMeta("id", id)
}

// build turns validated fields into a fresh record.
func build[T records.Record](fields map[string]any) (T, error) {
	var rec T

	raw, err := json.Marshal(fields)
	if err != nil {
		return rec, errors.Wrap(err, "failed to encode fields")
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, errors.Wrap(err, "failed to decode fields")
	}

	return rec, nil
}
