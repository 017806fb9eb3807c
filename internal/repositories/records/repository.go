// Package records provides the persistence contract shared by every catalog
// collection and the backends that satisfy it.
package records

//go:generate mockgen -destination=mock/mock_repository.go -package=recordsmock github.com/KirkDiggler/teyvat-catalog/internal/repositories/records Repository

import (
	"context"
)

// Record is a stored catalog entry identified by a numeric id.
// Implementations are pointer types so decoders can allocate them.
type Record interface {
	RecordID() int64
	SetRecordID(id int64)
}

// Repository defines the storage contract for one collection.
// Backends are interchangeable apart from crash consistency and
// concurrent-writer behavior.
type Repository[T Record] interface {
	// List returns every record. File and memory backends keep storage
	// order; the others order by id.
	// Returns errors.Unavailable if the backing resource cannot be read
	List(ctx context.Context, input ListInput) (*ListOutput[T], error)

	// Get looks a record up by id. An absent record is reported through
	// GetOutput.Found, not as an error
	// Returns errors.Unavailable for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput[T], error)

	// Insert persists a record whose id the caller already assigned
	// Returns errors.AlreadyExists if the id is taken
	// Returns errors.Unavailable for storage failures
	Insert(ctx context.Context, input InsertInput[T]) (*InsertOutput[T], error)

	// Update merges Fields into the record with the given id. Fields not
	// named keep their stored values. An absent record is reported through
	// UpdateOutput.Found
	// Returns errors.Unavailable for storage failures
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput[T], error)

	// Delete removes the record with the given id and reports whether one existed
	// Returns errors.Unavailable for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// MaxID returns the highest id ever stored, even if since deleted,
	// or 0 for a collection that never held a record
	// Returns errors.Unavailable for storage failures
	MaxID(ctx context.Context) (int64, error)
}

// ListInput defines the input for listing records
type ListInput struct{}

// ListOutput defines the output for listing records
type ListOutput[T Record] struct {
	Records []T
}

// GetInput defines the input for getting a record
type GetInput struct {
	ID int64
}

// GetOutput defines the output for getting a record
type GetOutput[T Record] struct {
	Record T
	Found  bool
}

// InsertInput defines the input for inserting a record
type InsertInput[T Record] struct {
	Record T
}

// InsertOutput defines the output for inserting a record
type InsertOutput[T Record] struct {
	Record T
}

// UpdateInput defines the input for merging fields into a record.
// Fields use the record's JSON names; an "id" key is ignored.
type UpdateInput struct {
	ID     int64
	Fields map[string]any
}

// UpdateOutput defines the output for updating a record
type UpdateOutput[T Record] struct {
	Record T
	Found  bool
}

// DeleteInput defines the input for deleting a record
type DeleteInput struct {
	ID int64
}

// DeleteOutput defines the output for deleting a record
type DeleteOutput struct {
	Deleted bool
}

const (
	// Error messages
	errRecordNil = "record cannot be nil"
)
