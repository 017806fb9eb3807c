package records

import (
	"context"
	"sync"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage.
// Records are copied on the way in and out.
type InMemoryRepository[T Record] struct {
	mu      sync.RWMutex
	order   []int64
	store   map[int64]T
	highest int64
}

// NewInMemory creates a new in-memory repository, optionally seeded.
// Seeds are copied, so the caller may keep mutating them.
func NewInMemory[T Record](seed ...T) *InMemoryRepository[T] {
	r := &InMemoryRepository[T]{
		store: make(map[int64]T),
	}
	for _, rec := range seed {
		if isNil(rec) {
			continue
		}
		stored, err := clone(rec)
		if err != nil {
			// a record that cannot round-trip is kept as given
			stored = rec
		}
		id := stored.RecordID()
		r.order = append(r.order, id)
		r.store[id] = stored
		r.highest = max(r.highest, id)
	}
	return r
}

// List returns every record in insertion order
func (r *InMemoryRepository[T]) List(_ context.Context, _ ListInput) (*ListOutput[T], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]T, 0, len(r.order))
	for _, id := range r.order {
		rec, err := clone(r.store[id])
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return &ListOutput[T]{Records: recs}, nil
}

// Get retrieves a record by id
func (r *InMemoryRepository[T]) Get(_ context.Context, input GetInput) (*GetOutput[T], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.store[input.ID]
	if !exists {
		return &GetOutput[T]{}, nil
	}

	rec, err := clone(stored)
	if err != nil {
		return nil, err
	}
	return &GetOutput[T]{Record: rec, Found: true}, nil
}

// Insert stores a new record
func (r *InMemoryRepository[T]) Insert(_ context.Context, input InsertInput[T]) (*InsertOutput[T], error) {
	if isNil(input.Record) {
		return nil, errors.InvalidArgument(errRecordNil)
	}

	rec, err := clone(input.Record)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := rec.RecordID()
	if _, exists := r.store[id]; exists {
		return nil, errors.AlreadyExistsf("record with ID %d already exists", id)
	}

	r.store[id] = rec
	r.order = append(r.order, id)
	r.highest = max(r.highest, id)

	return &InsertOutput[T]{Record: input.Record}, nil
}

// Update merges fields into an existing record
func (r *InMemoryRepository[T]) Update(_ context.Context, input UpdateInput) (*UpdateOutput[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.store[input.ID]
	if !exists {
		return &UpdateOutput[T]{}, nil
	}

	merged, err := merge(stored, input.Fields)
	if err != nil {
		return nil, err
	}
	r.store[input.ID] = merged

	out, err := clone(merged)
	if err != nil {
		return nil, err
	}
	return &UpdateOutput[T]{Record: out, Found: true}, nil
}

// Delete removes a record
func (r *InMemoryRepository[T]) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.ID]; !exists {
		return &DeleteOutput{Deleted: false}, nil
	}

	delete(r.store, input.ID)
	for i, id := range r.order {
		if id == input.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return &DeleteOutput{Deleted: true}, nil
}

// MaxID returns the highest id ever stored, including deleted ones
func (r *InMemoryRepository[T]) MaxID(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.highest, nil
}
