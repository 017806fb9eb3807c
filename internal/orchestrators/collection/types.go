package collection

import (
	"github.com/KirkDiggler/teyvat-catalog/internal/repositories/records"
)

// ListInput defines the request for listing a collection
type ListInput struct {
	// ID narrows the result to one record when set
	ID *int64
}

// ListOutput defines the response for listing a collection.
// Record is set when ListInput.ID was given, Records otherwise.
type ListOutput[T records.Record] struct {
	Records []T
	Record  T
}

// CreateInput defines the request for creating a record
type CreateInput struct {
	// Fields is the decoded request body
	Fields map[string]any
}

// CreateOutput defines the response for creating a record
type CreateOutput[T records.Record] struct {
	Record T
}

// ReplaceFieldsInput defines the request for updating fields of a record
type ReplaceFieldsInput struct {
	ID     int64
	Fields map[string]any
}

// ReplaceFieldsOutput defines the response for updating fields of a record
type ReplaceFieldsOutput[T records.Record] struct {
	Record T
}

// DeleteInput defines the request for deleting a record
type DeleteInput struct {
	ID int64
}

// DeleteOutput defines the response for deleting a record
type DeleteOutput struct{}
