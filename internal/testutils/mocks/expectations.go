// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/teyvat-catalog/internal/repositories/records"
	recordsmock "github.com/KirkDiggler/teyvat-catalog/internal/repositories/records/mock"
)

// ExpectCreate sets up the MaxID then Insert sequence a create performs and
// returns the id the record will be assigned
func ExpectCreate[T records.Record](ctx context.Context, repo *recordsmock.MockRepository[T], maxID int64) int64 {
	next := maxID + 1

	gomock.InOrder(
		repo.EXPECT().MaxID(ctx).Return(maxID, nil),
		repo.EXPECT().
			Insert(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, input records.InsertInput[T]) (*records.InsertOutput[T], error) {
				return &records.InsertOutput[T]{Record: input.Record}, nil
			}),
	)

	return next
}

// ExpectGet sets up a Get for id returning rec, or absence when found is false
func ExpectGet[T records.Record](ctx context.Context, repo *recordsmock.MockRepository[T], id int64, rec T, found bool) {
	repo.EXPECT().
		Get(ctx, records.GetInput{ID: id}).
		Return(&records.GetOutput[T]{Record: rec, Found: found}, nil)
}
