package records_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
	"github.com/KirkDiggler/teyvat-catalog/internal/repositories/records"
)

func weaponDoc(id int64, name string) bson.D {
	return bson.D{
		{Key: "id", Value: id},
		{Key: "image", Value: name + ".png"},
		{Key: "name", Value: name},
		{Key: "type", Value: "Sword"},
		{Key: "rarity", Value: int64(4)},
		{Key: "baseattack", Value: "41"},
		{Key: "substat", Value: "Energy Recharge"},
		{Key: "passiveAbility", Value: "Windfall"},
	}
}

func newMongoRepo(mt *mtest.T) records.Repository[*entities.Weapon] {
	repo, err := records.NewMongo[*entities.Weapon](&records.MongoConfig{Collection: mt.Coll})
	require.NoError(mt, err)
	return repo
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func countersNamespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + records.CountersCollection
}

func counterDoc(mt *mtest.T, seq int64) bson.D {
	return bson.D{{Key: "_id", Value: mt.Coll.Name()}, {Key: "seq", Value: seq}}
}

func TestNewMongoRequiresCollection(t *testing.T) {
	_, err := records.NewMongo[*entities.Weapon](&records.MongoConfig{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("list decodes documents", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			weaponDoc(1, "Favonius Sword"),
			weaponDoc(2, "Skyward Blade"),
		))

		out, err := repo.List(ctx, records.ListInput{})
		require.NoError(mt, err)
		require.Len(mt, out.Records, 2)
		assert.Equal(mt, "Skyward Blade", out.Records[1].Name)
		assert.Equal(mt, "Windfall", out.Records[0].PassiveAbility)
	})

	mt.Run("list failure is unavailable", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Name:    "InterruptedAtShutdown",
			Message: "shutting down",
		}))

		_, err := repo.List(ctx, records.ListInput{})
		require.Error(mt, err)
		assert.True(mt, errors.IsUnavailable(err))
	})

	mt.Run("get found", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			weaponDoc(2, "Skyward Blade"),
		))

		out, err := repo.Get(ctx, records.GetInput{ID: 2})
		require.NoError(mt, err)
		assert.True(mt, out.Found)
		assert.Equal(mt, int64(2), out.Record.ID)
	})

	mt.Run("get absent", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		out, err := repo.Get(ctx, records.GetInput{ID: 9})
		require.NoError(mt, err)
		assert.False(mt, out.Found)
	})

	mt.Run("insert", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		out, err := repo.Insert(ctx, records.InsertInput[*entities.Weapon]{
			Record: &entities.Weapon{ID: 3, Name: "Aquila Favonia", Rarity: 5},
		})
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), out.Record.ID)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
		started = mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
		assert.Equal(mt, records.CountersCollection, started.Command.Lookup("update").StringValue())
	})

	mt.Run("insert counter failure is unavailable", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    11600,
				Name:    "InterruptedAtShutdown",
				Message: "shutting down",
			}),
		)

		_, err := repo.Insert(ctx, records.InsertInput[*entities.Weapon]{
			Record: &entities.Weapon{ID: 3, Name: "Aquila Favonia"},
		})
		require.Error(mt, err)
		assert.True(mt, errors.IsUnavailable(err))
	})

	mt.Run("insert duplicate id", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.Insert(ctx, records.InsertInput[*entities.Weapon]{
			Record: &entities.Weapon{ID: 1, Name: "Favonius Sword"},
		})
		require.Error(mt, err)
		assert.True(mt, errors.IsAlreadyExists(err))
	})

	mt.Run("update returns merged document", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		updated := weaponDoc(2, "Skyward Blade")
		updated[4] = bson.E{Key: "rarity", Value: int64(5)}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: updated}))

		out, err := repo.Update(ctx, records.UpdateInput{
			ID:     2,
			Fields: map[string]any{"rarity": int64(5)},
		})
		require.NoError(mt, err)
		assert.True(mt, out.Found)
		assert.Equal(mt, int64(5), out.Record.Rarity)
	})

	mt.Run("update with no fields reads the record", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			weaponDoc(2, "Skyward Blade"),
		))

		out, err := repo.Update(ctx, records.UpdateInput{ID: 2, Fields: map[string]any{"id": int64(8)}})
		require.NoError(mt, err)
		assert.True(mt, out.Found)
		assert.Equal(mt, int64(2), out.Record.ID)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		out, err := repo.Delete(ctx, records.DeleteInput{ID: 2})
		require.NoError(mt, err)
		assert.True(mt, out.Deleted)
	})

	mt.Run("delete absent", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		out, err := repo.Delete(ctx, records.DeleteInput{ID: 2})
		require.NoError(mt, err)
		assert.False(mt, out.Deleted)
	})

	mt.Run("max id", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, countersNamespace(mt), mtest.FirstBatch, counterDoc(mt, 7)),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
				bson.D{{Key: "id", Value: int64(7)}},
			),
		)

		maxID, err := repo.MaxID(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), maxID)
	})

	mt.Run("max id keeps deleted ids", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, countersNamespace(mt), mtest.FirstBatch, counterDoc(mt, 9)),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
				bson.D{{Key: "id", Value: int64(7)}},
			),
		)

		maxID, err := repo.MaxID(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, int64(9), maxID)
	})

	mt.Run("max id without counter uses live records", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, countersNamespace(mt), mtest.FirstBatch),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
				bson.D{{Key: "id", Value: int64(4)}},
			),
		)

		maxID, err := repo.MaxID(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, int64(4), maxID)
	})

	mt.Run("max id of empty collection", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, countersNamespace(mt), mtest.FirstBatch),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch),
		)

		maxID, err := repo.MaxID(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, int64(0), maxID)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, records.EnsureMongoIndexes(ctx, mt.Coll))
	})
}
