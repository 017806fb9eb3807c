package records

import (
	"context"
	"log/slog"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
)

// MongoConfig contains configuration for the MongoDB repository.
type MongoConfig struct {
	Collection *mongo.Collection
	// Counters holds one high-water mark document per collection
	// (optional, defaults to the "counters" collection of the same database)
	Counters *mongo.Collection
}

// Validate validates the MongoConfig.
func (cfg *MongoConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Collection == nil {
		return errors.InvalidArgument("collection cannot be nil")
	}
	return nil
}

// CountersCollection is the default home of the id high-water marks
const CountersCollection = "counters"

// mongoRepository stores one document per record. Every operation is a
// single-document command, so the server's per-document atomicity is the
// only concurrency control.
type mongoRepository[T Record] struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

// NewMongo creates a MongoDB-backed repository
func NewMongo[T Record](cfg *MongoConfig) (Repository[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	counters := cfg.Counters
	if counters == nil {
		counters = cfg.Collection.Database().Collection(CountersCollection)
	}

	return &mongoRepository[T]{coll: cfg.Collection, counters: counters}, nil
}

// EnsureMongoIndexes creates the unique index on id that rejects
// duplicate inserts.
func EnsureMongoIndexes(ctx context.Context, coll *mongo.Collection) error {
	name, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: idField, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.StoreUnavailablef(err, "failed to create id index on %s", coll.Name())
	}

	slog.DebugContext(ctx, "ensured mongo index",
		"collection", coll.Name(),
		"index", name)
	return nil
}

var withoutObjectID = bson.D{{Key: "_id", Value: 0}}

func byID(id int64) bson.D {
	return bson.D{{Key: idField, Value: id}}
}

func (r *mongoRepository[T]) List(ctx context.Context, _ ListInput) (*ListOutput[T], error) {
	opts := options.Find().
		SetSort(bson.D{{Key: idField, Value: 1}}).
		SetProjection(withoutObjectID)

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to list %s", r.coll.Name())
	}
	defer func() {
		_ = cur.Close(ctx) // nolint:errcheck // safe to ignore in cleanup
	}()

	recs := make([]T, 0)
	if err := cur.All(ctx, &recs); err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to decode %s", r.coll.Name())
	}

	return &ListOutput[T]{Records: recs}, nil
}

func (r *mongoRepository[T]) Get(ctx context.Context, input GetInput) (*GetOutput[T], error) {
	var rec T
	err := r.coll.FindOne(ctx, byID(input.ID), options.FindOne().SetProjection(withoutObjectID)).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &GetOutput[T]{}, nil
		}
		return nil, errors.StoreUnavailablef(err, "failed to get record %d from %s", input.ID, r.coll.Name())
	}

	return &GetOutput[T]{Record: rec, Found: true}, nil
}

func (r *mongoRepository[T]) Insert(ctx context.Context, input InsertInput[T]) (*InsertOutput[T], error) {
	if isNil(input.Record) {
		return nil, errors.InvalidArgument(errRecordNil)
	}

	if _, err := r.coll.InsertOne(ctx, input.Record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.AlreadyExistsf("record with ID %d already exists", input.Record.RecordID())
		}
		return nil, errors.StoreUnavailablef(err, "failed to insert into %s", r.coll.Name())
	}
	if err := r.raiseCounter(ctx, input.Record.RecordID()); err != nil {
		return nil, err
	}

	return &InsertOutput[T]{Record: input.Record}, nil
}

func (r *mongoRepository[T]) Update(ctx context.Context, input UpdateInput) (*UpdateOutput[T], error) {
	set := setDocument(input.Fields)
	if len(set) == 0 {
		getOutput, err := r.Get(ctx, GetInput{ID: input.ID})
		if err != nil {
			return nil, err
		}
		return &UpdateOutput[T]{Record: getOutput.Record, Found: getOutput.Found}, nil
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutObjectID)

	var rec T
	err := r.coll.FindOneAndUpdate(ctx, byID(input.ID), bson.D{{Key: "$set", Value: set}}, opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &UpdateOutput[T]{}, nil
		}
		return nil, errors.StoreUnavailablef(err, "failed to update record %d in %s", input.ID, r.coll.Name())
	}

	return &UpdateOutput[T]{Record: rec, Found: true}, nil
}

func (r *mongoRepository[T]) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	res, err := r.coll.DeleteOne(ctx, byID(input.ID))
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to delete record %d from %s", input.ID, r.coll.Name())
	}
	if res.DeletedCount == 0 {
		return &DeleteOutput{Deleted: false}, nil
	}
	// documents written before the counter existed still leave their mark
	if err := r.raiseCounter(ctx, input.ID); err != nil {
		return nil, err
	}

	return &DeleteOutput{Deleted: true}, nil
}

func (r *mongoRepository[T]) MaxID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOne(ctx, r.counterKey()).Decode(&counter)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, errors.StoreUnavailablef(err, "failed to read id counter of %s", r.coll.Name())
	}

	live, err := r.liveMaxID(ctx)
	if err != nil {
		return 0, err
	}
	return max(counter.Seq, live), nil
}

func (r *mongoRepository[T]) counterKey() bson.D {
	return bson.D{{Key: "_id", Value: r.coll.Name()}}
}

// raiseCounter moves the collection's high-water mark up to id
func (r *mongoRepository[T]) raiseCounter(ctx context.Context, id int64) error {
	_, err := r.counters.UpdateOne(ctx,
		r.counterKey(),
		bson.D{{Key: "$max", Value: bson.D{{Key: "seq", Value: id}}}},
		options.Update().SetUpsert(true))
	if err != nil {
		return errors.StoreUnavailablef(err, "failed to advance id counter of %s", r.coll.Name())
	}
	return nil
}

func (r *mongoRepository[T]) liveMaxID(ctx context.Context) (int64, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: idField, Value: -1}}).
		SetProjection(bson.D{{Key: idField, Value: 1}, {Key: "_id", Value: 0}})

	var last struct {
		ID int64 `bson:"id"`
	}
	if err := r.coll.FindOne(ctx, bson.D{}, opts).Decode(&last); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, errors.StoreUnavailablef(err, "failed to read highest id of %s", r.coll.Name())
	}

	return last.ID, nil
}

// setDocument builds a $set body in key order, leaving out id.
func setDocument(fields map[string]any) bson.D {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != idField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	set := make(bson.D, 0, len(keys))
	for _, k := range keys {
		set = append(set, bson.E{Key: k, Value: fields[k]})
	}
	return set
}
