package records

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
	redisclient "github.com/KirkDiggler/teyvat-catalog/internal/redis"
)

// RedisConfig contains configuration for the Redis repository.
type RedisConfig struct {
	Client redisclient.Client
	// Key names the hash holding the collection, one field per record id
	Key string
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.Key == "" {
		return errors.InvalidArgument("key cannot be empty")
	}
	return nil
}

// insertScript sets the record field only when absent and raises the
// high-water mark in KEYS[2] to the new id.
var insertScript = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2]) == 0 then
  return 0
end
local seq = tonumber(redis.call('GET', KEYS[2]) or '0')
if tonumber(ARGV[1]) > seq then
  redis.call('SET', KEYS[2], ARGV[1])
end
return 1
`)

// deleteScript removes the record field and keeps its id in the
// high-water mark so it is never handed out again.
var deleteScript = redis.NewScript(`
local removed = redis.call('HDEL', KEYS[1], ARGV[1])
if removed == 1 then
  local seq = tonumber(redis.call('GET', KEYS[2]) or '0')
  if tonumber(ARGV[1]) > seq then
    redis.call('SET', KEYS[2], ARGV[1])
  end
end
return removed
`)

type redisRepository[T Record] struct {
	client redisclient.Client
	key    string
	seqKey string
}

// NewRedis creates a Redis-backed repository storing each record as JSON in
// one hash field, with the highest id ever stored under "<key>:seq".
// Insert and Delete are atomic scripts; Update's read-merge-write is not.
func NewRedis[T Record](cfg *RedisConfig) (Repository[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository[T]{
		client: cfg.Client,
		key:    cfg.Key,
		seqKey: cfg.Key + ":seq",
	}, nil
}

func (r *redisRepository[T]) List(ctx context.Context, _ ListInput) (*ListOutput[T], error) {
	entries, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to list %s", r.key)
	}

	recs := make([]T, 0, len(entries))
	for _, raw := range entries {
		rec, err := decode[T]([]byte(raw))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].RecordID() < recs[j].RecordID()
	})

	return &ListOutput[T]{Records: recs}, nil
}

func (r *redisRepository[T]) Get(ctx context.Context, input GetInput) (*GetOutput[T], error) {
	rec, found, err := r.get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput[T]{Record: rec, Found: found}, nil
}

func (r *redisRepository[T]) Insert(ctx context.Context, input InsertInput[T]) (*InsertOutput[T], error) {
	if isNil(input.Record) {
		return nil, errors.InvalidArgument(errRecordNil)
	}

	data, err := json.Marshal(input.Record)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal record")
	}

	id := input.Record.RecordID()
	created, err := insertScript.Run(ctx, r.client, []string{r.key, r.seqKey}, field(id), data).Int64()
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to insert into %s", r.key)
	}
	if created == 0 {
		return nil, errors.AlreadyExistsf("record with ID %d already exists", id)
	}

	return &InsertOutput[T]{Record: input.Record}, nil
}

func (r *redisRepository[T]) Update(ctx context.Context, input UpdateInput) (*UpdateOutput[T], error) {
	existing, found, err := r.get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &UpdateOutput[T]{}, nil
	}

	merged, err := merge(existing, input.Fields)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal record")
	}

	if err := r.client.HSet(ctx, r.key, field(input.ID), data).Err(); err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to update %s", r.key)
	}

	return &UpdateOutput[T]{Record: merged, Found: true}, nil
}

func (r *redisRepository[T]) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	removed, err := deleteScript.Run(ctx, r.client, []string{r.key, r.seqKey}, field(input.ID)).Int64()
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to delete from %s", r.key)
	}

	return &DeleteOutput{Deleted: removed > 0}, nil
}

func (r *redisRepository[T]) MaxID(ctx context.Context) (int64, error) {
	seq, err := r.client.Get(ctx, r.seqKey).Int64()
	if err != nil && err != redis.Nil {
		return 0, errors.StoreUnavailablef(err, "failed to read id sequence %s", r.seqKey)
	}

	ids, err := r.client.HKeys(ctx, r.key).Result()
	if err != nil {
		return 0, errors.StoreUnavailablef(err, "failed to read ids of %s", r.key)
	}

	highest := seq
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, errors.StoreUnavailablef(err, "hash %s holds non-numeric id %q", r.key, raw)
		}
		if id > highest {
			highest = id
		}
	}
	return highest, nil
}

func (r *redisRepository[T]) get(ctx context.Context, id int64) (T, bool, error) {
	var zero T

	raw, err := r.client.HGet(ctx, r.key, field(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return zero, false, nil
		}
		return zero, false, errors.StoreUnavailablef(err, "failed to get record %d from %s", id, r.key)
	}

	rec, err := decode[T]([]byte(raw))
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

func field(id int64) string {
	return strconv.FormatInt(id, 10)
}
