// Package storage opens the record stores selected by configuration
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/KirkDiggler/teyvat-catalog/internal/config"
	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
	redisclient "github.com/KirkDiggler/teyvat-catalog/internal/redis"
	"github.com/KirkDiggler/teyvat-catalog/internal/repositories/records"
)

// Stores holds one repository per collection on a shared backend
type Stores struct {
	Characters records.Repository[*entities.Character]
	Weapons    records.Repository[*entities.Weapon]
	Monsters   records.Repository[*entities.Monster]

	closeFn func(ctx context.Context) error
}

// Close releases the backend connection, if any
func (s *Stores) Close(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}

// Open connects to the configured backend and builds the stores
func Open(ctx context.Context, cfg *config.StorageConfig) (*Stores, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("storage config is required")
	}

	slog.InfoContext(ctx, "Opening storage",
		"driver", cfg.Driver,
	)

	switch cfg.Driver {
	case config.DriverMemory:
		return &Stores{
			Characters: records.NewInMemory[*entities.Character](),
			Weapons:    records.NewInMemory[*entities.Weapon](),
			Monsters:   records.NewInMemory[*entities.Monster](),
		}, nil
	case config.DriverFile:
		return openFile(cfg.File)
	case config.DriverMongo:
		return openMongo(ctx, cfg.Mongo)
	case config.DriverRedis:
		return openRedis(ctx, cfg.Redis)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg.SQLite)
	default:
		return nil, errors.InvalidArgumentf("unknown storage driver %q", cfg.Driver)
	}
}

func openFile(cfg config.FileConfig) (*Stores, error) {
	path := func(entity string) string {
		return filepath.Join(cfg.Dir, entity+".json")
	}

	characters, err := records.NewFile[*entities.Character](&records.FileConfig{Path: path(entities.CharactersCollection)})
	if err != nil {
		return nil, err
	}
	weapons, err := records.NewFile[*entities.Weapon](&records.FileConfig{Path: path(entities.WeaponsCollection)})
	if err != nil {
		return nil, err
	}
	monsters, err := records.NewFile[*entities.Monster](&records.FileConfig{Path: path(entities.MonstersCollection)})
	if err != nil {
		return nil, err
	}

	return &Stores{Characters: characters, Weapons: weapons, Monsters: monsters}, nil
}

// MongoClientOptions builds the driver options for cfg. Retryable reads
// and writes are off; a failed command surfaces as-is.
func MongoClientOptions(cfg config.MongoConfig) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout.Std()).
		SetRetryWrites(false).
		SetRetryReads(false)
}

func openMongo(ctx context.Context, cfg config.MongoConfig) (*Stores, error) {
	client, err := mongo.Connect(ctx, MongoClientOptions(cfg))
	if err != nil {
		return nil, errors.StoreUnavailable(err, "failed to connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx) // nolint:errcheck // already failing
		return nil, errors.StoreUnavailable(err, "failed to ping mongo")
	}

	db := client.Database(cfg.Database)
	stores := &Stores{
		closeFn: client.Disconnect,
	}

	for _, entity := range []string{entities.CharactersCollection, entities.WeaponsCollection, entities.MonstersCollection} {
		if err := records.EnsureMongoIndexes(ctx, db.Collection(entity)); err != nil {
			_ = client.Disconnect(ctx) // nolint:errcheck // already failing
			return nil, err
		}
	}

	if stores.Characters, err = records.NewMongo[*entities.Character](&records.MongoConfig{
		Collection: db.Collection(entities.CharactersCollection),
	}); err != nil {
		return nil, err
	}
	if stores.Weapons, err = records.NewMongo[*entities.Weapon](&records.MongoConfig{
		Collection: db.Collection(entities.WeaponsCollection),
	}); err != nil {
		return nil, err
	}
	if stores.Monsters, err = records.NewMongo[*entities.Monster](&records.MongoConfig{
		Collection: db.Collection(entities.MonstersCollection),
	}); err != nil {
		return nil, err
	}

	return stores, nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig) (*Stores, error) {
	client, err := redisclient.NewClient(cfg.Addr, &redisclient.Options{
		Password: cfg.Password,
		DB:       cfg.DB,
		UseTLS:   cfg.UseTLS,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid redis settings")
	}
	if err := redisclient.Ping(ctx, client); err != nil {
		_ = client.Close() // nolint:errcheck // already failing
		return nil, errors.StoreUnavailablef(err, "failed to ping redis at %s", cfg.Addr)
	}

	key := func(entity string) string {
		return fmt.Sprintf("%s:%s", cfg.KeyPrefix, entity)
	}

	stores := &Stores{
		closeFn: func(context.Context) error { return client.Close() },
	}
	if stores.Characters, err = records.NewRedis[*entities.Character](&records.RedisConfig{
		Client: client, Key: key(entities.CharactersCollection),
	}); err != nil {
		return nil, err
	}
	if stores.Weapons, err = records.NewRedis[*entities.Weapon](&records.RedisConfig{
		Client: client, Key: key(entities.WeaponsCollection),
	}); err != nil {
		return nil, err
	}
	if stores.Monsters, err = records.NewRedis[*entities.Monster](&records.RedisConfig{
		Client: client, Key: key(entities.MonstersCollection),
	}); err != nil {
		return nil, err
	}

	return stores, nil
}

func openSQLite(ctx context.Context, cfg config.SQLiteConfig) (*Stores, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to open sqlite database %s", cfg.Path)
	}
	// one writer at a time avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	stores := &Stores{
		closeFn: func(context.Context) error { return db.Close() },
	}
	fail := func(err error) (*Stores, error) {
		_ = db.Close() // nolint:errcheck // already failing
		return nil, err
	}

	if stores.Characters, err = records.NewSQLite[*entities.Character](ctx, &records.SQLiteConfig{
		DB: db, Table: entities.CharactersCollection,
	}); err != nil {
		return fail(err)
	}
	if stores.Weapons, err = records.NewSQLite[*entities.Weapon](ctx, &records.SQLiteConfig{
		DB: db, Table: entities.WeaponsCollection,
	}); err != nil {
		return fail(err)
	}
	if stores.Monsters, err = records.NewSQLite[*entities.Monster](ctx, &records.SQLiteConfig{
		DB: db, Table: entities.MonstersCollection,
	}); err != nil {
		return fail(err)
	}

	return stores, nil
}
