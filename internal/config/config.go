// Package config loads service configuration. Values are layered: built-in
// defaults, then an optional TOML file, then CATALOG_* environment
// variables. Command-line flags are applied last by the caller.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "CATALOG_"

// Storage drivers
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Drivers lists every supported storage driver
var Drivers = []string{DriverFile, DriverMemory, DriverMongo, DriverRedis, DriverSQLite}

// Config is the full service configuration
type Config struct {
	HTTP    HTTPConfig    `toml:"http" envPrefix:"HTTP_"`
	Log     LogConfig     `toml:"log" envPrefix:"LOG_"`
	Storage StorageConfig `toml:"storage" envPrefix:"STORAGE_"`
}

// HTTPConfig configures the listener
type HTTPConfig struct {
	Addr            string   `toml:"addr" env:"ADDR"`
	AllowOrigins    string   `toml:"allow_origins" env:"ALLOW_ORIGINS"`
	BodyLimit       int      `toml:"body_limit" env:"BODY_LIMIT"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// LogConfig configures the default slog logger
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level" env:"LEVEL"`
	// Format is text or json
	Format    string `toml:"format" env:"FORMAT"`
	AddSource bool   `toml:"add_source" env:"ADD_SOURCE"`
}

// StorageConfig selects and configures the record store backend
type StorageConfig struct {
	Driver string       `toml:"driver" env:"DRIVER"`
	File   FileConfig   `toml:"file" envPrefix:"FILE_"`
	Mongo  MongoConfig  `toml:"mongo" envPrefix:"MONGO_"`
	Redis  RedisConfig  `toml:"redis" envPrefix:"REDIS_"`
	SQLite SQLiteConfig `toml:"sqlite" envPrefix:"SQLITE_"`
}

// FileConfig keeps one JSON file per collection in Dir
type FileConfig struct {
	Dir string `toml:"dir" env:"DIR"`
}

// MongoConfig keeps one collection per entity in Database
type MongoConfig struct {
	URI            string   `toml:"uri" env:"URI"`
	Database       string   `toml:"database" env:"DATABASE"`
	ConnectTimeout Duration `toml:"connect_timeout" env:"CONNECT_TIMEOUT"`
}

// RedisConfig keeps one hash per entity under KeyPrefix
type RedisConfig struct {
	Addr      string `toml:"addr" env:"ADDR"`
	Password  string `toml:"password" env:"PASSWORD"`
	DB        int    `toml:"db" env:"DB"`
	KeyPrefix string `toml:"key_prefix" env:"KEY_PREFIX"`
	UseTLS    bool   `toml:"use_tls" env:"USE_TLS"`
}

// SQLiteConfig keeps one table per entity in the database at Path
type SQLiteConfig struct {
	Path string `toml:"path" env:"PATH"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":3000",
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			Driver: DriverFile,
			File:   FileConfig{Dir: "data"},
			Mongo: MongoConfig{
				URI:            "mongodb://localhost:27017",
				Database:       "teyvat",
				ConnectTimeout: Duration(10 * time.Second),
			},
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "catalog",
			},
			SQLite: SQLiteConfig{Path: "catalog.db"},
		},
	}
}

// Load builds a Config from defaults, the TOML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.InvalidArgumentf("failed to parse environment: %v", err)
	}

	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	file, err := os.Open(path) // nolint:gosec // path comes from the operator
	if err != nil {
		return errors.InvalidArgumentf("failed to open config file %s: %v", path, err)
	}
	defer func() {
		_ = file.Close() // nolint:errcheck // read-only
	}()

	dec := toml.NewDecoder(file).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return errors.InvalidArgumentf("failed to decode config file %s: %v", path, err)
	}
	return nil
}

// Validate checks the values that would otherwise fail later at startup
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		vb.RequiredField("http.addr")
	}
	if c.HTTP.BodyLimit < 0 {
		vb.Field("http.body_limit", "cannot be negative")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		vb.Field("http.shutdown_timeout", "must be positive")
	}

	errors.ValidateEnum("log.level", c.Log.Level, []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("log.format", c.Log.Format, []string{"text", "json"}, vb)

	errors.ValidateEnum("storage.driver", c.Storage.Driver, Drivers, vb)
	switch c.Storage.Driver {
	case DriverFile:
		errors.ValidateRequired("storage.file.dir", c.Storage.File.Dir, vb)
	case DriverMongo:
		errors.ValidateRequired("storage.mongo.uri", c.Storage.Mongo.URI, vb)
		errors.ValidateRequired("storage.mongo.database", c.Storage.Mongo.Database, vb)
	case DriverRedis:
		errors.ValidateRequired("storage.redis.addr", c.Storage.Redis.Addr, vb)
		errors.ValidateRequired("storage.redis.key_prefix", c.Storage.Redis.KeyPrefix, vb)
	case DriverSQLite:
		errors.ValidateRequired("storage.sqlite.path", c.Storage.SQLite.Path, vb)
	}

	return vb.Build()
}
