// Package redis wraps the go-redis client so repositories can depend on an
// interface and tests can swap in miniredis.
package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures Redis client behavior
type Options struct {
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	// MaxRetries of a failed command; zero disables retries
	MaxRetries int
	UseTLS     bool
}

// NewClient creates a Redis client for a single instance.
// go-redis connects lazily; use Ping to verify the endpoint.
// Unlike go-redis, a zero MaxRetries means no retries.
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.New("redis: endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		// go-redis reads 0 as its default of 3
		maxRetries = -1
	}

	redisOpts := &redis.Options{
		Addr:         endpoint,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		DialTimeout:  opts.DialTimeout,
		MaxRetries:   maxRetries,
	}

	if opts.UseTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return redis.NewClient(redisOpts), nil
}

// Ping checks that the server answers
func Ping(ctx context.Context, client Client) error {
	return client.Ping(ctx).Err()
}
