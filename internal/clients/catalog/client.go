// Package catalog is an HTTP client for the /api collections
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
	"github.com/KirkDiggler/teyvat-catalog/internal/queryview"
)

// Config contains configuration options for a catalog client.
type Config struct {
	// BaseURL of the server, e.g. http://localhost:3000 (required)
	BaseURL string
	// HTTPClient to send requests with (optional, built from Timeout when nil)
	HTTPClient *http.Client
	// Timeout for each request (optional, defaults to 30 seconds)
	Timeout time.Duration
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if cfg.BaseURL == "" {
		vb.RequiredField("BaseURL")
	} else if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		vb.InvalidField("BaseURL", "must be an absolute URL")
	}
	if cfg.Timeout < 0 {
		vb.Field("Timeout", "cannot be negative")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return nil
}

// Client talks to the /api/{entity} resource of one collection.
// It also serves as the queryview.Fetcher of that collection.
type Client[T any] struct {
	endpoint string
	entity   string
	http     *http.Client
}

// New creates a client for entity, e.g. "weapons"
func New[T any](cfg *Config, entity string) (*Client[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid client config")
	}
	if entity == "" {
		return nil, errors.InvalidArgument("entity is required")
	}

	return &Client[T]{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/api/" + url.PathEscape(entity),
		entity:   entity,
		http:     cfg.HTTPClient,
	}, nil
}

var _ queryview.Fetcher[any] = (*Client[any])(nil)

// Fetch returns the whole collection
func (c *Client[T]) Fetch(ctx context.Context) ([]T, error) {
	return c.List(ctx)
}

// List returns every record of the collection
func (c *Client[T]) List(ctx context.Context) ([]T, error) {
	var recs []T
	if err := c.do(ctx, http.MethodGet, c.endpoint, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Get returns the record with id
func (c *Client[T]) Get(ctx context.Context, id int64) (T, error) {
	var rec T
	err := c.do(ctx, http.MethodGet, c.recordURL(id), nil, &rec)
	return rec, err
}

// Create posts a full record body and returns the stored record
func (c *Client[T]) Create(ctx context.Context, fields map[string]any) (T, error) {
	var rec T
	err := c.do(ctx, http.MethodPost, c.endpoint, fields, &rec)
	return rec, err
}

// Update merges fields into the record with id and returns the result
func (c *Client[T]) Update(ctx context.Context, id int64, fields map[string]any) (T, error) {
	var rec T
	err := c.do(ctx, http.MethodPut, c.recordURL(id), fields, &rec)
	return rec, err
}

// Delete removes the record with id and returns the server's confirmation
func (c *Client[T]) Delete(ctx context.Context, id int64) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, c.recordURL(id), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client[T]) recordURL(id int64) string {
	return c.endpoint + "/" + strconv.FormatInt(id, 10)
}

func (c *Client[T]) do(ctx context.Context, method, target string, body map[string]any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.InvalidArgumentf("failed to encode %s body: %v", c.entity, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrapf(err, "failed to build %s request", method)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.WrapWithCodef(err, errors.CodeCanceled, "%s %s canceled", method, target)
		}
		return errors.WrapWithCodef(err, errors.CodeUnavailable, "%s %s failed", method, target)
	}
	defer func() {
		_ = resp.Body.Close() // nolint:errcheck // body fully read
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to read %s response", c.entity)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure errors.Response
		if len(raw) > 0 {
			// a body that is not an error document still maps by status
			_ = json.Unmarshal(raw, &failure) // nolint:errcheck
		}
		slog.DebugContext(ctx, "Request failed",
			"method", method,
			"url", target,
			"status", resp.StatusCode,
			"code", failure.Code,
		)
		return errors.FromResponse(resp.StatusCode, failure)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", c.entity)
	}
	return nil
}
