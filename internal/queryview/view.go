// Package queryview keeps a client-side snapshot of a collection and derives
// the displayed set from it by filtering and sorting. The snapshot itself is
// never reordered or trimmed, so resetting always restores the fetched order.
package queryview

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
)

// Fetcher loads a fresh snapshot
type Fetcher[T any] interface {
	Fetch(ctx context.Context) ([]T, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc[T any] func(ctx context.Context) ([]T, error)

// Fetch calls f
func (f FetcherFunc[T]) Fetch(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// Option configures a View
type Option func(*options)

type options struct {
	tag language.Tag
}

// WithLanguage sets the collation used for text fields. Defaults to English.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) {
		o.tag = tag
	}
}

// View is safe for concurrent use.
type View[T any] struct {
	mu       sync.Mutex
	fields   Fields[T]
	collator *collate.Collator
	snapshot []T

	sortField string
	filters   map[string]string
}

// New creates a view over snapshot. The slice is copied.
func New[T any](fields Fields[T], snapshot []T, opts ...Option) *View[T] {
	o := &options{tag: language.English}
	for _, opt := range opts {
		opt(o)
	}

	return &View[T]{
		fields:   fields,
		collator: collate.New(o.tag),
		snapshot: append([]T(nil), snapshot...),
		filters:  make(map[string]string),
	}
}

// SortBy orders the displayed set by field. Ties keep snapshot order.
func (v *View[T]) SortBy(field string) error {
	if _, ok := v.fields.sortField(field); !ok {
		return errors.InvalidArgumentf("cannot sort by %q", field).
			WithMeta("allowed", v.fields.SortNames())
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.sortField = field
	return nil
}

// FilterBy keeps only records whose criterion equals value. Choosing the
// value already active for a criterion clears that criterion instead.
func (v *View[T]) FilterBy(criterion, value string) error {
	if _, ok := v.fields.filterField(criterion); !ok {
		return errors.InvalidArgumentf("cannot filter by %q", criterion).
			WithMeta("allowed", v.fields.FilterNames())
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if active, ok := v.filters[criterion]; ok && active == value {
		delete(v.filters, criterion)
		return nil
	}
	v.filters[criterion] = value
	return nil
}

// ResetSort drops the active sort. Filters stay in effect.
func (v *View[T]) ResetSort() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sortField = ""
}

// ResetFilters drops every filter and the sort, restoring the snapshot.
func (v *View[T]) ResetFilters() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.filters = make(map[string]string)
	v.sortField = ""
}

// ActiveSort returns the current sort field, or "" when unsorted
func (v *View[T]) ActiveSort() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.sortField
}

// ActiveFilters returns a copy of the current filters
func (v *View[T]) ActiveFilters() map[string]string {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make(map[string]string, len(v.filters))
	for k, val := range v.filters {
		out[k] = val
	}
	return out
}

// Snapshot returns the records as fetched
func (v *View[T]) Snapshot() []T {
	v.mu.Lock()
	defer v.mu.Unlock()

	return append([]T(nil), v.snapshot...)
}

// Displayed returns sort(filter(snapshot)) for the current state.
func (v *View[T]) Displayed() []T {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]T, 0, len(v.snapshot))
	for _, rec := range v.snapshot {
		if v.matches(rec) {
			out = append(out, rec)
		}
	}

	if v.sortField == "" {
		return out
	}

	field, _ := v.fields.sortField(v.sortField)
	if field.Numeric {
		sortNumeric(out, field.Value)
	} else {
		// the collator keeps internal buffers, so this runs under v.mu
		sort.SliceStable(out, func(i, j int) bool {
			return v.collator.CompareString(field.Value(out[i]), field.Value(out[j])) < 0
		})
	}
	return out
}

func (v *View[T]) matches(rec T) bool {
	for criterion, want := range v.filters {
		field, _ := v.fields.filterField(criterion)
		if field.Value(rec) != want {
			return false
		}
	}
	return true
}

// Options lists the distinct values of criterion in the snapshot, in the
// order they first appear.
func (v *View[T]) Options(criterion string) ([]string, error) {
	field, ok := v.fields.filterField(criterion)
	if !ok {
		return nil, errors.InvalidArgumentf("cannot filter by %q", criterion).
			WithMeta("allowed", v.fields.FilterNames())
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, rec := range v.snapshot {
		val := field.Value(rec)
		if _, dup := seen[val]; dup {
			continue
		}
		seen[val] = struct{}{}
		values = append(values, val)
	}
	return values, nil
}

// Reload replaces the snapshot with a fresh fetch. Sort and filters are kept.
// On failure the error is logged and the view is left as it was.
func (v *View[T]) Reload(ctx context.Context, fetcher Fetcher[T]) error {
	recs, err := fetcher.Fetch(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to reload view",
			"error", err,
		)
		return errors.Wrap(err, "failed to reload view")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.snapshot = append([]T(nil), recs...)

	slog.DebugContext(ctx, "View reloaded",
		"records", len(recs),
	)
	return nil
}

// Load creates a view from an initial fetch.
func Load[T any](ctx context.Context, fields Fields[T], fetcher Fetcher[T], opts ...Option) (*View[T], error) {
	v := New(fields, nil, opts...)
	if err := v.Reload(ctx, fetcher); err != nil {
		return nil, err
	}
	return v, nil
}
