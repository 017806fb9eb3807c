// Package schema declares the fields of a catalog entity and validates
// request bodies against them.
package schema

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
)

// Kind is the JSON type a field accepts
type Kind int

const (
	// String fields accept JSON strings
	String Kind = iota
	// Integer fields accept integral JSON numbers
	Integer
)

// Mode selects how absent fields are treated
type Mode int

const (
	// ModeFull validates a complete record; required fields must be present.
	ModeFull Mode = iota
	// ModePartial validates only the fields that were supplied.
	ModePartial
)

// IDField is managed by the collection and never accepted from input.
const IDField = "id"

// Field describes one attribute of an entity
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// Nullable fields accept JSON null and default to null when omitted on create.
	Nullable bool
	// Range bounds Integer fields when set.
	Range *Range
}

// Range is an inclusive integer bound
type Range struct {
	Min int64
	Max int64
}

// Schema is the ordered field list of one entity
type Schema struct {
	Entity string
	Fields []Field
}

// Lookup returns the field with the given name
func (s *Schema) Lookup(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks input against the schema and returns a normalized copy
// holding only declared fields. Integers are returned as int64.
// Keys that are not declared, including id, are dropped.
func (s *Schema) Validate(input map[string]any, mode Mode) (map[string]any, error) {
	vb := errors.NewValidationBuilder()
	out := make(map[string]any, len(s.Fields))

	for _, f := range s.Fields {
		raw, present := input[f.Name]
		if !present {
			if mode == ModeFull {
				switch {
				case f.Required:
					vb.RequiredField(f.Name)
				case f.Nullable:
					out[f.Name] = nil
				}
			}
			continue
		}

		if raw == nil {
			if f.Nullable {
				out[f.Name] = nil
			} else if f.Required {
				vb.RequiredField(f.Name)
			} else {
				vb.Field(f.Name, "cannot be null")
			}
			continue
		}

		switch f.Kind {
		case String:
			str, ok := raw.(string)
			if !ok {
				vb.Field(f.Name, "must be a string")
				continue
			}
			if f.Required {
				errors.ValidateRequired(f.Name, str, vb)
			}
			out[f.Name] = str
		case Integer:
			n, ok := toInt64(raw)
			if !ok {
				vb.Field(f.Name, "must be an integer")
				continue
			}
			if f.Range != nil {
				errors.ValidateRange(f.Name, n, f.Range.Min, f.Range.Max, vb)
			}
			out[f.Name] = n
		}
	}

	if err := vb.Build(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s: %s", s.Singular(), errors.GetMessage(err))
	}
	return out, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

// Singular names one record of the entity ("characters" -> "character").
func (s *Schema) Singular() string {
	return strings.TrimSuffix(s.Entity, "s")
}
