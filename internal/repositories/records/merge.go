package records

import (
	"encoding/json"
	"reflect"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
)

const idField = "id"

// merge overlays fields onto rec the way a JSON object spread would.
// The id always keeps its stored value.
func merge[T Record](rec T, fields map[string]any) (T, error) {
	var zero T

	raw, err := json.Marshal(rec)
	if err != nil {
		return zero, errors.Wrap(err, "failed to marshal record")
	}

	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return zero, errors.Wrap(err, "failed to unmarshal record")
	}

	for k, v := range fields {
		if k == idField {
			continue
		}
		doc[k] = v
	}

	raw, err = json.Marshal(doc)
	if err != nil {
		return zero, errors.InvalidArgumentf("fields cannot be encoded: %v", err)
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, errors.InvalidArgumentf("fields do not match the record: %v", err)
	}
	out.SetRecordID(rec.RecordID())

	return out, nil
}

// clone returns a deep copy so callers cannot alias stored records.
func clone[T Record](rec T) (T, error) {
	var out T

	raw, err := json.Marshal(rec)
	if err != nil {
		return out, errors.Wrap(err, "failed to marshal record")
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errors.Wrap(err, "failed to unmarshal record")
	}

	return out, nil
}

func decode[T Record](raw []byte) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errors.StoreUnavailable(err, "stored record is not valid JSON")
	}
	return out, nil
}

// isNil reports whether rec is a nil pointer hidden behind the type parameter.
func isNil[T Record](rec T) bool {
	v := reflect.ValueOf(rec)
	return !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil())
}
