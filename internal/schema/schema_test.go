package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
	"github.com/KirkDiggler/teyvat-catalog/internal/schema"
)

var testSchema = &schema.Schema{
	Entity: "monsters",
	Fields: []schema.Field{
		{Name: "name", Kind: schema.String, Required: true},
		{Name: "level", Kind: schema.Integer, Required: true, Range: &schema.Range{Min: 1, Max: 5}},
		{Name: "elemental", Kind: schema.String, Nullable: true},
		{Name: "notes", Kind: schema.String},
	},
}

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func TestValidate_Full(t *testing.T) {
	t.Run("normalizes integers and defaults nullable fields", func(t *testing.T) {
		out, err := testSchema.Validate(decode(t, `{"name":"Slime","level":3}`), schema.ModeFull)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"name":      "Slime",
			"level":     int64(3),
			"elemental": nil,
		}, out)
	})

	t.Run("drops id and unknown keys", func(t *testing.T) {
		out, err := testSchema.Validate(decode(t, `{"id":9,"name":"Slime","level":1,"color":"green"}`), schema.ModeFull)
		require.NoError(t, err)

		assert.NotContains(t, out, "id")
		assert.NotContains(t, out, "color")
	})

	t.Run("reports every missing required field", func(t *testing.T) {
		_, err := testSchema.Validate(map[string]any{}, schema.ModeFull)
		require.Error(t, err)

		assert.True(t, errors.IsInvalidArgument(err))
		fields := errors.GetFieldErrors(err)
		assert.Equal(t, []string{"is required"}, fields["name"])
		assert.Equal(t, []string{"is required"}, fields["level"])
		assert.NotContains(t, fields, "notes")
		assert.Contains(t, err.Error(), "invalid monster")
	})

	t.Run("rejects blank strings for required fields", func(t *testing.T) {
		_, err := testSchema.Validate(decode(t, `{"name":"  ","level":1}`), schema.ModeFull)
		require.Error(t, err)
		assert.Contains(t, errors.GetFieldErrors(err), "name")
	})
}

func TestValidate_Types(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{"string for integer", `{"name":"Slime","level":"3"}`, "level", "must be an integer"},
		{"fractional integer", `{"name":"Slime","level":2.5}`, "level", "must be an integer"},
		{"integer out of range", `{"name":"Slime","level":6}`, "level", "must be between 1 and 5"},
		{"number for string", `{"name":7,"level":1}`, "name", "must be a string"},
		{"null required field", `{"name":null,"level":1}`, "name", "is required"},
		{"null optional field", `{"name":"Slime","level":1,"notes":null}`, "notes", "cannot be null"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testSchema.Validate(decode(t, tc.body), schema.ModeFull)
			require.Error(t, err)
			assert.Equal(t, []string{tc.message}, errors.GetFieldErrors(err)[tc.field])
		})
	}
}

func TestValidate_Partial(t *testing.T) {
	t.Run("only supplied fields are checked and returned", func(t *testing.T) {
		out, err := testSchema.Validate(decode(t, `{"level":5}`), schema.ModePartial)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"level": int64(5)}, out)
	})

	t.Run("explicit null clears a nullable field", func(t *testing.T) {
		out, err := testSchema.Validate(decode(t, `{"elemental":null}`), schema.ModePartial)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"elemental": nil}, out)
	})

	t.Run("supplied fields are still validated", func(t *testing.T) {
		_, err := testSchema.Validate(decode(t, `{"level":0}`), schema.ModePartial)
		require.Error(t, err)
		assert.Contains(t, errors.GetFieldErrors(err), "level")
	})

	t.Run("empty body is a no-op", func(t *testing.T) {
		out, err := testSchema.Validate(map[string]any{}, schema.ModePartial)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestValidate_JSONNumber(t *testing.T) {
	out, err := testSchema.Validate(map[string]any{
		"name":  "Slime",
		"level": json.Number("4"),
	}, schema.ModeFull)
	require.NoError(t, err)
	assert.Equal(t, int64(4), out["level"])
}

func TestLookup(t *testing.T) {
	f, ok := testSchema.Lookup("level")
	require.True(t, ok)
	assert.Equal(t, schema.Integer, f.Kind)

	_, ok = testSchema.Lookup("id")
	assert.False(t, ok)
}
