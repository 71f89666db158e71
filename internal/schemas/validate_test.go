package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreSchema() map[string]any {
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"score", "priority"},
		"properties": map[string]any{
			"score":    map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"priority": map[string]any{"type": "string", "enum": []any{"High", "Medium", "Low"}},
		},
	}
}

func TestCompile_ValidDocument(t *testing.T) {
	v, err := Compile("score", scoreSchema())
	require.NoError(t, err)

	assert.NoError(t, v.ValidateBytes([]byte(`{"score": 100, "priority": "High"}`)))
	assert.NoError(t, v.ValidateBytes([]byte(`{"score": 0, "priority": "Low"}`)))
	assert.NoError(t, v.ValidateBytes([]byte(`{"score": 85.0, "priority": "Medium"}`)))
}

func TestValidateBytes_Unparseable(t *testing.T) {
	v := MustCompile("score", scoreSchema())

	err := v.ValidateBytes([]byte(`{"score":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema score")

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestCompile_InvalidDocuments(t *testing.T) {
	v := MustCompile("score", scoreSchema())

	tests := []struct {
		name  string
		input string
		field string
	}{
		{name: "missing field", input: `{"score": 10}`, field: "(root)"},
		{name: "above maximum", input: `{"score": 101, "priority": "High"}`, field: "score"},
		{name: "below minimum", input: `{"score": -1, "priority": "High"}`, field: "score"},
		{name: "not an integer", input: `{"score": 55.5, "priority": "High"}`, field: "score"},
		{name: "bad enum", input: `{"score": 10, "priority": "Urgent"}`, field: "priority"},
		{name: "extra field", input: `{"score": 10, "priority": "Low", "bonus": 1}`, field: "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBytes([]byte(tt.input))
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			require.NotEmpty(t, validationErr.Errors)

			fields := make([]string, 0, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestCompile_BadSchema(t *testing.T) {
	_, err := Compile("broken", map[string]any{"type": 12})
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "broken")

	assert.Panics(t, func() {
		MustCompile("broken", map[string]any{"type": 12})
	})
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "overallScore", Message: "is required"},
			{Field: "categoryScores.completeness", Message: "must be less than or equal to 100"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "1. overallScore")
	assert.Contains(t, errorMsg, "2. categoryScores.completeness")
}
