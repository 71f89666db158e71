// Package schemas provides JSON Schema validation for structured documents
// such as LLM responses.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Validator is a compiled schema, safe for concurrent use
type Validator struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile compiles a schema given as a Go value (map, struct) under name
func Compile(name string, schemaDoc any) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaDoc))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema compilation failed", Cause: err}
	}
	return &Validator{name: name, schema: schema}, nil
}

// MustCompile is Compile that panics; for package-level schemas
func MustCompile(name string, schemaDoc any) *Validator {
	v, err := Compile(name, schemaDoc)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// ValidateBytes validates raw JSON
func (v *Validator) ValidateBytes(document []byte) error {
	return v.validate(gojsonschema.NewBytesLoader(document))
}

func (v *Validator) validate(loader gojsonschema.JSONLoader) error {
	result, err := v.schema.Validate(loader)
	if err != nil {
		return fmt.Errorf("failed to load document for schema %s: %w", v.name, err)
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
