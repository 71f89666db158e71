// Package grading turns a resume document into a grade result with one
// schema-constrained LLM call.
package grading

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error kinds reported by Kind
const (
	KindConfiguration   = "configuration"
	KindProvider        = "provider"
	KindSchemaViolation = "schema_violation"
	KindValidation      = "validation"
	KindTimeout         = "timeout"
	KindUnknown         = "unknown"
)

// ConfigurationError means grading cannot run at all (no credential)
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("grading configuration error: %s", e.Message)
}

// ProviderError wraps a failed call to the LLM provider. Detail carries the
// provider's own error text.
type ProviderError struct {
	Message string
	Detail  string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("grading provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("grading provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// SchemaViolationError means the provider answered but not with a JSON object
type SchemaViolationError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *SchemaViolationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("grading schema violation: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("grading schema violation: %s", e.Message)
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Cause
}

// FieldError is one out-of-contract field in a response
type FieldError struct {
	Field   string
	Message string
}

// ValidationError means the response was a JSON object whose fields are
// missing, unexpected, out of range or outside their enum
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("grading validation failed: %s", strings.Join(parts, "; "))
}

// TimeoutError means the provider did not answer within Timeout
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("grading timed out after %s", e.Timeout)
}

// Kind classifies err into one of the Kind* constants
func Kind(err error) string {
	var (
		configErr   *ConfigurationError
		providerErr *ProviderError
		schemaErr   *SchemaViolationError
		validErr    *ValidationError
		timeoutErr  *TimeoutError
	)
	switch {
	case errors.As(err, &configErr):
		return KindConfiguration
	case errors.As(err, &timeoutErr):
		return KindTimeout
	case errors.As(err, &providerErr):
		return KindProvider
	case errors.As(err, &schemaErr):
		return KindSchemaViolation
	case errors.As(err, &validErr):
		return KindValidation
	default:
		return KindUnknown
	}
}

// Detail returns the diagnostic text to show a caller for err
func Detail(err error) string {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) && providerErr.Detail != "" {
		return providerErr.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
