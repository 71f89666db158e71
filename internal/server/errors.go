package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/grading"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// Grading failure messages returned in the envelope
const (
	msgGradingFailed   = "AI Grading failed. Please check your API key, network, and quota."
	msgGradingDisabled = "Gemini AI Client is not initialized. API Key is missing."
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrBadRequest indicates a body that could not be decoded
type ErrBadRequest struct {
	Cause error
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Cause)
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Every grading failure is a 500; errorKind in the body tells them apart.
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		badRequestErr *ErrBadRequest
		fieldErrs     validator.ValidationErrors
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &badRequestErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrInvalidStudentID),
		errors.Is(err, types.ErrMissingResumeData),
		errors.Is(err, types.ErrDuplicateSkill),
		errors.Is(err, types.ErrMissingSkillName):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// gradingMessage returns the user-facing message for a grading failure
func gradingMessage(err error) string {
	if grading.Kind(err) == grading.KindConfiguration {
		return msgGradingDisabled
	}
	return msgGradingFailed
}

// extractValidationErrors formats the first failing field of a validation error
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Namespace(), ve.Tag())
	}
	var validationErr *ErrValidation
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}
	if err != nil {
		return fmt.Sprintf("validation error: %v", err)
	}
	return "validation error: invalid request"
}
