// Package middleware provides HTTP middleware for resolving the student a
// request acts on.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// studentIDKey is the context key for storing the resolved student ID.
const studentIDKey ContextKey = "studentID"

// HeaderStudentID names the student a request acts on
const HeaderStudentID = "X-Student-ID"

var validate = validator.New()

// StudentID resolves the student from the X-Student-ID header, falling back
// to defaultID, and stores it in the request context. A malformed header is
// rejected with 400.
func StudentID(defaultID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			studentID := strings.TrimSpace(r.Header.Get(HeaderStudentID))
			if studentID == "" {
				studentID = defaultID
			} else if err := ValidateStudentID(studentID); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"message": "Invalid " + HeaderStudentID + " header.",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithStudentID(r.Context(), studentID)))
		})
	}
}

// ValidateStudentID checks the format shared by headers and request bodies
func ValidateStudentID(studentID string) error {
	return validate.Var(studentID, "required,max=128,printascii")
}

// WithStudentID returns ctx carrying studentID
func WithStudentID(ctx context.Context, studentID string) context.Context {
	return context.WithValue(ctx, studentIDKey, studentID)
}

// GetStudentID extracts the student ID from the request context, or "" when unset.
func GetStudentID(r *http.Request) string {
	studentID, _ := r.Context().Value(studentIDKey).(string)
	return studentID
}
