package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoStudent(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetStudentID(r)))
	})
}

func TestStudentID_Header(t *testing.T) {
	handler := StudentID("mockUserId")(echoStudent(t))

	req := httptest.NewRequest(http.MethodPost, "/api/resume/fetch-profile", nil)
	req.Header.Set(HeaderStudentID, "  student-42 ")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "student-42", rr.Body.String())
}

func TestStudentID_Default(t *testing.T) {
	handler := StudentID("mockUserId")(echoStudent(t))

	req := httptest.NewRequest(http.MethodPost, "/api/resume/fetch-profile", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "mockUserId", rr.Body.String())
}

func TestStudentID_InvalidHeader(t *testing.T) {
	called := false
	handler := StudentID("mockUserId")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/resume/fetch-profile", nil)
	req.Header.Set(HeaderStudentID, strings.Repeat("a", 200))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, called)
	assert.Contains(t, rr.Body.String(), `"success":false`)
}

func TestGetStudentID_Unset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", GetStudentID(req))
}

func TestValidateStudentID(t *testing.T) {
	assert.NoError(t, ValidateStudentID("mockUserId"))
	assert.NoError(t, ValidateStudentID("550e8400-e29b-41d4-a716-446655440000"))
	assert.Error(t, ValidateStudentID(""))
	assert.Error(t, ValidateStudentID("tab\there"))
}
