package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/grading"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

const msgDownloadNotImplemented = "PDF Generation Not Implemented (Requires Puppeteer/PDFKit setup)"

// APIResponse is the envelope every /api/resume endpoint answers with
type APIResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	Data        any    `json:"data,omitempty"`
	ErrorDetail string `json:"errorDetail,omitempty"`
	ErrorKind   string `json:"errorKind,omitempty"`
}

// SavedDraft is the data returned by save-draft
type SavedDraft struct {
	ID      uuid.UUID `json:"id"`
	Version int       `json:"version"`
	SavedAt time.Time `json:"savedAt"`
}

// decodeResumeRequest reads an optional JSON body. An empty body decodes to
// the zero request.
func decodeResumeRequest(w http.ResponseWriter, r *http.Request) (*types.ResumeRequest, error) {
	var req types.ResumeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ErrBadRequest{Cause: err}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// studentID returns the body's studentId, else the one resolved by middleware
func studentID(r *http.Request, req *types.ResumeRequest) string {
	if req != nil {
		if id := strings.TrimSpace(req.StudentID); id != "" {
			return id
		}
	}
	return middleware.GetStudentID(r)
}

// requestError writes a 4xx/5xx envelope for a non-grading error
func (s *Server) requestError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusBadRequest {
		message = extractValidationErrors(err)
		var badRequestErr *ErrBadRequest
		if errors.As(err, &badRequestErr) {
			message = badRequestErr.Error()
		}
	}
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		message = "Internal server error."
	}
	s.errorResponse(w, status, message)
}

// publish sends an event; failures are logged and never fail the request
func (s *Server) publish(r *http.Request, event events.Event) {
	if err := s.publisher.Publish(r.Context(), event); err != nil {
		hlog.FromRequest(r).Warn().Err(err).
			Str("event_type", string(event.Type)).
			Msg("failed to publish event")
	}
}

// saveDraft stores doc and publishes resume.draft_saved
func (s *Server) saveDraft(r *http.Request, id string, doc types.ResumeDocument) (*store.Draft, error) {
	draft, err := s.store.Save(r.Context(), id, doc)
	if err != nil {
		return nil, err
	}
	hlog.FromRequest(r).Info().
		Str("student_id", id).
		Int("version", draft.Version).
		Str("name", draft.Resume.PersonalInfo.Name).
		Msg("draft saved")
	s.publish(r, events.New(events.TypeDraftSaved, id, events.DraftSaved{
		DraftID: draft.ID,
		Version: draft.Version,
	}))
	return draft, nil
}

// handleFetchProfile returns the student's latest resume
func (s *Server) handleFetchProfile(w http.ResponseWriter, r *http.Request) {
	req, err := decodeResumeRequest(w, r)
	if err != nil {
		s.requestError(w, r, err)
		return
	}
	id := studentID(r, req)

	doc, err := s.store.Fetch(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.errorResponse(w, http.StatusNotFound, "Profile not found.")
		return
	}
	if err != nil {
		s.requestError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, APIResponse{Success: true, Data: doc})
}

// handleSaveDraft validates and stores a new draft version
func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	req, err := decodeResumeRequest(w, r)
	if err == nil {
		err = req.ValidateForSave()
	}
	if err != nil {
		s.requestError(w, r, err)
		return
	}

	draft, err := s.saveDraft(r, studentID(r, req), *req.ResumeData)
	if err != nil {
		s.requestError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Draft saved successfully!",
		Data:    SavedDraft{ID: draft.ID, Version: draft.Version, SavedAt: draft.SavedAt},
	})
}

// handleGrade grades the submitted resume with the configured model
func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	req, err := decodeResumeRequest(w, r)
	if err == nil {
		err = req.RequireResume()
	}
	if err != nil {
		s.requestError(w, r, err)
		return
	}
	id := studentID(r, req)
	logger := hlog.FromRequest(r)
	logger.Info().
		Str("student_id", id).
		Str("name", req.ResumeData.PersonalInfo.Name).
		Msg("grading requested")

	result, err := s.grader.Grade(r.Context(), *req.ResumeData)
	if err != nil {
		kind := grading.Kind(err)
		logger.Error().Err(err).Str("kind", kind).Str("student_id", id).Msg("grading failed")
		s.jsonResponse(w, http.StatusInternalServerError, APIResponse{
			Success:     false,
			Message:     gradingMessage(err),
			ErrorDetail: grading.Detail(err),
			ErrorKind:   kind,
		})
		return
	}

	s.publish(r, events.New(events.TypeGraded, id, events.Graded{
		Model:        s.grader.Model(),
		OverallScore: result.OverallScore,
		Suggestions:  len(result.Suggestions),
	}))
	s.jsonResponse(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

// handleGenerate saves the submitted resume, when present, as a new draft
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeResumeRequest(w, r)
	if err == nil && req.ResumeData != nil {
		err = req.ValidateForSave()
	}
	if err != nil {
		s.requestError(w, r, err)
		return
	}

	if req.ResumeData != nil {
		if _, err := s.saveDraft(r, studentID(r, req), *req.ResumeData); err != nil {
			s.requestError(w, r, err)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Resume successfully generated and saved!",
	})
}

// handleApplySuggestions acknowledges the request; suggestions are applied client side
func (s *Server) handleApplySuggestions(w http.ResponseWriter, r *http.Request) {
	hlog.FromRequest(r).Info().Str("student_id", middleware.GetStudentID(r)).Msg("apply suggestions requested")
	s.jsonResponse(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Suggestions applied. Please refresh.",
	})
}

// handleDownload reports that PDF export is unavailable
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	hlog.FromRequest(r).Info().Str("id", r.PathValue("id")).Msg("download requested")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotImplemented)
	_, _ = io.WriteString(w, msgDownloadNotImplemented)
}

// handleHistory lists saved drafts for a student, newest first.
// An optional ?limit= caps the count.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("studentId"))
	if err := middleware.ValidateStudentID(id); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(&ErrValidation{Field: "studentId", Message: "invalid student id"}))
		return
	}

	limit := store.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(&ErrValidation{Field: "limit", Message: "must be a positive integer"}))
			return
		}
		limit = n
	}

	drafts, err := s.store.ListHistory(r.Context(), id, limit)
	if err != nil {
		s.requestError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, APIResponse{Success: true, Data: drafts})
}
