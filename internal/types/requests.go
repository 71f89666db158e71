package types

import (
	"errors"
)

// ErrMissingResumeData is returned when a request that needs a resume has none
var ErrMissingResumeData = errors.New("resumeData is required")

// ResumeRequest is the body accepted by the /api/resume endpoints.
// ResumeData is checked by the endpoint that needs it, not by the validator.
type ResumeRequest struct {
	ResumeData *ResumeDocument `json:"resumeData,omitempty" validate:"-"`
	StudentID  string          `json:"studentId,omitempty" validate:"omitempty,max=128,printascii"`
}

// Validate validates the request envelope (student ID format)
func (r *ResumeRequest) Validate() error {
	return validate.Struct(r)
}

// RequireResume validates the envelope and requires ResumeData to be present.
// The document itself is not checked; grading accepts incomplete resumes.
func (r *ResumeRequest) RequireResume() error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.ResumeData == nil {
		return ErrMissingResumeData
	}
	return nil
}

// ValidateForSave validates the envelope and the resume document
func (r *ResumeRequest) ValidateForSave() error {
	if err := r.RequireResume(); err != nil {
		return err
	}
	return r.ResumeData.Validate()
}
