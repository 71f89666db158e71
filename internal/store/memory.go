package store

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

// MemoryStore keeps drafts for the life of the process
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string][]Draft
	now    func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string][]Draft),
		now:    time.Now,
	}
}

// Fetch returns a copy of the latest draft's resume
func (s *MemoryStore) Fetch(_ context.Context, studentID string) (*types.ResumeDocument, error) {
	studentID, err := checkStudentID(studentID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	drafts := s.drafts[studentID]
	if len(drafts) == 0 {
		return nil, ErrNotFound
	}
	doc := drafts[len(drafts)-1].Resume.Clone()
	return &doc, nil
}

// Save appends a new version
func (s *MemoryStore) Save(_ context.Context, studentID string, doc types.ResumeDocument) (*Draft, error) {
	studentID, err := checkStudentID(studentID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := newDraft(studentID, len(s.drafts[studentID])+1, doc, s.now())
	s.drafts[studentID] = append(s.drafts[studentID], draft)

	out := copyDraft(draft)
	return &out, nil
}

// ListHistory returns drafts newest first
func (s *MemoryStore) ListHistory(_ context.Context, studentID string, limit int) ([]Draft, error) {
	studentID, err := checkStudentID(studentID)
	if err != nil {
		return nil, err
	}
	limit = historyLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	drafts := s.drafts[studentID]
	out := make([]Draft, 0, min(limit, len(drafts)))
	for i := len(drafts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, copyDraft(drafts[i]))
	}
	return out, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func copyDraft(d Draft) Draft {
	d.Resume = d.Resume.Clone()
	return d
}
