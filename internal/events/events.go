// Package events publishes resume lifecycle events to a message broker.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type identifies an event and doubles as its routing key
type Type string

// Event types
const (
	TypeDraftSaved Type = "resume.draft_saved"
	TypeGraded     Type = "resume.graded"
)

// DefaultExchange is the topic exchange events are published to
const DefaultExchange = "resume.events"

// Event is one published message
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	StudentID  string    `json:"studentId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

// DraftSaved is the payload of TypeDraftSaved
type DraftSaved struct {
	DraftID uuid.UUID `json:"draftId"`
	Version int       `json:"version"`
}

// Graded is the payload of TypeGraded
type Graded struct {
	Model        string `json:"model"`
	OverallScore int    `json:"overallScore"`
	Suggestions  int    `json:"suggestions"`
}

// New creates an event with a fresh ID and timestamp
func New(eventType Type, studentID string, payload any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		StudentID:  studentID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher sends events somewhere
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

// Publish does nothing
func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Close does nothing
func (NoopPublisher) Close() error { return nil }

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	events []Event
	// Err, when set, is returned by Publish after recording
	Err error
}

// Publish records the event
func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.Err
}

// Close does nothing
func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
