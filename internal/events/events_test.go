package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	e := New(TypeDraftSaved, "student-1", DraftSaved{Version: 3})
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, TypeDraftSaved, e.Type)
	assert.Equal(t, "student-1", e.StudentID)
	assert.False(t, e.OccurredAt.IsZero())
}

func TestToPublishing(t *testing.T) {
	e := New(TypeGraded, "student-1", Graded{Model: "gemini-2.5-flash", OverallScore: 81, Suggestions: 4})

	msg, err := toPublishing(e)
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, e.ID.String(), msg.MessageId)
	assert.Equal(t, "resume.graded", msg.Headers["event_type"])
	assert.Equal(t, "student-1", msg.Headers["student_id"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "resume.graded", body["type"])
	payload := body["payload"].(map[string]any)
	assert.Equal(t, float64(81), payload["overallScore"])
}

func TestToPublishing_UnmarshalablePayload(t *testing.T) {
	_, err := toPublishing(New(TypeGraded, "s", make(chan int)))
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Publish(context.Background(), New(TypeDraftSaved, "a", nil)))

	r.Err = errors.New("broker down")
	assert.Error(t, r.Publish(context.Background(), New(TypeGraded, "a", nil)))

	got := r.Events()
	require.Len(t, got, 2)
	assert.Equal(t, TypeGraded, got[1].Type)
}

func TestOpen_NoURLIsNoop(t *testing.T) {
	p, err := Open(Config{})
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), New(TypeGraded, "a", nil)))
	assert.NoError(t, p.Close())
}

func TestNewAMQPPublisher_RequiresURL(t *testing.T) {
	_, err := NewAMQPPublisher("", "")
	assert.Error(t, err)
}
