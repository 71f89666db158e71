// Package store persists versioned resume drafts per student.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/types"
)

var (
	// ErrNotFound is returned by Fetch when a student has no saved resume
	ErrNotFound = errors.New("resume not found")
	// ErrInvalidStudentID is returned for an empty student ID
	ErrInvalidStudentID = errors.New("student id is required")
)

// Driver names accepted by Open
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

// History limits for ListHistory
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Draft is one saved version of a student's resume
type Draft struct {
	ID        uuid.UUID            `json:"id"`
	StudentID string               `json:"studentId"`
	Version   int                  `json:"version"`
	Resume    types.ResumeDocument `json:"resumeData"`
	SavedAt   time.Time            `json:"savedAt"`
}

// Store is a multi-tenant resume store keyed by student ID. Implementations
// copy documents on the way in and out; callers never share state with it.
type Store interface {
	// Fetch returns the latest saved resume, or ErrNotFound
	Fetch(ctx context.Context, studentID string) (*types.ResumeDocument, error)
	// Save appends a new version (1, 2, ...) for the student
	Save(ctx context.Context, studentID string, doc types.ResumeDocument) (*Draft, error)
	// ListHistory returns up to limit drafts, newest first. Unknown students
	// get an empty slice.
	ListHistory(ctx context.Context, studentID string, limit int) ([]Draft, error)
	// Close releases backend connections
	Close() error
}

// Config selects and configures a backend
type Config struct {
	Driver        string `yaml:"driver" json:"driver"`
	DatabaseURL   string `yaml:"database_url" json:"database_url"`
	RedisURL      string `yaml:"redis_url" json:"redis_url"`
	MongoURI      string `yaml:"mongo_uri" json:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database" json:"mongo_database"`
	// Retention caps the number of drafts kept per student (redis only)
	Retention int `yaml:"retention" json:"retention"`
	// Seed stores the demo profile under DemoStudentID when it has no resume
	Seed bool `yaml:"seed" json:"seed"`
}

// Open connects to the configured backend
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)

	switch cfg.Driver {
	case "", DriverMemory:
		s = NewMemoryStore()
	case DriverPostgres:
		var pg *PostgresStore
		pg, err = NewPostgresStore(ctx, cfg.DatabaseURL)
		if err == nil {
			if err = pg.Migrate(ctx); err != nil {
				_ = pg.Close()
			}
		}
		s = pg
	case DriverRedis:
		s, err = NewRedisStore(ctx, cfg.RedisURL, cfg.Retention)
	case DriverMongo:
		s, err = NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Seed {
		if err := SeedDemo(ctx, s); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

// checkStudentID trims the ID and rejects empty ones
func checkStudentID(studentID string) (string, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return "", ErrInvalidStudentID
	}
	return studentID, nil
}

// historyLimit clamps a requested limit to (0, MaxHistoryLimit]
func historyLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}

func newDraft(studentID string, version int, doc types.ResumeDocument, now time.Time) Draft {
	resume := doc.Clone()
	resume.Normalize()
	return Draft{
		ID:        uuid.New(),
		StudentID: studentID,
		Version:   version,
		Resume:    resume,
		SavedAt:   now.UTC(),
	}
}
