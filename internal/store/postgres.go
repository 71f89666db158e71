package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-builder/internal/types"
)

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS resume_drafts (
		id         UUID PRIMARY KEY,
		student_id TEXT NOT NULL,
		version    INTEGER NOT NULL,
		resume     JSONB NOT NULL,
		saved_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (student_id, version)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resume_drafts_student_version
		ON resume_drafts (student_id, version DESC)`,
}

// PostgresStore stores drafts in the resume_drafts table
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresStore establishes a connection pool to the database
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database url is required for the postgres store")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool, now: time.Now}, nil
}

// Migrate creates the drafts table if it does not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range postgresMigrations {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate resume_drafts: %w", err)
		}
	}
	return nil
}

// Fetch returns the resume of the highest version
func (s *PostgresStore) Fetch(ctx context.Context, studentID string) (*types.ResumeDocument, error) {
	studentID, err := checkStudentID(studentID)
	if err != nil {
		return nil, err
	}

	var content []byte
	err = s.pool.QueryRow(ctx,
		`SELECT resume FROM resume_drafts
		 WHERE student_id = $1
		 ORDER BY version DESC
		 LIMIT 1`,
		studentID,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch resume: %w", err)
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

// Save assigns the next version inside a transaction. A per-student advisory
// lock serializes concurrent saves.
func (s *PostgresStore) Save(ctx context.Context, studentID string, doc types.ResumeDocument) (*Draft, error) {
	studentID, err := checkStudentID(studentID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, studentID); err != nil {
		return nil, fmt.Errorf("failed to lock student drafts: %w", err)
	}

	var version int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM resume_drafts WHERE student_id = $1`,
		studentID,
	).Scan(&version)
	if err != nil {
		return nil, fmt.Errorf("failed to compute draft version: %w", err)
	}

	draft := newDraft(studentID, version, doc, s.now())
	content, err := json.Marshal(draft.Resume)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO resume_drafts (id, student_id, version, resume, saved_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		draft.ID, draft.StudentID, draft.Version, content, draft.SavedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert draft: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit draft: %w", err)
	}
	return &draft, nil
}

// ListHistory returns drafts newest first
func (s *PostgresStore) ListHistory(ctx context.Context, studentID string, limit int) ([]Draft, error) {
	studentID, err := checkStudentID(studentID)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, student_id, version, resume, saved_at
		 FROM resume_drafts
		 WHERE student_id = $1
		 ORDER BY version DESC
		 LIMIT $2`,
		studentID, historyLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	drafts := []Draft{}
	for rows.Next() {
		var (
			d       Draft
			content []byte
		)
		if err := rows.Scan(&d.ID, &d.StudentID, &d.Version, &content, &d.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		if err := json.Unmarshal(content, &d.Resume); err != nil {
			return nil, fmt.Errorf("failed to unmarshal draft %s: %w", d.ID, err)
		}
		d.Resume.Normalize()
		d.SavedAt = d.SavedAt.UTC()
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drafts: %w", err)
	}
	return drafts, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
