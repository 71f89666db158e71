package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultRetention is the number of drafts kept per student in redis
const DefaultRetention = 50

// RedisStore keeps each student's drafts in a sorted set scored by version,
// capped at retention, with the version counter in a separate key. Reads
// order by score, so concurrent saves that land out of order still list
// newest first.
type RedisStore struct {
	client    *redis.Client
	retention int
	now       func() time.Time
}

// NewRedisStore connects to the redis server at redisURL
func NewRedisStore(ctx context.Context, redisURL string, retention int) (*RedisStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url is required for the redis store")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStoreWithClient(client, retention), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, retention int) *RedisStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &RedisStore{client: client, retention: retention, now: time.Now}
}

func versionKey(studentID string) string {
	return "resume:" + studentID + ":version"
}

func draftsKey(studentID string) string {
	return "resume:" + studentID + ":history"
}

// Fetch returns the resume with the highest version
func (s *RedisStore) Fetch(ctx context.Context, studentID string) (*types.ResumeDocument, error) {
	studentID, err := checkStudentID(studentID)
	if err != nil {
		return nil, err
	}

	items, err := s.client.ZRevRange(ctx, draftsKey(studentID), 0, 0).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to fetch resume: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}

	draft, err := decodeDraft(items[0])
	if err != nil {
		return nil, err
	}
	return &draft.Resume, nil
}

// Save takes the next version from INCR and adds the draft scored by it
func (s *RedisStore) Save(ctx context.Context, studentID string, doc types.ResumeDocument) (*Draft, error) {
	studentID, err := checkStudentID(studentID)
	if err != nil {
		return nil, err
	}

	version, err := s.client.Incr(ctx, versionKey(studentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate draft version: %w", err)
	}

	draft := newDraft(studentID, int(version), doc, s.now())
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft: %w", err)
	}

	key := draftsKey(studentID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(version), Member: payload})
		// Drop everything below the newest retention entries
		pipe.ZRemRangeByRank(ctx, key, 0, int64(-s.retention-1))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store draft: %w", err)
	}
	return &draft, nil
}

// ListHistory reads the highest-versioned drafts first
func (s *RedisStore) ListHistory(ctx context.Context, studentID string, limit int) ([]Draft, error) {
	studentID, err := checkStudentID(studentID)
	if err != nil {
		return nil, err
	}

	items, err := s.client.ZRevRange(ctx, draftsKey(studentID), 0, int64(historyLimit(limit)-1)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	drafts := make([]Draft, 0, len(items))
	for _, raw := range items {
		draft, err := decodeDraft(raw)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// Close closes the client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeDraft(raw string) (Draft, error) {
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Draft{}, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	d.Resume.Normalize()
	return d, nil
}
