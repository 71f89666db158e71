package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultMongoDatabase is used when no database name is configured
const DefaultMongoDatabase = "resume_builder"

// MongoStore keeps drafts in a collection and per-student version counters in another
type MongoStore struct {
	client   *mongo.Client
	drafts   *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

type mongoDraft struct {
	ID        string               `bson:"_id"`
	StudentID string               `bson:"student_id"`
	Version   int                  `bson:"version"`
	Resume    types.ResumeDocument `bson:"resume"`
	SavedAt   time.Time            `bson:"saved_at"`
}

type mongoCounter struct {
	ID  string `bson:"_id"`
	Seq int    `bson:"seq"`
}

// NewMongoStore connects and ensures the drafts index exists
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri is required for the mongo store")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:   client,
		drafts:   db.Collection("resume_drafts"),
		counters: db.Collection("resume_draft_counters"),
		now:      time.Now,
	}

	_, err = s.drafts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "version", Value: -1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create drafts index: %w", err)
	}
	return s, nil
}

// Fetch returns the resume with the highest version
func (s *MongoStore) Fetch(ctx context.Context, studentID string) (*types.ResumeDocument, error) {
	studentID, err := checkStudentID(studentID)
	if err != nil {
		return nil, err
	}

	var doc mongoDraft
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	err = s.drafts.FindOne(ctx, bson.M{"student_id": studentID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch resume: %w", err)
	}

	resume := doc.Resume
	resume.Normalize()
	return &resume, nil
}

// Save increments the student's counter (upserting it) and inserts the draft
func (s *MongoStore) Save(ctx context.Context, studentID string, doc types.ResumeDocument) (*Draft, error) {
	studentID, err := checkStudentID(studentID)
	if err != nil {
		return nil, err
	}

	var counter mongoCounter
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err = s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": studentID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate draft version: %w", err)
	}

	draft := newDraft(studentID, counter.Seq, doc, s.now())
	// Mongo stores millisecond precision
	draft.SavedAt = draft.SavedAt.Truncate(time.Millisecond)

	_, err = s.drafts.InsertOne(ctx, mongoDraft{
		ID:        draft.ID.String(),
		StudentID: draft.StudentID,
		Version:   draft.Version,
		Resume:    draft.Resume,
		SavedAt:   draft.SavedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert draft: %w", err)
	}
	return &draft, nil
}

// ListHistory returns drafts newest first
func (s *MongoStore) ListHistory(ctx context.Context, studentID string, limit int) ([]Draft, error) {
	studentID, err := checkStudentID(studentID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "version", Value: -1}}).
		SetLimit(int64(historyLimit(limit)))
	cursor, err := s.drafts.Find(ctx, bson.M{"student_id": studentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []mongoDraft
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode drafts: %w", err)
	}

	drafts := make([]Draft, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid draft id %q: %w", doc.ID, err)
		}
		resume := doc.Resume
		resume.Normalize()
		drafts = append(drafts, Draft{
			ID:        id,
			StudentID: doc.StudentID,
			Version:   doc.Version,
			Resume:    resume,
			SavedAt:   doc.SavedAt.UTC(),
		})
	}
	return drafts, nil
}

// Close disconnects the client
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
