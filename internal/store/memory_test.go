package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_SavedAtUsesClock(t *testing.T) {
	s := NewMemoryStore()
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	s.now = func() time.Time { return fixed }

	d, err := s.Save(context.Background(), "student-1", types.NewResumeDocument())
	require.NoError(t, err)
	assert.True(t, d.SavedAt.Equal(fixed))
	assert.Equal(t, time.UTC, d.SavedAt.Location())
}

func TestMemoryStore_TrimsStudentID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Save(ctx, "  student-1 ", types.NewResumeDocument())
	require.NoError(t, err)

	_, err = s.Fetch(ctx, "student-1")
	assert.NoError(t, err)
}

func TestMemoryStore_HistoryLimitClamped(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < MaxHistoryLimit+5; i++ {
		_, err := s.Save(ctx, "student-1", types.NewResumeDocument())
		require.NoError(t, err)
	}

	all, err := s.ListHistory(ctx, "student-1", 1000)
	require.NoError(t, err)
	assert.Len(t, all, MaxHistoryLimit)
	assert.Equal(t, MaxHistoryLimit+5, all[0].Version)

	def, err := s.ListHistory(ctx, "student-1", 0)
	require.NoError(t, err)
	assert.Len(t, def, DefaultHistoryLimit)
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: DriverMemory, Seed: true})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	doc, err := s.Fetch(ctx, DemoStudentID)
	require.NoError(t, err)
	assert.Equal(t, "Alex Johnson", doc.PersonalInfo.Name)
	assert.Equal(t, "State University", doc.Education[0].Institution)

	history, err := s.ListHistory(ctx, DemoStudentID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestOpen_DefaultDriverIsMemory(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	require.NoError(t, err)
	_, ok := s.(*MemoryStore)
	assert.True(t, ok)

	_, err = s.Fetch(context.Background(), DemoStudentID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  Config
		msg  string
	}{
		{name: "unknown driver", cfg: Config{Driver: "sqlite"}, msg: "unknown store driver"},
		{name: "postgres without url", cfg: Config{Driver: DriverPostgres}, msg: "database url is required"},
		{name: "redis without url", cfg: Config{Driver: DriverRedis}, msg: "redis url is required"},
		{name: "mongo without uri", cfg: Config{Driver: DriverMongo}, msg: "mongo uri is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDemoResume_IsValid(t *testing.T) {
	doc := DemoResume()
	assert.NoError(t, doc.Validate())
	assert.False(t, doc.IsEmpty())
}
