package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

// runStoreContract exercises behaviour every backend must share. Student IDs
// are random so the suite can run against shared databases.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("fetch unknown student", func(t *testing.T) {
		_, err := s.Fetch(ctx, "student-"+uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty student id", func(t *testing.T) {
		_, err := s.Fetch(ctx, "  ")
		assert.ErrorIs(t, err, ErrInvalidStudentID)
		_, err = s.Save(ctx, "", types.NewResumeDocument())
		assert.ErrorIs(t, err, ErrInvalidStudentID)
		_, err = s.ListHistory(ctx, "", 10)
		assert.ErrorIs(t, err, ErrInvalidStudentID)
	})

	t.Run("history of unknown student is empty", func(t *testing.T) {
		drafts, err := s.ListHistory(ctx, "student-"+uuid.NewString(), 10)
		require.NoError(t, err)
		assert.NotNil(t, drafts)
		assert.Empty(t, drafts)
	})

	t.Run("save then fetch latest", func(t *testing.T) {
		studentID := "student-" + uuid.NewString()

		first := DemoResume()
		d1, err := s.Save(ctx, studentID, first)
		require.NoError(t, err)
		assert.Equal(t, 1, d1.Version)
		assert.Equal(t, studentID, d1.StudentID)
		assert.NotEqual(t, uuid.Nil, d1.ID)
		assert.False(t, d1.SavedAt.IsZero())

		second := DemoResume()
		second.PersonalInfo.Name = "Alex J."
		d2, err := s.Save(ctx, studentID, second)
		require.NoError(t, err)
		assert.Equal(t, 2, d2.Version)

		got, err := s.Fetch(ctx, studentID)
		require.NoError(t, err)
		assert.Equal(t, "Alex J.", got.PersonalInfo.Name)
		assert.Equal(t, second.Skills, got.Skills)

		history, err := s.ListHistory(ctx, studentID, 10)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, 2, history[0].Version)
		assert.Equal(t, 1, history[1].Version)
		assert.Equal(t, "Alex Johnson", history[1].Resume.PersonalInfo.Name)

		limited, err := s.ListHistory(ctx, studentID, 1)
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, 2, limited[0].Version)
	})

	t.Run("tenants are isolated", func(t *testing.T) {
		a := "student-" + uuid.NewString()
		b := "student-" + uuid.NewString()

		docA := types.NewResumeDocument()
		docA.PersonalInfo.Name = "A"
		_, err := s.Save(ctx, a, docA)
		require.NoError(t, err)

		_, err = s.Fetch(ctx, b)
		assert.ErrorIs(t, err, ErrNotFound)

		d, err := s.Save(ctx, b, types.NewResumeDocument())
		require.NoError(t, err)
		assert.Equal(t, 1, d.Version)
	})

	t.Run("stored documents are copies", func(t *testing.T) {
		studentID := "student-" + uuid.NewString()
		doc := DemoResume()
		_, err := s.Save(ctx, studentID, doc)
		require.NoError(t, err)

		doc.Skills[0].Name = "Mutated"
		got, err := s.Fetch(ctx, studentID)
		require.NoError(t, err)
		assert.Equal(t, "Python", got.Skills[0].Name)

		got.Skills[0].Name = "Mutated again"
		again, err := s.Fetch(ctx, studentID)
		require.NoError(t, err)
		assert.Equal(t, "Python", again.Skills[0].Name)
	})

	t.Run("nil sequences come back empty", func(t *testing.T) {
		studentID := "student-" + uuid.NewString()
		_, err := s.Save(ctx, studentID, types.ResumeDocument{})
		require.NoError(t, err)

		got, err := s.Fetch(ctx, studentID)
		require.NoError(t, err)
		assert.NotNil(t, got.Education)
		assert.NotNil(t, got.Skills)
		assert.NotNil(t, got.Experience)
		assert.NotNil(t, got.Projects)
	})

	t.Run("concurrent saves get distinct versions", func(t *testing.T) {
		studentID := "student-" + uuid.NewString()
		const n = 10

		var wg sync.WaitGroup
		versions := make(chan int, n)
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				doc := types.NewResumeDocument()
				doc.PersonalInfo.Name = fmt.Sprintf("save %d", i)
				d, err := s.Save(ctx, studentID, doc)
				if err != nil {
					errs <- err
					return
				}
				versions <- d.Version
			}(i)
		}
		wg.Wait()
		close(versions)
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
		seen := map[int]bool{}
		for v := range versions {
			assert.False(t, seen[v], "duplicate version %d", v)
			seen[v] = true
		}
		assert.Len(t, seen, n)
	})

	t.Run("concurrent saves stay ordered by version", func(t *testing.T) {
		studentID := "student-" + uuid.NewString()
		const n = 20

		var wg sync.WaitGroup
		names := make(chan string, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				doc := types.NewResumeDocument()
				doc.PersonalInfo.Name = fmt.Sprintf("save %d", i)
				d, err := s.Save(ctx, studentID, doc)
				if err == nil && d.Version == n {
					names <- doc.PersonalInfo.Name
				}
			}(i)
		}
		wg.Wait()
		close(names)

		latest, ok := <-names
		require.True(t, ok, "no save received version %d", n)

		got, err := s.Fetch(ctx, studentID)
		require.NoError(t, err)
		assert.Equal(t, latest, got.PersonalInfo.Name)

		history, err := s.ListHistory(ctx, studentID, n)
		require.NoError(t, err)
		require.Len(t, history, n)
		for i, d := range history {
			assert.Equal(t, n-i, d.Version)
		}
	})

	t.Run("seed demo is idempotent", func(t *testing.T) {
		require.NoError(t, SeedDemo(ctx, s))
		require.NoError(t, SeedDemo(ctx, s))

		got, err := s.Fetch(ctx, DemoStudentID)
		require.NoError(t, err)
		assert.NotEmpty(t, got.PersonalInfo.Name)
	})
}

func TestErrNotFoundIsDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNotFound, ErrInvalidStudentID))
}
