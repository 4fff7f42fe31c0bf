package task

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
)

func openSQLiteForTests(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tasks.db")
	s, err := OpenSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dbPath
}

func TestSQLiteStore_CRUD(t *testing.T) {
	s, _ := openSQLiteForTests(t)

	created, err := s.Create(Fields{
		Title:       "book flights",
		Date:        "2024-05-10",
		Description: "check baggage rules",
		Category:    model.CategoryPersonal,
		Priority:    model.PriorityHigh,
		Recurring:   model.RecurNone,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "book flights", got.Title)
	assert.Equal(t, "check baggage rules", got.Description)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	assert.Equal(t, []model.Subtask{}, got.Subtasks)

	updated, err := s.Update(created.ID, Fields{Title: "book trains", Date: "2024-05-11"})
	require.NoError(t, err)
	assert.Equal(t, "book trains", updated.Title)
	assert.Equal(t, "2024-05-11", updated.Date)
	assert.Equal(t, model.CategoryOther, updated.Category, "update applies defaults like create does")

	require.NoError(t, s.Delete(created.ID))
	_, err = s.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(created.ID), "deleting an unknown id is a no-op")
}

func TestSQLiteStore_ListKeepsInsertionOrder(t *testing.T) {
	s, _ := openSQLiteForTests(t)

	var want []string
	for _, title := range []string{"a", "b", "c", "d"} {
		created, err := s.Create(Fields{Title: title, Date: "2024-05-10"})
		require.NoError(t, err)
		want = append(want, string(created.ID))
	}

	list, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, want, ids(list))
}

func TestSQLiteStore_SetCompleted(t *testing.T) {
	s, _ := openSQLiteForTests(t)
	created, _ := s.Create(Fields{Title: "x", Date: "2024-05-10"})

	got, err := s.SetCompleted(created.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	got, err = s.SetCompleted(created.ID, false)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	_, err = s.SetCompleted("nope", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_Subtasks(t *testing.T) {
	s, _ := openSQLiteForTests(t)
	created, _ := s.Create(Fields{Title: "x", Date: "2024-05-10"})

	got, err := s.AddSubtask(created.ID, "one")
	require.NoError(t, err)
	got, err = s.AddSubtask(created.ID, "two")
	require.NoError(t, err)
	require.Len(t, got.Subtasks, 2)
	assert.Equal(t, "two", got.Subtasks[1].Text)

	got, err = s.ToggleSubtask(created.ID, 1)
	require.NoError(t, err)
	assert.True(t, got.Subtasks[1].Completed)
	assert.False(t, got.Subtasks[0].Completed)

	_, err = s.ToggleSubtask(created.ID, 5)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.AddSubtask(created.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.AddSubtask("nope", "text")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_Validation(t *testing.T) {
	s, _ := openSQLiteForTests(t)

	_, err := s.Create(Fields{Title: "", Date: "2024-05-10"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Create(Fields{Title: "x", Date: "not-a-date"})
	assert.ErrorIs(t, err, ErrValidation)

	created, _ := s.Create(Fields{Title: "x", Date: "2024-05-10"})
	_, err = s.Update(created.ID, Fields{Title: "x", Date: "2024-13-01"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tasks.db")

	s, err := OpenSQLiteStore(dbPath)
	require.NoError(t, err)
	created, err := s.Create(Fields{Title: "persisted", Date: "2099-01-01"})
	require.NoError(t, err)
	_, err = s.AddSubtask(created.ID, "still here")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := OpenSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Title)
	require.Len(t, got.Subtasks, 1)
	assert.Equal(t, "still here", got.Subtasks[0].Text)
}

func TestSQLiteStore_RollsRecurringAtOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tasks.db")
	yesterday := model.FormatDate(model.DateOf(time.Now()).AddDate(0, 0, -1))
	today := model.Today(time.Now())

	s, err := OpenSQLiteStore(dbPath)
	require.NoError(t, err)
	created, err := s.Create(Fields{Title: "daily sync", Date: yesterday, Recurring: model.RecurDaily})
	require.NoError(t, err)
	_, err = s.SetCompleted(created.ID, true)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := OpenSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, today, got.Date)
	assert.False(t, got.Completed)

	require.Len(t, s2.RolledOnLoad(), 1)
	assert.Equal(t, created.ID, s2.RolledOnLoad()[0].ID)
	assert.Empty(t, s.RolledOnLoad())
}
