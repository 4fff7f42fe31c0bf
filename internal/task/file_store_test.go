package task

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
)

func newFileStoreForTests(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	return s, dir
}

func validFields() Fields {
	return Fields{
		Title:    "water plants",
		Date:     "2024-03-15",
		Category: model.CategoryPersonal,
		Priority: model.PriorityLow,
	}
}

func TestFileStore_CreateAssignsDefaultsAndPersists(t *testing.T) {
	s, dir := newFileStoreForTests(t)

	created, err := s.Create(Fields{Title: "  pay rent  ", Date: "2024-04-01"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "pay rent", created.Title)
	assert.False(t, created.Completed)
	assert.Equal(t, []model.Subtask{}, created.Subtasks)
	assert.Equal(t, model.CategoryOther, created.Category)
	assert.Equal(t, model.PriorityMedium, created.Priority)
	assert.Equal(t, model.RecurNone, created.Recurring)
	assert.False(t, created.CreatedAt.IsZero())

	// The snapshot file exists after the first mutation.
	_, err = os.Stat(filepath.Join(dir, snapshotFile))
	assert.NoError(t, err)
}

func TestFileStore_CreateValidation(t *testing.T) {
	s, _ := newFileStoreForTests(t)

	tests := []struct {
		name   string
		fields Fields
	}{
		{"empty title", Fields{Title: "   ", Date: "2024-03-15"}},
		{"empty date", Fields{Title: "x", Date: ""}},
		{"bad date format", Fields{Title: "x", Date: "15/03/2024"}},
		{"unknown category", Fields{Title: "x", Date: "2024-03-15", Category: "Chores"}},
		{"unknown priority", Fields{Title: "x", Date: "2024-03-15", Priority: "Urgent"}},
		{"unknown recurrence", Fields{Title: "x", Date: "2024-03-15", Recurring: "yearly"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Create(tc.fields)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list, "failed creates must not touch the store")
}

func TestFileStore_CreateIDsAreUnique(t *testing.T) {
	s, _ := newFileStoreForTests(t)

	seen := map[model.TaskID]bool{}
	for i := 0; i < 50; i++ {
		created, err := s.Create(validFields())
		require.NoError(t, err)
		assert.False(t, seen[created.ID], "duplicate id %s", created.ID)
		seen[created.ID] = true
	}
}

func TestFileStore_RoundTripPreservesTasksAndOrder(t *testing.T) {
	s, dir := newFileStoreForTests(t)

	a, err := s.Create(Fields{Title: "first", Date: "2024-03-15", Description: "with details", Category: model.CategoryWork, Priority: model.PriorityHigh, Recurring: model.RecurWeekly})
	require.NoError(t, err)
	b, err := s.Create(Fields{Title: "second", Date: "2024-03-16"})
	require.NoError(t, err)
	_, err = s.AddSubtask(a.ID, "step one")
	require.NoError(t, err)
	_, err = s.AddSubtask(a.ID, "step two")
	require.NoError(t, err)
	_, err = s.ToggleSubtask(a.ID, 1)
	require.NoError(t, err)

	before, err := s.List()
	require.NoError(t, err)

	reopened, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	after, err := reopened.List()
	require.NoError(t, err)

	wantJSON, _ := json.Marshal(before)
	gotJSON, _ := json.Marshal(after)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
	assert.Equal(t, []string{string(a.ID), string(b.ID)}, ids(after), "insertion order survives reload")
}

func TestFileStore_UpdateOverwritesEditableFieldsOnly(t *testing.T) {
	s, _ := newFileStoreForTests(t)

	created, err := s.Create(validFields())
	require.NoError(t, err)
	_, err = s.AddSubtask(created.ID, "keep me")
	require.NoError(t, err)
	_, err = s.SetCompleted(created.ID, true)
	require.NoError(t, err)

	updated, err := s.Update(created.ID, Fields{
		Title:     "repot plants",
		Date:      "2024-03-20",
		Category:  model.CategoryHealth,
		Priority:  model.PriorityHigh,
		Recurring: model.RecurMonthly,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "repot plants", updated.Title)
	assert.Equal(t, "2024-03-20", updated.Date)
	assert.True(t, updated.Completed, "update must not touch completed")
	assert.Len(t, updated.Subtasks, 1, "update must not touch subtasks")
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt), "update must not touch createdAt")
}

func TestFileStore_UpdateUnknownID(t *testing.T) {
	s, _ := newFileStoreForTests(t)
	_, err := s.Update("nope", validFields())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_DeleteUnknownIDIsNoOp(t *testing.T) {
	s, _ := newFileStoreForTests(t)
	_, err := s.Create(validFields())
	require.NoError(t, err)

	assert.NoError(t, s.Delete("nope"))

	list, err := s.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFileStore_DeleteRemovesAndReindexes(t *testing.T) {
	s, _ := newFileStoreForTests(t)
	a, _ := s.Create(validFields())
	b, _ := s.Create(validFields())
	c, _ := s.Create(validFields())

	require.NoError(t, s.Delete(b.ID))

	list, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{string(a.ID), string(c.ID)}, ids(list))

	// Remaining tasks stay reachable after the index rebuild.
	got, err := s.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestFileStore_SetCompleted(t *testing.T) {
	s, _ := newFileStoreForTests(t)
	created, _ := s.Create(validFields())

	done, err := s.SetCompleted(created.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	undone, err := s.SetCompleted(created.ID, false)
	require.NoError(t, err)
	assert.False(t, undone.Completed)

	_, err = s.SetCompleted("nope", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_Subtasks(t *testing.T) {
	s, _ := newFileStoreForTests(t)
	created, _ := s.Create(validFields())

	_, err := s.AddSubtask(created.ID, "one")
	require.NoError(t, err)
	_, err = s.AddSubtask(created.ID, "two")
	require.NoError(t, err)
	got, err := s.AddSubtask(created.ID, "  three  ")
	require.NoError(t, err)

	require.Len(t, got.Subtasks, 3)
	assert.Equal(t, "three", got.Subtasks[2].Text, "append lands at the next index")

	got, err = s.ToggleSubtask(created.ID, 2)
	require.NoError(t, err)
	assert.True(t, got.Subtasks[2].Completed)
	assert.False(t, got.Subtasks[0].Completed, "only the addressed entry flips")
	assert.False(t, got.Subtasks[1].Completed)

	got, err = s.ToggleSubtask(created.ID, 2)
	require.NoError(t, err)
	assert.False(t, got.Subtasks[2].Completed)
}

func TestFileStore_SubtaskErrors(t *testing.T) {
	s, _ := newFileStoreForTests(t)
	created, _ := s.Create(validFields())

	_, err := s.AddSubtask(created.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.AddSubtask("nope", "text")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ToggleSubtask(created.ID, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ToggleSubtask(created.ID, -1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ToggleSubtask("nope", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_MalformedSnapshotLoadsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshotFile), []byte("{not json"), 0o644))

	s, err := NewFileStore(dir, nil)
	require.NoError(t, err)

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileStore_LegacySnapshotFieldsAreRepaired(t *testing.T) {
	dir := t.TempDir()
	raw := `[{"id":"legacy-1","title":"old task","date":"2024-03-15","completed":false}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshotFile), []byte(raw), 0o644))

	s, err := NewFileStore(dir, nil)
	require.NoError(t, err)

	got, err := s.Get("legacy-1")
	require.NoError(t, err)
	assert.Equal(t, model.RecurNone, got.Recurring)
	assert.Equal(t, model.CategoryOther, got.Category)
	assert.Equal(t, model.PriorityMedium, got.Priority)
	assert.Equal(t, []model.Subtask{}, got.Subtasks)
}

func TestFileStore_RecurrenceRunsOnLoadAndPersists(t *testing.T) {
	dir := t.TempDir()
	yesterday := model.FormatDate(model.DateOf(time.Now()).AddDate(0, 0, -1))
	today := model.Today(time.Now())

	raw, _ := json.Marshal([]model.Task{{
		ID:        "rec-1",
		Title:     "stand-up notes",
		Date:      yesterday,
		Recurring: model.RecurDaily,
		Completed: true,
		Subtasks:  []model.Subtask{},
		CreatedAt: time.Now(),
	}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshotFile), raw, 0o644))

	s, err := NewFileStore(dir, nil)
	require.NoError(t, err)

	got, err := s.Get("rec-1")
	require.NoError(t, err)
	assert.Equal(t, today, got.Date)
	assert.False(t, got.Completed)

	require.Len(t, s.RolledOnLoad(), 1)
	assert.Equal(t, model.TaskID("rec-1"), s.RolledOnLoad()[0].ID)

	// The rolled state was written back: a second load must not change it.
	s2, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	got2, err := s2.Get("rec-1")
	require.NoError(t, err)
	assert.Equal(t, today, got2.Date)
	assert.False(t, got2.Completed)
	assert.Empty(t, s2.RolledOnLoad())
}

func TestFileStore_FailedSaveLeavesStoreUnchanged(t *testing.T) {
	s, dir := newFileStoreForTests(t)
	created, err := s.Create(validFields())
	require.NoError(t, err)
	_, err = s.AddSubtask(created.ID, "only one")
	require.NoError(t, err)

	// A directory in the snapshot's place makes every write fail.
	snapshot := filepath.Join(dir, snapshotFile)
	require.NoError(t, os.Remove(snapshot))
	require.NoError(t, os.Mkdir(snapshot, 0o755))

	_, err = s.Create(validFields())
	require.Error(t, err)
	list, err := s.List()
	require.NoError(t, err)
	assert.Len(t, list, 1, "failed create must not stay in memory")

	_, err = s.Update(created.ID, Fields{Title: "changed", Date: "2024-04-01"})
	require.Error(t, err)
	got, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "water plants", got.Title)

	_, err = s.SetCompleted(created.ID, true)
	require.Error(t, err)
	got, _ = s.Get(created.ID)
	assert.False(t, got.Completed)

	_, err = s.AddSubtask(created.ID, "two")
	require.Error(t, err)
	got, _ = s.Get(created.ID)
	assert.Len(t, got.Subtasks, 1)

	_, err = s.ToggleSubtask(created.ID, 0)
	require.Error(t, err)
	got, _ = s.Get(created.ID)
	assert.False(t, got.Subtasks[0].Completed)

	require.Error(t, s.Delete(created.ID))
	list, err = s.List()
	require.NoError(t, err)
	assert.Len(t, list, 1, "failed delete must keep the task")
	_, err = s.Get(created.ID)
	assert.NoError(t, err, "index still resolves the task after a failed delete")
}

func TestFileStore_CallersCannotMutateStoreState(t *testing.T) {
	s, _ := newFileStoreForTests(t)
	created, _ := s.Create(validFields())
	_, err := s.AddSubtask(created.ID, "original")
	require.NoError(t, err)

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	got.Subtasks[0].Text = "mutated"

	fresh, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", fresh.Subtasks[0].Text)
}
