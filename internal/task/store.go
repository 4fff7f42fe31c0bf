package task

import (
	"fmt"
	"strings"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
)

// Fields are the caller-editable task fields. Create uses all of them;
// Update overwrites exactly these and nothing else (id, completed,
// subtasks and createdAt stay untouched).
type Fields struct {
	Title       string           `json:"title"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Category    model.Category   `json:"category"`
	Priority    model.Priority   `json:"priority"`
	Recurring   model.Recurrence `json:"recurring"`
}

// Store is the single source of truth for tasks. Every mutation persists
// the whole snapshot before returning, so consumers can re-query at any
// point and see a consistent state.
type Store interface {
	Create(f Fields) (model.Task, error)
	Get(id model.TaskID) (model.Task, error)
	List() ([]model.Task, error)
	Update(id model.TaskID, f Fields) (model.Task, error)
	Delete(id model.TaskID) error
	SetCompleted(id model.TaskID, completed bool) (model.Task, error)
	AddSubtask(id model.TaskID, text string) (model.Task, error)
	ToggleSubtask(id model.TaskID, index int) (model.Task, error)
}

// validateFields trims free text, checks required fields and fills enum
// defaults. Empty enum values fall back to their defaults (legacy data
// contract); non-empty values outside the enumerated sets are rejected so
// the store never holds an unrecognized category, priority or recurrence.
func validateFields(f *Fields) error {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Date = strings.TrimSpace(f.Date)

	if f.Title == "" {
		return fmt.Errorf("%w: title", ErrValidation)
	}
	if f.Date == "" {
		return fmt.Errorf("%w: date", ErrValidation)
	}
	if _, err := model.ParseDate(f.Date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrValidation, f.Date)
	}

	if f.Category == "" {
		f.Category = model.CategoryOther
	} else if !f.Category.Valid() {
		return fmt.Errorf("%w: category %q", ErrValidation, f.Category)
	}
	if f.Priority == "" {
		f.Priority = model.PriorityMedium
	} else if !f.Priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrValidation, f.Priority)
	}
	if f.Recurring == "" {
		f.Recurring = model.RecurNone
	} else if !f.Recurring.Valid() {
		return fmt.Errorf("%w: recurring %q", ErrValidation, f.Recurring)
	}
	return nil
}

func applyFields(t *model.Task, f Fields) {
	t.Title = f.Title
	t.Date = f.Date
	t.Description = f.Description
	t.Category = f.Category
	t.Priority = f.Priority
	t.Recurring = f.Recurring
}
