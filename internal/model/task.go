package model

import (
	"time"
)

type TaskID string

type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryShopping Category = "Shopping"
	CategoryHealth   Category = "Health"
	CategoryOther    Category = "Other"
)

func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryOther}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank orders priorities High > Medium > Low for sorting.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthly:
		return true
	}
	return false
}

// Subtask is a checklist entry nested under a task. It has no id of its
// own; its position in the owning task's slice is its identity.
type Subtask struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type Task struct {
	ID          TaskID     `json:"id"`
	Title       string     `json:"title"`
	Date        string     `json:"date"` // YYYY-MM-DD due date
	Description string     `json:"description,omitempty"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	Recurring   Recurrence `json:"recurring"`
	Completed   bool       `json:"completed"`
	Subtasks    []Subtask  `json:"subtasks"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Normalize repairs fields that legacy snapshots may leave empty.
func (t *Task) Normalize() {
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
	if t.Recurring == "" {
		t.Recurring = RecurNone
	}
	if t.Category == "" {
		t.Category = CategoryOther
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}

// Clone returns a copy whose subtask slice does not share backing storage
// with the original. The store hands out clones so callers can never
// mutate persisted state behind its back.
func (t Task) Clone() Task {
	out := t
	out.Subtasks = make([]Subtask, len(t.Subtasks))
	copy(out.Subtasks, t.Subtasks)
	return out
}
