package task

import (
	"time"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
)

// Roll reactivates a completed recurring task whose schedule has come
// around again. The new due date advances exactly one recurrence unit
// from the task's previous date, never from today: a weekly task three
// weeks overdue moves forward seven days per load pass and catches up
// over subsequent loads.
//
// Monthly rollovers reuse the day number as-is; day-of-month overflow
// follows time.AddDate normalization (Jan 31 + 1 month = Mar 2).
func Roll(t model.Task, now time.Time) (model.Task, bool) {
	if !t.Completed || t.Recurring == model.RecurNone {
		return t, false
	}

	due, err := model.ParseDate(t.Date)
	if err != nil {
		return t, false
	}
	today := model.DateOf(now)

	roll := false
	switch t.Recurring {
	case model.RecurDaily:
		roll = due.Before(today)
	case model.RecurWeekly:
		roll = daysBetween(due, today) >= 7
	case model.RecurMonthly:
		roll = monthsBetween(due, today) >= 1
	}
	if !roll {
		return t, false
	}

	switch t.Recurring {
	case model.RecurDaily:
		due = due.AddDate(0, 0, 1)
	case model.RecurWeekly:
		due = due.AddDate(0, 0, 7)
	case model.RecurMonthly:
		due = due.AddDate(0, 1, 0)
	}

	t.Date = model.FormatDate(due)
	t.Completed = false
	return t, true
}

// RollAll applies Roll in place over a loaded snapshot and returns the
// tasks that were reactivated. It runs once per load; it never creates
// or deletes tasks.
func RollAll(tasks []model.Task, now time.Time) []model.Task {
	rolled := []model.Task{}
	for i := range tasks {
		next, ok := Roll(tasks[i], now)
		if ok {
			tasks[i] = next
			rolled = append(rolled, next.Clone())
		}
	}
	return rolled
}

// daysBetween counts whole days from a to b. Both are UTC midnights, so
// the division is exact.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// monthsBetween compares year and month-of-year only; the day of month
// is deliberately ignored, matching the rollover-due rule.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
