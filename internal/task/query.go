package task

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
)

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
	StatusToday     StatusFilter = "today"
)

type SortKey string

const (
	SortDateAsc  SortKey = "date-asc"
	SortDateDesc SortKey = "date-desc"
	SortPriority SortKey = "priority"
	SortTitle    SortKey = "title"
)

// Query bundles the filter, search and sort selections for one view
// render. The zero value means: everything, unsorted input order.
type Query struct {
	Search   string
	Status   StatusFilter
	Category string // "" or "all" for any, otherwise exact category
	Sort     SortKey
}

// Apply runs the search, status and category filters (AND-composed) over
// the given tasks, then sorts the surviving subset. It never mutates its
// input; ties keep their input order.
func Apply(tasks []model.Task, q Query, now time.Time) []model.Task {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	today := model.Today(now)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		switch q.Status {
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		case StatusPending:
			if t.Completed {
				continue
			}
		case StatusToday:
			if t.Date != today {
				continue
			}
		}
		if q.Category != "" && q.Category != "all" && string(t.Category) != q.Category {
			continue
		}
		out = append(out, t)
	}

	sortTasks(out, q.Sort)
	return out
}

func matchesSearch(t model.Task, search string) bool {
	if strings.Contains(strings.ToLower(t.Title), search) {
		return true
	}
	if t.Description != "" && strings.Contains(strings.ToLower(t.Description), search) {
		return true
	}
	return strings.Contains(strings.ToLower(string(t.Category)), search)
}

func sortTasks(out []model.Task, key SortKey) {
	switch key {
	case SortDateAsc:
		// YYYY-MM-DD compares correctly as a string.
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	case SortDateDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Priority.Rank() > out[j].Priority.Rank() })
	case SortTitle:
		c := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool { return c.CompareString(out[i].Title, out[j].Title) < 0 })
	}
}
