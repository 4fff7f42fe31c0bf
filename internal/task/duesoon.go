package task

import (
	"time"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
)

// DueSoon returns not-completed tasks dated today or tomorrow whose due
// midnight (local) lies within [0, withinHours] hours of now. The
// reminder collaborator polls this and handles dedup and delivery on its
// own side.
func DueSoon(tasks []model.Task, now time.Time, withinHours int) []model.Task {
	today := model.Today(now)
	tomorrow := model.Tomorrow(now)

	out := []model.Task{}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if t.Date != today && t.Date != tomorrow {
			continue
		}
		due, err := model.ParseDate(t.Date)
		if err != nil {
			continue
		}
		dueLocal := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
		hours := dueLocal.Sub(now).Hours()
		if hours >= 0 && hours <= float64(withinHours) {
			out = append(out, t)
		}
	}
	return out
}
