package task

import (
	"math"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
)

// Stats are the aggregate counts consumed by the statistics collaborator.
type Stats struct {
	Total      int                    `json:"total"`
	Completed  int                    `json:"completed"`
	Pending    int                    `json:"pending"`
	Progress   int                    `json:"progress"` // percent, rounded
	ByPriority map[model.Priority]int `json:"by_priority"`
	ByCategory map[model.Category]int `json:"by_category"`
}

// CalcStats computes aggregates on demand from the current store
// contents. Every known priority and category appears in the breakdowns
// even when its count is zero.
func CalcStats(tasks []model.Task) Stats {
	stats := Stats{
		ByPriority: map[model.Priority]int{
			model.PriorityHigh:   0,
			model.PriorityMedium: 0,
			model.PriorityLow:    0,
		},
		ByCategory: map[model.Category]int{},
	}
	for _, c := range model.Categories() {
		stats.ByCategory[c] = 0
	}

	for _, t := range tasks {
		stats.Total++
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
		stats.ByPriority[t.Priority]++
		stats.ByCategory[t.Category]++
	}

	if stats.Total > 0 {
		stats.Progress = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}
