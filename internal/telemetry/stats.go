package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period          string            `json:"period"`
	EventCounts     map[EventType]int `json:"event_counts"`
	TaskCreations   int               `json:"task_creations"`
	TaskCompletions int               `json:"task_completions"`
	TaskDeletions   int               `json:"task_deletions"`
	SubtasksAdded   int               `json:"subtasks_added"`
	RecurrenceRolls int               `json:"recurrence_rolls"`
	RemindersSent   int               `json:"reminders_sent"`
	ByCategory      map[string]int    `json:"created_by_category"`
}

// CalculateStats aggregates usage events recorded since the given time.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:      since.Format("2006-01-02"),
		EventCounts: make(map[EventType]int),
		ByCategory:  make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventTaskCreated:
			stats.TaskCreations++
			if cat, ok := metadata["category"].(string); ok {
				stats.ByCategory[cat]++
			}
		case EventTaskCompleted:
			stats.TaskCompletions++
		case EventTaskDeleted:
			stats.TaskDeletions++
		case EventSubtaskAdded:
			stats.SubtasksAdded++
		case EventRecurrenceRolled:
			stats.RecurrenceRolls++
		case EventReminderSent:
			stats.RemindersSent++
		}
	}

	return stats, nil
}
