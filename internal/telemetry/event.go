package telemetry

import "time"

type EventType string

const (
	EventTaskCreated      EventType = "task_created"
	EventTaskCompleted    EventType = "task_completed"
	EventTaskDeleted      EventType = "task_deleted"
	EventSubtaskAdded     EventType = "subtask_added"
	EventRecurrenceRolled EventType = "recurrence_rolled"
	EventReminderSent     EventType = "reminder_sent"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
