package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
	"github.com/tanmaystar-512/Smart-to-do-List/internal/task"
	"github.com/tanmaystar-512/Smart-to-do-List/internal/telemetry"
)

// Lister is the slice of the task store the reminder service needs.
type Lister interface {
	List() ([]model.Task, error)
}

// Notifier delivers one reminder. Delivery mechanics live entirely on
// this side of the boundary; the core only answers the due-soon query.
type Notifier interface {
	Notify(t model.Task, message string)
}

// LogNotifier writes reminders to the server log.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) Notify(_ model.Task, message string) {
	logger := n.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("reminder: %s", message)
}

// Service polls the due-soon query and fires each reminder at most once
// per task per day, remembering markers across restarts.
type Service struct {
	store    Lister
	markers  *MarkerStore
	notifier Notifier
	events   telemetry.Repository
	window   int // hours
	now      func() time.Time
	logger   *log.Logger
}

func NewService(store Lister, markers *MarkerStore, notifier Notifier, windowHours int, logger *log.Logger) *Service {
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	if windowHours <= 0 {
		windowHours = 24
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:    store,
		markers:  markers,
		notifier: notifier,
		window:   windowHours,
		now:      time.Now,
		logger:   logger,
	}
}

// SetEvents wires the telemetry event log; nil disables recording.
func (s *Service) SetEvents(events telemetry.Repository) {
	s.events = events
}

// SetClock overrides the service clock (tests).
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Check runs one poll pass and returns how many reminders fired.
func (s *Service) Check() (int, error) {
	tasks, err := s.store.List()
	if err != nil {
		return 0, err
	}

	now := s.now()
	today := model.Today(now)
	fired := 0

	for _, t := range task.DueSoon(tasks, now, s.window) {
		key := markerKey(t.ID, today)
		if s.markers.Seen(key) {
			continue
		}

		message := fmt.Sprintf("%q is due tomorrow!", t.Title)
		if t.Date == today {
			message = fmt.Sprintf("%q is due today!", t.Title)
		}
		s.notifier.Notify(t, message)

		if err := s.markers.Mark(key); err != nil {
			s.logger.Printf("persist reminder marker: %v", err)
		}
		if s.events != nil {
			_ = s.events.RecordEvent(telemetry.EventReminderSent, telemetry.EventMetadata{
				"task_id": string(t.ID),
				"date":    t.Date,
			})
		}
		fired++
	}
	return fired, nil
}

// Run polls immediately and then on every interval tick until the
// context is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	if _, err := s.Check(); err != nil {
		s.logger.Printf("reminder check: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Check(); err != nil {
				s.logger.Printf("reminder check: %v", err)
			}
		}
	}
}

func markerKey(id model.TaskID, day string) string {
	return fmt.Sprintf("reminder_%s_%s", id, day)
}
