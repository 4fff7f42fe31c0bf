package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
)

const icsDateLayout = "20060102"

// BuildTaskCalendarICS renders a task as a single all-day iCalendar
// event so it can be imported into an external calendar.
func BuildTaskCalendarICS(t model.Task, now time.Time) (string, error) {
	due, err := model.ParseDate(strings.TrimSpace(t.Date))
	if err != nil {
		return "", fmt.Errorf("task date must be YYYY-MM-DD")
	}
	end := due.AddDate(0, 0, 1)

	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "Task"
	}
	desc := strings.TrimSpace(t.Description)

	uid := fmt.Sprintf("task-%s@smarttodo", strings.TrimSpace(string(t.ID)))
	if strings.TrimSpace(string(t.ID)) == "" {
		uid = fmt.Sprintf("task-export-%d@smarttodo", now.UnixNano())
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//SmartTodo//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + escapeICSText(uid),
		"DTSTAMP:" + now.UTC().Format("20060102T150405Z"),
		"SUMMARY:" + escapeICSText(title),
		"DTSTART;VALUE=DATE:" + due.Format(icsDateLayout),
		"DTEND;VALUE=DATE:" + end.Format(icsDateLayout),
	}
	if desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
	}
	if rrule := recurrenceToICSRRULE(t.Recurring); rrule != "" {
		lines = append(lines, "RRULE:"+rrule)
	}
	lines = append(lines, "CATEGORIES:"+escapeICSText(string(t.Category)))
	lines = append(lines, "END:VEVENT", "END:VCALENDAR", "")

	return strings.Join(lines, "\r\n"), nil
}

func recurrenceToICSRRULE(rec model.Recurrence) string {
	switch rec {
	case model.RecurDaily:
		return "FREQ=DAILY"
	case model.RecurWeekly:
		return "FREQ=WEEKLY"
	case model.RecurMonthly:
		return "FREQ=MONTHLY"
	}
	return ""
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
