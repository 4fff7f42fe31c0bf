package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/config"
	"github.com/tanmaystar-512/Smart-to-do-List/internal/httpmw"
	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
	"github.com/tanmaystar-512/Smart-to-do-List/internal/task"
	"github.com/tanmaystar-512/Smart-to-do-List/internal/telemetry"
	staticfiles "github.com/tanmaystar-512/Smart-to-do-List/static"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger
	Store  task.Store
	Events telemetry.Repository
}

// NewHandler assembles the full HTTP surface: the embedded widget at /,
// the JSON API under /api/, and healthz, wrapped in the middleware chain.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.Config.Server.UseDiskStatic {
		dir := opts.Config.Server.StaticDir
		if strings.TrimSpace(dir) == "" {
			dir = "static"
		}
		staticHandler = http.FileServer(http.Dir(dir))
	}
	mux.Handle("/", staticHandler)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "smarttodo",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	taskHandler := task.NewHandler(opts.Store)
	taskHandler.SetEvents(opts.Events)
	mux.HandleFunc("/api/tasks", taskHandler.Tasks)
	mux.HandleFunc("/api/tasks/update", taskHandler.Update)
	mux.HandleFunc("/api/tasks/delete", taskHandler.Delete)
	mux.HandleFunc("/api/tasks/complete", taskHandler.Complete)
	mux.HandleFunc("/api/tasks/subtasks/add", taskHandler.AddSubtask)
	mux.HandleFunc("/api/tasks/subtasks/toggle", taskHandler.ToggleSubtask)
	mux.HandleFunc("/api/tasks/duesoon", taskHandler.DueSoon)
	mux.HandleFunc("/api/tasks/ics", taskHandler.CalendarICS)
	mux.HandleFunc("/api/stats", taskHandler.Stats)
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, model.Categories())
	})

	if opts.Events != nil {
		recordLoadRolls(opts.Store, opts.Events)
		mux.HandleFunc("/api/telemetry/stats", telemetryStatsHandler(opts.Events))
	}

	return httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithAccessLog(opts.Logger),
	), nil
}

// loadReporter is implemented by store drivers that run the recurrence
// pass when they open.
type loadReporter interface {
	RolledOnLoad() []model.Task
}

func recordLoadRolls(store task.Store, events telemetry.Repository) {
	r, ok := store.(loadReporter)
	if !ok {
		return
	}
	for _, t := range r.RolledOnLoad() {
		_ = events.RecordEvent(telemetry.EventRecurrenceRolled, telemetry.EventMetadata{
			"task_id": string(t.ID),
			"date":    t.Date,
		})
	}
}

func telemetryStatsHandler(events telemetry.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		since := time.Now().AddDate(0, 0, -7)
		if raw := r.URL.Query().Get("since"); raw != "" {
			parsed, err := model.ParseDate(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "since must be YYYY-MM-DD"})
				return
			}
			since = parsed
		}
		evs, err := events.GetEvents(since, nil)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
			return
		}
		stats, err := telemetry.CalculateStats(evs, since)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
