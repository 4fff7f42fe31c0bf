package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
	"github.com/tanmaystar-512/Smart-to-do-List/internal/telemetry"
)

// Handler exposes the store over a JSON API. The web widget is a pure
// consumer: it never mutates task state except through these routes.
type Handler struct {
	store  Store
	events telemetry.Repository
	now    func() time.Time
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

// SetEvents wires the telemetry event log; nil disables recording.
func (h *Handler) SetEvents(events telemetry.Repository) {
	h.events = events
}

// SetClock overrides the handler clock (tests).
func (h *Handler) SetClock(now func() time.Time) {
	h.now = now
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// writeStoreErr maps store sentinel errors onto HTTP status codes.
func writeStoreErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) record(t telemetry.EventType, meta telemetry.EventMetadata) {
	if h.events == nil {
		return
	}
	_ = h.events.RecordEvent(t, meta)
}

// Tasks handles GET /api/tasks (filtered, sorted view) and
// POST /api/tasks (create).
func (h *Handler) Tasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.List()
	if err != nil {
		writeStoreErr(w, err)
		return
	}

	qp := r.URL.Query()
	q := Query{
		Search:   qp.Get("q"),
		Status:   StatusFilter(qp.Get("status")),
		Category: qp.Get("category"),
		Sort:     SortKey(qp.Get("sort")),
	}
	writeJSON(w, http.StatusOK, Apply(tasks, q, h.now()))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var f Fields
	if err := decodeJSON(r, &f); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	t, err := h.store.Create(f)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	h.record(telemetry.EventTaskCreated, telemetry.EventMetadata{"task_id": string(t.ID), "category": string(t.Category)})
	writeJSON(w, http.StatusCreated, t)
}

type idRequest struct {
	ID model.TaskID `json:"id"`
}

// Update handles POST /api/tasks/update.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		ID model.TaskID `json:"id"`
		Fields
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	t, err := h.store.Update(req.ID, req.Fields)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Delete handles POST /api/tasks/delete. Deleting an unknown id
// succeeds; the store treats it as a no-op.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req idRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.store.Delete(req.ID); err != nil {
		writeStoreErr(w, err)
		return
	}
	h.record(telemetry.EventTaskDeleted, telemetry.EventMetadata{"task_id": string(req.ID)})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Complete handles POST /api/tasks/complete.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		ID        model.TaskID `json:"id"`
		Completed bool         `json:"completed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	t, err := h.store.SetCompleted(req.ID, req.Completed)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if t.Completed {
		h.record(telemetry.EventTaskCompleted, telemetry.EventMetadata{"task_id": string(t.ID)})
	}
	writeJSON(w, http.StatusOK, t)
}

// AddSubtask handles POST /api/tasks/subtasks/add.
func (h *Handler) AddSubtask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		ID   model.TaskID `json:"id"`
		Text string       `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	t, err := h.store.AddSubtask(req.ID, req.Text)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	h.record(telemetry.EventSubtaskAdded, telemetry.EventMetadata{"task_id": string(t.ID)})
	writeJSON(w, http.StatusOK, t)
}

// ToggleSubtask handles POST /api/tasks/subtasks/toggle.
func (h *Handler) ToggleSubtask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		ID    model.TaskID `json:"id"`
		Index int          `json:"index"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	t, err := h.store.ToggleSubtask(req.ID, req.Index)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DueSoon handles GET /api/tasks/duesoon?within=24.
func (h *Handler) DueSoon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	within := 24
	if raw := r.URL.Query().Get("within"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeErr(w, http.StatusBadRequest, "within must be a non-negative integer")
			return
		}
		within = v
	}
	tasks, err := h.store.List()
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DueSoon(tasks, h.now(), within))
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	tasks, err := h.store.List()
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CalcStats(tasks))
}

// CalendarICS handles GET /api/tasks/ics?id=<taskID>.
func (h *Handler) CalendarICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := model.TaskID(r.URL.Query().Get("id"))
	t, err := h.store.Get(id)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	ics, err := BuildTaskCalendarICS(t, h.now())
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="task.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ics))
}
