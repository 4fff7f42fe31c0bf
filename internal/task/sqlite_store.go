package task

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
)

// SQLiteStore is an alternate Store driver backed by a local SQLite
// database. It keeps the same contract as FileStore: synchronous,
// durable after every mutation, recurrence pass at open.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	now    func() time.Time
	rolled []model.Task
}

func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.rollRecurring(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	date TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT 'Other',
	priority TEXT NOT NULL DEFAULT 'Medium',
	recurring TEXT NOT NULL DEFAULT 'none',
	completed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS subtasks (
	task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	text TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (task_id, position)
);`
	_, err := s.db.Exec(ddl)
	return err
}

// rollRecurring runs the load-time recurrence pass over the whole table.
func (s *SQLiteStore) rollRecurring() error {
	tasks, err := s.List()
	if err != nil {
		return err
	}
	now := s.now()
	for _, t := range tasks {
		rolled, ok := Roll(t, now)
		if !ok {
			continue
		}
		if _, err := s.db.Exec(
			`UPDATE tasks SET date = ?, completed = 0 WHERE id = ?`,
			rolled.Date, string(rolled.ID),
		); err != nil {
			return fmt.Errorf("roll recurring task %s: %w", t.ID, err)
		}
		s.rolled = append(s.rolled, rolled)
	}
	return nil
}

// RolledOnLoad returns the tasks the open-time recurrence pass
// reactivated, so callers can log or record them.
func (s *SQLiteStore) RolledOnLoad() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Task, 0, len(s.rolled))
	for _, t := range s.rolled {
		out = append(out, t.Clone())
	}
	return out
}

func (s *SQLiteStore) Create(f Fields) (model.Task, error) {
	if err := validateFields(&f); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := model.Task{
		ID:        model.TaskID(uuid.NewString()),
		Subtasks:  []model.Subtask{},
		CreatedAt: s.now(),
	}
	applyFields(&t, f)

	_, err := s.db.Exec(
		`INSERT INTO tasks (id, title, date, description, category, priority, recurring, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		string(t.ID), t.Title, t.Date, t.Description, string(t.Category),
		string(t.Priority), string(t.Recurring), t.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) Get(id model.TaskID) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

func (s *SQLiteStore) getLocked(id model.TaskID) (model.Task, error) {
	row := s.db.QueryRow(
		`SELECT id, title, date, description, category, priority, recurring, completed, created_at
		 FROM tasks WHERE id = ?`, string(id))
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	if t.Subtasks, err = s.subtasksLocked(id); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (s *SQLiteStore) List() ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, title, date, description, category, priority, recurring, completed, created_at
		 FROM tasks ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	for i := range out {
		if out[i].Subtasks, err = s.subtasksLocked(out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLiteStore) Update(id model.TaskID, f Fields) (model.Task, error) {
	if err := validateFields(&f); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`UPDATE tasks SET title = ?, date = ?, description = ?, category = ?, priority = ?, recurring = ?
		 WHERE id = ?`,
		f.Title, f.Date, f.Description, string(f.Category), string(f.Priority), string(f.Recurring), string(id),
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Task{}, ErrNotFound
	}
	return s.getLocked(id)
}

func (s *SQLiteStore) Delete(id model.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM subtasks WHERE task_id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete subtasks: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetCompleted(id model.TaskID, completed bool) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE tasks SET completed = ? WHERE id = ?`, boolToInt(completed), string(id))
	if err != nil {
		return model.Task{}, fmt.Errorf("set completed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Task{}, ErrNotFound
	}
	return s.getLocked(id)
}

func (s *SQLiteStore) AddSubtask(id model.TaskID, text string) (model.Task, error) {
	text, err := validateSubtaskText(text)
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getLocked(id); err != nil {
		return model.Task{}, err
	}

	var next int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM subtasks WHERE task_id = ?`, string(id)).Scan(&next); err != nil {
		return model.Task{}, fmt.Errorf("add subtask: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO subtasks (task_id, position, text, completed) VALUES (?, ?, ?, 0)`,
		string(id), next, text,
	); err != nil {
		return model.Task{}, fmt.Errorf("add subtask: %w", err)
	}
	return s.getLocked(id)
}

func (s *SQLiteStore) ToggleSubtask(id model.TaskID, index int) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getLocked(id); err != nil {
		return model.Task{}, err
	}

	res, err := s.db.Exec(
		`UPDATE subtasks SET completed = 1 - completed WHERE task_id = ? AND position = ?`,
		string(id), index,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("toggle subtask: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Task{}, fmt.Errorf("%w: subtask index %d", ErrNotFound, index)
	}
	return s.getLocked(id)
}

func (s *SQLiteStore) subtasksLocked(id model.TaskID) ([]model.Subtask, error) {
	rows, err := s.db.Query(
		`SELECT text, completed FROM subtasks WHERE task_id = ? ORDER BY position`, string(id))
	if err != nil {
		return nil, fmt.Errorf("load subtasks: %w", err)
	}
	defer rows.Close()

	out := []model.Subtask{}
	for rows.Next() {
		var st model.Subtask
		var completed int
		if err := rows.Scan(&st.Text, &completed); err != nil {
			return nil, fmt.Errorf("load subtasks: %w", err)
		}
		st.Completed = completed == 1
		out = append(out, st)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var t model.Task
	var id, category, priority, recurring, createdAt string
	var completed int
	err := row.Scan(&id, &t.Title, &t.Date, &t.Description, &category, &priority, &recurring, &completed, &createdAt)
	if err != nil {
		return model.Task{}, err
	}
	t.ID = model.TaskID(id)
	t.Category = model.Category(category)
	t.Priority = model.Priority(priority)
	t.Recurring = model.Recurrence(recurring)
	t.Completed = completed == 1
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		t.CreatedAt = ts
	}
	t.Normalize()
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
