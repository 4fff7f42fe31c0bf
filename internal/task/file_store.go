package task

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
)

const snapshotFile = "tasks.json"

// FileStore is the canonical Store: the full task sequence serialized as
// a single JSON array, rewritten on every mutation. Insertion order is
// the array order; display order is always derived by the query engine.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	logger *log.Logger
	now    func() time.Time

	tasks  []model.Task
	index  map[model.TaskID]int
	rolled []model.Task
}

func NewFileStore(dataDir string, logger *log.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &FileStore{
		path:   filepath.Join(dataDir, snapshotFile),
		logger: logger,
		now:    time.Now,
		tasks:  []model.Task{},
		index:  map[model.TaskID]int{},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the snapshot, repairs legacy fields, then runs the
// recurrence pass exactly once before any query is served. A malformed
// snapshot is treated as an empty store rather than a fatal error.
func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var loaded []model.Task
	if err := json.Unmarshal(b, &loaded); err != nil {
		s.logger.Printf("discarding malformed snapshot %s: %v", s.path, err)
		s.tasks = []model.Task{}
		s.index = map[model.TaskID]int{}
		return nil
	}

	for i := range loaded {
		loaded[i].Normalize()
	}
	s.tasks = loaded
	s.reindexLocked()

	if s.rolled = RollAll(s.tasks, s.now()); len(s.rolled) > 0 {
		return s.saveLocked()
	}
	return nil
}

// RolledOnLoad returns the tasks the load-time recurrence pass
// reactivated, so callers can log or record them.
func (s *FileStore) RolledOnLoad() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, 0, len(s.rolled))
	for _, t := range s.rolled {
		out = append(out, t.Clone())
	}
	return out
}

func (s *FileStore) reindexLocked() {
	s.index = make(map[model.TaskID]int, len(s.tasks))
	for i, t := range s.tasks {
		s.index[t.ID] = i
	}
}

func (s *FileStore) saveLocked() error {
	b, err := json.MarshalIndent(s.tasks, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *FileStore) Create(f Fields) (model.Task, error) {
	if err := validateFields(&f); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := model.Task{
		ID:        model.TaskID(uuid.NewString()),
		Completed: false,
		Subtasks:  []model.Subtask{},
		CreatedAt: s.now(),
	}
	applyFields(&t, f)

	s.tasks = append(s.tasks, t)
	s.index[t.ID] = len(s.tasks) - 1
	if err := s.saveLocked(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		delete(s.index, t.ID)
		return model.Task{}, err
	}
	return t.Clone(), nil
}

func (s *FileStore) Get(id model.TaskID) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return s.tasks[i].Clone(), nil
}

func (s *FileStore) List() ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (s *FileStore) Update(id model.TaskID, f Fields) (model.Task, error) {
	if err := validateFields(&f); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	prev := s.tasks[i]
	applyFields(&s.tasks[i], f)
	if err := s.saveLocked(); err != nil {
		s.tasks[i] = prev
		return model.Task{}, err
	}
	return s.tasks[i].Clone(), nil
}

// Delete removes the task if present; deleting an unknown id is a no-op,
// not an error.
func (s *FileStore) Delete(id model.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil
	}

	next := make([]model.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)

	prevTasks, prevIndex := s.tasks, s.index
	s.tasks = next
	s.reindexLocked()
	if err := s.saveLocked(); err != nil {
		s.tasks, s.index = prevTasks, prevIndex
		return err
	}
	return nil
}

func (s *FileStore) SetCompleted(id model.TaskID, completed bool) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	prev := s.tasks[i].Completed
	s.tasks[i].Completed = completed
	if err := s.saveLocked(); err != nil {
		s.tasks[i].Completed = prev
		return model.Task{}, err
	}
	return s.tasks[i].Clone(), nil
}

func (s *FileStore) AddSubtask(id model.TaskID, text string) (model.Task, error) {
	text, err := validateSubtaskText(text)
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	n := len(s.tasks[i].Subtasks)
	s.tasks[i].Subtasks = append(s.tasks[i].Subtasks, model.Subtask{Text: text})
	if err := s.saveLocked(); err != nil {
		s.tasks[i].Subtasks = s.tasks[i].Subtasks[:n]
		return model.Task{}, err
	}
	return s.tasks[i].Clone(), nil
}

func (s *FileStore) ToggleSubtask(id model.TaskID, index int) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	if index < 0 || index >= len(s.tasks[i].Subtasks) {
		return model.Task{}, fmt.Errorf("%w: subtask index %d", ErrNotFound, index)
	}
	s.tasks[i].Subtasks[index].Completed = !s.tasks[i].Subtasks[index].Completed
	if err := s.saveLocked(); err != nil {
		s.tasks[i].Subtasks[index].Completed = !s.tasks[i].Subtasks[index].Completed
		return model.Task{}, err
	}
	return s.tasks[i].Clone(), nil
}

func validateSubtaskText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: subtask text", ErrValidation)
	}
	return text, nil
}
