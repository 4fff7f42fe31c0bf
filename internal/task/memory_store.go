package task

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/model"
)

// MemoryStore implements Store without persistence (dev/test use).
type MemoryStore struct {
	mu    sync.RWMutex
	now   func() time.Time
	tasks []model.Task
	index map[model.TaskID]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:   time.Now,
		tasks: []model.Task{},
		index: map[model.TaskID]int{},
	}
}

func (s *MemoryStore) Create(f Fields) (model.Task, error) {
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
	s.tasks = append(s.tasks, t)
	s.index[t.ID] = len(s.tasks) - 1
	return t.Clone(), nil
}

func (s *MemoryStore) Get(id model.TaskID) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return s.tasks[i].Clone(), nil
}

func (s *MemoryStore) List() ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (s *MemoryStore) Update(id model.TaskID, f Fields) (model.Task, error) {
	if err := validateFields(&f); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	applyFields(&s.tasks[i], f)
	return s.tasks[i].Clone(), nil
}

func (s *MemoryStore) Delete(id model.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.index = make(map[model.TaskID]int, len(s.tasks))
	for j, t := range s.tasks {
		s.index[t.ID] = j
	}
	return nil
}

func (s *MemoryStore) SetCompleted(id model.TaskID, completed bool) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	s.tasks[i].Completed = completed
	return s.tasks[i].Clone(), nil
}

func (s *MemoryStore) AddSubtask(id model.TaskID, text string) (model.Task, error) {
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
	s.tasks[i].Subtasks = append(s.tasks[i].Subtasks, model.Subtask{Text: text})
	return s.tasks[i].Clone(), nil
}

func (s *MemoryStore) ToggleSubtask(id model.TaskID, index int) (model.Task, error) {
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
	return s.tasks[i].Clone(), nil
}
