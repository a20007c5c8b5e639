// Package store holds the in-memory task collection. It is the single
// source of truth for live tasks: it assigns identifiers, owns insertion
// order, and guards the collection against concurrent mutation from
// background persistence units.
package store

import (
	"sync"

	"taskman/internal/domain"
	"taskman/internal/logging"
)

// TaskStore owns the live task collection. Identifiers start at 1 and are
// strictly increasing; a deleted id is never reissued. All methods are safe
// for concurrent use, but callers get no snapshot isolation across calls:
// a save that races an add may see either state.
type TaskStore struct {
	mu     sync.Mutex
	tasks  []*domain.Task
	nextID int64
}

// New creates an empty TaskStore. The identifier counter is scoped to this
// instance; separate stores do not share state.
func New() *TaskStore {
	return &TaskStore{
		tasks:  make([]*domain.Task, 0),
		nextID: 1,
	}
}

// Add constructs a task with the next available identifier, appends it to
// the collection, and returns it. The store performs no validation; callers
// validate input before invoking Add.
func (s *TaskStore) Add(description string, priority int, dueDate string) *domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &domain.Task{
		ID:          s.nextID,
		Description: description,
		Priority:    priority,
		DueDate:     dueDate,
	}
	s.tasks = append(s.tasks, task)
	s.nextID++
	return task
}

// Delete removes the task with the given identifier and reports whether a
// task was found. A missing id is not an error.
func (s *TaskStore) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, task := range s.tasks {
		if task.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// All returns a snapshot of the live tasks in insertion order. The snapshot
// is taken under the lock, so it is never structurally torn, but it does not
// refresh after subsequent adds or deletes.
func (s *TaskStore) All() []*domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]*domain.Task, len(s.tasks))
	copy(snapshot, s.tasks)
	return snapshot
}

// Len returns the number of live tasks.
func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// IsEmpty reports whether the store has no live tasks.
func (s *TaskStore) IsEmpty() bool {
	return s.Len() == 0
}

// AddFunc is the signature of the store's Add operation, used by decorators.
type AddFunc func(description string, priority int, dueDate string) *domain.Task

// LoggedAdd wraps the store's Add operation with call logging. The suppress
// flag is fixed at wrap time; when set, calls pass through silently. Logging
// goes to the debug sink and is explicitly opted into by the caller.
func LoggedAdd(s *TaskStore, suppress bool) AddFunc {
	return func(description string, priority int, dueDate string) *domain.Task {
		if !suppress {
			logging.Debugf("calling Add with description=%q priority=%d dueDate=%q\n", description, priority, dueDate)
		}
		return s.Add(description, priority, dueDate)
	}
}
