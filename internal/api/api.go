// Package api is the facade between the interactive shell and the core.
// Input validation happens here, before anything reaches the store: the
// store itself trusts its callers.
package api

import (
	"taskman/internal/domain"
	"taskman/internal/errors"
	"taskman/internal/storage"
	"taskman/internal/store"
	"taskman/internal/validation"
)

// API defines the operations the shell drives.
type API interface {
	// Task operations
	AddTask(description string, priority int, dueDate string) (*domain.Task, error)
	DeleteTask(id int64) (bool, error)
	ListTasks() []*domain.Task
	SortTasks(criterion store.Criterion) ([]*domain.Task, error)
	IsEmpty() bool

	// Synchronous persistence, used by one-shot CLI commands
	SaveTasks(path string) error
	LoadTasks(path string) (*storage.LoadResult, error)

	// Background persistence, used by the interactive shell
	SaveTasksAsync(path string)
	LoadTasksAsync(path string)
	Flush()
}

type apiImpl struct {
	store     *store.TaskStore
	service   *storage.Service
	async     *storage.Async
	validator *validation.TaskValidator
	add       store.AddFunc
}

// New creates a new API instance. When verbose is set, add calls are logged
// through the debug sink; otherwise the logging wrapper is suppressed.
func New(taskStore *store.TaskStore, service *storage.Service, async *storage.Async, verbose bool) API {
	return &apiImpl{
		store:     taskStore,
		service:   service,
		async:     async,
		validator: validation.NewTaskValidator(),
		add:       store.LoggedAdd(taskStore, !verbose),
	}
}

// AddTask validates all fields and appends a new task to the store.
func (a *apiImpl) AddTask(description string, priority int, dueDate string) (*domain.Task, error) {
	if err := a.validator.ValidateNewTask(description, priority, dueDate); err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	cleaned, err := a.validator.GetValidDescription(description)
	if err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	return a.add(cleaned, priority, dueDate), nil
}

// DeleteTask removes the task with the given id. A missing id is reported
// through the boolean, not an error; only invalid input errors.
func (a *apiImpl) DeleteTask(id int64) (bool, error) {
	if err := a.validator.ValidateTaskID(id); err != nil {
		return false, errors.NewValidationError("invalid task id", err)
	}
	return a.store.Delete(id), nil
}

// ListTasks returns a snapshot of the live tasks in insertion order.
func (a *apiImpl) ListTasks() []*domain.Task {
	return a.store.All()
}

// SortTasks returns an ordered view of the current tasks. The store's own
// order is untouched.
func (a *apiImpl) SortTasks(criterion store.Criterion) ([]*domain.Task, error) {
	return store.SortBy(criterion, a.store.All())
}

// IsEmpty reports whether the store has no tasks.
func (a *apiImpl) IsEmpty() bool {
	return a.store.IsEmpty()
}

// SaveTasks writes the current tasks to path synchronously.
func (a *apiImpl) SaveTasks(path string) error {
	return a.service.Save(path, a.store.All())
}

// LoadTasks reads path synchronously and appends its records to the store
// with fresh identifiers.
func (a *apiImpl) LoadTasks(path string) (*storage.LoadResult, error) {
	return a.service.LoadInto(path, a.store)
}

// SaveTasksAsync schedules a background save and returns immediately.
func (a *apiImpl) SaveTasksAsync(path string) {
	a.async.SaveAsync(path)
}

// LoadTasksAsync schedules a background load and returns immediately.
func (a *apiImpl) LoadTasksAsync(path string) {
	a.async.LoadAsync(path)
}

// Flush waits for in-flight background persistence to finish.
func (a *apiImpl) Flush() {
	a.async.Wait()
}
