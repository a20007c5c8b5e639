package domain

import (
	"fmt"
	"time"
)

// DueDateLayout is the ISO calendar-date layout used for storing and
// comparing due dates.
const DueDateLayout = "2006-01-02"

// Task represents a single to-do item in the domain model.
// Tasks are immutable once created; there is no edit operation.
type Task struct {
	ID          int64
	Description string
	Priority    int
	DueDate     string
}

// NewTask creates a new Task with the given fields. The ID is assigned
// later by the store.
func NewTask(description string, priority int, dueDate string) Task {
	return Task{
		Description: description,
		Priority:    priority,
		DueDate:     dueDate,
	}
}

// ParseDueDate parses the task's due date into a calendar date.
// Due dates are validated at creation time, so a parse failure here
// indicates corrupted task data.
func (t Task) ParseDueDate() (time.Time, error) {
	due, err := time.Parse(DueDateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("task %d has malformed due date %q: %w", t.ID, t.DueDate, err)
	}
	return due, nil
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	if t.Description == "" || t.Priority < 1 || t.Priority > 5 {
		return false
	}
	_, err := time.Parse(DueDateLayout, t.DueDate)
	return err == nil
}

// String returns a short display form of the task.
func (t Task) String() string {
	return fmt.Sprintf("%d: %s (priority %d, due %s)", t.ID, t.Description, t.Priority, t.DueDate)
}
