package store

import (
	"sort"
	"time"

	"taskman/internal/domain"
	"taskman/internal/errors"
)

// Criterion selects the ordering key for a sort view.
type Criterion string

const (
	ByPriority Criterion = "priority"
	ByDueDate  Criterion = "due_date"
)

// ParseCriterion converts user input into a sort criterion.
func ParseCriterion(s string) (Criterion, error) {
	switch Criterion(s) {
	case ByPriority:
		return ByPriority, nil
	case ByDueDate:
		return ByDueDate, nil
	default:
		return "", errors.NewInvalidInputError("sort_criterion", s, "must be 'priority' or 'due_date'")
	}
}

// SortBy computes an ordered view of the given tasks without mutating the
// input. Priority sorts descending (5 first), due dates sort ascending
// (earliest first); both sorts are stable, so ties keep the relative order
// of the input sequence. The result is a fresh slice and does not track
// later changes to the store.
//
// A due date that fails to parse aborts the sort: due dates are validated
// at creation time, so an unparsable one means the collection is corrupted.
func SortBy(criterion Criterion, tasks []*domain.Task) ([]*domain.Task, error) {
	view := make([]*domain.Task, len(tasks))
	copy(view, tasks)

	switch criterion {
	case ByPriority:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Priority > view[j].Priority
		})
		return view, nil

	case ByDueDate:
		type datedTask struct {
			task *domain.Task
			due  time.Time
		}
		dated := make([]datedTask, len(view))
		for i, task := range view {
			due, err := task.ParseDueDate()
			if err != nil {
				return nil, errors.WrapError(err, errors.ErrorTypeMalformedRecord, "cannot sort by due date")
			}
			dated[i] = datedTask{task: task, due: due}
		}
		sort.SliceStable(dated, func(i, j int) bool {
			return dated[i].due.Before(dated[j].due)
		})
		for i, dt := range dated {
			view[i] = dt.task
		}
		return view, nil

	default:
		return nil, errors.NewInvalidInputError("sort_criterion", string(criterion), "unknown criterion")
	}
}
