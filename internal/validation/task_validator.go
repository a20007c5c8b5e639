package validation

import (
	"time"

	"taskman/internal/domain"
)

// TaskValidator provides validation for task input before it reaches the
// store. The store itself performs no validation.
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithClock creates a task validator with a custom clock
func NewTaskValidatorWithClock(now func() time.Time) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithClock(now),
	}
}

// ValidateDescription validates a task description: it must be non-empty,
// contain at least one alphabetic character, and must not contain the comma
// field delimiter of the persisted format.
func (tv *TaskValidator) ValidateDescription(description string) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimString(description)

	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("description")
		return validationError
	}

	if !tv.validator.ContainsAlphabetic(trimmed) {
		validationError.AddInvalidValueError("description", trimmed, "must contain at least one alphabetic character")
	}

	if tv.validator.ContainsFieldDelimiter(trimmed) {
		validationError.AddInvalidValueError("description", trimmed, "must not contain commas")
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// ValidatePriority validates that a priority is an integer in the 1-5 range
func (tv *TaskValidator) ValidatePriority(priority int) error {
	if !tv.validator.IsValidPriority(priority) {
		validationError := NewValidationError()
		validationError.AddInvalidRangeError("priority", priority, "must be between 1 and 5")
		return validationError
	}
	return nil
}

// ValidateDueDate validates that a due date is a real calendar date in
// YYYY-MM-DD form and is not earlier than the current date
func (tv *TaskValidator) ValidateDueDate(dueDate string) error {
	validationError := NewValidationError()

	due, ok := tv.validator.ParseDueDate(dueDate)
	if !ok {
		validationError.AddInvalidFormatError("due_date", dueDate, domain.DueDateLayout)
		return validationError
	}

	if !tv.validator.IsFutureOrToday(due) {
		validationError.AddInvalidValueError("due_date", dueDate, "must not be in the past")
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidTaskID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("task_id", id, "must be a positive integer")
		return validationError
	}
	return nil
}

// ValidateNewTask validates all fields of a task before creation, collecting
// every field error in one pass
func (tv *TaskValidator) ValidateNewTask(description string, priority int, dueDate string) error {
	validationError := NewValidationError()

	for _, err := range []error{
		tv.ValidateDescription(description),
		tv.ValidatePriority(priority),
		tv.ValidateDueDate(dueDate),
	} {
		if err == nil {
			continue
		}
		if fieldErrs, ok := err.(*ValidationError); ok {
			validationError.Errors = append(validationError.Errors, fieldErrs.Errors...)
		}
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// GetValidDescription returns a cleaned description if valid
func (tv *TaskValidator) GetValidDescription(description string) (string, error) {
	if err := tv.ValidateDescription(description); err != nil {
		return "", err
	}
	return tv.validator.TrimString(description), nil
}
