package validation

import (
	"strings"
	"time"
	"unicode"

	"taskman/internal/domain"
)

// Validator provides common validation utilities. The clock is injectable
// so that "not in the past" checks are deterministic in tests.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		now: time.Now,
	}
}

// NewValidatorWithClock creates a new validator with a custom clock
func NewValidatorWithClock(now func() time.Time) *Validator {
	return &Validator{
		now: now,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ContainsAlphabetic checks if a string contains at least one alphabetic rune
func (v *Validator) ContainsAlphabetic(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// ContainsFieldDelimiter checks if a string contains the comma used as the
// field separator in the persisted file format. Descriptions with embedded
// commas cannot be round-tripped through the unescaped flat format.
func (v *Validator) ContainsFieldDelimiter(s string) bool {
	return strings.Contains(s, ",")
}

// IsValidPriority checks if a priority is within the allowed 1-5 range
func (v *Validator) IsValidPriority(priority int) bool {
	return priority >= 1 && priority <= 5
}

// IsValidTaskID checks if a task ID is valid (positive)
func (v *Validator) IsValidTaskID(id int64) bool {
	return id > 0
}

// ParseDueDate parses a due date string against the ISO calendar layout
func (v *Validator) ParseDueDate(dueDate string) (time.Time, bool) {
	due, err := time.Parse(domain.DueDateLayout, dueDate)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// IsFutureOrToday checks if a date is not earlier than the current date
func (v *Validator) IsFutureOrToday(due time.Time) bool {
	today := v.today()
	return !due.Before(today)
}

// TrimString trims whitespace and returns the cleaned string
func (v *Validator) TrimString(s string) string {
	return strings.TrimSpace(s)
}

// today returns the current calendar date truncated to midnight
func (v *Validator) today() time.Time {
	now := v.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
