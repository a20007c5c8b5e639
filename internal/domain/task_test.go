package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	task := NewTask("Buy milk", 3, "2030-01-01")

	assert.Equal(t, int64(0), task.ID, "ID should be unset until the store assigns one")
	assert.Equal(t, "Buy milk", task.Description)
	assert.Equal(t, 3, task.Priority)
	assert.Equal(t, "2030-01-01", task.DueDate)
}

func TestTask_ParseDueDate(t *testing.T) {
	tests := []struct {
		name        string
		dueDate     string
		expectError bool
		expected    time.Time
	}{
		{
			name:     "should parse valid ISO date",
			dueDate:  "2030-06-15",
			expected: time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "should fail on wrong layout",
			dueDate:     "15/06/2030",
			expectError: true,
		},
		{
			name:        "should fail on impossible calendar date",
			dueDate:     "2030-02-31",
			expectError: true,
		},
		{
			name:        "should fail on empty date",
			dueDate:     "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{ID: 1, Description: "Test", Priority: 1, DueDate: tt.dueDate}

			due, err := task.ParseDueDate()

			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, due.Equal(tt.expected))
			}
		})
	}
}

func TestTask_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		task  Task
		valid bool
	}{
		{
			name:  "should be valid with all fields set",
			task:  Task{ID: 1, Description: "Pay rent", Priority: 5, DueDate: "2030-02-01"},
			valid: true,
		},
		{
			name:  "should be invalid with empty description",
			task:  Task{ID: 1, Description: "", Priority: 3, DueDate: "2030-02-01"},
			valid: false,
		},
		{
			name:  "should be invalid with priority above range",
			task:  Task{ID: 1, Description: "Pay rent", Priority: 6, DueDate: "2030-02-01"},
			valid: false,
		},
		{
			name:  "should be invalid with priority below range",
			task:  Task{ID: 1, Description: "Pay rent", Priority: 0, DueDate: "2030-02-01"},
			valid: false,
		},
		{
			name:  "should be invalid with malformed due date",
			task:  Task{ID: 1, Description: "Pay rent", Priority: 3, DueDate: "soon"},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.task.IsValid())
		})
	}
}
