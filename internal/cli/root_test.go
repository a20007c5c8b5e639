package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskman/internal/config"
)

// runCommand executes the root command against a temp task file and returns
// the captured output and the file path.
func runCommand(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TASKMAN_STORAGE_FILE", path)

	out := &bytes.Buffer{}
	root := NewRootCommand(config.NewViper(), strings.NewReader(""), out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand_Add(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")

	output, err := runCommand(t, path, "add", "Buy milk", "--priority", "3", "--due", "2030-01-01")

	require.NoError(t, err)
	assert.Contains(t, output, "Added task 1: Buy milk")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Buy milk,3,2030-01-01\n", string(content))
}

func TestRootCommand_AddAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,Pay rent,5,2030-02-01\n"), 0644))

	output, err := runCommand(t, path, "add", "Buy milk", "-p", "3", "-d", "2030-01-01")

	require.NoError(t, err)
	assert.Contains(t, output, "Added task 2: Buy milk")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Pay rent,5,2030-02-01\n2,Buy milk,3,2030-01-01\n", string(content))
}

func TestRootCommand_AddRejectsInvalidInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "should reject numeric-only description",
			args: []string{"add", "12345", "-p", "3", "-d", "2030-01-01"},
		},
		{
			name: "should reject out-of-range priority",
			args: []string{"add", "Buy milk", "-p", "9", "-d", "2030-01-01"},
		},
		{
			name: "should reject past due date",
			args: []string{"add", "Buy milk", "-p", "3", "-d", "2000-01-01"},
		},
		{
			name: "should reject description with comma",
			args: []string{"add", "Buy milk, eggs", "-p", "3", "-d", "2030-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, path, tt.args...)

			require.Error(t, err)
			assert.NoFileExists(t, path, "failed add must not write the file")
		})
	}
}

func TestRootCommand_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,Buy milk,3,2030-01-01\n2,Pay rent,5,2030-02-01\n"), 0644))

	output, err := runCommand(t, path, "delete", "1")

	require.NoError(t, err)
	assert.Contains(t, output, "Deleted task 1")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2,Pay rent,5,2030-02-01\n", string(content), "id assigned at load is kept for the survivor")
}

func TestRootCommand_DeleteUnknownID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,Buy milk,3,2030-01-01\n"), 0644))

	output, err := runCommand(t, path, "delete", "42")

	require.NoError(t, err)
	assert.Contains(t, output, "Task not found.")

	// The file must be left untouched
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Buy milk,3,2030-01-01\n", string(content))
}

func TestRootCommand_DeleteRejectsNonNumericID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")

	_, err := runCommand(t, path, "delete", "first")

	assert.Error(t, err)
}

func TestRootCommand_List(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,Buy milk,3,2030-06-01\n2,Pay rent,5,2030-01-01\n"), 0644))

	output, err := runCommand(t, path, "list")

	require.NoError(t, err)
	assert.Contains(t, output, "Buy milk")
	assert.Contains(t, output, "Pay rent")
	assert.Less(t, strings.Index(output, "Buy milk"), strings.Index(output, "Pay rent"), "insertion order by default")
}

func TestRootCommand_ListEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")

	output, err := runCommand(t, path, "list")

	require.NoError(t, err)
	assert.Contains(t, output, "No tasks to display.")
}

func TestRootCommand_ListSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,Low,1,2030-06-01\n2,High,5,2030-01-01\n"), 0644))

	tests := []struct {
		name     string
		sortFlag string
		first    string
	}{
		{name: "should sort by priority descending", sortFlag: "priority", first: "High"},
		{name: "should sort by due date ascending", sortFlag: "due_date", first: "High"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCommand(t, path, "list", "--sort", tt.sortFlag)

			require.NoError(t, err)
			firstIdx := strings.Index(output, tt.first)
			otherIdx := strings.Index(output, "Low")
			assert.Less(t, firstIdx, otherIdx)
		})
	}
}

func TestRootCommand_ListRejectsUnknownSort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")

	_, err := runCommand(t, path, "list", "--sort", "name")

	assert.Error(t, err)
}

func TestRootCommand_ListReportsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,Buy milk,3,2030-01-01\nbad,line\n"), 0644))

	output, err := runCommand(t, path, "list")

	require.NoError(t, err)
	assert.Contains(t, output, "Error: invalid data format on line 2")
	assert.Contains(t, output, "Buy milk")
}
