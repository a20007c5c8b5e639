package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskman/internal/api"
	"taskman/internal/storage"
	"taskman/internal/store"
)

// syncBuffer is a bytes.Buffer safe for the menu loop and background
// notification goroutines to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// setupApp wires a full shell over a temp task file and scripted input.
func setupApp(t *testing.T, input string) (*App, api.API, string, *syncBuffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.txt")
	out := &syncBuffer{}

	taskStore := store.New()
	service := storage.NewService()
	async := storage.NewAsync(service, taskStore, notificationPrinter(out), 0)
	apiInstance := api.New(taskStore, service, async, false)

	app := NewApp(apiInstance, path, strings.NewReader(input), out)
	app.clearFunc = func(io.Writer) {}
	return app, apiInstance, path, out
}

func TestApp_ExitImmediately(t *testing.T) {
	app, _, _, out := setupApp(t, "6\n")

	err := app.Run()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Welcome to the Task Manager!")
}

func TestApp_AddTaskFlow(t *testing.T) {
	input := "1\nBuy milk\n3\n2030-01-01\n\n6\n"
	app, apiInstance, _, out := setupApp(t, input)

	err := app.Run()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Task added successfully!")

	tasks := apiInstance.ListTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Description)
	assert.Equal(t, 3, tasks[0].Priority)
	assert.Equal(t, "2030-01-01", tasks[0].DueDate)
}

func TestApp_AddTaskRepromptsOnInvalidInput(t *testing.T) {
	// Bad description, bad priority, and bad date each force a re-prompt
	input := "1\n12345\nBuy milk\nnine\n3\nyesterday\n2030-01-01\n\n6\n"
	app, apiInstance, _, out := setupApp(t, input)

	err := app.Run()

	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "alphabetic character")
	assert.Contains(t, output, "between 1 and 5")
	assert.Contains(t, output, "YYYY-MM-DD")
	assert.Len(t, apiInstance.ListTasks(), 1)
}

func TestApp_DeleteTaskFlow(t *testing.T) {
	app, apiInstance, _, out := setupApp(t, "2\n1\n\n6\n")
	_, err := apiInstance.AddTask("Buy milk", 3, "2030-01-01")
	require.NoError(t, err)

	err = app.Run()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Task deleted successfully!")
	assert.True(t, apiInstance.IsEmpty())
}

func TestApp_DeleteUnknownTask(t *testing.T) {
	app, _, _, out := setupApp(t, "2\n42\n\n6\n")

	err := app.Run()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Task not found.")
}

func TestApp_DisplayWithNoTasks(t *testing.T) {
	app, _, _, out := setupApp(t, "3\n\n6\n")

	err := app.Run()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "No tasks to display.")
}

func TestApp_DisplayTasks(t *testing.T) {
	app, apiInstance, _, out := setupApp(t, "3\n\n6\n")
	_, err := apiInstance.AddTask("Buy milk", 3, "2030-01-01")
	require.NoError(t, err)

	err = app.Run()

	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "Tasks:")
	assert.Contains(t, output, "Buy milk")
	assert.Contains(t, output, "2030-01-01")
}

func TestApp_SortTasksFlow(t *testing.T) {
	app, apiInstance, _, out := setupApp(t, "4\npriority\n\n6\n")
	_, err := apiInstance.AddTask("Low", 1, "2030-01-01")
	require.NoError(t, err)
	_, err = apiInstance.AddTask("High", 5, "2030-02-01")
	require.NoError(t, err)

	err = app.Run()

	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "Sorted Tasks:")
	assert.Less(t, strings.Index(output, "High"), strings.Index(output, "Low"))

	// Insertion order must survive the sort
	tasks := apiInstance.ListTasks()
	assert.Equal(t, "Low", tasks[0].Description)
}

func TestApp_SortRepromptsOnUnknownCriterion(t *testing.T) {
	app, _, _, out := setupApp(t, "4\nname\ndue_date\n\n6\n")

	err := app.Run()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Sort option must be 'priority' or 'due_date'.")
}

func TestApp_SaveWritesFileInBackground(t *testing.T) {
	app, apiInstance, path, out := setupApp(t, "5\n6\n")
	_, err := apiInstance.AddTask("Buy milk", 3, "2030-01-01")
	require.NoError(t, err)

	err = app.Run()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Tasks saved to file.")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Buy milk,3,2030-01-01\n", string(content))
}

func TestApp_LoadsExistingTasksOnStartup(t *testing.T) {
	app, apiInstance, path, _ := setupApp(t, "6\n")
	require.NoError(t, os.WriteFile(path, []byte("7,Imported,4,2030-03-01\n"), 0644))

	err := app.Run()

	require.NoError(t, err)
	tasks := apiInstance.ListTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(1), tasks[0].ID, "loaded tasks get fresh identifiers")
	assert.Equal(t, "Imported", tasks[0].Description)
}

func TestApp_InvalidMenuChoiceReprompts(t *testing.T) {
	app, _, _, out := setupApp(t, "9\nzero\n6\n")

	err := app.Run()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Invalid input. Please try again.")
}

func TestApp_EOFExitsCleanly(t *testing.T) {
	app, _, _, _ := setupApp(t, "")

	err := app.Run()

	assert.NoError(t, err)
}
