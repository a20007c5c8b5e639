package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskman/internal/api"
	"taskman/internal/errors"
	"taskman/internal/store"
	"taskman/internal/validation"
)

// App drives the interactive menu loop. Input and output are injected so
// the loop can be scripted in tests.
type App struct {
	api       api.API
	validator *validation.TaskValidator
	in        *bufio.Reader
	out       io.Writer
	filePath  string
	clearFunc func(io.Writer)
}

// NewApp creates an interactive shell over the given API.
func NewApp(apiInstance api.API, filePath string, in io.Reader, out io.Writer) *App {
	return &App{
		api:       apiInstance,
		validator: validation.NewTaskValidator(),
		in:        bufio.NewReader(in),
		out:       out,
		filePath:  filePath,
		clearFunc: clearScreen,
	}
}

// Run executes the interactive menu loop until the user exits. Tasks are
// loaded in the background at startup; in-flight persistence is drained
// before returning so an exit does not cut off a save mid-write.
func (a *App) Run() error {
	a.api.LoadTasksAsync(a.filePath)

	for {
		a.clearFunc(a.out)
		a.printMenu()

		choice, err := a.promptChoice()
		if err != nil {
			if err == io.EOF {
				a.api.Flush()
				return nil
			}
			return err
		}

		switch choice {
		case 1:
			a.addTask()
		case 2:
			a.deleteTask()
		case 3:
			a.displayTasks()
		case 4:
			a.sortTasks()
		case 5:
			a.api.SaveTasksAsync(a.filePath)
		case 6:
			a.api.Flush()
			return nil
		}
	}
}

func (a *App) printMenu() {
	fmt.Fprintln(a.out, "Welcome to the Task Manager!")
	fmt.Fprintln(a.out, "Choose an option:")
	fmt.Fprintln(a.out, "1. Add Task")
	fmt.Fprintln(a.out, "2. Delete Task")
	fmt.Fprintln(a.out, "3. Display Tasks")
	fmt.Fprintln(a.out, "4. Sort Tasks")
	fmt.Fprintln(a.out, "5. Save Tasks to File")
	fmt.Fprintln(a.out, "6. Exit")
}

// promptChoice re-prompts until the user enters a menu number.
func (a *App) promptChoice() (int, error) {
	for {
		input, err := a.prompt("Enter your choice: ")
		if err != nil {
			return 0, err
		}
		choice, convErr := strconv.Atoi(input)
		if convErr == nil && choice >= 1 && choice <= 6 {
			return choice, nil
		}
		fmt.Fprintln(a.out, "Invalid input. Please try again.")
	}
}

// addTask prompts for each field, re-prompting in place on validation
// faults, then adds the task.
func (a *App) addTask() {
	description, err := a.promptValid("Enter task description: ",
		"Task description must contain at least one alphabetic character and no commas.",
		func(s string) error { return a.validator.ValidateDescription(s) })
	if err != nil {
		return
	}

	priorityText, err := a.promptValid("Enter task priority (1-5): ",
		"Priority must be a whole number between 1 and 5.",
		func(s string) error {
			p, convErr := strconv.Atoi(s)
			if convErr != nil {
				return convErr
			}
			return a.validator.ValidatePriority(p)
		})
	if err != nil {
		return
	}
	priority, _ := strconv.Atoi(priorityText)

	dueDate, err := a.promptValid("Enter due date (YYYY-MM-DD): ",
		"Invalid date format or past date. Please enter a valid future date in YYYY-MM-DD format.",
		func(s string) error { return a.validator.ValidateDueDate(s) })
	if err != nil {
		return
	}

	if _, err := a.api.AddTask(description, priority, dueDate); err != nil {
		fmt.Fprintln(a.out, errors.GetUserMessage(err))
		return
	}
	fmt.Fprintln(a.out, "Task added successfully!")
	a.pause()
}

func (a *App) deleteTask() {
	input, err := a.prompt("Enter task ID to delete: ")
	if err != nil {
		return
	}
	id, convErr := strconv.ParseInt(input, 10, 64)
	if convErr != nil {
		fmt.Fprintln(a.out, "Task ID must be a number.")
		a.pause()
		return
	}

	removed, err := a.api.DeleteTask(id)
	if err != nil {
		fmt.Fprintln(a.out, errors.GetUserMessage(err))
	} else if removed {
		fmt.Fprintln(a.out, "Task deleted successfully!")
	} else {
		fmt.Fprintln(a.out, "Task not found.")
	}
	a.pause()
}

func (a *App) displayTasks() {
	tasks := a.api.ListTasks()
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks to display.")
	} else {
		renderTasks(a.out, "Tasks", tasks)
	}
	a.pause()
}

func (a *App) sortTasks() {
	input, err := a.promptValid("Sort tasks by (priority/due_date): ",
		"Sort option must be 'priority' or 'due_date'.",
		func(s string) error {
			_, parseErr := store.ParseCriterion(s)
			return parseErr
		})
	if err != nil {
		return
	}
	criterion, _ := store.ParseCriterion(input)

	sorted, err := a.api.SortTasks(criterion)
	if err != nil {
		fmt.Fprintln(a.out, errors.GetUserMessage(err))
		a.pause()
		return
	}
	if len(sorted) == 0 {
		fmt.Fprintln(a.out, "No tasks to display.")
	} else {
		renderTasks(a.out, "Sorted Tasks", sorted)
	}
	a.pause()
}

// prompt writes the prompt and reads one trimmed line.
func (a *App) prompt(text string) (string, error) {
	fmt.Fprint(a.out, text)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptValid re-prompts until validate accepts the input.
func (a *App) promptValid(text, retryMessage string, validate func(string) error) (string, error) {
	for {
		input, err := a.prompt(text)
		if err != nil {
			return "", err
		}
		if validate(input) == nil {
			return input, nil
		}
		fmt.Fprintln(a.out, retryMessage)
	}
}

func (a *App) pause() {
	fmt.Fprint(a.out, "Press Enter to continue...")
	_, _ = a.in.ReadString('\n')
}

// clearScreen clears the terminal with ANSI escapes.
func clearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[2J\033[H")
}
