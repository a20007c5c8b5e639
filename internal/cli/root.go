package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"taskman/internal/api"
	"taskman/internal/config"
	"taskman/internal/errors"
	"taskman/internal/storage"
	"taskman/internal/store"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd *cobra.Command
	v   *viper.Viper
	cfg *config.Config
	api api.API
	in  io.Reader
	out io.Writer
}

// NewRootCommand creates the root cobra command with global flags.
// Dependencies are built in PersistentPreRunE, after flags are parsed.
func NewRootCommand(v *viper.Viper, in io.Reader, out io.Writer) *RootCommand {
	root := &RootCommand{
		v:   v,
		in:  in,
		out: out,
	}

	root.cmd = &cobra.Command{
		Use:   "taskman",
		Short: "A text-based task manager",
		Long: `Task Manager (taskman) keeps a to-do list in a plain text file.

Run without a subcommand for the interactive menu. Each task has a
description, a priority from 1 (lowest) to 5 (highest), and a due date.

EXAMPLES:
  taskman                                   # Interactive menu
  taskman add "Buy milk" -p 3 -d 2030-01-01 # Add a task
  taskman delete 2                          # Delete task 2
  taskman list                              # Show all tasks
  taskman list --sort priority              # Show tasks, highest priority first

CONFIGURATION:
  Settings resolve as: command-line flags > environment variables > defaults

  TASKMAN_STORAGE_DIR        Task file directory (default: ~/.taskman)
  TASKMAN_STORAGE_FILENAME   Task file name (default: tasks.txt)
  TASKMAN_STORAGE_FILE       Full task file path (overrides dir and name)
  TASKMAN_PERSISTENCE_SETTLE_DELAY
                             Pause before background saves report (default: 1s)
  TASKMAN_APP_VERBOSE        Log add calls (default: false)
  TASKMAN_DEBUG              Enable debug output`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.initialize()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.runInteractive()
		},
	}

	flags := root.cmd.PersistentFlags()
	flags.String("file", "", "Task file path (overrides TASKMAN_STORAGE_FILE)")
	flags.Bool("verbose", false, "Log add calls (overrides TASKMAN_APP_VERBOSE)")
	_ = v.BindPFlag("storage.file", flags.Lookup("file"))
	_ = v.BindPFlag("app.verbose", flags.Lookup("verbose"))

	root.addSubcommands()
	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// SetArgs overrides the arguments parsed by Execute, instead of os.Args.
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// initialize loads configuration and wires the store, persistence, and API.
func (r *RootCommand) initialize() error {
	cfg, err := config.Load(r.v)
	if err != nil {
		return err
	}
	r.cfg = cfg

	if err := cfg.EnsureStorageDir(); err != nil {
		return err
	}

	taskStore := store.New()
	service := storage.NewService()
	async := storage.NewAsync(service, taskStore, notificationPrinter(r.out), cfg.Persistence.SettleDelay)
	r.api = api.New(taskStore, service, async, cfg.Application.Verbose)
	return nil
}

func (r *RootCommand) runInteractive() error {
	app := NewApp(r.api, r.cfg.FilePath(), r.in, r.out)
	return app.Run()
}

// addSubcommands adds the non-interactive commands. Each one loads the task
// file synchronously, applies its change, and saves synchronously, so a
// one-shot invocation never exits with an unwritten mutation.
func (r *RootCommand) addSubcommands() {
	var priority int
	var dueDate string
	addCmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.loadExisting(); err != nil {
				return err
			}
			task, err := r.api.AddTask(args[0], priority, dueDate)
			if err != nil {
				return err
			}
			if err := r.api.SaveTasks(r.cfg.FilePath()); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Added task %d: %s\n", task.ID, task.Description)
			return nil
		},
	}
	addCmd.Flags().IntVarP(&priority, "priority", "p", 0, "Task priority, 1-5 (required)")
	addCmd.Flags().StringVarP(&dueDate, "due", "d", "", "Due date in YYYY-MM-DD form (required)")
	_ = addCmd.MarkFlagRequired("priority")
	_ = addCmd.MarkFlagRequired("due")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.NewInvalidInputError("task_id", args[0], "must be a number")
			}
			if err := r.loadExisting(); err != nil {
				return err
			}
			removed, err := r.api.DeleteTask(id)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(r.out, "Task not found.")
				return nil
			}
			if err := r.api.SaveTasks(r.cfg.FilePath()); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Deleted task %d\n", id)
			return nil
		},
	}

	var sortFlag string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.loadExisting(); err != nil {
				return err
			}
			tasks := r.api.ListTasks()
			if sortFlag != "" {
				criterion, err := store.ParseCriterion(sortFlag)
				if err != nil {
					return err
				}
				tasks, err = r.api.SortTasks(criterion)
				if err != nil {
					return err
				}
			}
			if len(tasks) == 0 {
				fmt.Fprintln(r.out, "No tasks to display.")
				return nil
			}
			renderTasks(r.out, "Tasks", tasks)
			return nil
		},
	}
	listCmd.Flags().StringVar(&sortFlag, "sort", "", "Sort by 'priority' or 'due_date'")

	r.cmd.AddCommand(addCmd, deleteCmd, listCmd)
}

// loadExisting reads the task file into the store, reporting each malformed
// line without aborting.
func (r *RootCommand) loadExisting() error {
	result, err := r.api.LoadTasks(r.cfg.FilePath())
	if err != nil {
		return err
	}
	reportLoadResult(r.out, result)
	return nil
}

// reportLoadResult prints the fresh-start notice and one message per
// malformed line.
func reportLoadResult(w io.Writer, result *storage.LoadResult) {
	if result.FreshStart {
		fmt.Fprintln(w, "Tasks file not found. Creating a new one.")
	}
	for _, m := range result.Malformed {
		fmt.Fprintf(w, "Error: invalid data format on line %d of tasks file.\n", m.Number)
	}
}

// notificationPrinter returns the sink for background persistence
// completions. Failures surface here too; nothing is dropped silently.
func notificationPrinter(w io.Writer) storage.NotifyFunc {
	return func(n storage.Notification) {
		switch {
		case n.Err != nil:
			fmt.Fprintln(w, errors.GetUserMessage(n.Err))
		case n.Op == storage.OpSave:
			fmt.Fprintln(w, "Tasks saved to file.")
		case n.FreshStart:
			fmt.Fprintln(w, "Tasks file not found. Creating a new one.")
		default:
			for _, m := range n.Malformed {
				fmt.Fprintf(w, "Error: invalid data format on line %d of tasks file.\n", m.Number)
			}
		}
	}
}
