package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"taskman/internal/domain"
)

// renderTasks writes the given tasks as a table. Column widths adjust to
// the content automatically.
func renderTasks(w io.Writer, title string, tasks []*domain.Task) {
	fmt.Fprintf(w, "%s:\n", title)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Description", "Priority", "Due Date"})
	for _, t := range tasks {
		tw.AppendRow(table.Row{t.ID, t.Description, t.Priority, t.DueDate})
	}
	tw.Render()
}
