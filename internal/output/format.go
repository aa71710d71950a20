// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todod/internal/service"
)

// FormatTask formats one task line.
// Format: "{ID:>4}  [x] {TITLE} ({PRIORITY})\n"; open tasks show "[ ]".
func FormatTask(w io.Writer, task service.Task) {
	mark := " "
	if task.IsDone {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s (%s)\n", task.ID, mark, normalizeTitle(task.Title), task.Priority)
}

// FormatTasks formats tasks in order, skipping done ones unless all is set.
// Returns the number of lines written.
func FormatTasks(w io.Writer, tasks []service.Task, all bool) int {
	n := 0
	for _, t := range tasks {
		if t.IsDone && !all {
			continue
		}
		FormatTask(w, t)
		n++
	}
	return n
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
