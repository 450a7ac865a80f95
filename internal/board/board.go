// Package board holds the pure Kanban logic: grouping tasks into
// columns and deciding whether a move changes anything. It has no
// store or UI dependencies so the rules are testable in isolation.
package board

import "github.com/synergysphere/synergysphere/internal/model"

// Column is one rendered board column with its tasks in query order.
type Column struct {
	Status string
	Tasks  []model.Task
}

// Titles maps column status values to their display names.
var Titles = map[string]string{
	model.StatusTodo:     "To-Do",
	model.StatusProgress: "In Progress",
	model.StatusDone:     "Done",
}

// Group partitions tasks into the three board columns, preserving the
// relative order of the input. Every column is present even when empty.
func Group(tasks []model.Task) []Column {
	byStatus := make(map[string][]model.Task, len(model.Columns))
	for _, t := range tasks {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	columns := make([]Column, 0, len(model.Columns))
	for _, status := range model.Columns {
		columns = append(columns, Column{
			Status: status,
			Tasks:  byStatus[status],
		})
	}
	return columns
}

// Next returns the column to the right of status. The last column has
// no right neighbor.
func Next(status string) (string, bool) {
	for i, s := range model.Columns {
		if s == status && i < len(model.Columns)-1 {
			return model.Columns[i+1], true
		}
	}
	return "", false
}

// Prev returns the column to the left of status. The first column has
// no left neighbor.
func Prev(status string) (string, bool) {
	for i, s := range model.Columns {
		if s == status && i > 0 {
			return model.Columns[i-1], true
		}
	}
	return "", false
}

// Moves reports whether dropping a task currently in from onto the to
// column changes its position. Dropping a task on its own column is
// not a move.
func Moves(from, to string) bool {
	return model.ValidStatus(to) && from != to
}

// Progress returns the completed and total checklist counts for a task.
func Progress(t model.Task) (done, total int) {
	for _, item := range t.Checklist {
		if item.Completed {
			done++
		}
	}
	return done, len(t.Checklist)
}
