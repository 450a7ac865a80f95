package board_test

import (
	"testing"

	"github.com/synergysphere/synergysphere/internal/board"
	"github.com/synergysphere/synergysphere/internal/model"
)

func TestGroup(t *testing.T) {
	t.Run("empty input keeps every column", func(t *testing.T) {
		columns := board.Group(nil)
		if len(columns) != 3 {
			t.Fatalf("got %d columns, want 3", len(columns))
		}
		want := []string{model.StatusTodo, model.StatusProgress, model.StatusDone}
		for i, status := range want {
			if columns[i].Status != status {
				t.Errorf("columns[%d].Status = %q, want %q", i, columns[i].Status, status)
			}
			if len(columns[i].Tasks) != 0 {
				t.Errorf("columns[%d] has %d tasks, want 0", i, len(columns[i].Tasks))
			}
		}
	})

	t.Run("preserves input order within a column", func(t *testing.T) {
		tasks := []model.Task{
			{ID: "1", Title: "b", Status: model.StatusTodo},
			{ID: "2", Title: "done", Status: model.StatusDone},
			{ID: "3", Title: "a", Status: model.StatusTodo},
		}

		columns := board.Group(tasks)
		todo := columns[0].Tasks
		if len(todo) != 2 || todo[0].ID != "1" || todo[1].ID != "3" {
			t.Errorf("todo column = %+v, want tasks 1 and 3 in input order", todo)
		}
		if len(columns[1].Tasks) != 0 {
			t.Errorf("progress column has %d tasks, want 0", len(columns[1].Tasks))
		}
		if len(columns[2].Tasks) != 1 {
			t.Errorf("done column has %d tasks, want 1", len(columns[2].Tasks))
		}
	})
}

func TestNext(t *testing.T) {
	cases := []struct {
		status string
		want   string
		ok     bool
	}{
		{model.StatusTodo, model.StatusProgress, true},
		{model.StatusProgress, model.StatusDone, true},
		{model.StatusDone, "", false},
		{"bogus", "", false},
	}
	for _, tc := range cases {
		got, ok := board.Next(tc.status)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Next(%q) = (%q, %v), want (%q, %v)", tc.status, got, ok, tc.want, tc.ok)
		}
	}
}

func TestPrev(t *testing.T) {
	cases := []struct {
		status string
		want   string
		ok     bool
	}{
		{model.StatusDone, model.StatusProgress, true},
		{model.StatusProgress, model.StatusTodo, true},
		{model.StatusTodo, "", false},
		{"bogus", "", false},
	}
	for _, tc := range cases {
		got, ok := board.Prev(tc.status)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Prev(%q) = (%q, %v), want (%q, %v)", tc.status, got, ok, tc.want, tc.ok)
		}
	}
}

func TestMoves(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{model.StatusTodo, model.StatusProgress, true},
		{model.StatusProgress, model.StatusTodo, true},
		{model.StatusTodo, model.StatusTodo, false},
		{model.StatusTodo, "limbo", false},
	}
	for _, tc := range cases {
		if got := board.Moves(tc.from, tc.to); got != tc.want {
			t.Errorf("Moves(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestProgress(t *testing.T) {
	task := model.Task{
		Checklist: []model.ChecklistItem{
			{Text: "a", Completed: true},
			{Text: "b"},
			{Text: "c", Completed: true},
		},
	}

	done, total := board.Progress(task)
	if done != 2 || total != 3 {
		t.Errorf("Progress() = (%d, %d), want (2, 3)", done, total)
	}

	done, total = board.Progress(model.Task{})
	if done != 0 || total != 0 {
		t.Errorf("Progress() on empty checklist = (%d, %d), want (0, 0)", done, total)
	}
}
