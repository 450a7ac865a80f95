package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
	"github.com/synergysphere/synergysphere/tests/testutil"
)

// signIn registers an account and establishes a session for it.
func signIn(t *testing.T, s *store.SQLiteStore) model.User {
	t.Helper()

	u, err := s.Signup(context.Background(), "Sarah Chen", "sarah@example.com", "pw")
	if err != nil {
		t.Fatalf("signing in: %v", err)
	}
	return *u
}

func createProject(t *testing.T, s *store.SQLiteStore, name string) model.Project {
	t.Helper()

	p, err := s.CreateProject(context.Background(), store.ProjectDraft{Name: name})
	if err != nil {
		t.Fatalf("creating project %s: %v", name, err)
	}
	return *p
}

func createTask(t *testing.T, s *store.SQLiteStore, draft store.TaskDraft) model.Task {
	t.Helper()

	task, err := s.CreateTask(context.Background(), draft)
	if err != nil {
		t.Fatalf("creating task %q: %v", draft.Title, err)
	}
	return *task
}

func strPtr(v string) *string { return &v }

func TestCreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		_, err := s.CreateTask(ctx, store.TaskDraft{ProjectID: "p1", Title: "Orphan"})
		if !errors.Is(err, store.ErrNotAuthenticated) {
			t.Errorf("CreateTask() error = %v, want ErrNotAuthenticated", err)
		}
	})

	t.Run("unknown project", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)

		_, err := s.CreateTask(ctx, store.TaskDraft{ProjectID: "no-such-project", Title: "Orphan"})
		if !errors.Is(err, store.ErrProjectNotFound) {
			t.Errorf("CreateTask() error = %v, want ErrProjectNotFound", err)
		}
	})

	t.Run("empty title", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)
		p := createProject(t, s, "Alpha")

		if _, err := s.CreateTask(ctx, store.TaskDraft{ProjectID: p.ID, Title: "   "}); err == nil {
			t.Error("CreateTask() accepted a blank title")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)
		p := createProject(t, s, "Alpha")

		task := createTask(t, s, store.TaskDraft{ProjectID: p.ID, Title: "Set up repo"})
		if task.Status != model.StatusTodo {
			t.Errorf("default status = %q, want %q", task.Status, model.StatusTodo)
		}
		if task.Priority != model.PriorityMedium {
			t.Errorf("default priority = %q, want %q", task.Priority, model.PriorityMedium)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)
		p := createProject(t, s, "Alpha")

		_, err := s.CreateTask(ctx, store.TaskDraft{ProjectID: p.ID, Title: "X", Status: "blocked"})
		if err == nil {
			t.Error("CreateTask() accepted an unknown status")
		}
	})

	t.Run("assignment emits a notification", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		user := signIn(t, s)
		p := createProject(t, s, "Alpha")

		before, err := s.UnreadCount(ctx)
		if err != nil {
			t.Fatalf("UnreadCount() error = %v", err)
		}

		createTask(t, s, store.TaskDraft{
			ProjectID:  p.ID,
			Title:      "Design mockups",
			AssigneeID: user.ID,
		})

		after, err := s.UnreadCount(ctx)
		if err != nil {
			t.Fatalf("UnreadCount() error = %v", err)
		}
		if after != before+1 {
			t.Errorf("unread count = %d, want %d after assignment", after, before+1)
		}

		notifications, err := s.GetNotifications(ctx, true)
		if err != nil {
			t.Fatalf("GetNotifications() error = %v", err)
		}
		if len(notifications) == 0 || notifications[0].Title != "Task Assigned" {
			t.Errorf("newest notification = %+v, want a Task Assigned entry", notifications)
		}
	})
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		err := s.UpdateTask(ctx, "t1", model.TaskUpdate{Title: strPtr("Renamed")})
		if !errors.Is(err, store.ErrNotAuthenticated) {
			t.Errorf("UpdateTask() error = %v, want ErrNotAuthenticated", err)
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)

		err := s.UpdateTask(ctx, "no-such-task", model.TaskUpdate{Title: strPtr("Renamed")})
		if err != nil {
			t.Errorf("UpdateTask() error = %v, want nil for unknown id", err)
		}
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)
		p := createProject(t, s, "Alpha")
		task := createTask(t, s, store.TaskDraft{
			ProjectID:   p.ID,
			Title:       "Write docs",
			Description: "User guide",
			Priority:    model.PriorityHigh,
		})

		if err := s.UpdateTask(ctx, task.ID, model.TaskUpdate{Title: strPtr("Write the docs")}); err != nil {
			t.Fatalf("UpdateTask() error = %v", err)
		}

		got, err := s.GetTaskByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetTaskByID() error = %v", err)
		}
		if got.Title != "Write the docs" {
			t.Errorf("title = %q, want %q", got.Title, "Write the docs")
		}
		if got.Description != "User guide" {
			t.Errorf("description = %q, changed by an unrelated update", got.Description)
		}
		if got.Priority != model.PriorityHigh {
			t.Errorf("priority = %q, changed by an unrelated update", got.Priority)
		}
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)
		p := createProject(t, s, "Alpha")
		task := createTask(t, s, store.TaskDraft{ProjectID: p.ID, Title: "X"})

		if err := s.UpdateTask(ctx, task.ID, model.TaskUpdate{Status: strPtr("archived")}); err == nil {
			t.Error("UpdateTask() accepted an unknown status")
		}
	})
}

func TestUpdateTaskStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		err := s.UpdateTaskStatus(ctx, "t1", model.StatusDone)
		if !errors.Is(err, store.ErrNotAuthenticated) {
			t.Errorf("UpdateTaskStatus() error = %v, want ErrNotAuthenticated", err)
		}
	})

	t.Run("moves across columns", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)
		p := createProject(t, s, "Alpha")
		task := createTask(t, s, store.TaskDraft{ProjectID: p.ID, Title: "Ship it"})

		if err := s.UpdateTaskStatus(ctx, task.ID, model.StatusProgress); err != nil {
			t.Fatalf("UpdateTaskStatus() error = %v", err)
		}

		got, err := s.GetTaskByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetTaskByID() error = %v", err)
		}
		if got.Status != model.StatusProgress {
			t.Errorf("status = %q, want %q", got.Status, model.StatusProgress)
		}
	})

	t.Run("same column leaves the row untouched", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)
		p := createProject(t, s, "Alpha")
		task := createTask(t, s, store.TaskDraft{ProjectID: p.ID, Title: "Stay put"})

		before, err := s.GetTaskByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetTaskByID() error = %v", err)
		}

		if err := s.UpdateTaskStatus(ctx, task.ID, before.Status); err != nil {
			t.Fatalf("UpdateTaskStatus() error = %v", err)
		}

		after, err := s.GetTaskByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetTaskByID() error = %v", err)
		}
		if !after.UpdatedAt.Equal(before.UpdatedAt) {
			t.Errorf("updated_at changed on a same-column drop: %v -> %v",
				before.UpdatedAt, after.UpdatedAt)
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)

		if err := s.UpdateTaskStatus(ctx, "no-such-task", model.StatusDone); err != nil {
			t.Errorf("UpdateTaskStatus() error = %v, want nil for unknown id", err)
		}
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)

		if err := s.UpdateTaskStatus(ctx, "whatever", "limbo"); err == nil {
			t.Error("UpdateTaskStatus() accepted an unknown status")
		}
	})
}

func TestDeleteTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	signIn(t, s)
	p := createProject(t, s, "Alpha")
	task := createTask(t, s, store.TaskDraft{ProjectID: p.ID, Title: "Doomed"})

	if err := s.AddChecklistItem(ctx, model.ChecklistItem{TaskID: task.ID, Text: "step one"}); err != nil {
		t.Fatalf("AddChecklistItem() error = %v", err)
	}

	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}

	got, err := s.GetTaskByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTaskByID() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetTaskByID() = %+v after delete, want nil", got)
	}

	// Checklist rows cascade with the task.
	items, err := s.GetChecklistItems(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetChecklistItems() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("checklist has %d items after task delete, want 0", len(items))
	}

	// Deleting again is a no-op.
	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Errorf("second DeleteTask() error = %v, want nil", err)
	}

	// Signed-out callers cannot delete at all.
	s.Logout()
	if err := s.DeleteTask(ctx, task.ID); !errors.Is(err, store.ErrNotAuthenticated) {
		t.Errorf("DeleteTask() without a session error = %v, want ErrNotAuthenticated", err)
	}
}

func TestGetTasks(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	user := signIn(t, s)
	p := createProject(t, s, "Alpha")

	createTask(t, s, store.TaskDraft{ProjectID: p.ID, Title: "Banana peeling", Status: model.StatusTodo})
	createTask(t, s, store.TaskDraft{ProjectID: p.ID, Title: "Apple picking", Status: model.StatusProgress, AssigneeID: user.ID})
	createTask(t, s, store.TaskDraft{ProjectID: p.ID, Title: "Cherry tasting", Status: model.StatusDone, Description: "with apples on the side"})

	t.Run("by project", func(t *testing.T) {
		tasks, err := s.GetTasks(ctx, store.TaskFilter{ProjectID: &p.ID})
		if err != nil {
			t.Fatalf("GetTasks() error = %v", err)
		}
		if len(tasks) != 3 {
			t.Errorf("got %d tasks, want 3", len(tasks))
		}
	})

	t.Run("by status", func(t *testing.T) {
		status := model.StatusProgress
		tasks, err := s.GetTasks(ctx, store.TaskFilter{ProjectID: &p.ID, Status: &status})
		if err != nil {
			t.Fatalf("GetTasks() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].Title != "Apple picking" {
			t.Errorf("status filter returned %+v, want just Apple picking", tasks)
		}
		if tasks[0].Assignee == nil || tasks[0].Assignee.ID != user.ID {
			t.Error("assignee was not joined onto the task row")
		}
	})

	t.Run("search matches title and description", func(t *testing.T) {
		query := "apple"
		tasks, err := s.GetTasks(ctx, store.TaskFilter{ProjectID: &p.ID, Query: &query})
		if err != nil {
			t.Fatalf("GetTasks() error = %v", err)
		}
		if len(tasks) != 2 {
			t.Errorf("search for %q returned %d tasks, want 2", query, len(tasks))
		}
	})

	t.Run("sort by title", func(t *testing.T) {
		tasks, err := s.GetTasks(ctx, store.TaskFilter{ProjectID: &p.ID, SortBy: "title"})
		if err != nil {
			t.Fatalf("GetTasks() error = %v", err)
		}
		want := []string{"Apple picking", "Banana peeling", "Cherry tasting"}
		for i, title := range want {
			if tasks[i].Title != title {
				t.Errorf("tasks[%d].Title = %q, want %q", i, tasks[i].Title, title)
			}
		}
	})

	t.Run("limit and offset", func(t *testing.T) {
		tasks, err := s.GetTasks(ctx, store.TaskFilter{
			ProjectID: &p.ID, SortBy: "title", Limit: 1, Offset: 1,
		})
		if err != nil {
			t.Fatalf("GetTasks() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].Title != "Banana peeling" {
			t.Errorf("page = %+v, want just Banana peeling", tasks)
		}
	})
}

func TestTaskStatusCounts(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	signIn(t, s)
	p := createProject(t, s, "Alpha")

	createTask(t, s, store.TaskDraft{ProjectID: p.ID, Title: "A", Status: model.StatusTodo})
	createTask(t, s, store.TaskDraft{ProjectID: p.ID, Title: "B", Status: model.StatusTodo})
	createTask(t, s, store.TaskDraft{ProjectID: p.ID, Title: "C", Status: model.StatusDone})

	counts, err := s.TaskStatusCounts(ctx, p.ID)
	if err != nil {
		t.Fatalf("TaskStatusCounts() error = %v", err)
	}

	want := map[string]int{
		model.StatusTodo:     2,
		model.StatusProgress: 0,
		model.StatusDone:     1,
	}
	for status, n := range want {
		if counts[status] != n {
			t.Errorf("counts[%q] = %d, want %d", status, counts[status], n)
		}
	}
}

func TestChecklist(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	signIn(t, s)
	p := createProject(t, s, "Alpha")
	task := createTask(t, s, store.TaskDraft{ProjectID: p.ID, Title: "With steps"})

	if err := s.AddChecklistItem(ctx, model.ChecklistItem{TaskID: task.ID, Text: "first"}); err != nil {
		t.Fatalf("AddChecklistItem() error = %v", err)
	}
	if err := s.AddChecklistItem(ctx, model.ChecklistItem{TaskID: task.ID, Text: "second"}); err != nil {
		t.Fatalf("AddChecklistItem() error = %v", err)
	}

	items, err := s.GetChecklistItems(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetChecklistItems() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d checklist items, want 2", len(items))
	}
	if items[0].Text != "first" || items[1].Text != "second" {
		t.Errorf("items out of order: %q, %q", items[0].Text, items[1].Text)
	}
	if items[0].SortOrder >= items[1].SortOrder {
		t.Errorf("sort order not increasing: %d, %d", items[0].SortOrder, items[1].SortOrder)
	}

	t.Run("toggle", func(t *testing.T) {
		if err := s.ToggleChecklistItem(ctx, items[0].ID); err != nil {
			t.Fatalf("ToggleChecklistItem() error = %v", err)
		}

		got, err := s.GetChecklistItems(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetChecklistItems() error = %v", err)
		}
		if !got[0].Completed {
			t.Error("item not completed after toggle")
		}

		if err := s.ToggleChecklistItem(ctx, items[0].ID); err != nil {
			t.Fatalf("ToggleChecklistItem() error = %v", err)
		}
		got, _ = s.GetChecklistItems(ctx, task.ID)
		if got[0].Completed {
			t.Error("item still completed after toggling back")
		}
	})

	t.Run("toggle unknown id", func(t *testing.T) {
		if err := s.ToggleChecklistItem(ctx, "no-such-item"); err == nil {
			t.Error("ToggleChecklistItem() did not report an unknown id")
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.DeleteChecklistItem(ctx, items[1].ID); err != nil {
			t.Fatalf("DeleteChecklistItem() error = %v", err)
		}
		got, err := s.GetChecklistItems(ctx, task.ID)
		if err != nil {
			t.Fatalf("GetChecklistItems() error = %v", err)
		}
		if len(got) != 1 {
			t.Errorf("got %d items after delete, want 1", len(got))
		}

		if err := s.DeleteChecklistItem(ctx, items[1].ID); err == nil {
			t.Error("DeleteChecklistItem() did not report an unknown id")
		}
	})

	t.Run("requires a session", func(t *testing.T) {
		s.Logout()

		err := s.AddChecklistItem(ctx, model.ChecklistItem{TaskID: task.ID, Text: "third"})
		if !errors.Is(err, store.ErrNotAuthenticated) {
			t.Errorf("AddChecklistItem() error = %v, want ErrNotAuthenticated", err)
		}
		if err := s.ToggleChecklistItem(ctx, items[0].ID); !errors.Is(err, store.ErrNotAuthenticated) {
			t.Errorf("ToggleChecklistItem() error = %v, want ErrNotAuthenticated", err)
		}
		if err := s.DeleteChecklistItem(ctx, items[0].ID); !errors.Is(err, store.ErrNotAuthenticated) {
			t.Errorf("DeleteChecklistItem() error = %v, want ErrNotAuthenticated", err)
		}
	})
}

func TestGetTaskByIDIncludesChecklist(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	signIn(t, s)
	p := createProject(t, s, "Alpha")
	task := createTask(t, s, store.TaskDraft{
		ProjectID:   p.ID,
		Title:       "With extras",
		Attachments: []string{"design.figma", "notes.pdf"},
		DueDate:     timePtr(time.Now().UTC().Add(48 * time.Hour)),
	})

	if err := s.AddChecklistItem(ctx, model.ChecklistItem{TaskID: task.ID, Text: "review"}); err != nil {
		t.Fatalf("AddChecklistItem() error = %v", err)
	}

	got, err := s.GetTaskByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTaskByID() error = %v", err)
	}
	if len(got.Checklist) != 1 {
		t.Errorf("checklist has %d items, want 1", len(got.Checklist))
	}
	if len(got.Attachments) != 2 {
		t.Errorf("attachments = %v, want both file names", got.Attachments)
	}
	if got.DueDate == nil {
		t.Error("due date was dropped on round-trip")
	}
}

func timePtr(v time.Time) *time.Time { return &v }
