package fixture_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/synergysphere/synergysphere/internal/fixture"
	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
	"github.com/synergysphere/synergysphere/tests/testutil"
)

func seedStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s := testutil.NewTestStore(t)
	if err := fixture.Seed(context.Background(), s, rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return s
}

func TestSeedUsers(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	users, err := s.GetUsers(ctx)
	if err != nil {
		t.Fatalf("GetUsers() error = %v", err)
	}
	if len(users) != 4 {
		t.Errorf("got %d users, want 4", len(users))
	}

	sarah, err := s.FindUserByEmail(ctx, fixture.DefaultEmail)
	if err != nil {
		t.Fatalf("FindUserByEmail() error = %v", err)
	}
	if sarah == nil {
		t.Fatalf("demo account %s is missing", fixture.DefaultEmail)
	}
	if sarah.Name != "Sarah Chen" || sarah.Role != "Product Manager" {
		t.Errorf("demo account = %s (%s), want Sarah Chen (Product Manager)", sarah.Name, sarah.Role)
	}
}

func TestSeedProjects(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	projects, err := s.GetProjects(ctx)
	if err != nil {
		t.Fatalf("GetProjects() error = %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}

	// Ordered by creation time: Alpha (older) before Beta.
	if projects[0].Name != "Project Alpha" || projects[1].Name != "Project Beta" {
		t.Errorf("projects = [%s, %s], want [Project Alpha, Project Beta]",
			projects[0].Name, projects[1].Name)
	}

	for _, p := range projects {
		if len(p.Members) != 3 {
			t.Errorf("project %s has %d members, want 3", p.Name, len(p.Members))
		}
		if p.Deadline == nil {
			t.Errorf("project %s has no deadline", p.Name)
		}

		tasks, err := s.GetTasks(ctx, store.TaskFilter{ProjectID: &p.ID})
		if err != nil {
			t.Fatalf("GetTasks() error = %v", err)
		}
		if len(tasks) != 7 {
			t.Errorf("project %s has %d tasks, want 7", p.Name, len(tasks))
		}

		var overdue int
		for _, task := range tasks {
			if task.IsOverdue() {
				overdue++
			}
		}
		if overdue == 0 {
			t.Errorf("project %s has no overdue tasks; the board should show slipped work", p.Name)
		}

		comments, err := s.GetComments(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetComments() error = %v", err)
		}
		if len(comments) == 0 {
			t.Errorf("project %s has an empty discussion thread", p.Name)
		}
		for _, c := range comments {
			if c.User == nil {
				t.Errorf("comment %q has no author attached", c.Body)
			}
		}
	}
}

func TestSeedBoardMix(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	projects, err := s.GetProjects(ctx)
	if err != nil {
		t.Fatalf("GetProjects() error = %v", err)
	}

	for _, p := range projects {
		counts, err := s.TaskStatusCounts(ctx, p.ID)
		if err != nil {
			t.Fatalf("TaskStatusCounts() error = %v", err)
		}
		for _, status := range model.Columns {
			if counts[status] == 0 {
				t.Errorf("project %s has an empty %s column; the demo board should fill all three", p.Name, status)
			}
		}
	}
}

func TestSeedChecklistAndAttachments(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	query := "Design user interface mockups"
	tasks, err := s.GetTasks(ctx, store.TaskFilter{Query: &query})
	if err != nil {
		t.Fatalf("GetTasks() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("found %d tasks titled %q, want 1", len(tasks), query)
	}

	task, err := s.GetTaskByID(ctx, tasks[0].ID)
	if err != nil {
		t.Fatalf("GetTaskByID() error = %v", err)
	}
	if len(task.Checklist) != 3 {
		t.Errorf("checklist has %d items, want 3", len(task.Checklist))
	}
	if len(task.Attachments) != 2 {
		t.Errorf("attachments = %v, want two file names", task.Attachments)
	}
	if task.Assignee == nil || task.Assignee.Name != "Emily Johnson" {
		t.Errorf("assignee = %+v, want Emily Johnson", task.Assignee)
	}
}

func TestSeedNotifications(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	notifications, err := s.GetNotifications(ctx, false)
	if err != nil {
		t.Fatalf("GetNotifications() error = %v", err)
	}
	if len(notifications) != 4 {
		t.Fatalf("got %d notifications, want 4", len(notifications))
	}

	count, err := s.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if count != 2 {
		t.Errorf("unread count = %d, want 2", count)
	}
}

func TestSeedIsReproducible(t *testing.T) {
	collect := func() []string {
		s := testutil.NewTestStore(t)
		if err := fixture.Seed(context.Background(), s, rand.New(rand.NewSource(42))); err != nil {
			t.Fatalf("Seed() error = %v", err)
		}
		tasks, err := s.GetTasks(context.Background(), store.TaskFilter{SortBy: "title"})
		if err != nil {
			t.Fatalf("GetTasks() error = %v", err)
		}
		out := make([]string, 0, len(tasks))
		for _, task := range tasks {
			out = append(out, task.Title+"|"+task.Status)
		}
		return out
	}

	first := collect()
	second := collect()
	if len(first) != len(second) {
		t.Fatalf("runs produced %d and %d tasks", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("run mismatch at %d: %q vs %q", i, first[i], second[i])
		}
	}
}
