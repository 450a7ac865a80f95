package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/synergysphere/synergysphere/internal/store"
	"github.com/synergysphere/synergysphere/tests/testutil"
)

func TestCreateProject(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		_, err := s.CreateProject(ctx, store.ProjectDraft{Name: "Alpha"})
		if !errors.Is(err, store.ErrNotAuthenticated) {
			t.Errorf("CreateProject() error = %v, want ErrNotAuthenticated", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)

		if _, err := s.CreateProject(ctx, store.ProjectDraft{Name: "  "}); err == nil {
			t.Error("CreateProject() accepted a blank name")
		}
	})

	t.Run("creator is the sole member", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		user := signIn(t, s)

		p, err := s.CreateProject(ctx, store.ProjectDraft{Name: "Alpha", Icon: "🚀"})
		if err != nil {
			t.Fatalf("CreateProject() error = %v", err)
		}
		if len(p.Members) != 1 || p.Members[0].ID != user.ID {
			t.Errorf("members = %+v, want just the creator", p.Members)
		}

		got, err := s.GetProjectByID(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetProjectByID() error = %v", err)
		}
		if len(got.Members) != 1 || got.Members[0].ID != user.ID {
			t.Errorf("persisted members = %+v, want just the creator", got.Members)
		}
	})

	t.Run("emits a project notification", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)

		if _, err := s.CreateProject(ctx, store.ProjectDraft{Name: "Alpha"}); err != nil {
			t.Fatalf("CreateProject() error = %v", err)
		}

		notifications, err := s.GetNotifications(ctx, false)
		if err != nil {
			t.Fatalf("GetNotifications() error = %v", err)
		}
		if len(notifications) == 0 || notifications[0].Title != "Project Update" {
			t.Errorf("newest notification = %+v, want a Project Update entry", notifications)
		}
	})
}

func TestAddProjectMember(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	user := signIn(t, s)
	p := createProject(t, s, "Alpha")

	// Adding the same member again is a no-op, not an error.
	if err := s.AddProjectMember(ctx, p.ID, user.ID); err != nil {
		t.Fatalf("AddProjectMember() error = %v", err)
	}

	got, err := s.GetProjectByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProjectByID() error = %v", err)
	}
	if len(got.Members) != 1 {
		t.Errorf("got %d members after duplicate add, want 1", len(got.Members))
	}

	// Membership edits are gated on a session like every other mutation.
	s.Logout()
	if err := s.AddProjectMember(ctx, p.ID, user.ID); !errors.Is(err, store.ErrNotAuthenticated) {
		t.Errorf("AddProjectMember() without a session error = %v, want ErrNotAuthenticated", err)
	}
}

func TestGetProjects(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	signIn(t, s)

	empty, err := s.GetProjects(ctx)
	if err != nil {
		t.Fatalf("GetProjects() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d projects in a fresh store, want 0", len(empty))
	}

	createProject(t, s, "Alpha")
	createProject(t, s, "Beta")

	projects, err := s.GetProjects(ctx)
	if err != nil {
		t.Fatalf("GetProjects() error = %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}
	for _, p := range projects {
		if len(p.Members) == 0 {
			t.Errorf("project %s has no members attached", p.Name)
		}
	}
}

func TestGetProjectByIDUnknown(t *testing.T) {
	s := testutil.NewTestStore(t)

	got, err := s.GetProjectByID(context.Background(), "no-such-project")
	if err != nil {
		t.Fatalf("GetProjectByID() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetProjectByID() = %+v, want nil for unknown id", got)
	}
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		_, err := s.AddComment(ctx, "p1", "hello")
		if !errors.Is(err, store.ErrNotAuthenticated) {
			t.Errorf("AddComment() error = %v, want ErrNotAuthenticated", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)
		p := createProject(t, s, "Alpha")

		if _, err := s.AddComment(ctx, p.ID, "   "); err == nil {
			t.Error("AddComment() accepted a blank body")
		}
	})

	t.Run("unknown project drops the message", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		signIn(t, s)

		c, err := s.AddComment(ctx, "no-such-project", "lost words")
		if err != nil {
			t.Fatalf("AddComment() error = %v, want silent drop", err)
		}
		if c != nil {
			t.Errorf("AddComment() = %+v, want nil for unknown project", c)
		}
	})

	t.Run("posts as the session user", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		user := signIn(t, s)
		p := createProject(t, s, "Alpha")

		c, err := s.AddComment(ctx, p.ID, "Let's kick this off!")
		if err != nil {
			t.Fatalf("AddComment() error = %v", err)
		}
		if c.UserID != user.ID {
			t.Errorf("comment author = %s, want session user %s", c.UserID, user.ID)
		}

		notifications, err := s.GetNotifications(ctx, false)
		if err != nil {
			t.Fatalf("GetNotifications() error = %v", err)
		}
		if len(notifications) == 0 || notifications[0].Title != "New Comment" {
			t.Errorf("newest notification = %+v, want a New Comment entry", notifications)
		}
	})
}

func TestGetComments(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	user := signIn(t, s)
	p := createProject(t, s, "Alpha")

	bodies := []string{"first", "second", "third"}
	for _, body := range bodies {
		if _, err := s.AddComment(ctx, p.ID, body); err != nil {
			t.Fatalf("AddComment(%q) error = %v", body, err)
		}
	}

	comments, err := s.GetComments(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetComments() error = %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("got %d comments, want 3", len(comments))
	}
	for i, body := range bodies {
		if comments[i].Body != body {
			t.Errorf("comments[%d].Body = %q, want %q (chronological order)", i, comments[i].Body, body)
		}
		if comments[i].User == nil || comments[i].User.ID != user.ID {
			t.Errorf("comments[%d] has no author attached", i)
		}
	}
}
