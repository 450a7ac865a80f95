package notify

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
	"github.com/synergysphere/synergysphere/tests/testutil"
)

func seedTask(t *testing.T, s *store.SQLiteStore, title string, due time.Time, status string) string {
	t.Helper()

	ctx := context.Background()
	projectID := uuid.New().String()
	if err := s.InsertProject(ctx, model.Project{ID: projectID, Name: "Watched"}); err != nil {
		t.Fatalf("inserting project: %v", err)
	}

	taskID := uuid.New().String()
	err := s.InsertTask(ctx, model.Task{
		ID:        taskID,
		ProjectID: projectID,
		Title:     title,
		Status:    status,
		Priority:  model.PriorityMedium,
		DueDate:   &due,
	})
	if err != nil {
		t.Fatalf("inserting task: %v", err)
	}
	return taskID
}

func unreadCount(t *testing.T, s *store.SQLiteStore) int {
	t.Helper()

	n, err := s.UnreadCount(context.Background())
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	return n
}

func TestScanReportsOverdueOnce(t *testing.T) {
	s := testutil.NewTestStore(t)
	seedTask(t, s, "Slipped work", time.Now().UTC().Add(-time.Hour), model.StatusTodo)

	w := New(s, time.Minute)

	w.scan()
	if got := unreadCount(t, s); got != 1 {
		t.Fatalf("unread count after first scan = %d, want 1", got)
	}

	select {
	case msg := <-w.resultCh:
		if msg.Count != 1 {
			t.Errorf("OverdueMsg.Count = %d, want 1", msg.Count)
		}
	default:
		t.Error("no OverdueMsg delivered after a scan that found overdue work")
	}

	// A second scan must not report the same task again.
	w.scan()
	if got := unreadCount(t, s); got != 1 {
		t.Errorf("unread count after second scan = %d, want still 1", got)
	}
}

func TestScanIgnoresCompletedAndFutureWork(t *testing.T) {
	s := testutil.NewTestStore(t)
	seedTask(t, s, "Done late", time.Now().UTC().Add(-time.Hour), model.StatusDone)
	seedTask(t, s, "Due next week", time.Now().UTC().Add(7*24*time.Hour), model.StatusTodo)

	w := New(s, time.Minute)
	w.scan()

	if got := unreadCount(t, s); got != 0 {
		t.Errorf("unread count = %d, want 0 when nothing is overdue", got)
	}
}

func TestPrimeSuppressesExistingOverdue(t *testing.T) {
	s := testutil.NewTestStore(t)
	seedTask(t, s, "Already reported elsewhere", time.Now().UTC().Add(-time.Hour), model.StatusTodo)

	w := New(s, time.Minute)
	if err := w.Prime(context.Background()); err != nil {
		t.Fatalf("Prime() error = %v", err)
	}

	w.scan()
	if got := unreadCount(t, s); got != 0 {
		t.Errorf("unread count = %d, want 0 after Prime()", got)
	}
}

func TestPostponedTaskIsReportedAgain(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	taskID := seedTask(t, s, "Keeps slipping", time.Now().UTC().Add(-time.Hour), model.StatusTodo)

	// Rescheduling below goes through UpdateTask, which needs a session.
	if _, err := s.Signup(ctx, "Morgan Reyes", "morgan@example.com", "pw"); err != nil {
		t.Fatalf("signing in: %v", err)
	}

	w := New(s, time.Minute)
	w.scan()
	if got := unreadCount(t, s); got != 1 {
		t.Fatalf("unread count after first scan = %d, want 1", got)
	}

	// Postpone the task; the scan sees it on time and forgets it.
	future := time.Now().UTC().Add(24 * time.Hour)
	if err := s.UpdateTask(ctx, taskID, model.TaskUpdate{DueDate: &future}); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	w.scan()

	// Miss the new deadline and it gets reported once more.
	past := time.Now().UTC().Add(-time.Minute)
	if err := s.UpdateTask(ctx, taskID, model.TaskUpdate{DueDate: &past}); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	w.scan()

	if got := unreadCount(t, s); got != 2 {
		t.Errorf("unread count = %d, want 2 after the task slipped twice", got)
	}
}

func TestStopUnblocksSubscribers(t *testing.T) {
	s := testutil.NewTestStore(t)

	w := New(s, time.Minute)
	cmd := w.Start()
	w.Stop()

	// The pending subscription must wake up rather than block forever.
	if msg := cmd(); msg != nil {
		t.Errorf("subscription after Stop() = %v, want nil", msg)
	}

	// Stopping twice is safe.
	w.Stop()
}

func TestNewClampsInterval(t *testing.T) {
	s := testutil.NewTestStore(t)

	w := New(s, 0)
	if w.interval != time.Minute {
		t.Errorf("interval = %v, want the one minute fallback", w.interval)
	}
}
