package store

import (
	"context"
	"errors"
	"time"

	"github.com/synergysphere/synergysphere/internal/model"
)

// Sentinel errors returned by store operations.
var (
	// ErrNotAuthenticated is returned by mutating operations that were
	// invoked without a signed-in session user.
	ErrNotAuthenticated = errors.New("no authenticated session")

	// ErrInvalidLogin is returned when no account matches the email or
	// the password is empty. The session is left unchanged.
	ErrInvalidLogin = errors.New("invalid email or password")

	// ErrMissingField is returned by Signup when any field is empty.
	ErrMissingField = errors.New("all fields are required")

	// ErrProjectNotFound is returned when a task is created against a
	// project id that does not exist.
	ErrProjectNotFound = errors.New("project not found")
)

// TaskFilter controls filtering, sorting, and pagination for task queries.
type TaskFilter struct {
	ProjectID  *string
	Status     *string // board column, or nil (all)
	Priority   *string
	AssigneeID *string
	Query      *string // search title + description
	SortBy     string  // "created_at", "updated_at", "due_date", "priority", "title"
	SortDesc   bool
	Limit      int
	Offset     int
}

// ProjectDraft holds the caller-supplied fields for a new project.
type ProjectDraft struct {
	Name        string
	Description string
	Icon        string
	Deadline    *time.Time
}

// TaskDraft holds the caller-supplied fields for a new task.
type TaskDraft struct {
	ProjectID   string
	Title       string
	Description string
	Status      string
	Priority    string
	AssigneeID  string
	DueDate     *time.Time
	Attachments []string
}

// Store is the application-state boundary the view layer consumes:
// session tracking, the entity collections, and every action the
// dashboard can dispatch. State lives only for the process lifetime.
type Store interface {
	// === Session ===

	Login(ctx context.Context, email, password string) (*model.User, error)
	Logout()
	Signup(ctx context.Context, name, email, password string) (*model.User, error)
	CurrentUser() (*model.User, bool)

	// === Users ===

	GetUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)

	// === Projects ===

	CreateProject(ctx context.Context, draft ProjectDraft) (*model.Project, error)
	AddProjectMember(ctx context.Context, projectID, userID string) error
	GetProjects(ctx context.Context) ([]model.Project, error)
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)

	// === Tasks ===

	CreateTask(ctx context.Context, draft TaskDraft) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, update model.TaskUpdate) error
	UpdateTaskStatus(ctx context.Context, id, status string) error
	DeleteTask(ctx context.Context, id string) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	TaskStatusCounts(ctx context.Context, projectID string) (map[string]int, error)

	// === Checklists ===

	AddChecklistItem(ctx context.Context, item model.ChecklistItem) error
	ToggleChecklistItem(ctx context.Context, id string) error
	DeleteChecklistItem(ctx context.Context, id string) error
	GetChecklistItems(ctx context.Context, taskID string) ([]model.ChecklistItem, error)

	// === Discussion ===

	AddComment(ctx context.Context, projectID, body string) (*model.Comment, error)
	GetComments(ctx context.Context, projectID string) ([]model.Comment, error)

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	GetNotifications(ctx context.Context, unreadOnly bool) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	UnreadCount(ctx context.Context) (int, error)
}
