package model

import "time"

// Board column constants. Every task is in exactly one column.
const (
	StatusTodo     = "todo"
	StatusProgress = "progress"
	StatusDone     = "done"
)

// Columns lists the board columns in display order.
var Columns = []string{StatusTodo, StatusProgress, StatusDone}

// Task priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidStatus reports whether s names a board column.
func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusProgress || s == StatusDone
}

// ValidPriority reports whether p is a known priority level.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is a unit of work on a project board.
type Task struct {
	ID          string     `json:"id" db:"id"`
	ProjectID   string     `json:"project_id" db:"project_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      string     `json:"status" db:"status"`
	Priority    string     `json:"priority" db:"priority"`
	AssigneeID  string     `json:"assignee_id" db:"assignee_id"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	// Attachments are display-only file names, stored as JSON.
	Attachments []string `json:"attachments,omitempty" db:"-"`

	// Assignee is populated by queries that join with users.
	Assignee *User `json:"assignee,omitempty" db:"-"`

	// Checklist is populated by detail queries.
	Checklist []ChecklistItem `json:"checklist,omitempty" db:"-"`
}

// IsOverdue reports whether the task is past due and not finished.
func (t Task) IsOverdue() bool {
	return t.DueDate != nil && t.DueDate.Before(time.Now()) && t.Status != StatusDone
}

// ChecklistItem is a sub-entry within a task. Its lifecycle is bound
// to the parent task (CASCADE delete).
type ChecklistItem struct {
	ID        string    `json:"id" db:"id"`
	TaskID    string    `json:"task_id" db:"task_id"`
	Text      string    `json:"text" db:"text"`
	Completed bool      `json:"completed" db:"completed"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TaskUpdate is a partial update applied to an existing task.
// Nil fields keep their current value.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssigneeID  *string
	DueDate     *time.Time
	Attachments *[]string
}
