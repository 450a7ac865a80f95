package model

import "time"

// Notification type constants.
const (
	NotificationTask    = "task"
	NotificationComment = "comment"
	NotificationProject = "project"
)

// Notification is an alert surfaced to the user about workspace activity.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// Title is the short headline (e.g. "Task Overdue").
	Title string `json:"title" db:"title"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// Type categorizes the source of the event (task, comment, project).
	Type string `json:"type" db:"type"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read" db:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
