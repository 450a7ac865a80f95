package model

import "time"

// Project is a named collection of tasks, members, and a discussion thread.
type Project struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Icon        string     `json:"icon" db:"icon"`
	Deadline    *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	// Members is populated by queries that join with project_members.
	Members []User `json:"members,omitempty" db:"-"`
}

// Comment is an entry in a project's discussion thread. Comments are
// append-only: there is no edit or delete operation.
type Comment struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// User is populated by queries that join with users.
	User *User `json:"user,omitempty" db:"-"`
}
