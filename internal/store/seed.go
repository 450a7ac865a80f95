package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/synergysphere/synergysphere/internal/model"
)

// Raw insert helpers for the fixture seed. They bypass the session
// requirement and notification emission of the regular actions so the
// demo workspace can be built with exact timestamps and no side effects.

// InsertProject inserts a fully specified project row. Members listed
// on the project are linked as well.
func (s *SQLiteStore) InsertProject(ctx context.Context, p model.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, icon, deadline, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Icon, p.Deadline, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	for _, member := range p.Members {
		if err := s.insertProjectMember(ctx, p.ID, member.ID); err != nil {
			return err
		}
	}
	return nil
}

// InsertChecklistItem inserts a fully specified checklist item row.
func (s *SQLiteStore) InsertChecklistItem(ctx context.Context, item model.ChecklistItem) error {
	return s.insertChecklistItem(ctx, item)
}

// InsertTask inserts a fully specified task row.
func (s *SQLiteStore) InsertTask(ctx context.Context, t model.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}

	attachments, err := json.Marshal(t.Attachments)
	if err != nil {
		return fmt.Errorf("marshaling attachments: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, project_id, title, description, status, priority,
			assignee_id, due_date, attachments, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Title, t.Description, t.Status, t.Priority,
		t.AssigneeID, t.DueDate, string(attachments), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

// InsertComment inserts a fully specified comment row.
func (s *SQLiteStore) InsertComment(ctx context.Context, c model.Comment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, project_id, user_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.ProjectID, c.UserID, c.Body, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}
