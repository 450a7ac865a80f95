package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/synergysphere/synergysphere/internal/model"
)

// CreateProject inserts a new project with the creator as its sole
// member and emits a project notification. The caller must be signed in.
func (s *SQLiteStore) CreateProject(ctx context.Context, draft ProjectDraft) (*model.Project, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(draft.Name) == "" {
		return nil, fmt.Errorf("project name must not be empty")
	}

	now := time.Now().UTC()
	project := model.Project{
		ID:          uuid.New().String(),
		Name:        draft.Name,
		Description: draft.Description,
		Icon:        draft.Icon,
		Deadline:    draft.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, icon, deadline, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Name, project.Description, project.Icon,
		project.Deadline, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	if err := s.AddProjectMember(ctx, project.ID, user.ID); err != nil {
		return nil, err
	}
	project.Members = []model.User{user}

	_ = s.CreateNotification(ctx, model.Notification{
		Title:   "Project Update",
		Message: fmt.Sprintf("%s created project %q", user.Name, project.Name),
		Type:    model.NotificationProject,
	})

	return &project, nil
}

// AddProjectMember adds a user to a project's member list. The caller
// must be signed in. Already a member is a no-op.
func (s *SQLiteStore) AddProjectMember(ctx context.Context, projectID, userID string) error {
	if _, err := s.requireUser(); err != nil {
		return err
	}
	return s.insertProjectMember(ctx, projectID, userID)
}

func (s *SQLiteStore) insertProjectMember(ctx context.Context, projectID, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO project_members (project_id, user_id)
		VALUES (?, ?)`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("adding member to project %s: %w", projectID, err)
	}
	return nil
}

// GetProjects retrieves every project with its member list, ordered by
// creation time.
func (s *SQLiteStore) GetProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM projects ORDER BY created_at, name")
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		members, err := s.projectMembers(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Members = members
	}

	return projects, nil
}

// GetProjectByID retrieves a single project with its member list.
// Returns nil when the id is unknown.
func (s *SQLiteStore) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM projects WHERE id = ?", id)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}

	members, err := s.projectMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Members = members

	return &p, nil
}

func (s *SQLiteStore) projectMembers(ctx context.Context, projectID string) ([]model.User, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT users.* FROM users
		JOIN project_members ON project_members.user_id = users.id
		WHERE project_members.project_id = ?
		ORDER BY users.created_at, users.name`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying members of project %s: %w", projectID, err)
	}
	defer rows.Close()

	var members []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

// AddComment appends a message to a project's discussion thread as the
// session user and emits a comment notification. Posting to an unknown
// project drops the message without error. Empty bodies are rejected.
func (s *SQLiteStore) AddComment(ctx context.Context, projectID, body string) (*model.Comment, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("comment body must not be empty")
	}

	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}

	comment := model.Comment{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		UserID:    user.ID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO comments (id, project_id, user_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		comment.ID, comment.ProjectID, comment.UserID, comment.Body,
		comment.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding comment: %w", err)
	}

	comment.User = &user

	_ = s.CreateNotification(ctx, model.Notification{
		Title:   "New Comment",
		Message: fmt.Sprintf("%s commented on %s", user.Name, project.Name),
		Type:    model.NotificationComment,
	})

	return &comment, nil
}

// GetComments retrieves a project's discussion thread in chronological
// order, with each comment's author attached.
func (s *SQLiteStore) GetComments(ctx context.Context, projectID string) ([]model.Comment, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT
			comments.id, comments.project_id, comments.user_id,
			comments.body, comments.created_at,
			users.id, users.name, users.email, users.avatar_url,
			users.role, users.created_at
		FROM comments
		LEFT JOIN users ON users.id = comments.user_id
		WHERE comments.project_id = ?
		ORDER BY comments.created_at`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying comments for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var (
			c          model.Comment
			uID        sql.NullString
			uName      sql.NullString
			uEmail     sql.NullString
			uAvatar    sql.NullString
			uRole      sql.NullString
			uCreatedAt sql.NullTime
		)
		err := rows.Scan(
			&c.ID, &c.ProjectID, &c.UserID, &c.Body, &c.CreatedAt,
			&uID, &uName, &uEmail, &uAvatar, &uRole, &uCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		if uID.Valid {
			c.User = &model.User{
				ID:        uID.String,
				Name:      uName.String,
				Email:     uEmail.String,
				AvatarURL: uAvatar.String,
				Role:      uRole.String,
				CreatedAt: uCreatedAt.Time,
			}
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// scanProject scans a projects row.
func scanProject(rows interface{ Scan(dest ...interface{}) error }) (model.Project, error) {
	var (
		p        model.Project
		deadline *time.Time
	)
	err := rows.Scan(
		&p.ID, &p.Name, &p.Description, &p.Icon, &deadline,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Project{}, err
		}
		return model.Project{}, fmt.Errorf("scanning project row: %w", err)
	}
	p.Deadline = deadline
	return p, nil
}
