package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/synergysphere/synergysphere/internal/model"
)

// taskColumns is the select list shared by every task query. The LEFT
// JOIN pulls in the assignee profile; unassigned tasks yield NULLs.
const taskColumns = `
	tasks.id, tasks.project_id, tasks.title, tasks.description,
	tasks.status, tasks.priority, tasks.assignee_id, tasks.due_date,
	tasks.attachments, tasks.created_at, tasks.updated_at,
	users.id, users.name, users.email, users.avatar_url, users.role, users.created_at`

const taskFrom = " FROM tasks LEFT JOIN users ON users.id = tasks.assignee_id"

// CreateTask inserts a new task on the draft's project. The caller must
// be signed in, and the project must exist: the task table is the single
// source of truth, so an orphan task is an error rather than a silent
// inconsistency. Assigned tasks also produce a notification.
func (s *SQLiteStore) CreateTask(ctx context.Context, draft TaskDraft) (*model.Task, error) {
	if _, err := s.requireUser(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("task title must not be empty")
	}

	project, err := s.GetProjectByID(ctx, draft.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	task := model.Task{
		ID:          uuid.New().String(),
		ProjectID:   draft.ProjectID,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		AssigneeID:  draft.AssigneeID,
		DueDate:     draft.DueDate,
		Attachments: draft.Attachments,
	}
	if task.Status == "" {
		task.Status = model.StatusTodo
	}
	if !model.ValidStatus(task.Status) {
		return nil, fmt.Errorf("invalid task status %q", task.Status)
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(task.Priority) {
		return nil, fmt.Errorf("invalid task priority %q", task.Priority)
	}

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	attachments, err := json.Marshal(task.Attachments)
	if err != nil {
		return nil, fmt.Errorf("marshaling attachments: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, project_id, title, description, status, priority,
			assignee_id, due_date, attachments, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.ProjectID, task.Title, task.Description,
		task.Status, task.Priority, task.AssigneeID, task.DueDate,
		string(attachments), task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	if task.AssigneeID != "" {
		task.Assignee, _ = s.GetUserByID(ctx, task.AssigneeID)
		if task.Assignee != nil {
			_ = s.CreateNotification(ctx, model.Notification{
				Title:   "Task Assigned",
				Message: fmt.Sprintf("%s has been assigned %q", task.Assignee.Name, task.Title),
				Type:    model.NotificationTask,
			})
		}
	}

	return &task, nil
}

// UpdateTask applies a partial update to the task with the given id.
// Only non-nil fields change; everything else keeps its current value.
// The caller must be signed in. An unknown id is a no-op, not an error.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id string, update model.TaskUpdate) error {
	if _, err := s.requireUser(); err != nil {
		return err
	}

	var sets []string
	var args []interface{}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return fmt.Errorf("task title must not be empty")
		}
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Status != nil {
		if !model.ValidStatus(*update.Status) {
			return fmt.Errorf("invalid task status %q", *update.Status)
		}
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}
	if update.Priority != nil {
		if !model.ValidPriority(*update.Priority) {
			return fmt.Errorf("invalid task priority %q", *update.Priority)
		}
		sets = append(sets, "priority = ?")
		args = append(args, *update.Priority)
	}
	if update.AssigneeID != nil {
		sets = append(sets, "assignee_id = ?")
		args = append(args, *update.AssigneeID)
	}
	if update.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *update.DueDate)
	}
	if update.Attachments != nil {
		attachments, err := json.Marshal(*update.Attachments)
		if err != nil {
			return fmt.Errorf("marshaling attachments: %w", err)
		}
		sets = append(sets, "attachments = ?")
		args = append(args, string(attachments))
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id)

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating task %s: %w", id, err)
	}
	return nil
}

// UpdateTaskStatus moves a task to another board column. The caller
// must be signed in. Dropping a task on the column it is already in
// touches nothing, so the row (including updated_at) stays
// byte-for-byte identical. An unknown id is a no-op.
func (s *SQLiteStore) UpdateTaskStatus(ctx context.Context, id, status string) error {
	if _, err := s.requireUser(); err != nil {
		return err
	}
	if !model.ValidStatus(status) {
		return fmt.Errorf("invalid task status %q", status)
	}

	_, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET status = ?, updated_at = ? WHERE id = ? AND status <> ?",
		status, time.Now().UTC(), id, status,
	)
	if err != nil {
		return fmt.Errorf("moving task %s to %s: %w", id, status, err)
	}
	return nil
}

// DeleteTask removes a task and its checklist items. The caller must
// be signed in. Idempotent: an unknown id is a no-op.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.requireUser(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}

// GetTaskByID retrieves a single task with its assignee and checklist.
// Returns nil when the id is unknown.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT"+taskColumns+taskFrom+" WHERE tasks.id = ?", id)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	checklist, err := s.GetChecklistItems(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Checklist = checklist

	return &task, nil
}

// GetTasks retrieves tasks matching the provided filter. "Tasks in
// project X" is this query with ProjectID set: the derived view the
// board renders from.
func (s *SQLiteStore) GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	var conditions []string
	var args []interface{}

	if filter.ProjectID != nil {
		conditions = append(conditions, "tasks.project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "tasks.status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		conditions = append(conditions, "tasks.priority = ?")
		args = append(args, *filter.Priority)
	}
	if filter.AssigneeID != nil {
		conditions = append(conditions, "tasks.assignee_id = ?")
		args = append(args, *filter.AssigneeID)
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions,
			"(tasks.title LIKE ? OR tasks.description LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT" + taskColumns + taskFrom
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "tasks.created_at"
	if filter.SortBy != "" {
		allowed := map[string]string{
			"created_at": "tasks.created_at",
			"updated_at": "tasks.updated_at",
			"due_date":   "tasks.due_date",
			"priority":   "tasks.priority",
			"title":      "tasks.title",
		}
		if col, ok := allowed[filter.SortBy]; ok {
			sortBy = col
		}
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// TaskStatusCounts returns the number of tasks per board column for a
// project. Columns with no tasks are present with a zero count.
func (s *SQLiteStore) TaskStatusCounts(ctx context.Context, projectID string) (map[string]int, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT status, COUNT(*) FROM tasks WHERE project_id = ? GROUP BY status",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("counting tasks for project %s: %w", projectID, err)
	}
	defer rows.Close()

	counts := map[string]int{
		model.StatusTodo:     0,
		model.StatusProgress: 0,
		model.StatusDone:     0,
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[status] = n
	}

	return counts, rows.Err()
}

// AddChecklistItem inserts a new checklist item for a task. The caller
// must be signed in.
func (s *SQLiteStore) AddChecklistItem(ctx context.Context, item model.ChecklistItem) error {
	if _, err := s.requireUser(); err != nil {
		return err
	}
	if strings.TrimSpace(item.Text) == "" {
		return fmt.Errorf("checklist item text must not be empty")
	}
	return s.insertChecklistItem(ctx, item)
}

func (s *SQLiteStore) insertChecklistItem(ctx context.Context, item model.ChecklistItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	if item.SortOrder == 0 {
		var maxOrder int
		err := s.db.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM checklist_items WHERE task_id = ?",
			item.TaskID)
		if err != nil {
			return fmt.Errorf("getting max checklist sort_order: %w", err)
		}
		item.SortOrder = maxOrder + 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checklist_items (id, task_id, text, completed, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.TaskID, item.Text, boolToInt(item.Completed),
		item.SortOrder, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("adding checklist item: %w", err)
	}
	return nil
}

// ToggleChecklistItem flips the completed state of a checklist item.
// The caller must be signed in.
func (s *SQLiteStore) ToggleChecklistItem(ctx context.Context, id string) error {
	if _, err := s.requireUser(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE checklist_items SET completed = CASE WHEN completed = 0 THEN 1 ELSE 0 END WHERE id = ?",
		id)
	if err != nil {
		return fmt.Errorf("toggling checklist item %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("checklist item %s not found", id)
	}
	return nil
}

// DeleteChecklistItem removes a checklist item by ID. The caller must
// be signed in.
func (s *SQLiteStore) DeleteChecklistItem(ctx context.Context, id string) error {
	if _, err := s.requireUser(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM checklist_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting checklist item %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("checklist item %s not found", id)
	}
	return nil
}

// GetChecklistItems returns a task's checklist, ordered by sort_order.
func (s *SQLiteStore) GetChecklistItems(ctx context.Context, taskID string) ([]model.ChecklistItem, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM checklist_items WHERE task_id = ? ORDER BY sort_order",
		taskID)
	if err != nil {
		return nil, fmt.Errorf("querying checklist items: %w", err)
	}
	defer rows.Close()

	var items []model.ChecklistItem
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// scanTask scans a task row produced with taskColumns.
func scanTask(rows interface{ Scan(dest ...interface{}) error }) (model.Task, error) {
	var (
		task        model.Task
		dueDate     *time.Time
		attachments string
		uID         sql.NullString
		uName       sql.NullString
		uEmail      sql.NullString
		uAvatar     sql.NullString
		uRole       sql.NullString
		uCreatedAt  sql.NullTime
	)

	err := rows.Scan(
		&task.ID, &task.ProjectID, &task.Title, &task.Description,
		&task.Status, &task.Priority, &task.AssigneeID, &dueDate,
		&attachments, &task.CreatedAt, &task.UpdatedAt,
		&uID, &uName, &uEmail, &uAvatar, &uRole, &uCreatedAt,
	)
	if err == sql.ErrNoRows {
		return model.Task{}, err
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.DueDate = dueDate

	if attachments != "" && attachments != "null" {
		if err := json.Unmarshal([]byte(attachments), &task.Attachments); err != nil {
			return model.Task{}, fmt.Errorf("unmarshaling attachments: %w", err)
		}
	}

	if uID.Valid {
		task.Assignee = &model.User{
			ID:        uID.String,
			Name:      uName.String,
			Email:     uEmail.String,
			AvatarURL: uAvatar.String,
			Role:      uRole.String,
			CreatedAt: uCreatedAt.Time,
		}
	}

	return task, nil
}

// scanChecklistItem scans a checklist_items row.
func scanChecklistItem(rows interface{ Scan(dest ...interface{}) error }) (model.ChecklistItem, error) {
	var (
		item         model.ChecklistItem
		completedInt int
	)

	err := rows.Scan(
		&item.ID, &item.TaskID, &item.Text, &completedInt,
		&item.SortOrder, &item.CreatedAt,
	)
	if err != nil {
		return model.ChecklistItem{}, fmt.Errorf("scanning checklist item row: %w", err)
	}

	item.Completed = completedInt != 0
	return item, nil
}
