package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/synergysphere/synergysphere/internal/model"
)

// CreateNotification records a notification. Mutating operations call
// this themselves, so every notification corresponds to an event that
// actually happened.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, title, message, type, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Message, n.Type, boolToInt(n.Read), n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

// GetNotifications retrieves notifications, newest first. With
// unreadOnly set, read notifications are filtered out.
func (s *SQLiteStore) GetNotifications(ctx context.Context, unreadOnly bool) ([]model.Notification, error) {
	query := "SELECT * FROM notifications"
	if unreadOnly {
		query += " WHERE read = 0"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var (
			n       model.Notification
			readInt int
		)
		err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &readInt, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.Read = readInt != 0
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkNotificationRead marks a single notification as read. Unknown
// ids are a no-op.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification as read.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE read = 0")
	if err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

// UnreadCount returns the number of unread notifications, shown as the
// badge in the header.
func (s *SQLiteStore) UnreadCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM notifications WHERE read = 0")
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return n, nil
}
