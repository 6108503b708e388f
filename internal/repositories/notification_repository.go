package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flashlearn/mooc-service/internal/models"
)

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{
		db: db,
	}
}

// CreateBatch inserts notifications with a single statement
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	query := "INSERT INTO notifications (user_id, kind, mooc_id, message) VALUES "
	args := make([]any, 0, len(notifications)*4)
	for i, n := range notifications {
		if i > 0 {
			query += ", "
		}
		query += "(?, ?, ?, ?)"
		args = append(args, n.UserID, n.Kind, n.MoocID, n.Message)
	}

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}
	return nil
}

// GetByUserID retrieves a page of a user's notifications, newest first
func (r *notificationRepository) GetByUserID(ctx context.Context, userID, page, count int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, kind, mooc_id, message, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID, count, (page-1)*count)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.MoocID, &n.Message, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notifications, nil
}

// MarkRead marks a notification of the user as read
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int) error {
	query := "UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?"

	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	// MySQL reports 0 rows for an already read notification, so check existence before failing
	if rowsAffected == 0 {
		var exists bool
		err := conn(ctx, r.db).QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM notifications WHERE id = ? AND user_id = ?)", id, userID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check notification: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: notification %d", models.ErrNotFound, id)
		}
	}

	return nil
}
