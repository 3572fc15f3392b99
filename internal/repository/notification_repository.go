package repository

import (
	"context"
	"database/sql"

	"github.com/ecocollect/platform/internal/model"
)

// NotificationRepo is the per-user append-only notification outbox.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create appends a notification.
func (r *NotificationRepo) Create(ctx context.Context, userID uint64, title, message, typ string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO notifications (user_id, title, message, type) VALUES (?,?,?,?)",
		userID, title, message, typ)
	return err
}

// CreateTx appends a notification within an existing transaction.
func (r *NotificationRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID uint64, title, message, typ string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO notifications (user_id, title, message, type) VALUES (?,?,?,?)",
		userID, title, message, typ)
	return err
}

// ListFor returns a user's notifications, newest first, capped at limit.
func (r *NotificationRepo) ListFor(ctx context.Context, userID uint64, limit int) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,title,message,type,is_read,created_at FROM notifications WHERE user_id=? ORDER BY created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flips a notification to read, scoped to its owner. Marking an
// already-read notification is a no-op success; a notification owned by
// someone else yields ErrForbidden, a missing one sql.ErrNoRows. Read state
// never goes back to unread.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID, userID uint64) error {
	var owner uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM notifications WHERE id=? LIMIT 1", notificationID).Scan(&owner)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE id=? AND user_id=?",
		notificationID, userID)
	return err
}
