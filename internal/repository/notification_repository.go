package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/mentor-match/internal/model"
)

// NotificationRepo provides access to the `notifications` table. Rows are
// the durable fallback for the real-time channel: delivery failures are
// swallowed and clients reconcile by re-fetching the list.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create persists a notification and returns the stored row.
func (r *NotificationRepo) Create(ctx context.Context, userID uint64, message, link string) (model.Notification, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO notifications (user_id, message, link) VALUES (?,?,?)",
		userID, message, link)
	if err != nil {
		return model.Notification{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Notification{}, err
	}
	var n model.Notification
	err = r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,message,link,is_read,created_at FROM notifications WHERE id=?",
		id).Scan(&n.ID, &n.UserID, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt)
	return n, err
}

// ListByUser returns the recipient's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,message,link,is_read,created_at FROM notifications WHERE user_id=? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flips the is_read flag for a single notification owned by the
// user. The flip is idempotent: marking a read notification again
// succeeds. Missing rows return sql.ErrNoRows, foreign rows ErrForbidden.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64) error {
	var owner uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM notifications WHERE id=?", id).Scan(&owner)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE notifications SET is_read=1 WHERE id=?", id)
	return err
}

// MarkAllRead flips every unread notification for the user. Idempotent.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE user_id=? AND is_read=0", userID)
	return err
}
