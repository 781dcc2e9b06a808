package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Capstone-Eventify/Backend/internal/model"
)

// NotificationRepo provides data access to the notifications table.
// Rows are written by the queue consumer after the originating
// transaction has committed.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given
// database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create inserts a notification row and populates the generated ID.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	const q = `INSERT INTO notifications (user_id, type, title, message, link) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, n.UserID, n.Type, n.Title, n.Message, n.Link)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Notification, error) {
	const q = `SELECT id, user_id, type, title, message, link, read_at, created_at
	           FROM notifications WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			ts := readAt.Time
			n.ReadAt = &ts
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkRead stamps a notification as read. Only the owner's rows match.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64, at time.Time) error {
	const q = `UPDATE notifications SET read_at = ? WHERE id = ? AND user_id = ? AND read_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, at.UTC(), id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish missing from already-read.
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM notifications WHERE id = ? AND user_id = ?`, id, userID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
