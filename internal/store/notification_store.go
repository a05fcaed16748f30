package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/models"
)

// NotificationStore persists in-app alerts.
type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO notifications (type, recipient, is_read, payload, order_id) VALUES (?, ?, ?, ?, ?)",
		n.Type, n.Recipient, n.IsRead, string(n.Payload), n.OrderID)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	if n.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("notification id: %w", err)
	}
	return nil
}

// Latest returns the newest notifications for a recipient class.
func (s *NotificationStore) Latest(ctx context.Context, recipient string, limit int) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, recipient, is_read, payload, order_id, created_at
		FROM notifications WHERE recipient = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`,
		recipient, clampLimit(limit, 20, 100))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	list := []models.Notification{}
	for rows.Next() {
		var (
			n       models.Notification
			payload []byte
		)
		if err := rows.Scan(&n.ID, &n.Type, &n.Recipient, &n.IsRead, &payload, &n.OrderID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Payload = payload
		list = append(list, n)
	}
	return list, rows.Err()
}

// MarkRead flags one notification as read.
func (s *NotificationStore) MarkRead(ctx context.Context, id int64) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM notifications WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check notification: %w", err)
	}
	if !exists {
		return apperr.NotFound("notification", id)
	}
	if _, err := s.db.ExecContext(ctx, "UPDATE notifications SET is_read = TRUE WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
