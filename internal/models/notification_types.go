package models

import (
	"encoding/json"
	"time"
)

const (
	NotificationOrderCreated = "order_created"

	RecipientAdmin = "admin"
)

// Notification is the model for the 'notifications' table.
type Notification struct {
	ID        int64           `json:"id" db:"id"`
	Type      string          `json:"type" db:"type"`
	Recipient string          `json:"recipient" db:"recipient"`
	IsRead    bool            `json:"isRead" db:"is_read"`
	Payload   json.RawMessage `json:"payload,omitempty" db:"payload"`
	OrderID   *int64          `json:"orderId,omitempty" db:"order_id"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}
