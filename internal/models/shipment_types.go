package models

import (
	"encoding/json"
	"time"
)

// Shipment is the model for the 'shipments' table. Status holds the
// carrier's own vocabulary, lowercased; it is not an OrderStatus.
type Shipment struct {
	ID         int64           `json:"id" db:"id"`
	OrderID    int64           `json:"orderId" db:"order_id"`
	Carrier    string          `json:"carrier" db:"carrier"`
	AWB        string          `json:"awb" db:"awb"`
	Status     string          `json:"status" db:"status"`
	LabelURL   *string         `json:"labelUrl,omitempty" db:"label_url"`
	RawPayload json.RawMessage `json:"rawPayload,omitempty" db:"raw_payload"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

// ShipmentBooked is the local status recorded right after the carrier accepts a consignment.
const ShipmentBooked = "booked"
