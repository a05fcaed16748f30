package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location is the model for the 'locations' table: a delivery postcode the
// store may or may not serve.
type Location struct {
	ID             int64           `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Postcode       string          `json:"postcode" db:"postcode"`
	Serviceable    bool            `json:"serviceable" db:"serviceable"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge" db:"delivery_charge"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}
