package models

import "time"

// User is the model for the 'users' table.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Address is the model for the 'addresses' table.
type Address struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Label     string    `json:"label" db:"label"`
	Line1     string    `json:"line1" db:"line1"`
	Line2     string    `json:"line2,omitempty" db:"line2"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	Postcode  string    `json:"postcode" db:"postcode"`
	Country   string    `json:"country" db:"country"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	IsDefault bool      `json:"isDefault" db:"is_default"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Snapshot copies the address into the form stored on an order.
func (a Address) Snapshot() ShippingAddress {
	return ShippingAddress{
		Line1:    a.Line1,
		Line2:    a.Line2,
		City:     a.City,
		State:    a.State,
		Postcode: a.Postcode,
		Country:  a.Country,
	}
}
