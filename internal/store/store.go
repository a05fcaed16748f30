// Package store holds the MySQL-backed repositories. Every store takes a
// *sql.DB and writes plain SQL; multi-row writes run inside one *sql.Tx.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Stores groups every repository so wiring code can pass them around together.
type Stores struct {
	Orders        *OrderStore
	Shipments     *ShipmentStore
	Notifications *NotificationStore
	Users         *UserStore
	Addresses     *AddressStore
	Products      *ProductStore
	Categories    *CategoryStore
	Locations     *LocationStore
	Settings      *SettingStore
	Reports       *ReportStore
}

func New(db *sql.DB) *Stores {
	return &Stores{
		Orders:        NewOrderStore(db),
		Shipments:     NewShipmentStore(db),
		Notifications: NewNotificationStore(db),
		Users:         NewUserStore(db),
		Addresses:     NewAddressStore(db),
		Products:      NewProductStore(db),
		Categories:    NewCategoryStore(db),
		Locations:     NewLocationStore(db),
		Settings:      NewSettingStore(db),
		Reports:       NewReportStore(db),
	}
}

// withTx runs fn inside a transaction, committing only when fn succeeds.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
