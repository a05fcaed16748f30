package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/database"
	"github.com/01moynul/herbal-storefront/internal/models"
)

// ShipmentStore persists carrier bookings. There is at most one shipment
// per order, enforced by a unique index on order_id.
type ShipmentStore struct {
	db *sql.DB
}

func NewShipmentStore(db *sql.DB) *ShipmentStore {
	return &ShipmentStore{db: db}
}

func getShipment(ctx context.Context, q database.Querier, orderID int64) (*models.Shipment, error) {
	var (
		s   models.Shipment
		raw []byte
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, order_id, carrier, awb, status, label_url, raw_payload, created_at, updated_at
		FROM shipments WHERE order_id = ?`, orderID).
		Scan(&s.ID, &s.OrderID, &s.Carrier, &s.AWB, &s.Status, &s.LabelURL, &raw, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("shipment for order", orderID)
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	if len(raw) > 0 {
		s.RawPayload = json.RawMessage(raw)
	}
	return &s, nil
}

// GetByOrderID returns the shipment booked for an order.
func (s *ShipmentStore) GetByOrderID(ctx context.Context, orderID int64) (*models.Shipment, error) {
	return getShipment(ctx, s.db, orderID)
}

// CreateForOrder inserts the shipment and moves the order to processing in
// one transaction. A second shipment for the same order is a conflict.
func (s *ShipmentStore) CreateForOrder(ctx context.Context, shipment *models.Shipment) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO shipments (order_id, carrier, awb, status, label_url, raw_payload)
			VALUES (?, ?, ?, ?, ?, ?)`,
			shipment.OrderID, shipment.Carrier, shipment.AWB, shipment.Status, shipment.LabelURL, nullJSON(shipment.RawPayload))
		if err != nil {
			if database.IsDuplicateKey(err) {
				return apperr.Conflict("order %d already has a shipment", shipment.OrderID)
			}
			return fmt.Errorf("insert shipment: %w", err)
		}
		if shipment.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("shipment id: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE orders SET status = ? WHERE id = ?", models.OrderProcessing, shipment.OrderID); err != nil {
			return fmt.Errorf("set order processing: %w", err)
		}
		return nil
	})
}

// UpdateTracking stores the latest carrier status and raw payload.
func (s *ShipmentStore) UpdateTracking(ctx context.Context, orderID int64, status string, raw json.RawMessage) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE shipments SET status = ?, raw_payload = ? WHERE order_id = ?",
		status, nullJSON(raw), orderID)
	if err != nil {
		return fmt.Errorf("update shipment tracking: %w", err)
	}
	return nil
}

// ListSyncableOrderIDs returns the orders whose shipment is still moving,
// i.e. the order is processing or shipped.
func (s *ShipmentStore) ListSyncableOrderIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.order_id FROM shipments s
		JOIN orders o ON o.id = s.order_id
		WHERE o.status IN (?, ?)
		ORDER BY s.order_id`,
		models.OrderProcessing, models.OrderShipped)
	if err != nil {
		return nil, fmt.Errorf("list syncable shipments: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
