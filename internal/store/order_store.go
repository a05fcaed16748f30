package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/database"
	"github.com/01moynul/herbal-storefront/internal/models"
)

const orderColumns = `id, order_number, user_id, status, payment_status, payment_method, total,
	customer_info, shipping_address, created_at, updated_at`

// OrderStore persists orders, their items and delivery rows.
type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// OrderFilter narrows order listings. Zero values mean "any".
type OrderFilter struct {
	Status models.OrderStatus
	UserID *int64
	Limit  int
	Offset int
}

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.Total,
		&o.Customer, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts the order and its items and decrements product stock, all
// in one transaction. It fills in the generated IDs.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		// 1. --- Reserve stock ---
		for _, item := range order.Items {
			res, err := tx.ExecContext(ctx,
				"UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?",
				item.Quantity, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("reserve stock: %w", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return apperr.FieldError("items", fmt.Sprintf("%s is out of stock", item.ProductName))
			}
		}

		// 2. --- Insert the order row ---
		res, err := tx.ExecContext(ctx, `
			INSERT INTO orders (order_number, user_id, status, payment_status, payment_method, total, customer_info, shipping_address)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			order.OrderNumber, order.UserID, order.Status, order.PaymentStatus, order.PaymentMethod,
			order.Total, order.Customer, order.ShippingAddress)
		if err != nil {
			if database.IsDuplicateKey(err) {
				return apperr.Conflict("order number %s already exists", order.OrderNumber)
			}
			return fmt.Errorf("insert order: %w", err)
		}
		order.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("order id: %w", err)
		}

		// 3. --- Insert the items ---
		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			res, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
				VALUES (?, ?, ?, ?, ?)`,
				item.OrderID, item.ProductID, item.ProductName, item.UnitPrice, item.Quantity)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
			if item.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("order item id: %w", err)
			}
		}
		return nil
	})
}

// GetByID loads an order with its items, delivery and shipment.
func (s *OrderStore) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("order", id)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if order.Items, err = s.items(ctx, id); err != nil {
		return nil, err
	}

	var delivered time.Time
	err = s.db.QueryRowContext(ctx, "SELECT delivered_at FROM deliveries WHERE order_id = ?", id).Scan(&delivered)
	switch {
	case err == nil:
		order.Delivery = &models.Delivery{OrderID: id, DeliveredAt: delivered}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("get delivery: %w", err)
	}

	shipment, err := getShipment(ctx, s.db, id)
	switch {
	case err == nil:
		order.Shipment = shipment
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	return order, nil
}

func (s *OrderStore) items(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, unit_price, quantity
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List returns orders newest first, without items.
func (s *OrderStore) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE 1=1"
	var args []any
	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, f.Status)
	}
	if f.UserID != nil {
		query += " AND user_id = ?"
		args = append(args, *f.UserID)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, clampLimit(f.Limit, 50, 200), max(f.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// UpdateStatus changes only the status column.
func (s *OrderStore) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	_, err := s.db.ExecContext(ctx, "UPDATE orders SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// MarkDelivered sets the order delivered and paid and upserts its delivery
// row, in one transaction.
func (s *OrderStore) MarkDelivered(ctx context.Context, id int64, at time.Time) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE orders SET status = ?, payment_status = ? WHERE id = ?",
			models.OrderDelivered, models.PaymentPaid, id); err != nil {
			return fmt.Errorf("mark order delivered: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO deliveries (order_id, delivered_at) VALUES (?, ?)
			ON DUPLICATE KEY UPDATE delivered_at = VALUES(delivered_at)`,
			id, at); err != nil {
			return fmt.Errorf("upsert delivery: %w", err)
		}
		return nil
	})
}
