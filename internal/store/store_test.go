package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestProductUpdateEmptyImagesDeletesInSameTx(t *testing.T) {
	db, mock := newMock(t)
	products := NewProductStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET updated_at = CURRENT_TIMESTAMP, name = ? WHERE id = ?")).
		WithArgs("Lavender Oil", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM product_images WHERE product_id = ?")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	name := "Lavender Oil"
	empty := []models.ProductImage{}
	err := products.Update(context.Background(), 7, models.ProductPatch{Name: &name, Images: &empty})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductUpdateNilMediaIsUntouched(t *testing.T) {
	db, mock := newMock(t)
	products := NewProductStore(db)

	stock := 12
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET updated_at = CURRENT_TIMESTAMP, stock = ? WHERE id = ?")).
		WithArgs(12, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, products.Update(context.Background(), 3, models.ProductPatch{Stock: &stock}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductUpdateReplacesVideos(t *testing.T) {
	db, mock := newMock(t)
	products := NewProductStore(db)

	videos := []models.ProductVideo{{URL: "https://cdn.example.com/a.mp4"}, {URL: "https://cdn.example.com/b.mp4"}}
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM product_videos")).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO product_videos")).
		WithArgs(int64(5), "https://cdn.example.com/a.mp4", 0).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO product_videos")).
		WithArgs(int64(5), "https://cdn.example.com/b.mp4", 1).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, products.Update(context.Background(), 5, models.ProductPatch{Videos: &videos}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductUpdateMissingRollsBack(t *testing.T) {
	db, mock := newMock(t)
	products := NewProductStore(db)

	empty := []models.ProductImage{}
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err := products.Update(context.Background(), 99, models.ProductPatch{Images: &empty})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductCreateDuplicateSlugIsConflict(t *testing.T) {
	db, mock := newMock(t)
	products := NewProductStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'rose-tea' for key 'uq_products_slug'"})
	mock.ExpectRollback()

	err := products.Create(context.Background(), &models.Product{
		Name: "Rose Tea", Slug: "rose-tea", Price: decimal.NewFromInt(5), Status: models.ProductActive,
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkDeliveredRunsInOneTx(t *testing.T) {
	db, mock := newMock(t)
	orders := NewOrderStore(db)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = ?, payment_status = ? WHERE id = ?")).
		WithArgs("delivered", "paid", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deliveries (order_id, delivered_at) VALUES (?, ?)")).
		WithArgs(int64(42), at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, orders.MarkDelivered(context.Background(), 42, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusTouchesOnlyStatus(t *testing.T) {
	db, mock := newMock(t)
	orders := NewOrderStore(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = ? WHERE id = ?")).
		WithArgs("shipped", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, orders.UpdateStatus(context.Background(), 42, models.OrderShipped))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreateOutOfStockRollsBack(t *testing.T) {
	db, mock := newMock(t)
	orders := NewOrderStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?")).
		WithArgs(3, int64(1), 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := orders.Create(context.Background(), &models.Order{
		OrderNumber: "HS-1",
		Items:       []models.OrderItem{{ProductID: 1, ProductName: "Chamomile", Quantity: 3}},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, apperr.Fields(err)["items"], "Chamomile")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderNotFound(t *testing.T) {
	db, mock := newMock(t)
	orders := NewOrderStore(db)

	mock.ExpectQuery("FROM orders WHERE id = ?").WithArgs(int64(8)).WillReturnError(sql.ErrNoRows)

	_, err := orders.GetByID(context.Background(), 8)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateShipmentDuplicateIsConflict(t *testing.T) {
	db, mock := newMock(t)
	shipments := NewShipmentStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO shipments").WillReturnError(&mysql.MySQLError{Number: 1062})
	mock.ExpectRollback()

	err := shipments.CreateForOrder(context.Background(), &models.Shipment{OrderID: 1, Carrier: "acme", AWB: "AWB1", Status: models.ShipmentBooked})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateShipmentSetsOrderProcessing(t *testing.T) {
	db, mock := newMock(t)
	shipments := NewShipmentStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO shipments").
		WithArgs(int64(4), "acme", "AWB4", "booked", nil, nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = ? WHERE id = ?")).
		WithArgs("processing", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := &models.Shipment{OrderID: 4, Carrier: "acme", AWB: "AWB4", Status: models.ShipmentBooked}
	require.NoError(t, shipments.CreateForOrder(context.Background(), s))
	assert.Equal(t, int64(11), s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaintenanceMode(t *testing.T) {
	db, mock := newMock(t)
	settings := NewSettingStore(db)

	mock.ExpectQuery("SELECT setting_value FROM settings").
		WithArgs("maintenance_mode").
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow("TRUE"))
	on, err := settings.MaintenanceMode(context.Background())
	require.NoError(t, err)
	assert.True(t, on)

	mock.ExpectQuery("SELECT setting_value FROM settings").
		WithArgs("maintenance_mode").
		WillReturnError(sql.ErrNoRows)
	on, err = settings.MaintenanceMode(context.Background())
	require.NoError(t, err)
	assert.False(t, on)
}

func TestNormalizePostcode(t *testing.T) {
	assert.Equal(t, "LS14AP", NormalizePostcode(" ls1 4ap "))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
