package handlers

import (
	"context"
	"time"

	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/01moynul/herbal-storefront/internal/orders"
	"github.com/01moynul/herbal-storefront/internal/shipping"
	"github.com/01moynul/herbal-storefront/internal/store"
	"github.com/stretchr/testify/mock"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) Create(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 42
	}
	return args.Error(0)
}

func (m *mockUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUsers) List(ctx context.Context, role models.Role, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, role, limit, offset)
	u, _ := args.Get(0).([]models.User)
	return u, args.Error(1)
}

type mockProducts struct {
	mock.Mock
}

func (m *mockProducts) Create(ctx context.Context, p *models.Product) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil {
		p.ID = 7
	}
	return args.Error(0)
}

func (m *mockProducts) Update(ctx context.Context, id int64, patch models.ProductPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *mockProducts) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProducts) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProducts) List(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	args := m.Called(ctx, f)
	p, _ := args.Get(0).([]models.Product)
	return p, args.Int(1), args.Error(2)
}

func (m *mockProducts) GetMany(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	args := m.Called(ctx, ids)
	p, _ := args.Get(0).(map[int64]models.Product)
	return p, args.Error(1)
}

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) PlaceOrder(ctx context.Context, in orders.PlaceOrderInput) (*models.Order, error) {
	args := m.Called(ctx, in)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *mockOrders) Get(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *mockOrders) GetForUser(ctx context.Context, userID, id int64) (*models.Order, error) {
	args := m.Called(ctx, userID, id)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *mockOrders) List(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	args := m.Called(ctx, f)
	o, _ := args.Get(0).([]models.Order)
	return o, args.Error(1)
}

func (m *mockOrders) UpdateStatus(ctx context.Context, id int64, requested string) (*models.Order, error) {
	args := m.Called(ctx, id, requested)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

type mockShipping struct {
	mock.Mock
}

func (m *mockShipping) CreateShipment(ctx context.Context, orderID int64) (*models.Shipment, error) {
	args := m.Called(ctx, orderID)
	s, _ := args.Get(0).(*models.Shipment)
	return s, args.Error(1)
}

func (m *mockShipping) SyncTracking(ctx context.Context, orderID int64) (*shipping.SyncResult, error) {
	args := m.Called(ctx, orderID)
	r, _ := args.Get(0).(*shipping.SyncResult)
	return r, args.Error(1)
}

type mockReports struct {
	mock.Mock
}

func (m *mockReports) Sales(ctx context.Context, from, to time.Time, bucket models.ReportBucket) ([]models.SalesPoint, error) {
	args := m.Called(ctx, from, to, bucket)
	p, _ := args.Get(0).([]models.SalesPoint)
	return p, args.Error(1)
}

type mockSettings struct {
	mock.Mock
}

func (m *mockSettings) All(ctx context.Context) ([]models.Setting, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]models.Setting)
	return s, args.Error(1)
}

func (m *mockSettings) Upsert(ctx context.Context, values map[string]string) error {
	return m.Called(ctx, values).Error(0)
}

type mockCopywriter struct {
	mock.Mock
}

func (m *mockCopywriter) ProductDescription(ctx context.Context, p *models.Product, category, notes string) (string, int, error) {
	args := m.Called(ctx, p, category, notes)
	return args.String(0), args.Int(1), args.Error(2)
}
