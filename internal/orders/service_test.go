package orders

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/cart"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/01moynul/herbal-storefront/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderStore struct {
	mock.Mock
}

func (m *mockOrderStore) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil {
		order.ID = 100
	}
	return args.Error(0)
}

func (m *mockOrderStore) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *mockOrderStore) List(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	args := m.Called(ctx, f)
	o, _ := args.Get(0).([]models.Order)
	return o, args.Error(1)
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockOrderStore) MarkDelivered(ctx context.Context, id int64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetMany(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	args := m.Called(ctx, ids)
	p, _ := args.Get(0).(map[int64]models.Product)
	return p, args.Error(1)
}

type mockAddressBook struct {
	mock.Mock
}

func (m *mockAddressBook) GetForUser(ctx context.Context, userID, id int64) (*models.Address, error) {
	args := m.Called(ctx, userID, id)
	a, _ := args.Get(0).(*models.Address)
	return a, args.Error(1)
}

type mockLocations struct {
	mock.Mock
}

func (m *mockLocations) GetByPostcode(ctx context.Context, postcode string) (*models.Location, error) {
	args := m.Called(ctx, postcode)
	l, _ := args.Get(0).(*models.Location)
	return l, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) OrderCreated(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockNotifier) OrderStatusChanged(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

type fixture struct {
	svc       *Service
	orders    *mockOrderStore
	catalog   *mockCatalog
	addresses *mockAddressBook
	locations *mockLocations
	notifier  *mockNotifier
	now       time.Time
}

func newFixture() *fixture {
	f := &fixture{
		orders:    new(mockOrderStore),
		catalog:   new(mockCatalog),
		addresses: new(mockAddressBook),
		locations: new(mockLocations),
		notifier:  new(mockNotifier),
		now:       time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
	}
	f.svc = NewService(f.orders, f.catalog, f.addresses, f.locations, f.notifier, slog.New(slog.DiscardHandler))
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	for _, requested := range []string{"", "refunded", "Delivered", "lost"} {
		f := newFixture()

		_, err := f.svc.UpdateStatus(context.Background(), 1, requested)

		assert.ErrorIs(t, err, apperr.ErrValidation, requested)
		assert.Contains(t, apperr.Fields(err), "status")
		f.orders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	f := newFixture()
	f.orders.On("GetByID", mock.Anything, int64(9)).Return(nil, apperr.NotFound("order", 9))

	_, err := f.svc.UpdateStatus(context.Background(), 9, "shipped")

	assert.ErrorIs(t, err, apperr.ErrNotFound)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatusDeliveredMarksPaid(t *testing.T) {
	f := newFixture()
	before := &models.Order{ID: 5, Status: models.OrderShipped, PaymentStatus: models.PaymentPending}
	after := &models.Order{ID: 5, Status: models.OrderDelivered, PaymentStatus: models.PaymentPaid,
		Delivery: &models.Delivery{OrderID: 5, DeliveredAt: f.now}}

	f.orders.On("GetByID", mock.Anything, int64(5)).Return(before, nil).Once()
	f.orders.On("MarkDelivered", mock.Anything, int64(5), f.now).Return(nil).Once()
	f.orders.On("GetByID", mock.Anything, int64(5)).Return(after, nil).Once()
	f.notifier.On("OrderStatusChanged", mock.Anything, after).Return(nil).Once()

	got, err := f.svc.UpdateStatus(context.Background(), 5, "delivered")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	require.NotNil(t, got.Delivery)
	assert.Equal(t, f.now, got.Delivery.DeliveredAt)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestUpdateStatusOtherStatusesLeavePaymentAlone(t *testing.T) {
	for _, st := range []models.OrderStatus{models.OrderPending, models.OrderProcessing, models.OrderShipped, models.OrderCancelled, models.OrderReturned} {
		f := newFixture()
		before := &models.Order{ID: 5, Status: models.OrderDelivered, PaymentStatus: models.PaymentPaid}
		after := &models.Order{ID: 5, Status: st, PaymentStatus: models.PaymentPaid}

		f.orders.On("GetByID", mock.Anything, int64(5)).Return(before, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, int64(5), st).Return(nil).Once()
		f.orders.On("GetByID", mock.Anything, int64(5)).Return(after, nil).Once()
		f.notifier.On("OrderStatusChanged", mock.Anything, after).Return(nil)

		got, err := f.svc.UpdateStatus(context.Background(), 5, string(st))

		require.NoError(t, err, st)
		assert.Equal(t, st, got.Status)
		assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
		f.orders.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything, mock.Anything)
		f.orders.AssertExpectations(t)
	}
}

func TestUpdateStatusNotificationFailureIsIgnored(t *testing.T) {
	f := newFixture()
	order := &models.Order{ID: 2, Status: models.OrderPending}
	updated := &models.Order{ID: 2, Status: models.OrderCancelled}
	f.orders.On("GetByID", mock.Anything, int64(2)).Return(order, nil).Once()
	f.orders.On("UpdateStatus", mock.Anything, int64(2), models.OrderCancelled).Return(nil)
	f.orders.On("GetByID", mock.Anything, int64(2)).Return(updated, nil).Once()
	f.notifier.On("OrderStatusChanged", mock.Anything, updated).Return(errors.New("smtp down"))

	_, err := f.svc.UpdateStatus(context.Background(), 2, "cancelled")
	assert.NoError(t, err)
}

func TestGetForUserHidesOtherCustomersOrders(t *testing.T) {
	f := newFixture()
	owner := int64(3)
	f.orders.On("GetByID", mock.Anything, int64(1)).Return(&models.Order{ID: 1, UserID: &owner}, nil)

	_, err := f.svc.GetForUser(context.Background(), 4, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	o, err := f.svc.GetForUser(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.ID)
}

func activeProduct(id int64, price string, stock int) models.Product {
	return models.Product{ID: id, Name: "Herb " + price, Price: decimal.RequireFromString(price), Stock: stock, Status: models.ProductActive}
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture()
	userID := int64(12)
	f.locations.On("GetByPostcode", mock.Anything, "LS1 4AP").
		Return(&models.Location{Postcode: "LS14AP", Serviceable: true, DeliveryCharge: decimal.RequireFromString("3.99")}, nil)
	f.catalog.On("GetMany", mock.Anything, []int64{1, 2}).Return(map[int64]models.Product{
		1: activeProduct(1, "4.50", 10),
		2: activeProduct(2, "12.00", 1),
	}, nil)
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil)
	f.notifier.On("OrderCreated", mock.Anything, mock.AnythingOfType("*models.Order")).Return(errors.New("sms down"))

	order, err := f.svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:   &userID,
		Customer: models.CustomerInfo{Name: "Ana", Email: "ana@example.com", Phone: "+447700900000"},
		Address:  &models.ShippingAddress{Line1: "1 Fern Rd", City: "Leeds", Postcode: "LS1 4AP", Country: "GB"},
		Lines:    []cart.Line{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(100), order.ID)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentCOD, order.PaymentMethod)
	assert.True(t, decimal.RequireFromString("24.99").Equal(order.Total), order.Total.String())
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Ana", order.Customer.Name)
	assert.Regexp(t, `^HS-260504-[0-9A-F]{8}$`, order.OrderNumber)
	f.notifier.AssertExpectations(t)
}

func TestPlaceOrderUsesSavedAddress(t *testing.T) {
	f := newFixture()
	userID := int64(12)
	addrID := int64(4)
	f.addresses.On("GetForUser", mock.Anything, userID, addrID).
		Return(&models.Address{ID: 4, Line1: "2 Oak St", City: "York", Postcode: "YO1 7HH", Country: "GB"}, nil)
	f.locations.On("GetByPostcode", mock.Anything, "YO1 7HH").
		Return(&models.Location{Serviceable: true, DeliveryCharge: decimal.Zero}, nil)
	f.catalog.On("GetMany", mock.Anything, []int64{1}).Return(map[int64]models.Product{1: activeProduct(1, "5.00", 3)}, nil)
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil)
	f.notifier.On("OrderCreated", mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: &userID, AddressID: &addrID,
		Customer: models.CustomerInfo{Name: "Ana"},
		Lines:    []cart.Line{{ProductID: 1, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, "2 Oak St", order.ShippingAddress.Line1)
}

func TestPlaceOrderValidation(t *testing.T) {
	addr := &models.ShippingAddress{Line1: "1 Fern Rd", City: "Leeds", Postcode: "LS1 4AP"}
	tests := []struct {
		name  string
		in    PlaceOrderInput
		setup func(f *fixture)
		field string
	}{
		{
			name:  "empty cart",
			in:    PlaceOrderInput{Customer: models.CustomerInfo{Name: "Ana"}, Address: addr},
			field: "items",
		},
		{
			name:  "missing address",
			in:    PlaceOrderInput{Customer: models.CustomerInfo{Name: "Ana"}, Lines: []cart.Line{{ProductID: 1, Quantity: 1}}},
			field: "address",
		},
		{
			name: "unserviceable postcode",
			in:   PlaceOrderInput{Customer: models.CustomerInfo{Name: "Ana"}, Address: addr, Lines: []cart.Line{{ProductID: 1, Quantity: 1}}},
			setup: func(f *fixture) {
				f.locations.On("GetByPostcode", mock.Anything, "LS1 4AP").Return(&models.Location{Serviceable: false}, nil)
			},
			field: "address.postcode",
		},
		{
			name: "unknown postcode",
			in:   PlaceOrderInput{Customer: models.CustomerInfo{Name: "Ana"}, Address: addr, Lines: []cart.Line{{ProductID: 1, Quantity: 1}}},
			setup: func(f *fixture) {
				f.locations.On("GetByPostcode", mock.Anything, "LS1 4AP").Return(nil, apperr.NotFound("location", "LS14AP"))
			},
			field: "address.postcode",
		},
		{
			name: "insufficient stock",
			in:   PlaceOrderInput{Customer: models.CustomerInfo{Name: "Ana"}, Address: addr, Lines: []cart.Line{{ProductID: 1, Quantity: 5}}},
			setup: func(f *fixture) {
				f.locations.On("GetByPostcode", mock.Anything, "LS1 4AP").Return(&models.Location{Serviceable: true}, nil)
				f.catalog.On("GetMany", mock.Anything, []int64{1}).Return(map[int64]models.Product{1: activeProduct(1, "1.00", 2)}, nil)
			},
			field: "items",
		},
		{
			name: "draft product",
			in:   PlaceOrderInput{Customer: models.CustomerInfo{Name: "Ana"}, Address: addr, Lines: []cart.Line{{ProductID: 1, Quantity: 1}}},
			setup: func(f *fixture) {
				p := activeProduct(1, "1.00", 2)
				p.Status = models.ProductDraft
				f.locations.On("GetByPostcode", mock.Anything, "LS1 4AP").Return(&models.Location{Serviceable: true}, nil)
				f.catalog.On("GetMany", mock.Anything, []int64{1}).Return(map[int64]models.Product{1: p}, nil)
			},
			field: "items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.svc.PlaceOrder(context.Background(), tt.in)

			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Contains(t, apperr.Fields(err), tt.field)
			f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			f.notifier.AssertNotCalled(t, "OrderCreated", mock.Anything, mock.Anything)
		})
	}
}
