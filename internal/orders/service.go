// Package orders implements the order lifecycle: checkout and admin
// status changes.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/cart"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/01moynul/herbal-storefront/internal/store"
	"github.com/google/uuid"
)

// OrderStore is the persistence the service needs.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, f store.OrderFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
	MarkDelivered(ctx context.Context, id int64, at time.Time) error
}

type ProductCatalog interface {
	GetMany(ctx context.Context, ids []int64) (map[int64]models.Product, error)
}

type AddressBook interface {
	GetForUser(ctx context.Context, userID, id int64) (*models.Address, error)
}

type LocationDirectory interface {
	GetByPostcode(ctx context.Context, postcode string) (*models.Location, error)
}

// Notifier receives order events after they are committed.
type Notifier interface {
	OrderCreated(ctx context.Context, order *models.Order) error
	OrderStatusChanged(ctx context.Context, order *models.Order) error
}

type Service struct {
	orders    OrderStore
	products  ProductCatalog
	addresses AddressBook
	locations LocationDirectory
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(
	orders OrderStore,
	products ProductCatalog,
	addresses AddressBook,
	locations LocationDirectory,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		orders:    orders,
		products:  products,
		addresses: addresses,
		locations: locations,
		notifier:  notifier,
		logger:    logger.With("component", "orders"),
		now:       time.Now,
	}
}

// UpdateStatus sets the requested status on an order. "delivered" also
// marks the order paid and records the delivery time; every other status
// changes only the status column.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, requested string) (*models.Order, error) {
	// 1. --- Validate the requested status ---
	status, ok := models.ParseOrderStatus(strings.TrimSpace(requested))
	if !ok {
		return nil, apperr.FieldError("status", fmt.Sprintf("must be one of %s", joinStatuses()))
	}

	// 2. --- Load the order ---
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != status && !order.Status.CanTransitionTo(status) {
		s.logger.Warn("unusual order status transition",
			"order_id", orderID, "from", order.Status, "to", status)
	}

	// 3. --- Apply ---
	if status == models.OrderDelivered {
		err = s.orders.MarkDelivered(ctx, orderID, s.now())
	} else {
		err = s.orders.UpdateStatus(ctx, orderID, status)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order status updated", "order_id", orderID, "from", order.Status, "to", status)

	if order.Status != status {
		if err := s.notifier.OrderStatusChanged(ctx, updated); err != nil {
			s.logger.Error("status notification failed", "order_id", orderID, "error", err)
		}
	}
	return updated, nil
}

func joinStatuses() string {
	names := make([]string, 0, 6)
	for _, st := range models.OrderStatuses() {
		names = append(names, string(st))
	}
	return strings.Join(names, ", ")
}

func (s *Service) Get(ctx context.Context, orderID int64) (*models.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// GetForUser returns an order only if userID placed it.
func (s *Service) GetForUser(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, apperr.NotFound("order", orderID)
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.FieldError("status", fmt.Sprintf("must be one of %s", joinStatuses()))
	}
	return s.orders.List(ctx, f)
}

// PlaceOrderInput is a checkout request. Either AddressID or Address must
// be set.
type PlaceOrderInput struct {
	UserID        *int64
	Customer      models.CustomerInfo
	AddressID     *int64
	Address       *models.ShippingAddress
	PaymentMethod models.PaymentMethod
	Lines         []cart.Line
}

// PlaceOrder prices the lines from the catalog, snapshots customer and
// address, and stores the order. Notifications run after the commit and
// never fail the checkout.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	// 1. --- Basic checks ---
	if len(in.Lines) == 0 {
		return nil, apperr.FieldError("items", "cart is empty")
	}
	if strings.TrimSpace(in.Customer.Name) == "" {
		return nil, apperr.FieldError("customer.name", "name is required")
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentCOD
	}
	if in.PaymentMethod != models.PaymentCOD && in.PaymentMethod != models.PaymentPrepaid {
		return nil, apperr.FieldError("paymentMethod", "must be cod or prepaid")
	}

	// 2. --- Resolve the shipping address snapshot ---
	address, err := s.resolveAddress(ctx, in)
	if err != nil {
		return nil, err
	}

	location, err := s.locations.GetByPostcode(ctx, address.Postcode)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.FieldError("address.postcode", "we do not deliver to this postcode")
		}
		return nil, err
	}
	if !location.Serviceable {
		return nil, apperr.FieldError("address.postcode", "we do not deliver to this postcode")
	}

	// 3. --- Price the lines from the catalog ---
	ids := make([]int64, 0, len(in.Lines))
	for _, l := range in.Lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	total := location.DeliveryCharge
	items := make([]models.OrderItem, 0, len(in.Lines))
	for _, l := range in.Lines {
		p, ok := products[l.ProductID]
		if !ok || p.Status != models.ProductActive {
			return nil, apperr.FieldError("items", fmt.Sprintf("product %d is not available", l.ProductID))
		}
		if l.Quantity < 1 {
			return nil, apperr.FieldError("items", fmt.Sprintf("invalid quantity for %s", p.Name))
		}
		if p.Stock < l.Quantity {
			return nil, apperr.FieldError("items", fmt.Sprintf("%s is out of stock", p.Name))
		}
		item := models.OrderItem{ProductID: p.ID, ProductName: p.Name, UnitPrice: p.Price, Quantity: l.Quantity}
		total = total.Add(item.LineTotal())
		items = append(items, item)
	}

	// 4. --- Store the order ---
	order := &models.Order{
		OrderNumber:     s.newOrderNumber(),
		UserID:          in.UserID,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		PaymentMethod:   in.PaymentMethod,
		Total:           total.Round(2),
		Customer:        in.Customer,
		ShippingAddress: *address,
		Items:           items,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("order placed", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.Total.StringFixed(2))

	// 5. --- Notify (best-effort) ---
	if err := s.notifier.OrderCreated(ctx, order); err != nil {
		s.logger.Error("order notifications failed", "order_id", order.ID, "error", err)
	}
	return order, nil
}

func (s *Service) resolveAddress(ctx context.Context, in PlaceOrderInput) (*models.ShippingAddress, error) {
	if in.AddressID != nil {
		if in.UserID == nil {
			return nil, apperr.FieldError("addressId", "saved addresses require a signed-in customer")
		}
		saved, err := s.addresses.GetForUser(ctx, *in.UserID, *in.AddressID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, apperr.FieldError("addressId", "address not found")
			}
			return nil, err
		}
		snap := saved.Snapshot()
		return &snap, nil
	}
	if in.Address == nil {
		return nil, apperr.FieldError("address", "address or addressId is required")
	}
	a := *in.Address
	if strings.TrimSpace(a.Line1) == "" || strings.TrimSpace(a.City) == "" || strings.TrimSpace(a.Postcode) == "" {
		return nil, apperr.FieldError("address", "line1, city and postcode are required")
	}
	return &a, nil
}

func (s *Service) newOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("HS-%s-%s", s.now().Format("060102"), id[:8])
}
