// Package shipping books consignments with the carrier and keeps order
// status in step with carrier tracking.
package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/01moynul/herbal-storefront/internal/shipping")

type OrderReader interface {
	GetByID(ctx context.Context, id int64) (*models.Order, error)
}

type ShipmentStore interface {
	GetByOrderID(ctx context.Context, orderID int64) (*models.Shipment, error)
	CreateForOrder(ctx context.Context, s *models.Shipment) error
	UpdateTracking(ctx context.Context, orderID int64, status string, raw json.RawMessage) error
	ListSyncableOrderIDs(ctx context.Context) ([]int64, error)
}

// StatusUpdater applies an order status the same way an admin would.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID int64, requested string) (*models.Order, error)
}

type Service struct {
	orders    OrderReader
	shipments ShipmentStore
	statuses  StatusUpdater
	carrier   Carrier
	logger    *slog.Logger
}

func NewService(orders OrderReader, shipments ShipmentStore, statuses StatusUpdater, carrier Carrier, logger *slog.Logger) *Service {
	return &Service{
		orders:    orders,
		shipments: shipments,
		statuses:  statuses,
		carrier:   carrier,
		logger:    logger.With("component", "shipping"),
	}
}

// CreateShipment books the order with the carrier and records the AWB.
// An order can be booked only once.
func (s *Service) CreateShipment(ctx context.Context, orderID int64) (*models.Shipment, error) {
	ctx, span := tracer.Start(ctx, "shipping.CreateShipment", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	// 1. --- Load the order ---
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// 2. --- Refuse a second booking before calling the carrier ---
	if order.Shipment != nil {
		return nil, apperr.Conflict("order %d already has shipment %s", orderID, order.Shipment.AWB)
	}
	if _, err := s.shipments.GetByOrderID(ctx, orderID); err == nil {
		return nil, apperr.Conflict("order %d already has a shipment", orderID)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	// 3. --- Book with the carrier ---
	booking, err := s.carrier.Book(ctx, BuildConsignment(order))
	if err != nil {
		s.logger.Error("carrier booking failed", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("create shipment for order %d: %w", orderID, err)
	}

	// 4. --- Persist shipment + move order to processing ---
	shipment := &models.Shipment{
		OrderID: orderID,
		Carrier: s.carrier.Name(),
		AWB:     booking.AWB,
		Status:  models.ShipmentBooked,
	}
	if booking.LabelURL != "" {
		label := booking.LabelURL
		shipment.LabelURL = &label
	}
	if err := s.shipments.CreateForOrder(ctx, shipment); err != nil {
		return nil, err
	}

	s.logger.Info("shipment booked", "order_id", orderID, "awb", shipment.AWB, "carrier", shipment.Carrier)
	return shipment, nil
}

// BuildConsignment copies the order snapshots into a carrier request.
func BuildConsignment(order *models.Order) Consignment {
	c := Consignment{
		Reference: order.OrderNumber,
		Recipient: Recipient{
			Name:     order.Customer.Name,
			Phone:    order.Customer.Phone,
			Email:    order.Customer.Email,
			Line1:    order.ShippingAddress.Line1,
			Line2:    order.ShippingAddress.Line2,
			City:     order.ShippingAddress.City,
			State:    order.ShippingAddress.State,
			Postcode: order.ShippingAddress.Postcode,
			Country:  order.ShippingAddress.Country,
		},
		Items:         make([]ConsignmentItem, 0, len(order.Items)),
		DeclaredValue: order.Total.StringFixed(2),
		WeightKg:      PlaceholderWeightKg,
		LengthCm:      PlaceholderLengthCm,
		WidthCm:       PlaceholderWidthCm,
		HeightCm:      PlaceholderHeightCm,
	}
	for _, it := range order.Items {
		c.Items = append(c.Items, ConsignmentItem{
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
		})
	}
	if order.PaymentMethod == models.PaymentCOD && order.PaymentStatus != models.PaymentPaid {
		c.CODAmount = order.Total.StringFixed(2)
	} else {
		c.CODAmount = decimal.Zero.StringFixed(2)
	}
	return c
}

// MapTrackingStatus translates a carrier status into an order status.
// ok is false for strings the store does not act on.
func MapTrackingStatus(raw string) (status models.OrderStatus, ok bool) {
	switch NormalizeTrackingStatus(raw) {
	case "delivered":
		return models.OrderDelivered, true
	case "shipped", "in transit":
		return models.OrderShipped, true
	case "cancelled":
		return models.OrderCancelled, true
	case "rto":
		return models.OrderReturned, true
	default:
		return "", false
	}
}

func NormalizeTrackingStatus(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// SyncResult reports what a tracking sync changed.
type SyncResult struct {
	OrderID       int64              `json:"orderId"`
	AWB           string             `json:"awb"`
	CarrierStatus string             `json:"carrierStatus"`
	OrderStatus   models.OrderStatus `json:"orderStatus,omitempty"`
	OrderUpdated  bool               `json:"orderUpdated"`
}

// SyncTracking fetches the carrier status for the order's shipment, stores
// it, and moves the order when the status maps to one.
func (s *Service) SyncTracking(ctx context.Context, orderID int64) (*SyncResult, error) {
	ctx, span := tracer.Start(ctx, "shipping.SyncTracking", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	// 1. --- Find the shipment ---
	shipment, err := s.shipments.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// 2. --- Ask the carrier ---
	tracking, err := s.carrier.Track(ctx, shipment.AWB)
	if err != nil {
		return nil, fmt.Errorf("sync tracking for order %d: %w", orderID, err)
	}
	carrierStatus := NormalizeTrackingStatus(tracking.Status)
	span.SetAttributes(attribute.String("carrier.status", carrierStatus))
	if carrierStatus == "" {
		return nil, fmt.Errorf("sync tracking for order %d: %w: empty status", orderID, ErrCarrierRejected)
	}

	// 3. --- Always record the carrier's view ---
	if err := s.shipments.UpdateTracking(ctx, orderID, carrierStatus, tracking.Raw); err != nil {
		return nil, err
	}

	result := &SyncResult{OrderID: orderID, AWB: shipment.AWB, CarrierStatus: carrierStatus}

	// 4. --- Move the order if the status means something to us ---
	mapped, ok := MapTrackingStatus(carrierStatus)
	if !ok {
		s.logger.Info("unmapped carrier status", "order_id", orderID, "awb", shipment.AWB, "status", carrierStatus)
		return result, nil
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	result.OrderStatus = order.Status
	if order.Status == mapped {
		return result, nil
	}

	updated, err := s.statuses.UpdateStatus(ctx, orderID, string(mapped))
	if err != nil {
		return nil, err
	}
	result.OrderStatus = updated.Status
	result.OrderUpdated = true
	return result, nil
}

// SyncAll syncs every shipment still in motion. Failures are logged per
// order and do not stop the sweep.
func (s *Service) SyncAll(ctx context.Context) (synced int, failed int, err error) {
	ids, err := s.shipments.ListSyncableOrderIDs(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return synced, failed, ctx.Err()
		}
		if _, err := s.SyncTracking(ctx, id); err != nil {
			failed++
			s.logger.Error("tracking sync failed", "order_id", id, "error", err)
			continue
		}
		synced++
	}
	return synced, failed, nil
}
