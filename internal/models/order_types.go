package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderReturned   OrderStatus = "returned"
)

var orderStatuses = []OrderStatus{
	OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled, OrderReturned,
}

// OrderStatuses lists every accepted status in lifecycle order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

// ParseOrderStatus accepts only the enumerated values, case-sensitive.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range orderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the enumerated statuses.
func (s OrderStatus) Valid() bool {
	_, ok := ParseOrderStatus(string(s))
	return ok
}

// CanTransitionTo describes the usual forward flow of an order. It is not
// enforced when an admin sets a status; callers only use it for warnings.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderProcessing || next == OrderCancelled
	case OrderProcessing:
		return next == OrderShipped || next == OrderCancelled
	case OrderShipped:
		return next == OrderDelivered || next == OrderReturned
	case OrderDelivered:
		return next == OrderReturned
	default:
		return false
	}
}

// PaymentStatus tracks whether money for the order has been collected.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentMethod is how the customer chose to pay at checkout.
type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "cod"
	PaymentPrepaid PaymentMethod = "prepaid"
)

// Order is the model for the 'orders' table.
type Order struct {
	ID              int64           `json:"id" db:"id"`
	OrderNumber     string          `json:"orderNumber" db:"order_number"`
	UserID          *int64          `json:"userId,omitempty" db:"user_id"` // nil for guest orders
	Status          OrderStatus     `json:"status" db:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	Total           decimal.Decimal `json:"total" db:"total"`
	Customer        CustomerInfo    `json:"customer" db:"customer_info"`
	ShippingAddress ShippingAddress `json:"shippingAddress" db:"shipping_address"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`

	// Populated by the store when requested.
	Items    []OrderItem `json:"items,omitempty" db:"-"`
	Delivery *Delivery   `json:"delivery,omitempty" db:"-"`
	Shipment *Shipment   `json:"shipment,omitempty" db:"-"`
}

// OrderItem is the model for the 'order_items' table.
type OrderItem struct {
	ID          int64           `json:"id" db:"id"`
	OrderID     int64           `json:"orderId" db:"order_id"`
	ProductID   int64           `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"` // Price at the time of purchase
	Quantity    int             `json:"quantity" db:"quantity"`
}

// LineTotal is UnitPrice * Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Delivery is the model for the 'deliveries' table (one row per delivered order).
type Delivery struct {
	OrderID     int64     `json:"orderId" db:"order_id"`
	DeliveredAt time.Time `json:"deliveredAt" db:"delivered_at"`
}

// CustomerInfo is the customer snapshot copied onto the order at checkout.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Value stores the snapshot as a JSON column.
func (c CustomerInfo) Value() (driver.Value, error) {
	return marshalJSONColumn(c)
}

// Scan reads the snapshot back from a JSON column.
func (c *CustomerInfo) Scan(src any) error {
	return unmarshalJSONColumn(src, c)
}

// ShippingAddress is the address snapshot copied onto the order at checkout.
type ShippingAddress struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

func (a ShippingAddress) Value() (driver.Value, error) {
	return marshalJSONColumn(a)
}

func (a *ShippingAddress) Scan(src any) error {
	return unmarshalJSONColumn(src, a)
}

func marshalJSONColumn(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalJSONColumn(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
}
