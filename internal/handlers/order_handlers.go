package handlers

import (
	"net/http"

	"github.com/01moynul/herbal-storefront/internal/middleware"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/01moynul/herbal-storefront/internal/orders"
	"github.com/01moynul/herbal-storefront/internal/store"
	"github.com/gin-gonic/gin"
)

//
// --- Checkout (signed-in customer) ---
//

type CheckoutCustomerInput struct {
	Name  string `json:"name" binding:"max=255"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"max=32"`
}

type CheckoutAddressInput struct {
	Line1    string `json:"line1" binding:"required,max=255"`
	Line2    string `json:"line2" binding:"max=255"`
	City     string `json:"city" binding:"required,max=128"`
	State    string `json:"state" binding:"required,max=128"`
	Postcode string `json:"postcode" binding:"required,max=16"`
	Country  string `json:"country" binding:"required,max=64"`
}

// CheckoutInput is the body of POST /v1/checkout. The lines come from the
// cart cookie, not the body.
type CheckoutInput struct {
	Customer      CheckoutCustomerInput `json:"customer"`
	AddressID     *int64                `json:"addressId" binding:"omitempty,gt=0"`
	Address       *CheckoutAddressInput `json:"address"`
	PaymentMethod string                `json:"paymentMethod" binding:"omitempty,oneof=cod prepaid"`
}

// Checkout is the handler for POST /v1/checkout
func (h *Handlers) Checkout(c *gin.Context) {
	// 1. --- Get the Session ---
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	// 2. --- Bind & Validate JSON ---
	var input CheckoutInput
	if !bindJSON(c, &input) {
		return
	}
	if input.AddressID == nil && input.Address == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": gin.H{"address": "choose a saved address or enter one"}})
		return
	}

	// 3. --- Load the Cart ---
	current, err := h.Cart.Load(c.Request)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if current.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": gin.H{"items": "cart is empty"}})
		return
	}

	// 4. --- Build the Order Request ---
	// Missing contact details fall back to the account.
	customer := models.CustomerInfo{
		Name:  input.Customer.Name,
		Email: input.Customer.Email,
		Phone: input.Customer.Phone,
	}
	if customer.Name == "" {
		customer.Name = claims.Name
	}
	if customer.Email == "" {
		customer.Email = claims.Email
	}

	userID := claims.UserID
	req := orders.PlaceOrderInput{
		UserID:        &userID,
		Customer:      customer,
		AddressID:     input.AddressID,
		PaymentMethod: models.PaymentMethod(input.PaymentMethod),
		Lines:         current.Lines,
	}
	if input.AddressID == nil {
		req.Address = &models.ShippingAddress{
			Line1:    input.Address.Line1,
			Line2:    input.Address.Line2,
			City:     input.Address.City,
			State:    input.Address.State,
			Postcode: store.NormalizePostcode(input.Address.Postcode),
			Country:  input.Address.Country,
		}
	}

	// 5. --- Place the Order ---
	order, err := h.Orders.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 6. --- Empty the Cart ---
	h.Cart.Clear(c.Writer)
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "order": order})
}

//
// --- Admin: Orders (manager and above) ---
//

// AdminListOrders is the handler for GET /v1/admin/orders?status=&limit=&offset=
func (h *Handlers) AdminListOrders(c *gin.Context) {
	list, err := h.Orders.List(c.Request.Context(), store.OrderFilter{
		Status: models.OrderStatus(c.Query("status")),
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// AdminGetOrder is the handler for GET /v1/admin/orders/:id
func (h *Handlers) AdminGetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.Orders.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the handler for PATCH /v1/admin/orders/:id/status
// Moving an order to "delivered" also marks it paid and records the
// delivery time.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input UpdateOrderStatusInput
	if !bindJSON(c, &input) {
		return
	}

	order, err := h.Orders.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

// CreateShipment is the handler for POST /v1/admin/orders/:id/shipment
// It books the order with the carrier; a second call for the same order is
// rejected.
func (h *Handlers) CreateShipment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	shipment, err := h.Shipping.CreateShipment(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Shipment booked", "shipment": shipment})
}

// SyncTracking is the handler for POST /v1/admin/orders/:id/tracking
// It pulls the latest carrier status right away instead of waiting for the
// scheduled sweep.
func (h *Handlers) SyncTracking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	result, err := h.Shipping.SyncTracking(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracking": result})
}
