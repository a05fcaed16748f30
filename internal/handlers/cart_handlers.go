package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/cart"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//
// --- Cart Handlers (Storefront) ---
//
// The cart lives in a client cookie, so none of these need a session.

// CartLineView is one cart line priced from the current catalog.
type CartLineView struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	// Available is false when the product was unpublished or no longer has
	// enough stock; checkout will reject such lines.
	Available bool `json:"available"`
}

// CartView is the response body of every cart endpoint.
type CartView struct {
	Lines    []CartLineView  `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// GetCart is the handler for GET /v1/cart
func (h *Handlers) GetCart(c *gin.Context) {
	current, err := h.Cart.Load(c.Request)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.renderCart(c, http.StatusOK, current)
}

type CartItemInput struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gte=1,max=99"`
}

// AddCartItem is the handler for POST /v1/cart/items
func (h *Handlers) AddCartItem(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CartItemInput
	if !bindJSON(c, &input) {
		return
	}

	// 2. --- Load the Cart ---
	current, err := h.Cart.Load(c.Request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Check the Product can be Sold ---
	if err := h.checkPurchasable(c, input.ProductID); err != nil {
		h.respondError(c, err)
		return
	}
	if err := current.Add(input.ProductID, input.Quantity); err != nil {
		h.respondError(c, cartQuantityError(err))
		return
	}

	// 4. --- Save and Respond ---
	if err := h.Cart.Save(c.Writer, current); err != nil {
		h.respondError(c, cartQuantityError(err))
		return
	}
	h.renderCart(c, http.StatusOK, current)
}

type CartQuantityInput struct {
	Quantity *int `json:"quantity" binding:"required,gte=0,max=99"`
}

// UpdateCartItem is the handler for PATCH /v1/cart/items/:productId
// A quantity of 0 removes the line.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	var input CartQuantityInput
	if !bindJSON(c, &input) {
		return
	}

	current, err := h.Cart.Load(c.Request)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if *input.Quantity > 0 {
		if err := h.checkPurchasable(c, productID); err != nil {
			h.respondError(c, err)
			return
		}
	}
	if err := current.Set(productID, *input.Quantity); err != nil {
		h.respondError(c, cartQuantityError(err))
		return
	}

	if err := h.Cart.Save(c.Writer, current); err != nil {
		h.respondError(c, cartQuantityError(err))
		return
	}
	h.renderCart(c, http.StatusOK, current)
}

// RemoveCartItem is the handler for DELETE /v1/cart/items/:productId
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	current, err := h.Cart.Load(c.Request)
	if err != nil {
		h.respondError(c, err)
		return
	}
	current.Remove(productID)
	if err := h.Cart.Save(c.Writer, current); err != nil {
		h.respondError(c, cartQuantityError(err))
		return
	}
	h.renderCart(c, http.StatusOK, current)
}

// ClearCart is the handler for DELETE /v1/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	h.Cart.Clear(c.Writer)
	c.JSON(http.StatusOK, CartView{Lines: []CartLineView{}, Subtotal: decimal.Zero})
}

func (h *Handlers) checkPurchasable(c *gin.Context, productID int64) error {
	products, err := h.Products.GetMany(c.Request.Context(), []int64{productID})
	if err != nil {
		return err
	}
	p, ok := products[productID]
	if !ok || p.Status != models.ProductActive {
		return apperr.FieldError("productId", fmt.Sprintf("product %d is not available", productID))
	}
	if p.Stock < 1 {
		return apperr.FieldError("productId", fmt.Sprintf("%s is out of stock", p.Name))
	}
	return nil
}

func cartQuantityError(err error) error {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		return apperr.FieldError("quantity", err.Error())
	case errors.Is(err, cart.ErrCartFull):
		return apperr.FieldError("productId", err.Error())
	}
	return err
}

// renderCart prices every line from the catalog. Lines whose product has
// disappeared are kept but marked unavailable so the shopper can remove them.
func (h *Handlers) renderCart(c *gin.Context, status int, current *cart.Cart) {
	products, err := h.Products.GetMany(c.Request.Context(), current.ProductIDs())
	if err != nil {
		h.respondError(c, err)
		return
	}

	view := CartView{Lines: make([]CartLineView, 0, len(current.Lines)), Subtotal: decimal.Zero}
	for _, line := range current.Lines {
		lv := CartLineView{ProductID: line.ProductID, Quantity: line.Quantity}
		if p, ok := products[line.ProductID]; ok {
			lv.Name = p.Name
			lv.Slug = p.Slug
			lv.UnitPrice = p.Price
			lv.LineTotal = p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			lv.Available = p.Status == models.ProductActive && p.Stock >= line.Quantity
		}
		if lv.Available {
			view.Subtotal = view.Subtotal.Add(lv.LineTotal)
		}
		view.Lines = append(view.Lines, lv)
	}
	c.JSON(status, view)
}
