package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/auth"
	"github.com/01moynul/herbal-storefront/internal/middleware"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/01moynul/herbal-storefront/internal/store"
	"github.com/gin-gonic/gin"
)

//
// --- Session Handlers ---
//

// RegisterInput is the body of POST /v1/auth/register. Accounts created
// here are always customers.
type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
}

// Register is the handler for POST /v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	// 2. --- Hash the Password ---
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Save the User ---
	user := &models.User{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Role:         models.RoleCustomer,
	}
	if input.Phone != "" {
		user.Phone = &input.Phone
	}
	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		h.respondError(c, err)
		return
	}

	// 4. --- Start the Session ---
	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// LoginInput is the body of POST /v1/auth/login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	// Unknown email and wrong password get the same answer.
	user, err := h.Users.GetByEmail(c.Request.Context(), input.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.respondError(c, err)
		return
	}
	ok, err := auth.CheckPassword(user.PasswordHash, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !h.startSession(c, user) {
		return
	}
	h.Logger.Info("user logged in", "user_id", user.ID, "role", user.Role.String())
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout is the handler for POST /v1/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.CookieSecure)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handlers) startSession(c *gin.Context, user *models.User) bool {
	token, err := h.Tokens.GenerateToken(user)
	if err != nil {
		h.respondError(c, err)
		return false
	}
	middleware.SetSessionCookie(c, token, h.Tokens.TTL(), h.CookieSecure)
	return true
}

//
// --- Account Handlers (signed-in customer) ---
//

// Me is the handler for GET /v1/account/me
func (h *Handlers) Me(c *gin.Context) {
	userID, _ := currentUserID(c)
	user, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// AddressInput is the body of POST /v1/account/addresses.
type AddressInput struct {
	Label     string `json:"label" binding:"max=64"`
	Line1     string `json:"line1" binding:"required,max=255"`
	Line2     string `json:"line2" binding:"max=255"`
	City      string `json:"city" binding:"required,max=128"`
	State     string `json:"state" binding:"required,max=128"`
	Postcode  string `json:"postcode" binding:"required,max=16"`
	Country   string `json:"country" binding:"required,max=64"`
	Phone     string `json:"phone" binding:"max=32"`
	IsDefault bool   `json:"isDefault"`
}

// ListAddresses is the handler for GET /v1/account/addresses
func (h *Handlers) ListAddresses(c *gin.Context) {
	userID, _ := currentUserID(c)
	addresses, err := h.Addresses.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// CreateAddress is the handler for POST /v1/account/addresses
func (h *Handlers) CreateAddress(c *gin.Context) {
	userID, _ := currentUserID(c)
	var input AddressInput
	if !bindJSON(c, &input) {
		return
	}

	address := &models.Address{
		UserID:    userID,
		Label:     input.Label,
		Line1:     input.Line1,
		Line2:     input.Line2,
		City:      input.City,
		State:     input.State,
		Postcode:  store.NormalizePostcode(input.Postcode),
		Country:   input.Country,
		Phone:     input.Phone,
		IsDefault: input.IsDefault,
	}
	if err := h.Addresses.Create(c.Request.Context(), address); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": address})
}

// DeleteAddress is the handler for DELETE /v1/account/addresses/:id
func (h *Handlers) DeleteAddress(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Addresses.Delete(c.Request.Context(), userID, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MyOrders is the handler for GET /v1/account/orders
func (h *Handlers) MyOrders(c *gin.Context) {
	userID, _ := currentUserID(c)
	list, err := h.Orders.List(c.Request.Context(), store.OrderFilter{
		UserID: &userID,
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// MyOrder is the handler for GET /v1/account/orders/:id
func (h *Handlers) MyOrder(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.Orders.GetForUser(c.Request.Context(), userID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
