package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/01moynul/herbal-storefront/internal/auth"
	"github.com/01moynul/herbal-storefront/internal/middleware"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Admin: Users ---
//

// ListUsers is the handler for GET /v1/admin/users
func (h *Handlers) ListUsers(c *gin.Context) {
	var role models.Role
	if raw := c.Query("role"); raw != "" {
		parsed, err := models.ParseRole(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		role = parsed
	}

	users, err := h.Users.List(c.Request.Context(), role, queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUserInput is the body of POST /v1/admin/users.
type CreateUserInput struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
	Role     string `json:"role" binding:"required"`
}

// CreateUser is the handler for POST /v1/admin/users
// Staff may only hand out roles below their own; super admins may grant any.
func (h *Handlers) CreateUser(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateUserInput
	if !bindJSON(c, &input) {
		return
	}
	role, err := models.ParseRole(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": gin.H{"role": err.Error()}})
		return
	}

	// 2. --- Check the Actor may Grant the Role ---
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	if !claims.Role.CanGrant(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("Access denied: a %s cannot create %s accounts", claims.Role, role)})
		return
	}

	// 3. --- Save the User ---
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	user := &models.User{
		Email:        input.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Role:         role,
	}
	if input.Phone != "" {
		user.Phone = &input.Phone
	}
	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("user created", "user_id", user.ID, "role", role.String(), "created_by", claims.UserID)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

//
// --- Admin: Settings ---
//

// GetSettings is the handler for GET /v1/admin/settings
func (h *Handlers) GetSettings(c *gin.Context) {
	settings, err := h.Settings.All(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	c.JSON(http.StatusOK, gin.H{"settings": values})
}

// UpdateSettingsInput is the body of POST /v1/admin/settings.
type UpdateSettingsInput struct {
	Settings map[string]string `json:"settings" binding:"required,min=1,dive,keys,required,max=64,endkeys,max=1024"`
}

// UpdateSettings is the handler for POST /v1/admin/settings
// Keys are upserted; keys not in the body keep their value.
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var input UpdateSettingsInput
	if !bindJSON(c, &input) {
		return
	}

	if v, ok := input.Settings[models.SettingMaintenanceMode]; ok {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "true" && v != "false" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "invalid input",
				"fields": gin.H{models.SettingMaintenanceMode: "must be true or false"},
			})
			return
		}
		input.Settings[models.SettingMaintenanceMode] = v
	}

	if err := h.Settings.Upsert(c.Request.Context(), input.Settings); err != nil {
		h.respondError(c, err)
		return
	}
	h.Logger.Info("settings updated", "keys", len(input.Settings))
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved"})
}
