package handlers

import (
	"errors"
	"net/http"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/01moynul/herbal-storefront/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//
// --- Delivery Locations ---
//

// CheckPostcode is the handler for GET /v1/locations/:postcode
// Unknown postcodes are reported as not serviceable rather than 404 so the
// checkout form can show one message for both cases.
func (h *Handlers) CheckPostcode(c *gin.Context) {
	postcode := store.NormalizePostcode(c.Param("postcode"))
	loc, err := h.Locations.GetByPostcode(c.Request.Context(), postcode)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"postcode": postcode, "serviceable": false})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"postcode":       loc.Postcode,
		"name":           loc.Name,
		"serviceable":    loc.Serviceable,
		"deliveryCharge": loc.DeliveryCharge,
	})
}

// ListLocations is the handler for GET /v1/admin/locations
func (h *Handlers) ListLocations(c *gin.Context) {
	locations, err := h.Locations.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

type LocationInput struct {
	Name           string           `json:"name" binding:"required,max=128"`
	Postcode       string           `json:"postcode" binding:"required,max=16"`
	Serviceable    *bool            `json:"serviceable"`
	DeliveryCharge *decimal.Decimal `json:"deliveryCharge"`
}

func (in LocationInput) toModel() (*models.Location, error) {
	loc := &models.Location{
		Name:           in.Name,
		Postcode:       store.NormalizePostcode(in.Postcode),
		Serviceable:    true,
		DeliveryCharge: decimal.Zero,
	}
	if loc.Postcode == "" {
		return nil, apperr.FieldError("postcode", "is required")
	}
	if in.Serviceable != nil {
		loc.Serviceable = *in.Serviceable
	}
	if in.DeliveryCharge != nil {
		if in.DeliveryCharge.IsNegative() {
			return nil, apperr.FieldError("deliveryCharge", "must not be negative")
		}
		loc.DeliveryCharge = in.DeliveryCharge.Round(2)
	}
	return loc, nil
}

// CreateLocation is the handler for POST /v1/admin/locations
func (h *Handlers) CreateLocation(c *gin.Context) {
	var input LocationInput
	if !bindJSON(c, &input) {
		return
	}
	loc, err := input.toModel()
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.Locations.Create(c.Request.Context(), loc); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": loc})
}

// UpdateLocation is the handler for PATCH /v1/admin/locations/:id
// The body replaces every editable field.
func (h *Handlers) UpdateLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input LocationInput
	if !bindJSON(c, &input) {
		return
	}
	loc, err := input.toModel()
	if err != nil {
		h.respondError(c, err)
		return
	}
	loc.ID = id
	if err := h.Locations.Update(c.Request.Context(), loc); err != nil {
		h.respondError(c, err)
		return
	}

	saved, err := h.Locations.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": saved})
}

// DeleteLocation is the handler for DELETE /v1/admin/locations/:id
func (h *Handlers) DeleteLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Locations.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
