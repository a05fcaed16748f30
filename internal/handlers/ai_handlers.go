package handlers

import (
	"net/http"

	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/gin-gonic/gin"
)

// DescriptionInput is the body of POST /v1/admin/products/:id/ai-description.
type DescriptionInput struct {
	Notes string `json:"notes" binding:"max=2000"`
	// Save writes the generated text to the product right away.
	Save bool `json:"save"`
}

// GenerateProductDescription drafts product copy with the AI copywriter.
func (h *Handlers) GenerateProductDescription(c *gin.Context) {
	// 1. Make sure the copywriter is configured
	if h.Copywriter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI copywriting is not configured"})
		return
	}

	// 2. Parse Input
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input DescriptionInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &input) {
		return
	}

	// 3. Load the product and its category for the prompt
	product, err := h.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	category, err := h.loadProductCategory(c, product)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 4. Call the model
	text, tokens, err := h.Copywriter.ProductDescription(c.Request.Context(), product, category, input.Notes)
	if err != nil {
		h.Logger.Error("ai description failed", "product_id", id, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI service unavailable"})
		return
	}

	// 5. Optionally store it
	if input.Save {
		if err := h.Products.Update(c.Request.Context(), id, models.ProductPatch{Description: &text}); err != nil {
			h.respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"description": text,
		"tokensUsed":  tokens,
		"saved":       input.Save,
	})
}
