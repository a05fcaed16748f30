package handlers

import (
	"net/http"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/01moynul/herbal-storefront/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

// --- Category Handlers ---

// CategoryTree (Public - Returns Tree Structure)
func (h *Handlers) CategoryTree(c *gin.Context) {
	flat, err := h.Categories.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": models.BuildCategoryTree(flat)})
}

// AdminListCategories returns the flat list, which is easier to edit.
func (h *Handlers) AdminListCategories(c *gin.Context) {
	flat, err := h.Categories.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": flat})
}

type CreateCategoryInput struct {
	Name     string `json:"name" binding:"required,max=255"`
	Slug     string `json:"slug" binding:"max=255"`
	ParentID *int64 `json:"parentId" binding:"omitempty,gt=0"`
}

// CreateCategory (Editor and above)
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input CreateCategoryInput
	if !bindJSON(c, &input) {
		return
	}

	source := input.Slug
	if source == "" {
		source = input.Name
	}
	category := &models.Category{
		Name:     input.Name,
		Slug:     slug.Make(source),
		ParentID: input.ParentID,
	}
	if category.Slug == "" {
		h.respondError(c, apperr.FieldError("slug", "could not derive a slug from the name"))
		return
	}

	if err := h.Categories.Create(c.Request.Context(), category); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
}

type UpdateCategoryInput struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
	Slug     *string `json:"slug" binding:"omitempty,min=1,max=255"`
	ParentID *int64  `json:"parentId" binding:"omitempty,gt=0"`
	// MakeRoot detaches the category from its parent.
	MakeRoot bool `json:"makeRoot"`
}

// UpdateCategory (Editor and above)
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input UpdateCategoryInput
	if !bindJSON(c, &input) {
		return
	}

	patch := store.CategoryPatch{
		Name:        input.Name,
		ParentID:    input.ParentID,
		ClearParent: input.MakeRoot,
	}
	if input.Slug != nil {
		s := slug.Make(*input.Slug)
		if s == "" {
			h.respondError(c, apperr.FieldError("slug", "must contain letters or digits"))
			return
		}
		patch.Slug = &s
	}

	category, err := h.Categories.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": category})
}
