package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

//
// --- Storefront: Products ---
//

// ListProducts is the handler for GET /v1/products
// Only active products are visible. Supports ?category=&q=&minPrice=&maxPrice=&limit=&offset=
func (h *Handlers) ListProducts(c *gin.Context) {
	filter, ok := productFilterFromQuery(c)
	if !ok {
		return
	}
	filter.Status = models.ProductActive

	products, total, err := h.Products.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": total})
}

// GetProduct is the handler for GET /v1/products/:slug
func (h *Handlers) GetProduct(c *gin.Context) {
	product, err := h.Products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	// Drafts and archived products do not exist as far as shoppers know.
	if product.Status != models.ProductActive {
		h.respondError(c, apperr.NotFound("product", c.Param("slug")))
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func productFilterFromQuery(c *gin.Context) (models.ProductFilter, bool) {
	filter := models.ProductFilter{
		CategorySlug: c.Query("category"),
		Search:       strings.TrimSpace(c.Query("q")),
		Limit:        queryInt(c, "limit", 24),
		Offset:       queryInt(c, "offset", 0),
	}
	for _, bound := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"minPrice", &filter.MinPrice},
		{"maxPrice", &filter.MaxPrice},
	} {
		raw := c.Query(bound.name)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": gin.H{bound.name: "must be a number"}})
			return filter, false
		}
		*bound.dst = &v
	}
	return filter, true
}

//
// --- Admin: Products (editor and above) ---
//

// AdminListProducts is the handler for GET /v1/admin/products
// Same filters as the storefront plus ?status=, which defaults to every status.
func (h *Handlers) AdminListProducts(c *gin.Context) {
	filter, ok := productFilterFromQuery(c)
	if !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ProductStatus(raw)
		if !validProductStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": gin.H{"status": "must be one of draft, active, archived"}})
			return
		}
		filter.Status = status
	}

	products, total, err := h.Products.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": total})
}

func validProductStatus(s models.ProductStatus) bool {
	switch s {
	case models.ProductDraft, models.ProductActive, models.ProductArchived:
		return true
	}
	return false
}

// ProductImageInput describes one image in a create or update body.
type ProductImageInput struct {
	URL      string `json:"url" binding:"required,url,max=512"`
	AltText  string `json:"altText" binding:"max=255"`
	Position *int   `json:"position" binding:"omitempty,gte=0"`
}

// ProductVideoInput describes one video in a create or update body.
type ProductVideoInput struct {
	URL      string `json:"url" binding:"required,url,max=512"`
	Position *int   `json:"position" binding:"omitempty,gte=0"`
}

// CreateProductInput is the body of POST /v1/admin/products.
type CreateProductInput struct {
	Name           string              `json:"name" binding:"required,max=255"`
	Slug           string              `json:"slug" binding:"max=255"`
	Description    string              `json:"description"`
	Price          *decimal.Decimal    `json:"price" binding:"required"`
	CompareAtPrice *decimal.Decimal    `json:"compareAtPrice"`
	Stock          int                 `json:"stock" binding:"gte=0"`
	Status         string              `json:"status" binding:"omitempty,oneof=draft active archived"`
	CategoryID     *int64              `json:"categoryId" binding:"omitempty,gt=0"`
	Images         []ProductImageInput `json:"images" binding:"dive"`
	Videos         []ProductVideoInput `json:"videos" binding:"dive"`
}

// CreateProduct is the handler for POST /v1/admin/products
// The product row and its media are written in one transaction.
func (h *Handlers) CreateProduct(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateProductInput
	if !bindJSON(c, &input) {
		return
	}
	if err := validatePrices(input.Price, input.CompareAtPrice); err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Build the Slug ---
	// An explicit slug is normalised the same way as a generated one.
	source := input.Slug
	if source == "" {
		source = input.Name
	}
	productSlug := slug.Make(source)
	if productSlug == "" {
		h.respondError(c, apperr.FieldError("slug", "could not derive a slug from the name"))
		return
	}

	// 3. --- Build the Model ---
	status := models.ProductDraft
	if input.Status != "" {
		status = models.ProductStatus(input.Status)
	}
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Slug:        productSlug,
		Description: input.Description,
		Price:       *input.Price,
		Stock:       input.Stock,
		Status:      status,
		CategoryID:  input.CategoryID,
		Images:      imagesFromInput(input.Images),
		Videos:      videosFromInput(input.Videos),
	}
	if input.CompareAtPrice != nil {
		product.CompareAtPrice = decimal.NewNullDecimal(*input.CompareAtPrice)
	}

	// 4. --- Save ---
	if err := h.Products.Create(c.Request.Context(), product); err != nil {
		h.respondError(c, err)
		return
	}
	h.Logger.Info("product created", "product_id", product.ID, "slug", product.Slug)
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProductInput is the body of PATCH /v1/admin/products/:id. Omitted
// fields are left alone. Sending "images" (or "videos") replaces every
// existing row of that kind, so an empty list removes them all.
type UpdateProductInput struct {
	Name                *string              `json:"name" binding:"omitempty,min=1,max=255"`
	Slug                *string              `json:"slug" binding:"omitempty,min=1,max=255"`
	Description         *string              `json:"description"`
	Price               *decimal.Decimal     `json:"price"`
	CompareAtPrice      *decimal.Decimal     `json:"compareAtPrice"`
	ClearCompareAtPrice bool                 `json:"clearCompareAtPrice"`
	Stock               *int                 `json:"stock" binding:"omitempty,gte=0"`
	Status              *string              `json:"status" binding:"omitempty,oneof=draft active archived"`
	CategoryID          *int64               `json:"categoryId" binding:"omitempty,gt=0"`
	Images              *[]ProductImageInput `json:"images" binding:"omitempty,dive"`
	Videos              *[]ProductVideoInput `json:"videos" binding:"omitempty,dive"`
}

// UpdateProduct is the handler for PATCH /v1/admin/products/:id
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input UpdateProductInput
	if !bindJSON(c, &input) {
		return
	}
	if input.Price != nil {
		if err := validatePrices(input.Price, input.CompareAtPrice); err != nil {
			h.respondError(c, err)
			return
		}
	}

	patch := models.ProductPatch{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
	}
	if input.Slug != nil {
		s := slug.Make(*input.Slug)
		if s == "" {
			h.respondError(c, apperr.FieldError("slug", "must contain letters or digits"))
			return
		}
		patch.Slug = &s
	}
	if input.Status != nil {
		s := models.ProductStatus(*input.Status)
		patch.Status = &s
	}
	switch {
	case input.ClearCompareAtPrice:
		patch.CompareAtPrice = &decimal.NullDecimal{}
	case input.CompareAtPrice != nil:
		v := decimal.NewNullDecimal(*input.CompareAtPrice)
		patch.CompareAtPrice = &v
	}
	if input.Images != nil {
		images := imagesFromInput(*input.Images)
		patch.Images = &images
	}
	if input.Videos != nil {
		videos := videosFromInput(*input.Videos)
		patch.Videos = &videos
	}

	if err := h.Products.Update(c.Request.Context(), id, patch); err != nil {
		h.respondError(c, err)
		return
	}

	product, err := h.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func validatePrices(price, compareAt *decimal.Decimal) error {
	if price == nil || !price.IsPositive() {
		return apperr.FieldError("price", "must be greater than 0")
	}
	if compareAt != nil && compareAt.LessThan(*price) {
		return apperr.FieldError("compareAtPrice", "must not be lower than price")
	}
	return nil
}

// Positions default to the order the client sent.
func imagesFromInput(in []ProductImageInput) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(in))
	for i, img := range in {
		pos := i
		if img.Position != nil {
			pos = *img.Position
		}
		images = append(images, models.ProductImage{URL: img.URL, AltText: img.AltText, Position: pos})
	}
	return images
}

func videosFromInput(in []ProductVideoInput) []models.ProductVideo {
	videos := make([]models.ProductVideo, 0, len(in))
	for i, v := range in {
		pos := i
		if v.Position != nil {
			pos = *v.Position
		}
		videos = append(videos, models.ProductVideo{URL: v.URL, Position: pos})
	}
	return videos
}

// loadProductCategory returns the category name for prompts, or "" when
// the product is uncategorised or the category was removed.
func (h *Handlers) loadProductCategory(c *gin.Context, p *models.Product) (string, error) {
	if p.CategoryID == nil {
		return "", nil
	}
	cat, err := h.Categories.GetByID(c.Request.Context(), *p.CategoryID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return cat.Name, nil
}
