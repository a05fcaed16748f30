package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus controls storefront visibility.
type ProductStatus string

const (
	ProductDraft    ProductStatus = "draft"
	ProductActive   ProductStatus = "active"
	ProductArchived ProductStatus = "archived"
)

// Product is the model for the 'products' table.
type Product struct {
	ID             int64               `json:"id" db:"id"`
	Name           string              `json:"name" db:"name"`
	Slug           string              `json:"slug" db:"slug"`
	Description    string              `json:"description" db:"description"`
	Price          decimal.Decimal     `json:"price" db:"price"`
	CompareAtPrice decimal.NullDecimal `json:"compareAtPrice" db:"compare_at_price"`
	Stock          int                 `json:"stock" db:"stock"`
	Status         ProductStatus       `json:"status" db:"status"`
	CategoryID     *int64              `json:"categoryId,omitempty" db:"category_id"`
	CreatedAt      time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time           `json:"updatedAt" db:"updated_at"`

	// Child rows, loaded and written together with the product.
	Images []ProductImage `json:"images" db:"-"`
	Videos []ProductVideo `json:"videos" db:"-"`
}

// ProductImage is the model for the 'product_images' table.
type ProductImage struct {
	ID        int64  `json:"id" db:"id"`
	ProductID int64  `json:"productId" db:"product_id"`
	URL       string `json:"url" db:"url"`
	AltText   string `json:"altText,omitempty" db:"alt_text"`
	Position  int    `json:"position" db:"position"`
}

// ProductVideo is the model for the 'product_videos' table.
type ProductVideo struct {
	ID        int64  `json:"id" db:"id"`
	ProductID int64  `json:"productId" db:"product_id"`
	URL       string `json:"url" db:"url"`
	Position  int    `json:"position" db:"position"`
}

// ProductPatch lists the fields an update may touch. Nil fields are left
// alone; a non-nil Images or Videos slice replaces every existing row,
// so an empty slice removes all media of that kind.
type ProductPatch struct {
	Name           *string
	Slug           *string
	Description    *string
	Price          *decimal.Decimal
	CompareAtPrice *decimal.NullDecimal
	Stock          *int
	Status         *ProductStatus
	CategoryID     *int64
	Images         *[]ProductImage
	Videos         *[]ProductVideo
}

// ProductFilter narrows storefront and admin listings.
type ProductFilter struct {
	Status       ProductStatus
	CategorySlug string
	Search       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Limit        int
	Offset       int
}
