package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateProductRequest is the request body for adding a catalog product
type CreateProductRequest struct {
	SKU            string  `json:"sku" validate:"required,min=1,max=100"`
	Name           string  `json:"name" validate:"required,min=1,max=300"`
	Description    *string `json:"description,omitempty"`
	Unit           string  `json:"unit" validate:"omitempty,max=50"`
	UnitPriceCents int64   `json:"unitPriceCents" validate:"min=0"`
	UnitCostCents  int64   `json:"unitCostCents" validate:"min=0"`
}

// UpdateProductRequest edits a product; nil fields are left untouched
type UpdateProductRequest struct {
	SKU            *string `json:"sku" validate:"omitempty,min=1,max=100"`
	Name           *string `json:"name" validate:"omitempty,min=1,max=300"`
	Description    *string `json:"description"`
	Unit           *string `json:"unit" validate:"omitempty,max=50"`
	UnitPriceCents *int64  `json:"unitPriceCents" validate:"omitempty,min=0"`
	UnitCostCents  *int64  `json:"unitCostCents" validate:"omitempty,min=0"`
	Active         *bool   `json:"active"`
}

// ListProductsRequest defines the query parameters for listing products
type ListProductsRequest struct {
	ActiveOnly bool   `form:"activeOnly"`
	Search     string `form:"search"`
}

// ProductResponse is the API representation of a catalog product
type ProductResponse struct {
	ID             uuid.UUID `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Unit           string    `json:"unit"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	UnitCostCents  int64     `json:"unitCostCents"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
