// Package ports declares the interfaces the quotes module needs from other
// modules. Implementations live in internal/adapters.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// ProductSnapshot carries the catalog fields copied onto a line item when a
// product reference is supplied without explicit pricing.
type ProductSnapshot struct {
	ID             uuid.UUID
	SKU            string
	Name           string
	Unit           string
	UnitPriceCents int64
	UnitCostCents  int64
}

// CatalogReader resolves product references during line item creation
type CatalogReader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
}
