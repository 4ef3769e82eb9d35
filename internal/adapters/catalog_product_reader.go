// Package adapters implements the port interfaces declared by domain modules,
// wrapping other modules' repositories and services so modules never import
// each other directly.
package adapters

import (
	"context"

	catalogrepo "quotehub_backend/internal/catalog/repository"
	quotesports "quotehub_backend/internal/quotes/ports"

	"github.com/google/uuid"
)

// CatalogProductReader adapts the catalog repository to the quotes module's
// CatalogReader port.
type CatalogProductReader struct {
	repo *catalogrepo.Repository
}

// NewCatalogProductReader creates the adapter
func NewCatalogProductReader(repo *catalogrepo.Repository) *CatalogProductReader {
	return &CatalogProductReader{repo: repo}
}

// GetProduct resolves a product reference for line item defaulting
func (a *CatalogProductReader) GetProduct(ctx context.Context, id uuid.UUID) (*quotesports.ProductSnapshot, error) {
	product, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &quotesports.ProductSnapshot{
		ID:             product.ID,
		SKU:            product.SKU,
		Name:           product.Name,
		Unit:           product.Unit,
		UnitPriceCents: product.UnitPriceCents,
		UnitCostCents:  product.UnitCostCents,
	}, nil
}

var _ quotesports.CatalogReader = (*CatalogProductReader)(nil)
