package service

import (
	"context"
	"time"

	"quotehub_backend/internal/catalog/repository"
	"quotehub_backend/internal/catalog/transport"

	"github.com/google/uuid"
)

// Service provides business logic for the product catalog
type Service struct {
	repo *repository.Repository
}

// New creates a new catalog service
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a product to the catalog
func (s *Service) Create(ctx context.Context, req transport.CreateProductRequest) (*transport.ProductResponse, error) {
	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}
	now := time.Now()
	product := repository.Product{
		ID:             uuid.New(),
		SKU:            req.SKU,
		Name:           req.Name,
		Description:    req.Description,
		Unit:           unit,
		UnitPriceCents: req.UnitPriceCents,
		UnitCostCents:  req.UnitCostCents,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, err
	}
	return toResponse(&product), nil
}

// Get retrieves a single product
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.ProductResponse, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(product), nil
}

// List retrieves products matching the filter
func (s *Service) List(ctx context.Context, req transport.ListProductsRequest) ([]transport.ProductResponse, error) {
	products, err := s.repo.List(ctx, req.ActiveOnly, req.Search)
	if err != nil {
		return nil, err
	}
	resp := make([]transport.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, *toResponse(&products[i]))
	}
	return resp, nil
}

// Update edits a product
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (*transport.ProductResponse, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.UnitPriceCents != nil {
		product.UnitPriceCents = *req.UnitPriceCents
	}
	if req.UnitCostCents != nil {
		product.UnitCostCents = *req.UnitCostCents
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	product.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toResponse(product), nil
}

func toResponse(p *repository.Product) *transport.ProductResponse {
	return &transport.ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Unit:           p.Unit,
		UnitPriceCents: p.UnitPriceCents,
		UnitCostCents:  p.UnitCostCents,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
