package service

import (
	"context"
	"fmt"
	"time"

	"quotehub_backend/internal/inventory/repository"

	"github.com/google/uuid"
)

// Service provides business logic for inventory and fulfillment orders
type Service struct {
	repo *repository.Repository
}

// New creates a new inventory service
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Availability reports quantities for a product at a location. Products with
// no stock record read as zero/zero.
type Availability struct {
	ProductID uuid.UUID
	Location  string
	OnHand    float64
	Reserved  float64
	Available float64
}

// GetAvailability computes available stock (on hand minus reserved)
func (s *Service) GetAvailability(ctx context.Context, productID uuid.UUID, location string) (*Availability, error) {
	level, err := s.repo.GetStockLevel(ctx, productID, location)
	if err != nil {
		return nil, err
	}
	return &Availability{
		ProductID: productID,
		Location:  location,
		OnHand:    level.OnHand,
		Reserved:  level.Reserved,
		Available: level.OnHand - level.Reserved,
	}, nil
}

// SetStockLevel writes absolute stock figures for a product at a location
func (s *Service) SetStockLevel(ctx context.Context, productID uuid.UUID, location string, onHand, reserved float64) error {
	return s.repo.UpsertStockLevel(ctx, &repository.StockLevel{
		ProductID: productID,
		Location:  location,
		OnHand:    onHand,
		Reserved:  reserved,
	})
}

// OrderLineInput is one requested product for a new fulfillment order
type OrderLineInput struct {
	ProductID      uuid.UUID
	Quantity       int64
	UnitPriceCents int64
}

// CreateOrderInput carries everything needed to create a fulfillment order
type CreateOrderInput struct {
	DestinationSite   string
	SourceLocation    string
	RequestedByID     uuid.UUID
	RequiredBy        *time.Time
	Notes             string
	SourceQuoteID     *uuid.UUID
	SourceQuoteNumber *string
	Lines             []OrderLineInput
}

// CreatedOrder is the result of a successful order creation
type CreatedOrder struct {
	ID              uuid.UUID
	OrderNumber     string
	ItemCount       int
	TotalValueCents int64
}

// OrderDetails is an order header with its lines
type OrderDetails struct {
	Order repository.StockOrder       `json:"order"`
	Lines []repository.StockOrderLine `json:"lines"`
}

// GetOrder retrieves an order and its lines
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetails, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.GetOrderLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrderDetails{Order: *order, Lines: lines}, nil
}

// CreateOrder allocates an order number and persists the order with its lines
// as one atomic write.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreatedOrder, error) {
	orderNumber, err := s.repo.NextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate order number: %w", err)
	}

	var totalValue int64
	orderID := uuid.New()
	lines := make([]repository.StockOrderLine, 0, len(input.Lines))
	for i, l := range input.Lines {
		totalValue += l.Quantity * l.UnitPriceCents
		lines = append(lines, repository.StockOrderLine{
			ID:             uuid.New(),
			OrderID:        orderID,
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			SortOrder:      i,
		})
	}

	order := repository.StockOrder{
		ID:              orderID,
		OrderNumber:     orderNumber,
		DestinationSite: input.DestinationSite,
		SourceLocation:  input.SourceLocation,
		RequestedByID:   input.RequestedByID,
		RequiredBy:      input.RequiredBy,
		Notes:           input.Notes,
		SourceQuoteID:   input.SourceQuoteID,
		SourceQuoteNum:  input.SourceQuoteNumber,
		TotalValueCents: totalValue,
		Status:          "Requested",
		CreatedAt:       time.Now(),
	}

	if err := s.repo.CreateOrder(ctx, &order, lines); err != nil {
		return nil, err
	}

	return &CreatedOrder{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		ItemCount:       len(lines),
		TotalValueCents: totalValue,
	}, nil
}
