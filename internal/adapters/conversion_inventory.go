package adapters

import (
	"context"

	conversionports "quotehub_backend/internal/conversion/ports"
	inventoryservice "quotehub_backend/internal/inventory/service"

	"github.com/google/uuid"
)

// ConversionInventoryReader adapts the inventory service to the conversion
// module's InventoryReader port.
type ConversionInventoryReader struct {
	svc *inventoryservice.Service
}

// NewConversionInventoryReader creates the adapter
func NewConversionInventoryReader(svc *inventoryservice.Service) *ConversionInventoryReader {
	return &ConversionInventoryReader{svc: svc}
}

// GetStock reports raw stock figures; missing records read as zero/zero
func (a *ConversionInventoryReader) GetStock(ctx context.Context, productID uuid.UUID, location string) (conversionports.StockFigures, error) {
	availability, err := a.svc.GetAvailability(ctx, productID, location)
	if err != nil {
		return conversionports.StockFigures{}, err
	}
	return conversionports.StockFigures{
		OnHand:   availability.OnHand,
		Reserved: availability.Reserved,
	}, nil
}

// ConversionOrderCreator adapts the inventory service to the conversion
// module's OrderCreator port.
type ConversionOrderCreator struct {
	svc *inventoryservice.Service
}

// NewConversionOrderCreator creates the adapter
func NewConversionOrderCreator(svc *inventoryservice.Service) *ConversionOrderCreator {
	return &ConversionOrderCreator{svc: svc}
}

// CreateOrder creates a fulfillment order from a conversion commit
func (a *ConversionOrderCreator) CreateOrder(ctx context.Context, req conversionports.OrderRequest) (*conversionports.OrderResult, error) {
	lines := make([]inventoryservice.OrderLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, inventoryservice.OrderLineInput{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}

	quoteID := req.SourceQuoteID
	quoteNumber := req.SourceQuoteNumber
	created, err := a.svc.CreateOrder(ctx, inventoryservice.CreateOrderInput{
		DestinationSite:   req.DestinationSite,
		SourceLocation:    req.SourceLocation,
		RequestedByID:     req.RequestedByID,
		RequiredBy:        req.RequiredBy,
		Notes:             req.Notes,
		SourceQuoteID:     &quoteID,
		SourceQuoteNumber: &quoteNumber,
		Lines:             lines,
	})
	if err != nil {
		return nil, err
	}
	return &conversionports.OrderResult{
		OrderID:         created.ID,
		OrderNumber:     created.OrderNumber,
		TotalValueCents: created.TotalValueCents,
	}, nil
}

var (
	_ conversionports.InventoryReader = (*ConversionInventoryReader)(nil)
	_ conversionports.OrderCreator    = (*ConversionOrderCreator)(nil)
)
