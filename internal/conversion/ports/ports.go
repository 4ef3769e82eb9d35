// Package ports declares the collaborator interfaces the conversion
// orchestrator depends on. Implementations live in internal/adapters.
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QuoteItem is the slice of a line item the orchestrator needs
type QuoteItem struct {
	ID             uuid.UUID
	SectionID      uuid.UUID
	ProductID      *uuid.UUID
	Description    string
	Quantity       float64
	UnitPriceCents int64
	LineTotalCents int64
}

// QuoteSnapshot is a read-only view of a quote for conversion
type QuoteSnapshot struct {
	ID          uuid.UUID
	QuoteNumber string
	Status      string
	Items       []QuoteItem
}

// QuoteReader loads quote aggregates for conversion
type QuoteReader interface {
	GetQuoteForConversion(ctx context.Context, id uuid.UUID) (*QuoteSnapshot, error)
}

// StockFigures are the raw inventory quantities for one product at a location
type StockFigures struct {
	OnHand   float64
	Reserved float64
}

// InventoryReader queries live stock. Products with no stock record must
// report zero on hand and zero reserved, not an error.
type InventoryReader interface {
	GetStock(ctx context.Context, productID uuid.UUID, location string) (StockFigures, error)
}

// OrderLine is one whole-unit product request on a derived order
type OrderLine struct {
	ProductID      uuid.UUID
	Quantity       int64
	UnitPriceCents int64
}

// OrderRequest carries everything the order creation collaborator needs
type OrderRequest struct {
	DestinationSite   string
	SourceLocation    string
	RequestedByID     uuid.UUID
	RequiredBy        *time.Time
	Notes             string
	SourceQuoteID     uuid.UUID
	SourceQuoteNumber string
	Lines             []OrderLine
}

// OrderResult is returned by the collaborator on success
type OrderResult struct {
	OrderID         uuid.UUID
	OrderNumber     string
	TotalValueCents int64
}

// OrderCreator creates fulfillment orders. The call is treated as atomic;
// there is no partial-success contract.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}

// NoteAppender records the conversion linkage on the source quote
type NoteAppender interface {
	AppendConversionNote(ctx context.Context, quoteID uuid.UUID, actorID uuid.UUID, body string) error
}
