package transport

import (
	"time"

	"github.com/google/uuid"
)

// Selection modes for choosing which line items take part in a conversion.
const (
	ModeAll      = "all"
	ModeSections = "sections"
	ModeItems    = "items"
)

// Selection names the line items to convert. Unmatched or empty selections
// yield an empty set, never an error.
type Selection struct {
	Mode       string      `json:"mode" validate:"omitempty,oneof=all sections items"`
	SectionIDs []uuid.UUID `json:"sectionIds" validate:"omitempty"`
	ItemIDs    []uuid.UUID `json:"itemIds" validate:"omitempty"`
}

// PreviewRequest is the request body for a side-effect-free conversion preview
type PreviewRequest struct {
	SourceLocation string    `json:"sourceLocation" validate:"omitempty,max=200"`
	Selection      Selection `json:"selection"`
}

// PreviewItem is one line of a conversion preview
type PreviewItem struct {
	LineItemID         uuid.UUID  `json:"lineItemId"`
	ProductID          *uuid.UUID `json:"productId,omitempty"`
	Description        string     `json:"description"`
	Quantity           float64    `json:"quantity"`
	AvailableQuantity  float64    `json:"availableQuantity"`
	HasSufficientStock bool       `json:"hasSufficientStock"`
	AdHoc              bool       `json:"adHoc"`
}

// PreviewResponse aggregates the preview lines and advisory flags
type PreviewResponse struct {
	QuoteID              uuid.UUID     `json:"quoteId"`
	Items                []PreviewItem `json:"items"`
	TotalItems           int           `json:"totalItems"`
	TotalQuantity        float64       `json:"totalQuantity"`
	TotalValueCents      int64         `json:"totalValueCents"`
	HasInsufficientStock bool          `json:"hasInsufficientStock"`
	HasAdHocItems        bool          `json:"hasAdHocItems"`
}

// CommitRequest is the request body for committing a conversion
type CommitRequest struct {
	DestinationSite string     `json:"destinationSite" validate:"required,min=1,max=200"`
	SourceLocation  string     `json:"sourceLocation" validate:"omitempty,max=200"`
	RequiredBy      *time.Time `json:"requiredBy"`
	Notes           string     `json:"notes" validate:"omitempty,max=2000"`
	Selection       Selection  `json:"selection"`
}

// CommitResponse reports the derived order and any soft warnings
type CommitResponse struct {
	OrderID         uuid.UUID `json:"orderId"`
	OrderNumber     string    `json:"orderNumber"`
	ItemCount       int       `json:"itemCount"`
	TotalValueCents int64     `json:"totalValueCents"`
	Warnings        []string  `json:"warnings"`
}
