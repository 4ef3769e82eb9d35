package transport

import (
	"time"

	"github.com/google/uuid"
)

// QuoteStatus defines the lifecycle status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft       QuoteStatus = "Draft"
	QuoteStatusSubmitted   QuoteStatus = "Submitted"
	QuoteStatusUnderReview QuoteStatus = "UnderReview"
	QuoteStatusApproved    QuoteStatus = "Approved"
	QuoteStatusRejected    QuoteStatus = "Rejected"
	QuoteStatusWon         QuoteStatus = "Won"
	QuoteStatusLost        QuoteStatus = "Lost"
	QuoteStatusExpired     QuoteStatus = "Expired"
	QuoteStatusCancelled   QuoteStatus = "Cancelled"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// LineItemRequest is the input for a single line item
type LineItemRequest struct {
	ProductID      *uuid.UUID `json:"productId,omitempty"`
	Description    string     `json:"description" validate:"omitempty,max=1000"`
	Unit           string     `json:"unit" validate:"omitempty,max=50"`
	Quantity       float64    `json:"quantity" validate:"required,gt=0"`
	UnitPriceCents int64      `json:"unitPriceCents" validate:"min=0"`
	UnitCostCents  int64      `json:"unitCostCents" validate:"min=0"`
}

// SectionRequest is the input for a named group of line items
type SectionRequest struct {
	Name        string            `json:"name" validate:"required,min=1,max=300"`
	Description *string           `json:"description,omitempty"`
	TemplateRef *string           `json:"templateRef,omitempty"`
	Items       []LineItemRequest `json:"items" validate:"omitempty,dive"`
}

// ContactRequest is the input for a quote contact
type ContactRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=300"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Role      *string `json:"role,omitempty" validate:"omitempty,max=100"`
	IsPrimary bool    `json:"isPrimary"`
}

// CreateQuoteRequest is the request body for creating a new quote
type CreateQuoteRequest struct {
	ClientName      string           `json:"clientName" validate:"required,min=1,max=300"`
	ClientReference *string          `json:"clientReference,omitempty"`
	ProjectName     string           `json:"projectName" validate:"omitempty,max=300"`
	Currency        string           `json:"currency" validate:"omitempty,currency"`
	DiscountPercent float64          `json:"discountPercent" validate:"min=0,max=100"`
	VatRate         float64          `json:"vatRate" validate:"min=0,max=100"`
	ValidUntil      *time.Time       `json:"validUntil"`
	Sections        []SectionRequest `json:"sections" validate:"omitempty,dive"`
	Contacts        []ContactRequest `json:"contacts" validate:"omitempty,dive"`
}

// UpdateQuoteRequest carries whole-quote field edits; permitted in Draft only.
type UpdateQuoteRequest struct {
	ClientName      *string    `json:"clientName" validate:"omitempty,min=1,max=300"`
	ClientReference *string    `json:"clientReference"`
	ProjectName     *string    `json:"projectName" validate:"omitempty,max=300"`
	Currency        *string    `json:"currency" validate:"omitempty,currency"`
	DiscountPercent *float64   `json:"discountPercent" validate:"omitempty,min=0,max=100"`
	VatRate         *float64   `json:"vatRate" validate:"omitempty,min=0,max=100"`
	ValidUntil      *time.Time `json:"validUntil"`
}

// AddSectionRequest creates a new section on an editable quote.
type AddSectionRequest struct {
	Name        string            `json:"name" validate:"required,min=1,max=300"`
	Description *string           `json:"description,omitempty"`
	TemplateRef *string           `json:"templateRef,omitempty"`
	Items       []LineItemRequest `json:"items" validate:"omitempty,dive"`
}

// UpdateSectionRequest edits a section's descriptive fields or ordering.
type UpdateSectionRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=300"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sortOrder" validate:"omitempty,min=0"`
}

// UpdateLineItemRequest edits a line item; nil fields are left untouched.
type UpdateLineItemRequest struct {
	ProductID      *uuid.UUID `json:"productId"`
	Description    *string    `json:"description" validate:"omitempty,max=1000"`
	Unit           *string    `json:"unit" validate:"omitempty,max=50"`
	Quantity       *float64   `json:"quantity" validate:"omitempty,gt=0"`
	UnitPriceCents *int64     `json:"unitPriceCents" validate:"omitempty,min=0"`
	UnitCostCents  *int64     `json:"unitCostCents" validate:"omitempty,min=0"`
	SortOrder      *int       `json:"sortOrder" validate:"omitempty,min=0"`
}

// RejectRequest requires a reason so the note log stays meaningful.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

// MarkWonRequest optionally backdates the win.
type MarkWonRequest struct {
	WonAt  *time.Time `json:"wonAt"`
	Reason string     `json:"reason"`
}

// MarkLostRequest requires a reason.
type MarkLostRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

// CancelRequest carries an optional reason.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// ReviseRequest creates a new draft revision from the quote.
type ReviseRequest struct {
	Note string `json:"note"`
}

// CalculateRequest carries raw pricing inputs for a stateless totals preview.
// Nothing is persisted; the response mirrors what a saved quote would compute.
type CalculateRequest struct {
	DiscountPercent float64          `json:"discountPercent" validate:"min=0,max=100"`
	VatRate         float64          `json:"vatRate" validate:"min=0,max=100"`
	Sections        []SectionRequest `json:"sections" validate:"required,min=1,dive"`
}

// ListQuotesRequest defines the query parameters for listing quotes
type ListQuotesRequest struct {
	Status    string `form:"status" validate:"omitempty,oneof=Draft Submitted UnderReview Approved Rejected Won Lost Expired Cancelled"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=quoteNumber status grandTotal createdAt updatedAt"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// LineItemResponse is the response for a single line item
type LineItemResponse struct {
	ID              uuid.UUID  `json:"id"`
	SectionID       uuid.UUID  `json:"sectionId"`
	ProductID       *uuid.UUID `json:"productId,omitempty"`
	Description     string     `json:"description"`
	Unit            string     `json:"unit"`
	Quantity        float64    `json:"quantity"`
	UnitPriceCents  int64      `json:"unitPriceCents"`
	UnitCostCents   int64      `json:"unitCostCents"`
	SortOrder       int        `json:"sortOrder"`
	LineTotalCents  int64      `json:"lineTotalCents"`
	LineCostCents   int64      `json:"lineCostCents"`
	LineMarginCents int64      `json:"lineMarginCents"`
	MarginPercent   float64    `json:"marginPercent"`
}

// SectionResponse is the response for a section with its items
type SectionResponse struct {
	ID                 uuid.UUID          `json:"id"`
	Name               string             `json:"name"`
	Description        *string            `json:"description,omitempty"`
	TemplateRef        *string            `json:"templateRef,omitempty"`
	SortOrder          int                `json:"sortOrder"`
	SectionTotalCents  int64              `json:"sectionTotalCents"`
	SectionCostCents   int64              `json:"sectionCostCents"`
	SectionMarginCents int64              `json:"sectionMarginCents"`
	Items              []LineItemResponse `json:"items"`
}

// ContactResponse is the response for a quote contact
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Role      *string   `json:"role,omitempty"`
	IsPrimary bool      `json:"isPrimary"`
}

// NoteResponse is a single entry of the quote's append-only note log.
type NoteResponse struct {
	ID        uuid.UUID  `json:"id"`
	NoteType  string     `json:"noteType"`
	Body      string     `json:"body"`
	ActorID   *uuid.UUID `json:"actorId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// QuoteResponse is the full quote aggregate
type QuoteResponse struct {
	ID                  uuid.UUID         `json:"id"`
	QuoteNumber         string            `json:"quoteNumber"`
	Version             int               `json:"version"`
	ParentID            *uuid.UUID        `json:"parentId,omitempty"`
	Status              QuoteStatus       `json:"status"`
	ClientName          string            `json:"clientName"`
	ClientReference     *string           `json:"clientReference,omitempty"`
	ProjectName         string            `json:"projectName"`
	Currency            string            `json:"currency"`
	DiscountPercent     float64           `json:"discountPercent"`
	VatRate             float64           `json:"vatRate"`
	SubtotalCents       int64             `json:"subtotalCents"`
	DiscountAmountCents int64             `json:"discountAmountCents"`
	NetTotalCents       int64             `json:"netTotalCents"`
	VatAmountCents      int64             `json:"vatAmountCents"`
	GrandTotalCents     int64             `json:"grandTotalCents"`
	TotalCostCents      int64             `json:"totalCostCents"`
	TotalMarginCents    int64             `json:"totalMarginCents"`
	MarginPercent       float64           `json:"marginPercent"`
	ValidUntil          *time.Time        `json:"validUntil,omitempty"`
	SubmittedAt         *time.Time        `json:"submittedAt,omitempty"`
	ApprovedAt          *time.Time        `json:"approvedAt,omitempty"`
	ApprovedByID        *uuid.UUID        `json:"approvedById,omitempty"`
	RejectedAt          *time.Time        `json:"rejectedAt,omitempty"`
	WonAt               *time.Time        `json:"wonAt,omitempty"`
	LostAt              *time.Time        `json:"lostAt,omitempty"`
	ExpiredAt           *time.Time        `json:"expiredAt,omitempty"`
	CancelledAt         *time.Time        `json:"cancelledAt,omitempty"`
	Sections            []SectionResponse `json:"sections"`
	Contacts            []ContactResponse `json:"contacts"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// QuoteListResponse is the paginated quote list
type QuoteListResponse struct {
	Items      []QuoteResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// RevisionResponse is one entry of a revision chain listing.
type RevisionResponse struct {
	ID              uuid.UUID   `json:"id"`
	QuoteNumber     string      `json:"quoteNumber"`
	Version         int         `json:"version"`
	Status          QuoteStatus `json:"status"`
	GrandTotalCents int64       `json:"grandTotalCents"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// ExpireSweepResponse reports a bulk expiry sweep outcome.
type ExpireSweepResponse struct {
	Expired int `json:"expired"`
}

// CalculateLineResult is the computed view of one previewed line item.
type CalculateLineResult struct {
	Description     string  `json:"description"`
	Unit            string  `json:"unit"`
	Quantity        float64 `json:"quantity"`
	UnitPriceCents  int64   `json:"unitPriceCents"`
	UnitCostCents   int64   `json:"unitCostCents"`
	LineTotalCents  int64   `json:"lineTotalCents"`
	LineCostCents   int64   `json:"lineCostCents"`
	LineMarginCents int64   `json:"lineMarginCents"`
	MarginPercent   float64 `json:"marginPercent"`
}

// CalculateSectionResult is the computed view of one previewed section.
type CalculateSectionResult struct {
	Name               string                `json:"name"`
	SectionTotalCents  int64                 `json:"sectionTotalCents"`
	SectionCostCents   int64                 `json:"sectionCostCents"`
	SectionMarginCents int64                 `json:"sectionMarginCents"`
	Items              []CalculateLineResult `json:"items"`
}

// CalculateResponse is the stateless totals preview result.
type CalculateResponse struct {
	Sections            []CalculateSectionResult `json:"sections"`
	SubtotalCents       int64                    `json:"subtotalCents"`
	DiscountAmountCents int64                    `json:"discountAmountCents"`
	NetTotalCents       int64                    `json:"netTotalCents"`
	VatAmountCents      int64                    `json:"vatAmountCents"`
	GrandTotalCents     int64                    `json:"grandTotalCents"`
	TotalCostCents      int64                    `json:"totalCostCents"`
	TotalMarginCents    int64                    `json:"totalMarginCents"`
	MarginPercent       float64                  `json:"marginPercent"`
}
