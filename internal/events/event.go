package events

import (
	platformevents "quotehub_backend/platform/events"

	"github.com/google/uuid"
)

// BaseEvent re-exports the platform base event.
type BaseEvent = platformevents.BaseEvent

// NewBaseEvent re-exports the platform constructor.
var NewBaseEvent = platformevents.NewBaseEvent

// ── Quote Domain Events ──────────────────────────────────────────────────────

// QuoteCreated is published after a new quote draft is persisted.
type QuoteCreated struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	QuoteNumber string    `json:"quoteNumber"`
	ActorID     uuid.UUID `json:"actorId"`
}

func (e QuoteCreated) EventName() string { return "quotes.quote.created" }

// QuoteStatusChanged is published after every committed lifecycle transition.
type QuoteStatusChanged struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	QuoteNumber string    `json:"quoteNumber"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
	ActorID     uuid.UUID `json:"actorId"`
	Reason      string    `json:"reason,omitempty"`
}

func (e QuoteStatusChanged) EventName() string { return "quotes.quote.status_changed" }

// QuoteRevised is published when a new revision draft is created from a quote.
type QuoteRevised struct {
	BaseEvent
	SourceQuoteID uuid.UUID `json:"sourceQuoteId"`
	NewQuoteID    uuid.UUID `json:"newQuoteId"`
	NewVersion    int       `json:"newVersion"`
	ActorID       uuid.UUID `json:"actorId"`
}

func (e QuoteRevised) EventName() string { return "quotes.quote.revised" }

// QuoteConverted is published after a stock order has been created from a won
// quote. The order already exists when this fires.
type QuoteConverted struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	QuoteNumber string    `json:"quoteNumber"`
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	ItemCount   int       `json:"itemCount"`
	ActorID     uuid.UUID `json:"actorId"`
}

func (e QuoteConverted) EventName() string { return "quotes.quote.converted" }

// QuotesExpired is published after an expiry sweep that affected at least one
// quote.
type QuotesExpired struct {
	BaseEvent
	Count int `json:"count"`
}

func (e QuotesExpired) EventName() string { return "quotes.quote.expired_sweep" }
