package events

import (
	"context"

	platformevents "quotehub_backend/platform/events"
	"quotehub_backend/platform/logger"
)

// AuditLogger writes a structured log line for every quote domain event. The
// composition roots wire it as the default subscriber so the event stream is
// observable even without downstream consumers.
type AuditLogger struct {
	log *logger.Logger
}

// NewAuditLogger creates an audit subscriber backed by the given logger.
func NewAuditLogger(log *logger.Logger) *AuditLogger {
	return &AuditLogger{log: log}
}

// Handle implements events.Handler.
func (a *AuditLogger) Handle(_ context.Context, event platformevents.Event) error {
	switch e := event.(type) {
	case QuoteCreated:
		a.log.Info("quote created",
			"quoteId", e.QuoteID, "quoteNumber", e.QuoteNumber, "actorId", e.ActorID)
	case QuoteStatusChanged:
		fields := []any{
			"quoteId", e.QuoteID, "quoteNumber", e.QuoteNumber,
			"from", e.OldStatus, "to", e.NewStatus, "actorId", e.ActorID,
		}
		if e.Reason != "" {
			fields = append(fields, "reason", e.Reason)
		}
		a.log.Info("quote status changed", fields...)
	case QuoteRevised:
		a.log.Info("quote revised",
			"sourceQuoteId", e.SourceQuoteID, "newQuoteId", e.NewQuoteID, "version", e.NewVersion)
	case QuoteConverted:
		a.log.Info("quote converted",
			"quoteId", e.QuoteID, "orderId", e.OrderID,
			"orderNumber", e.OrderNumber, "items", e.ItemCount)
	case QuotesExpired:
		a.log.Info("expiry sweep flagged quotes", "count", e.Count)
	default:
		a.log.Info("domain event", "event", event.EventName())
	}
	return nil
}

// RegisterAuditLogger subscribes an audit logger to all quote domain events.
func RegisterAuditLogger(bus Bus, log *logger.Logger) {
	a := NewAuditLogger(log)
	for _, name := range []string{
		QuoteCreated{}.EventName(),
		QuoteStatusChanged{}.EventName(),
		QuoteRevised{}.EventName(),
		QuoteConverted{}.EventName(),
		QuotesExpired{}.EventName(),
	} {
		bus.Subscribe(name, a)
	}
}

var _ platformevents.Handler = (*AuditLogger)(nil)
