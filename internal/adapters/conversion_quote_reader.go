package adapters

import (
	"context"
	"time"

	conversionports "quotehub_backend/internal/conversion/ports"
	quotesrepo "quotehub_backend/internal/quotes/repository"

	"github.com/google/uuid"
)

// ConversionQuoteReader adapts the quotes repository to the conversion
// module's QuoteReader port.
type ConversionQuoteReader struct {
	repo *quotesrepo.Repository
}

// NewConversionQuoteReader creates the adapter
func NewConversionQuoteReader(repo *quotesrepo.Repository) *ConversionQuoteReader {
	return &ConversionQuoteReader{repo: repo}
}

// GetQuoteForConversion loads the slice of a quote the orchestrator needs
func (a *ConversionQuoteReader) GetQuoteForConversion(ctx context.Context, id uuid.UUID) (*conversionports.QuoteSnapshot, error) {
	quote, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := a.repo.GetItemsByQuoteID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := &conversionports.QuoteSnapshot{
		ID:          quote.ID,
		QuoteNumber: quote.QuoteNumber,
		Status:      quote.Status,
		Items:       make([]conversionports.QuoteItem, 0, len(items)),
	}
	for _, it := range items {
		snapshot.Items = append(snapshot.Items, conversionports.QuoteItem{
			ID:             it.ID,
			SectionID:      it.SectionID,
			ProductID:      it.ProductID,
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			LineTotalCents: it.LineTotalCents,
		})
	}
	return snapshot, nil
}

// ConversionNoteAppender adapts the quotes repository to the conversion
// module's NoteAppender port.
type ConversionNoteAppender struct {
	repo *quotesrepo.Repository
}

// NewConversionNoteAppender creates the adapter
func NewConversionNoteAppender(repo *quotesrepo.Repository) *ConversionNoteAppender {
	return &ConversionNoteAppender{repo: repo}
}

// AppendConversionNote records the derived order linkage on the source quote
func (a *ConversionNoteAppender) AppendConversionNote(ctx context.Context, quoteID, actorID uuid.UUID, body string) error {
	actor := actorID
	return a.repo.AppendNote(ctx, &quotesrepo.Note{
		ID:        uuid.New(),
		QuoteID:   quoteID,
		ActorID:   &actor,
		NoteType:  "conversion",
		Body:      body,
		CreatedAt: time.Now(),
	})
}

var (
	_ conversionports.QuoteReader  = (*ConversionQuoteReader)(nil)
	_ conversionports.NoteAppender = (*ConversionNoteAppender)(nil)
)
