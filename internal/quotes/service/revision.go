package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quotehub_backend/internal/events"
	"quotehub_backend/internal/quotes/repository"
	"quotehub_backend/internal/quotes/transport"
	"quotehub_backend/platform/apperr"

	"github.com/google/uuid"
)

// revisableStatuses are the only states a new draft revision may be cut from
var revisableStatuses = map[transport.QuoteStatus]bool{
	transport.QuoteStatusRejected: true,
	transport.QuoteStatusLost:     true,
	transport.QuoteStatusExpired:  true,
	transport.QuoteStatusApproved: true,
}

// chainRoot resolves the original quote of a revision chain. A quote without a
// parent is its own root.
func chainRoot(q *repository.Quote) uuid.UUID {
	if q.ParentID != nil {
		return *q.ParentID
	}
	return q.ID
}

// revisionNote builds the lineage entry for the new draft
func revisionNote(sourceNumber string, sourceVersion int, callerNote string) string {
	body := fmt.Sprintf("Revision of %s v%d", sourceNumber, sourceVersion)
	if strings.TrimSpace(callerNote) != "" {
		body += ": " + callerNote
	}
	return body
}

// newRevisionHeader builds the draft header for a revision. The draft keeps
// the source's quote number, parents onto the chain root, and takes the
// version one past the highest already in the chain, regardless of which
// member of the chain was revised.
func newRevisionHeader(source *repository.Quote, maxVersion int, now time.Time) repository.Quote {
	rootID := chainRoot(source)
	return repository.Quote{
		ID:              uuid.New(),
		QuoteNumber:     source.QuoteNumber,
		Version:         maxVersion + 1,
		ParentID:        &rootID,
		Status:          string(transport.QuoteStatusDraft),
		ClientName:      source.ClientName,
		ClientReference: source.ClientReference,
		ProjectName:     source.ProjectName,
		Currency:        source.Currency,
		DiscountPercent: source.DiscountPercent,
		VatRate:         source.VatRate,
		ValidUntil:      source.ValidUntil,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Revise deep-copies a quote into a brand-new draft linked into the source's
// revision chain. Every child entity gets a fresh identity; nothing is shared
// with the source. Totals are recomputed after the copy lands.
func (s *Service) Revise(ctx context.Context, sourceID, actorID uuid.UUID, req transport.ReviseRequest) (*transport.QuoteResponse, error) {
	source, err := s.repo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if !revisableStatuses[transport.QuoteStatus(source.Status)] {
		return nil, apperr.InvalidState("quote cannot be revised from its current status", source.Status)
	}

	root := chainRoot(source)
	maxVersion, err := s.repo.MaxVersionInChain(ctx, root)
	if err != nil {
		return nil, err
	}

	sections, err := s.repo.GetSections(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItemsByQuoteID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.repo.GetContacts(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newQuote := newRevisionHeader(source, maxVersion, now)

	sectionIDMap := make(map[uuid.UUID]uuid.UUID, len(sections))
	newSections := make([]repository.Section, 0, len(sections))
	for _, src := range sections {
		copied := src
		copied.ID = uuid.New()
		copied.QuoteID = newQuote.ID
		copied.CreatedAt = now
		sectionIDMap[src.ID] = copied.ID
		newSections = append(newSections, copied)
	}

	newItems := make([]repository.LineItem, 0, len(items))
	for _, src := range items {
		copied := src
		copied.ID = uuid.New()
		copied.QuoteID = newQuote.ID
		copied.SectionID = sectionIDMap[src.SectionID]
		copied.CreatedAt = now
		newItems = append(newItems, copied)
	}

	newContacts := make([]repository.Contact, 0, len(contacts))
	for _, src := range contacts {
		copied := src
		copied.ID = uuid.New()
		copied.QuoteID = newQuote.ID
		copied.CreatedAt = now
		newContacts = append(newContacts, copied)
	}

	actor := actorID
	note := repository.Note{
		ID:        uuid.New(),
		QuoteID:   newQuote.ID,
		ActorID:   &actor,
		NoteType:  "system",
		Body:      revisionNote(source.QuoteNumber, source.Version, req.Note),
		CreatedAt: now,
	}

	if err := s.repo.CreateAggregate(ctx, &newQuote, newSections, newItems, newContacts, []repository.Note{note}); err != nil {
		return nil, fmt.Errorf("create revision: %w", err)
	}

	// Copied totals are provisional until recomputed from raw inputs.
	if err := s.Recalculate(ctx, newQuote.ID); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.QuoteRevised{
		BaseEvent:     events.NewBaseEvent(),
		SourceQuoteID: sourceID,
		NewQuoteID:    newQuote.ID,
		NewVersion:    newQuote.Version,
		ActorID:       actorID,
	})

	return s.Get(ctx, newQuote.ID)
}

// ListRevisions returns every quote in the chain, oldest version first
func (s *Service) ListRevisions(ctx context.Context, quoteID uuid.UUID) ([]transport.RevisionResponse, error) {
	quote, err := s.repo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	revisions, err := s.repo.ListRevisions(ctx, chainRoot(quote))
	if err != nil {
		return nil, err
	}

	resp := make([]transport.RevisionResponse, 0, len(revisions))
	for _, r := range revisions {
		resp = append(resp, transport.RevisionResponse{
			ID:              r.ID,
			QuoteNumber:     r.QuoteNumber,
			Version:         r.Version,
			Status:          transport.QuoteStatus(r.Status),
			GrandTotalCents: r.GrandTotalCents,
			CreatedAt:       r.CreatedAt,
		})
	}
	return resp, nil
}
