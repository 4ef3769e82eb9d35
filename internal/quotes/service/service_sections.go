package service

import (
	"context"
	"fmt"
	"time"

	"quotehub_backend/internal/quotes/repository"
	"quotehub_backend/internal/quotes/transport"
	"quotehub_backend/platform/apperr"

	"github.com/google/uuid"
)

// structuralGuard rejects section/item/contact mutations once a quote has
// reached Won, Lost or Cancelled. The repository runs it against the locked
// row, so the check cannot interleave with a concurrent transition.
func structuralGuard(q *repository.Quote) error {
	switch transport.QuoteStatus(q.Status) {
	case transport.QuoteStatusWon, transport.QuoteStatusLost, transport.QuoteStatusCancelled:
		return apperr.InvalidState("quote contents cannot be edited in its current status", q.Status)
	}
	return nil
}

// draftGuard restricts a write to quotes still in Draft
func draftGuard(msg string) repository.Guard {
	return func(q *repository.Quote) error {
		if q.Status != string(transport.QuoteStatusDraft) {
			return apperr.InvalidState(msg, q.Status)
		}
		return nil
	}
}

// AddSection appends a section (with optional initial items) to a quote
func (s *Service) AddSection(ctx context.Context, quoteID uuid.UUID, req transport.AddSectionRequest) (*transport.QuoteResponse, error) {
	existing, err := s.repo.GetSections(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	section := repository.Section{
		ID:          uuid.New(),
		QuoteID:     quoteID,
		Name:        req.Name,
		Description: req.Description,
		TemplateRef: req.TemplateRef,
		SortOrder:   len(existing),
		CreatedAt:   now,
	}

	var items []repository.LineItem
	for i, ireq := range req.Items {
		item, err := s.buildItem(ctx, quoteID, section.ID, i, ireq, now)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := s.repo.AddSection(ctx, structuralGuard, &section, items); err != nil {
		return nil, err
	}
	if err := s.Recalculate(ctx, quoteID); err != nil {
		return nil, err
	}
	return s.Get(ctx, quoteID)
}

// UpdateSection edits a section's descriptive fields
func (s *Service) UpdateSection(ctx context.Context, quoteID, sectionID uuid.UUID, req transport.UpdateSectionRequest) (*transport.QuoteResponse, error) {
	section, err := s.repo.GetSection(ctx, sectionID, quoteID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		section.Name = *req.Name
	}
	if req.Description != nil {
		section.Description = req.Description
	}
	if req.SortOrder != nil {
		section.SortOrder = *req.SortOrder
	}

	if err := s.repo.UpdateSection(ctx, structuralGuard, section); err != nil {
		return nil, err
	}
	return s.Get(ctx, quoteID)
}

// DeleteSection removes a section and its items, then recomputes the quote
func (s *Service) DeleteSection(ctx context.Context, quoteID, sectionID uuid.UUID) (*transport.QuoteResponse, error) {
	if err := s.repo.DeleteSection(ctx, structuralGuard, sectionID, quoteID); err != nil {
		return nil, err
	}
	if err := s.Recalculate(ctx, quoteID); err != nil {
		return nil, err
	}
	return s.Get(ctx, quoteID)
}

// AddItem appends a line item to a section and recomputes the quote
func (s *Service) AddItem(ctx context.Context, quoteID, sectionID uuid.UUID, req transport.LineItemRequest) (*transport.QuoteResponse, error) {
	if _, err := s.repo.GetSection(ctx, sectionID, quoteID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByQuoteID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	nextOrder := 0
	for _, it := range items {
		if it.SectionID == sectionID && it.SortOrder >= nextOrder {
			nextOrder = it.SortOrder + 1
		}
	}

	item, err := s.buildItem(ctx, quoteID, sectionID, nextOrder, req, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddItem(ctx, structuralGuard, item); err != nil {
		return nil, err
	}
	if err := s.Recalculate(ctx, quoteID); err != nil {
		return nil, err
	}
	return s.Get(ctx, quoteID)
}

// UpdateItem edits a line item's raw inputs and recomputes the quote
func (s *Service) UpdateItem(ctx context.Context, quoteID, itemID uuid.UUID, req transport.UpdateLineItemRequest) (*transport.QuoteResponse, error) {
	item, err := s.repo.GetItem(ctx, itemID, quoteID)
	if err != nil {
		return nil, err
	}

	linkedProduct := req.ProductID != nil && (item.ProductID == nil || *item.ProductID != *req.ProductID)
	if req.ProductID != nil {
		item.ProductID = req.ProductID
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.UnitPriceCents != nil {
		item.UnitPriceCents = *req.UnitPriceCents
	}
	if req.UnitCostCents != nil {
		item.UnitCostCents = *req.UnitCostCents
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}

	// A newly linked product fills in whatever the caller left blank,
	// never overwriting supplied values.
	if linkedProduct && s.catalog != nil {
		product, err := s.catalog.GetProduct(ctx, *req.ProductID)
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("product %s not found", req.ProductID))
		}
		if req.Description == nil && item.Description == "" {
			item.Description = product.Name
		}
		if req.Unit == nil && item.Unit == "" {
			item.Unit = product.Unit
		}
		if req.UnitPriceCents == nil && item.UnitPriceCents == 0 {
			item.UnitPriceCents = product.UnitPriceCents
		}
		if req.UnitCostCents == nil && item.UnitCostCents == 0 {
			item.UnitCostCents = product.UnitCostCents
		}
	}

	if err := s.repo.UpdateItem(ctx, structuralGuard, item); err != nil {
		return nil, err
	}
	if err := s.Recalculate(ctx, quoteID); err != nil {
		return nil, err
	}
	return s.Get(ctx, quoteID)
}

// DeleteItem removes a line item and recomputes the quote
func (s *Service) DeleteItem(ctx context.Context, quoteID, itemID uuid.UUID) (*transport.QuoteResponse, error) {
	if err := s.repo.DeleteItem(ctx, structuralGuard, itemID, quoteID); err != nil {
		return nil, err
	}
	if err := s.Recalculate(ctx, quoteID); err != nil {
		return nil, err
	}
	return s.Get(ctx, quoteID)
}

// AddContact attaches a contact; a new primary demotes the previous one
func (s *Service) AddContact(ctx context.Context, quoteID uuid.UUID, req transport.ContactRequest) (*transport.QuoteResponse, error) {
	contact := repository.Contact{
		ID:        uuid.New(),
		QuoteID:   quoteID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		IsPrimary: req.IsPrimary,
		CreatedAt: time.Now(),
	}
	if err := s.repo.AddContact(ctx, structuralGuard, &contact); err != nil {
		return nil, err
	}
	return s.Get(ctx, quoteID)
}

// UpdateContact edits a contact, keeping at most one primary per quote
func (s *Service) UpdateContact(ctx context.Context, quoteID, contactID uuid.UUID, req transport.ContactRequest) (*transport.QuoteResponse, error) {
	contact := repository.Contact{
		ID:        contactID,
		QuoteID:   quoteID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		IsPrimary: req.IsPrimary,
	}
	if err := s.repo.UpdateContact(ctx, structuralGuard, &contact); err != nil {
		return nil, err
	}
	return s.Get(ctx, quoteID)
}

// DeleteContact removes a contact
func (s *Service) DeleteContact(ctx context.Context, quoteID, contactID uuid.UUID) (*transport.QuoteResponse, error) {
	if err := s.repo.DeleteContact(ctx, structuralGuard, contactID, quoteID); err != nil {
		return nil, err
	}
	return s.Get(ctx, quoteID)
}

// AddNote appends a manual note to a quote's log
func (s *Service) AddNote(ctx context.Context, quoteID uuid.UUID, actorID uuid.UUID, body string) error {
	if _, err := s.repo.GetByID(ctx, quoteID); err != nil {
		return err
	}
	note := repository.Note{
		ID:        uuid.New(),
		QuoteID:   quoteID,
		ActorID:   &actorID,
		NoteType:  "manual",
		Body:      body,
		CreatedAt: time.Now(),
	}
	return s.repo.AppendNote(ctx, &note)
}

// ListNotes returns a quote's note log, newest first
func (s *Service) ListNotes(ctx context.Context, quoteID uuid.UUID) ([]transport.NoteResponse, error) {
	if _, err := s.repo.GetByID(ctx, quoteID); err != nil {
		return nil, err
	}
	notes, err := s.repo.ListNotes(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	resp := make([]transport.NoteResponse, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, transport.NoteResponse{
			ID:        n.ID,
			NoteType:  n.NoteType,
			Body:      n.Body,
			ActorID:   n.ActorID,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp, nil
}
