package service

import (
	"testing"
	"time"

	"quotehub_backend/internal/quotes/repository"
	"quotehub_backend/internal/quotes/transport"

	"github.com/google/uuid"
)

func TestRevisionHeaderNumbersFromChainMax(t *testing.T) {
	rootID := uuid.New()
	root := &repository.Quote{
		ID:          rootID,
		QuoteNumber: "QUO-2026-0042",
		Version:     1,
		Status:      string(transport.QuoteStatusRejected),
	}
	child := &repository.Quote{
		ID:          uuid.New(),
		QuoteNumber: "QUO-2026-0042",
		Version:     2,
		ParentID:    &rootID,
		Status:      string(transport.QuoteStatusLost),
	}

	now := time.Now()
	for _, source := range []*repository.Quote{root, child} {
		draft := newRevisionHeader(source, 2, now)
		if draft.Version != 3 {
			t.Fatalf("revising v%d: expected version 3, got %d", source.Version, draft.Version)
		}
		if draft.ParentID == nil || *draft.ParentID != rootID {
			t.Fatalf("revising v%d: expected parent %s, got %v", source.Version, rootID, draft.ParentID)
		}
		if draft.QuoteNumber != "QUO-2026-0042" {
			t.Fatalf("expected the quote number to carry over, got %s", draft.QuoteNumber)
		}
		if draft.Status != string(transport.QuoteStatusDraft) {
			t.Fatalf("expected a draft, got %s", draft.Status)
		}
		if draft.ID == source.ID {
			t.Fatalf("expected a fresh identity for the draft")
		}
	}
}
