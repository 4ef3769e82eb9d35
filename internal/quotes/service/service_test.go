package service

import (
	"testing"
	"time"

	"quotehub_backend/internal/quotes/repository"
	"quotehub_backend/internal/quotes/transport"
	"quotehub_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestBuildContactsKeepsSinglePrimary(t *testing.T) {
	quoteID := uuid.New()
	contacts := buildContacts(quoteID, []transport.ContactRequest{
		{Name: "Alice", IsPrimary: true},
		{Name: "Bob", IsPrimary: true},
		{Name: "Carol"},
	}, time.Now())

	if len(contacts) != 3 {
		t.Fatalf("expected 3 contacts, got %d", len(contacts))
	}
	primaries := 0
	for _, c := range contacts {
		if c.QuoteID != quoteID {
			t.Fatalf("contact %s not attached to the quote", c.Name)
		}
		if c.IsPrimary {
			primaries++
			if c.Name != "Alice" {
				t.Fatalf("expected the first claimant to stay primary, got %s", c.Name)
			}
		}
	}
	if primaries != 1 {
		t.Fatalf("expected exactly one primary, got %d", primaries)
	}
}

func TestBuildContactsNoPrimary(t *testing.T) {
	contacts := buildContacts(uuid.New(), []transport.ContactRequest{
		{Name: "Alice"},
		{Name: "Bob"},
	}, time.Now())

	for _, c := range contacts {
		if c.IsPrimary {
			t.Fatalf("expected no primary when none was requested, %s is primary", c.Name)
		}
	}
}

func TestStructuralGuardBlocksTerminalStatuses(t *testing.T) {
	for _, status := range []transport.QuoteStatus{
		transport.QuoteStatusWon, transport.QuoteStatusLost, transport.QuoteStatusCancelled,
	} {
		q := &repository.Quote{Status: string(status)}
		if err := structuralGuard(q); !apperr.Is(err, apperr.KindInvalidState) {
			t.Fatalf("expected %s to block structural edits, got %v", status, err)
		}
	}
	for _, status := range []transport.QuoteStatus{
		transport.QuoteStatusDraft, transport.QuoteStatusSubmitted,
		transport.QuoteStatusUnderReview, transport.QuoteStatusApproved,
		transport.QuoteStatusRejected, transport.QuoteStatusExpired,
	} {
		q := &repository.Quote{Status: string(status)}
		if err := structuralGuard(q); err != nil {
			t.Fatalf("expected %s to allow structural edits, got %v", status, err)
		}
	}
}

func TestDraftGuard(t *testing.T) {
	guard := draftGuard("draft only")
	if err := guard(&repository.Quote{Status: string(transport.QuoteStatusDraft)}); err != nil {
		t.Fatalf("expected Draft to pass, got %v", err)
	}
	err := guard(&repository.Quote{Status: string(transport.QuoteStatusWon)})
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("expected an invalid-state error, got %v", err)
	}
}
