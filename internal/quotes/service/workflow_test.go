package service

import (
	"errors"
	"strings"
	"testing"

	"quotehub_backend/internal/quotes/repository"
	"quotehub_backend/internal/quotes/transport"
	"quotehub_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestValidateTransitionAllowed(t *testing.T) {
	cases := []struct {
		from transport.QuoteStatus
		to   transport.QuoteStatus
	}{
		{transport.QuoteStatusDraft, transport.QuoteStatusSubmitted},
		{transport.QuoteStatusDraft, transport.QuoteStatusCancelled},
		{transport.QuoteStatusSubmitted, transport.QuoteStatusUnderReview},
		{transport.QuoteStatusSubmitted, transport.QuoteStatusApproved},
		{transport.QuoteStatusUnderReview, transport.QuoteStatusRejected},
		{transport.QuoteStatusApproved, transport.QuoteStatusWon},
		{transport.QuoteStatusApproved, transport.QuoteStatusLost},
		{transport.QuoteStatusRejected, transport.QuoteStatusDraft},
		{transport.QuoteStatusLost, transport.QuoteStatusDraft},
		{transport.QuoteStatusExpired, transport.QuoteStatusDraft},
	}
	for _, c := range cases {
		if err := validateTransition(c.from, c.to); err != nil {
			t.Fatalf("expected %s -> %s to be allowed, got %v", c.from, c.to, err)
		}
	}
}

func TestValidateTransitionDisallowed(t *testing.T) {
	cases := []struct {
		from transport.QuoteStatus
		to   transport.QuoteStatus
	}{
		{transport.QuoteStatusDraft, transport.QuoteStatusApproved},
		{transport.QuoteStatusDraft, transport.QuoteStatusWon},
		{transport.QuoteStatusWon, transport.QuoteStatusDraft},
		{transport.QuoteStatusWon, transport.QuoteStatusLost},
		{transport.QuoteStatusCancelled, transport.QuoteStatusDraft},
		{transport.QuoteStatusRejected, transport.QuoteStatusApproved},
		{transport.QuoteStatusApproved, transport.QuoteStatusSubmitted},
	}
	for _, c := range cases {
		err := validateTransition(c.from, c.to)
		if err == nil {
			t.Fatalf("expected %s -> %s to be rejected", c.from, c.to)
		}
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindInvalidTransition {
			t.Fatalf("expected InvalidTransition error, got %v", err)
		}
	}
}

func TestTerminalStatesHaveNoTargets(t *testing.T) {
	for _, terminal := range []transport.QuoteStatus{transport.QuoteStatusWon, transport.QuoteStatusCancelled} {
		if len(allowedTransitions[terminal]) != 0 {
			t.Fatalf("expected %s to be terminal", terminal)
		}
	}
}

func TestSubmissionViolationsCollectsAll(t *testing.T) {
	violations := submissionViolations(nil, nil, 0)
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(violations), violations)
	}
}

func TestSubmissionViolationsEmptySection(t *testing.T) {
	fullID := uuid.New()
	emptyID := uuid.New()
	sections := []repository.Section{
		{ID: fullID, Name: "Labour"},
		{ID: emptyID, Name: "Materials"},
	}
	items := []repository.LineItem{{ID: uuid.New(), SectionID: fullID}}

	violations := submissionViolations(sections, items, 50000)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", len(violations), violations)
	}
	if !strings.Contains(violations[0], "Materials") {
		t.Fatalf("expected violation to name the empty section, got %q", violations[0])
	}
}

func TestSubmissionViolationsCleanQuote(t *testing.T) {
	sectionID := uuid.New()
	sections := []repository.Section{{ID: sectionID, Name: "Works"}}
	items := []repository.LineItem{{ID: uuid.New(), SectionID: sectionID}}

	if violations := submissionViolations(sections, items, 12345); len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestSubmissionViolationsNegativeTotal(t *testing.T) {
	sectionID := uuid.New()
	sections := []repository.Section{{ID: sectionID, Name: "Works"}}
	items := []repository.LineItem{{ID: uuid.New(), SectionID: sectionID}}

	violations := submissionViolations(sections, items, -100)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %v", violations)
	}
}

func TestChainRoot(t *testing.T) {
	rootID := uuid.New()

	orig := &repository.Quote{ID: rootID}
	if got := chainRoot(orig); got != rootID {
		t.Fatalf("expected quote without parent to be its own root")
	}

	child := &repository.Quote{ID: uuid.New(), ParentID: &rootID}
	if got := chainRoot(child); got != rootID {
		t.Fatalf("expected child to resolve the shared root")
	}
}

func TestRevisionNote(t *testing.T) {
	got := revisionNote("QUO-2026-0042", 2, "")
	if got != "Revision of QUO-2026-0042 v2" {
		t.Fatalf("unexpected lineage note %q", got)
	}

	got = revisionNote("QUO-2026-0042", 2, "retry with lower discount")
	if got != "Revision of QUO-2026-0042 v2: retry with lower discount" {
		t.Fatalf("unexpected lineage note %q", got)
	}
}

func TestRevisableStatuses(t *testing.T) {
	for _, status := range []transport.QuoteStatus{
		transport.QuoteStatusRejected, transport.QuoteStatusLost,
		transport.QuoteStatusExpired, transport.QuoteStatusApproved,
	} {
		if !revisableStatuses[status] {
			t.Fatalf("expected %s to be revisable", status)
		}
	}
	for _, status := range []transport.QuoteStatus{
		transport.QuoteStatusDraft, transport.QuoteStatusSubmitted,
		transport.QuoteStatusUnderReview, transport.QuoteStatusWon,
		transport.QuoteStatusCancelled,
	} {
		if revisableStatuses[status] {
			t.Fatalf("expected %s not to be revisable", status)
		}
	}
}
