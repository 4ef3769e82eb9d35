package service

import (
	"context"
	"fmt"
	"time"

	"quotehub_backend/internal/events"
	"quotehub_backend/internal/quotes/repository"
	"quotehub_backend/internal/quotes/transport"
	"quotehub_backend/platform/apperr"

	"github.com/google/uuid"
)

// allowedTransitions is the full lifecycle table. Won and Cancelled are
// terminal. Expiry is driven by the sweep, not by this table.
var allowedTransitions = map[transport.QuoteStatus][]transport.QuoteStatus{
	transport.QuoteStatusDraft:       {transport.QuoteStatusSubmitted, transport.QuoteStatusCancelled},
	transport.QuoteStatusSubmitted:   {transport.QuoteStatusUnderReview, transport.QuoteStatusApproved, transport.QuoteStatusRejected, transport.QuoteStatusCancelled},
	transport.QuoteStatusUnderReview: {transport.QuoteStatusApproved, transport.QuoteStatusRejected, transport.QuoteStatusCancelled},
	transport.QuoteStatusApproved:    {transport.QuoteStatusWon, transport.QuoteStatusLost, transport.QuoteStatusCancelled},
	transport.QuoteStatusRejected:    {transport.QuoteStatusDraft},
	transport.QuoteStatusWon:         {},
	transport.QuoteStatusLost:        {transport.QuoteStatusDraft},
	transport.QuoteStatusExpired:     {transport.QuoteStatusDraft},
	transport.QuoteStatusCancelled:   {},
}

// validateTransition checks the requested move against the lifecycle table
func validateTransition(from, to transport.QuoteStatus) error {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return apperr.InvalidTransition(string(from), string(to))
}

// submissionViolations collects every broken submission rule so the caller can
// fix all of them in one pass.
func submissionViolations(sections []repository.Section, items []repository.LineItem, grandTotalCents int64) []string {
	var violations []string
	if len(sections) == 0 {
		violations = append(violations, "quote has no sections")
	}
	itemCount := make(map[uuid.UUID]int, len(sections))
	for _, it := range items {
		itemCount[it.SectionID]++
	}
	for _, sec := range sections {
		if itemCount[sec.ID] == 0 {
			violations = append(violations, fmt.Sprintf("section %q has no line items", sec.Name))
		}
	}
	if grandTotalCents <= 0 {
		violations = append(violations, "grand total must be positive")
	}
	return violations
}

// transition runs the shared lifecycle mechanics: table check against the
// locked row, side-effect stamps, audit note, single-transaction persist and a
// status-changed event.
func (s *Service) transition(ctx context.Context, quoteID uuid.UUID, actorID uuid.UUID, target transport.QuoteStatus, reason, noteBody string, mutate func(q *repository.Quote, load repository.AggregateLoader, u *repository.TransitionUpdate) error) (*transport.QuoteResponse, error) {
	var oldStatus string
	quote, err := s.repo.ApplyTransition(ctx, quoteID, func(q *repository.Quote, load repository.AggregateLoader) (*repository.TransitionUpdate, error) {
		if err := validateTransition(transport.QuoteStatus(q.Status), target); err != nil {
			return nil, err
		}
		oldStatus = q.Status

		update := &repository.TransitionUpdate{NewStatus: string(target)}
		if mutate != nil {
			if err := mutate(q, load, update); err != nil {
				return nil, err
			}
		}
		actor := actorID
		update.Note = &repository.Note{
			ID:        uuid.New(),
			QuoteID:   quoteID,
			ActorID:   &actor,
			NoteType:  "status",
			Body:      noteBody,
			CreatedAt: time.Now(),
		}
		return update, nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.QuoteStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		OldStatus:   oldStatus,
		NewStatus:   quote.Status,
		ActorID:     actorID,
		Reason:      reason,
	})

	return s.Get(ctx, quoteID)
}

// Submit moves a draft into Submitted after submission validation passes. The
// contents are read under the transition's row lock, so a structural edit
// cannot slip between the readiness check and the status flip.
func (s *Service) Submit(ctx context.Context, quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error) {
	return s.transition(ctx, quoteID, actorID, transport.QuoteStatusSubmitted, "", "Quote submitted for approval",
		func(q *repository.Quote, load repository.AggregateLoader, u *repository.TransitionUpdate) error {
			sections, items, err := load()
			if err != nil {
				return err
			}
			if violations := submissionViolations(sections, items, q.GrandTotalCents); len(violations) > 0 {
				return apperr.ValidationList("quote is not ready for submission", violations)
			}
			now := time.Now()
			u.SubmittedAt = &now
			return nil
		})
}

// StartReview moves a submitted quote into UnderReview
func (s *Service) StartReview(ctx context.Context, quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error) {
	return s.transition(ctx, quoteID, actorID, transport.QuoteStatusUnderReview, "", "Quote review started", nil)
}

// Approve records the approver and timestamp
func (s *Service) Approve(ctx context.Context, quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error) {
	return s.transition(ctx, quoteID, actorID, transport.QuoteStatusApproved, "", "Quote approved",
		func(q *repository.Quote, _ repository.AggregateLoader, u *repository.TransitionUpdate) error {
			now := time.Now()
			approver := actorID
			u.ApprovedAt = &now
			u.ApprovedByID = &approver
			return nil
		})
}

// Reject requires a reason and records the rejection timestamp
func (s *Service) Reject(ctx context.Context, quoteID, actorID uuid.UUID, req transport.RejectRequest) (*transport.QuoteResponse, error) {
	return s.transition(ctx, quoteID, actorID, transport.QuoteStatusRejected, req.Reason, "Quote rejected: "+req.Reason,
		func(q *repository.Quote, _ repository.AggregateLoader, u *repository.TransitionUpdate) error {
			now := time.Now()
			u.RejectedAt = &now
			return nil
		})
}

// MarkWon records the win timestamp, caller-supplied or now
func (s *Service) MarkWon(ctx context.Context, quoteID, actorID uuid.UUID, req transport.MarkWonRequest) (*transport.QuoteResponse, error) {
	body := "Quote marked as won"
	if req.Reason != "" {
		body += ": " + req.Reason
	}
	return s.transition(ctx, quoteID, actorID, transport.QuoteStatusWon, req.Reason, body,
		func(q *repository.Quote, _ repository.AggregateLoader, u *repository.TransitionUpdate) error {
			wonAt := time.Now()
			if req.WonAt != nil {
				wonAt = *req.WonAt
			}
			u.WonAt = &wonAt
			return nil
		})
}

// MarkLost requires a reason and records the loss timestamp
func (s *Service) MarkLost(ctx context.Context, quoteID, actorID uuid.UUID, req transport.MarkLostRequest) (*transport.QuoteResponse, error) {
	return s.transition(ctx, quoteID, actorID, transport.QuoteStatusLost, req.Reason, "Quote marked as lost: "+req.Reason,
		func(q *repository.Quote, _ repository.AggregateLoader, u *repository.TransitionUpdate) error {
			now := time.Now()
			u.LostAt = &now
			return nil
		})
}

// Cancel ends the quote's lifecycle
func (s *Service) Cancel(ctx context.Context, quoteID, actorID uuid.UUID, req transport.CancelRequest) (*transport.QuoteResponse, error) {
	body := "Quote cancelled"
	if req.Reason != "" {
		body += ": " + req.Reason
	}
	return s.transition(ctx, quoteID, actorID, transport.QuoteStatusCancelled, req.Reason, body,
		func(q *repository.Quote, _ repository.AggregateLoader, u *repository.TransitionUpdate) error {
			now := time.Now()
			u.CancelledAt = &now
			return nil
		})
}

// Reopen returns a Rejected, Lost or Expired quote to Draft, clearing all
// outcome stamps so the draft starts over.
func (s *Service) Reopen(ctx context.Context, quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error) {
	return s.transition(ctx, quoteID, actorID, transport.QuoteStatusDraft, "", "Quote reopened as draft",
		func(q *repository.Quote, _ repository.AggregateLoader, u *repository.TransitionUpdate) error {
			u.ClearStamps = true
			return nil
		})
}

// ExpireOverdue transitions every active quote whose validity deadline has
// passed to Expired and returns the count affected. Failures on individual
// quotes are logged and skipped so one bad row cannot stall the sweep.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	ids, err := s.repo.ListExpirable(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		_, err := s.repo.ApplyTransition(ctx, id, func(q *repository.Quote, _ repository.AggregateLoader) (*repository.TransitionUpdate, error) {
			switch transport.QuoteStatus(q.Status) {
			case transport.QuoteStatusDraft, transport.QuoteStatusSubmitted,
				transport.QuoteStatusUnderReview, transport.QuoteStatusApproved:
			default:
				// Raced into a terminal status between the scan and the lock.
				return nil, apperr.InvalidState("quote is no longer expirable", q.Status)
			}
			now := time.Now()
			return &repository.TransitionUpdate{
				NewStatus: string(transport.QuoteStatusExpired),
				ExpiredAt: &now,
				Note: &repository.Note{
					ID:        uuid.New(),
					QuoteID:   id,
					NoteType:  "status",
					Body:      "Quote expired: validity deadline passed",
					CreatedAt: now,
				},
			}, nil
		})
		if err != nil {
			s.log.Warn("expiry sweep skipped quote", "quoteId", id, "error", err.Error())
			continue
		}
		expired++
	}

	if expired > 0 {
		s.bus.Publish(ctx, events.QuotesExpired{
			BaseEvent: events.NewBaseEvent(),
			Count:     expired,
		})
	}
	return expired, nil
}
