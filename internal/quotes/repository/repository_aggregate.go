package repository

import (
	"context"
	"fmt"
	"time"

	"quotehub_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Computed carries the derived financial fields produced by the totals fold.
// The repository persists these verbatim without interpreting them.
type Computed struct {
	Quote    QuoteTotals
	Sections map[uuid.UUID]SectionTotals
	Items    map[uuid.UUID]ItemTotals
}

// QuoteTotals are the quote-level derived money fields
type QuoteTotals struct {
	SubtotalCents       int64
	DiscountAmountCents int64
	NetTotalCents       int64
	VatAmountCents      int64
	GrandTotalCents     int64
	TotalCostCents      int64
	TotalMarginCents    int64
	MarginPercent       float64
}

// SectionTotals are the section-level derived money fields
type SectionTotals struct {
	SectionTotalCents  int64
	SectionCostCents   int64
	SectionMarginCents int64
}

// ItemTotals are the line-level derived money fields
type ItemTotals struct {
	LineTotalCents  int64
	LineCostCents   int64
	LineMarginCents int64
	MarginPercent   float64
}

// RecalculateTx recomputes and persists all derived totals for one quote under
// a row lock. The fold receives the raw aggregate as stored and must return the
// complete set of derived fields. Concurrent recalculations on the same quote
// serialize on the FOR UPDATE lock.
func (r *Repository) RecalculateTx(ctx context.Context, quoteID uuid.UUID, fold func(q *Quote, sections []Section, items []LineItem) Computed) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	quote, err := lockQuote(ctx, tx, quoteID)
	if err != nil {
		return err
	}

	sections, items, err := loadAggregateTx(ctx, tx, quoteID)
	if err != nil {
		return err
	}

	computed := fold(quote, sections, items)

	for id, it := range computed.Items {
		query := `
			UPDATE quote_line_items SET
				line_total_cents = $2, line_cost_cents = $3, line_margin_cents = $4, margin_percent = $5
			WHERE id = $1`
		if _, err := tx.Exec(ctx, query, id, it.LineTotalCents, it.LineCostCents, it.LineMarginCents, it.MarginPercent); err != nil {
			return fmt.Errorf("failed to persist line totals: %w", err)
		}
	}
	for id, s := range computed.Sections {
		query := `
			UPDATE quote_sections SET
				section_total_cents = $2, section_cost_cents = $3, section_margin_cents = $4
			WHERE id = $1`
		if _, err := tx.Exec(ctx, query, id, s.SectionTotalCents, s.SectionCostCents, s.SectionMarginCents); err != nil {
			return fmt.Errorf("failed to persist section totals: %w", err)
		}
	}

	qt := computed.Quote
	quoteQuery := `
		UPDATE quotes SET
			subtotal_cents = $2, discount_amount_cents = $3, net_total_cents = $4,
			vat_amount_cents = $5, grand_total_cents = $6, total_cost_cents = $7,
			total_margin_cents = $8, margin_percent = $9, updated_at = $10
		WHERE id = $1`
	if _, err := tx.Exec(ctx, quoteQuery, quoteID,
		qt.SubtotalCents, qt.DiscountAmountCents, qt.NetTotalCents,
		qt.VatAmountCents, qt.GrandTotalCents, qt.TotalCostCents,
		qt.TotalMarginCents, qt.MarginPercent, time.Now(),
	); err != nil {
		return fmt.Errorf("failed to persist quote totals: %w", err)
	}

	return tx.Commit(ctx)
}

// Guard is a policy check run against the locked quote row before a
// structural write. Returning an error aborts the transaction.
type Guard func(q *Quote) error

// mutateLocked locks the quote row, runs the guard against it and then the
// write, all in one transaction. A concurrent status transition holds the same
// lock, so the guard's view of the status cannot go stale before the write.
func (r *Repository) mutateLocked(ctx context.Context, quoteID uuid.UUID, guard Guard, write func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	quote, err := lockQuote(ctx, tx, quoteID)
	if err != nil {
		return err
	}
	if guard != nil {
		if err := guard(quote); err != nil {
			return err
		}
	}
	if err := write(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func lockQuote(ctx context.Context, tx pgx.Tx, quoteID uuid.UUID) (*Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	q, err := scanQuote(tx.QueryRow(ctx, query, quoteID))
	if err != nil {
		return nil, err
	}
	return q, nil
}

func loadAggregateTx(ctx context.Context, tx pgx.Tx, quoteID uuid.UUID) ([]Section, []LineItem, error) {
	sectionRows, err := tx.Query(ctx, `
		SELECT id, quote_id, name, description, template_ref, sort_order,
			section_total_cents, section_cost_cents, section_margin_cents, created_at
		FROM quote_sections WHERE quote_id = $1
		ORDER BY sort_order ASC, created_at ASC`, quoteID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query sections: %w", err)
	}
	sections, err := collectSections(sectionRows)
	sectionRows.Close()
	if err != nil {
		return nil, nil, err
	}

	itemRows, err := tx.Query(ctx, `
		SELECT `+itemColumns+`
		FROM quote_line_items WHERE quote_id = $1
		ORDER BY sort_order ASC, created_at ASC`, quoteID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query line items: %w", err)
	}
	items, err := collectItems(itemRows)
	itemRows.Close()
	if err != nil {
		return nil, nil, err
	}

	return sections, items, nil
}

// TransitionUpdate describes the mutation applied alongside a status change
type TransitionUpdate struct {
	NewStatus    string
	SubmittedAt  *time.Time
	ApprovedAt   *time.Time
	ApprovedByID *uuid.UUID
	RejectedAt   *time.Time
	WonAt        *time.Time
	LostAt       *time.Time
	ExpiredAt    *time.Time
	CancelledAt  *time.Time
	ClearStamps  bool
	Note         *Note
}

// AggregateLoader reads a quote's sections and items inside the transaction
// that holds the row lock. Guards call it when the transition depends on the
// quote's contents.
type AggregateLoader func() ([]Section, []LineItem, error)

// ApplyTransition flips a quote's status, stamps the side-effect timestamps and
// appends the audit note, all in one transaction. guard runs against the locked
// row so the status check and the write cannot interleave with another writer.
func (r *Repository) ApplyTransition(ctx context.Context, quoteID uuid.UUID, guard func(q *Quote, load AggregateLoader) (*TransitionUpdate, error)) (*Quote, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	quote, err := lockQuote(ctx, tx, quoteID)
	if err != nil {
		return nil, err
	}

	update, err := guard(quote, func() ([]Section, []LineItem, error) {
		return loadAggregateTx(ctx, tx, quoteID)
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if update.ClearStamps {
		// Reopening resets every outcome stamp so the new Draft starts clean.
		query := `
			UPDATE quotes SET status = $2,
				submitted_at = NULL, approved_at = NULL, approved_by_id = NULL,
				rejected_at = NULL, won_at = NULL, lost_at = NULL,
				expired_at = NULL, cancelled_at = NULL, updated_at = $3
			WHERE id = $1`
		if _, err := tx.Exec(ctx, query, quoteID, update.NewStatus, now); err != nil {
			return nil, fmt.Errorf("failed to apply transition: %w", err)
		}
	} else {
		query := `
			UPDATE quotes SET status = $2,
				submitted_at = COALESCE($3, submitted_at),
				approved_at = COALESCE($4, approved_at),
				approved_by_id = COALESCE($5, approved_by_id),
				rejected_at = COALESCE($6, rejected_at),
				won_at = COALESCE($7, won_at),
				lost_at = COALESCE($8, lost_at),
				expired_at = COALESCE($9, expired_at),
				cancelled_at = COALESCE($10, cancelled_at),
				updated_at = $11
			WHERE id = $1`
		if _, err := tx.Exec(ctx, query, quoteID, update.NewStatus,
			update.SubmittedAt, update.ApprovedAt, update.ApprovedByID,
			update.RejectedAt, update.WonAt, update.LostAt,
			update.ExpiredAt, update.CancelledAt, now,
		); err != nil {
			return nil, fmt.Errorf("failed to apply transition: %w", err)
		}
	}

	if update.Note != nil {
		if err := insertNote(ctx, tx, update.Note); err != nil {
			return nil, err
		}
	}

	updated, err := scanQuote(tx.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, quoteID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}
	return updated, nil
}

// AppendNote adds one entry to a quote's note log
func (r *Repository) AppendNote(ctx context.Context, n *Note) error {
	query := `
		INSERT INTO quote_notes (id, quote_id, actor_id, note_type, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.pool.Exec(ctx, query, n.ID, n.QuoteID, n.ActorID, n.NoteType, n.Body, n.CreatedAt); err != nil {
		return fmt.Errorf("failed to append note: %w", err)
	}
	return nil
}

// ListNotes returns a quote's notes, newest first
func (r *Repository) ListNotes(ctx context.Context, quoteID uuid.UUID) ([]Note, error) {
	query := `
		SELECT id, quote_id, actor_id, note_type, body, created_at
		FROM quote_notes WHERE quote_id = $1
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.QuoteID, &n.ActorID, &n.NoteType, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return notes, nil
}

// GetContacts returns a quote's contacts, primary first
func (r *Repository) GetContacts(ctx context.Context, quoteID uuid.UUID) ([]Contact, error) {
	query := `
		SELECT id, quote_id, name, email, phone, role, is_primary, created_at
		FROM quote_contacts WHERE quote_id = $1
		ORDER BY is_primary DESC, created_at ASC`
	rows, err := r.pool.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.QuoteID, &c.Name, &c.Email, &c.Phone, &c.Role, &c.IsPrimary, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

// AddContact inserts a contact, demoting the current primary in the same
// transaction when the new contact is flagged primary.
func (r *Repository) AddContact(ctx context.Context, guard Guard, c *Contact) error {
	return r.mutateLocked(ctx, c.QuoteID, guard, func(tx pgx.Tx) error {
		if c.IsPrimary {
			if err := demotePrimary(ctx, tx, c.QuoteID, c.ID); err != nil {
				return err
			}
		}
		return insertContact(ctx, tx, c)
	})
}

// UpdateContact updates a contact, keeping the single-primary invariant
func (r *Repository) UpdateContact(ctx context.Context, guard Guard, c *Contact) error {
	return r.mutateLocked(ctx, c.QuoteID, guard, func(tx pgx.Tx) error {
		if c.IsPrimary {
			if err := demotePrimary(ctx, tx, c.QuoteID, c.ID); err != nil {
				return err
			}
		}

		query := `
			UPDATE quote_contacts SET name = $3, email = $4, phone = $5, role = $6, is_primary = $7
			WHERE id = $1 AND quote_id = $2`
		result, err := tx.Exec(ctx, query, c.ID, c.QuoteID, c.Name, c.Email, c.Phone, c.Role, c.IsPrimary)
		if err != nil {
			return fmt.Errorf("failed to update contact: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound("contact not found")
		}
		return nil
	})
}

func demotePrimary(ctx context.Context, tx pgx.Tx, quoteID, exceptID uuid.UUID) error {
	query := `UPDATE quote_contacts SET is_primary = false WHERE quote_id = $1 AND id != $2 AND is_primary = true`
	if _, err := tx.Exec(ctx, query, quoteID, exceptID); err != nil {
		return fmt.Errorf("failed to demote primary contact: %w", err)
	}
	return nil
}

// DeleteContact removes a contact
func (r *Repository) DeleteContact(ctx context.Context, guard Guard, contactID, quoteID uuid.UUID) error {
	return r.mutateLocked(ctx, quoteID, guard, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM quote_contacts WHERE id = $1 AND quote_id = $2`, contactID, quoteID)
		if err != nil {
			return fmt.Errorf("failed to delete contact: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound("contact not found")
		}
		return nil
	})
}

// MaxVersionInChain returns the highest version among a quote's revision chain.
// rootID is the chain's original quote (a quote with no parent is its own root).
func (r *Repository) MaxVersionInChain(ctx context.Context, rootID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(MAX(version), 0)
		FROM quotes
		WHERE id = $1 OR parent_id = $1`
	var maxVersion int
	if err := r.pool.QueryRow(ctx, query, rootID).Scan(&maxVersion); err != nil {
		return 0, fmt.Errorf("failed to resolve chain version: %w", err)
	}
	return maxVersion, nil
}

// ListRevisions returns all quotes in a revision chain ordered by version
func (r *Repository) ListRevisions(ctx context.Context, rootID uuid.UUID) ([]Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE (id = $1 OR parent_id = $1) AND deleted_at IS NULL
		ORDER BY version ASC`
	rows, err := r.pool.Query(ctx, query, rootID)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate revisions: %w", err)
	}
	return quotes, nil
}

// ListExpirable returns IDs of active quotes whose validity window has lapsed
func (r *Repository) ListExpirable(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM quotes
		WHERE deleted_at IS NULL
			AND valid_until IS NOT NULL AND valid_until < $1
			AND status IN ('Draft', 'Submitted', 'UnderReview', 'Approved')`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query expirable quotes: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan quote id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expirable quotes: %w", err)
	}
	return ids, nil
}
