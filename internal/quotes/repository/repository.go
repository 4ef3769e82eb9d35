package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quotehub_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Quote is the database model for a quote header
type Quote struct {
	ID                  uuid.UUID  `db:"id"`
	QuoteNumber         string     `db:"quote_number"`
	Version             int        `db:"version"`
	ParentID            *uuid.UUID `db:"parent_id"`
	Status              string     `db:"status"`
	ClientName          string     `db:"client_name"`
	ClientReference     *string    `db:"client_reference"`
	ProjectName         string     `db:"project_name"`
	Currency            string     `db:"currency"`
	DiscountPercent     float64    `db:"discount_percent"`
	VatRate             float64    `db:"vat_rate"`
	SubtotalCents       int64      `db:"subtotal_cents"`
	DiscountAmountCents int64      `db:"discount_amount_cents"`
	NetTotalCents       int64      `db:"net_total_cents"`
	VatAmountCents      int64      `db:"vat_amount_cents"`
	GrandTotalCents     int64      `db:"grand_total_cents"`
	TotalCostCents      int64      `db:"total_cost_cents"`
	TotalMarginCents    int64      `db:"total_margin_cents"`
	MarginPercent       float64    `db:"margin_percent"`
	ValidUntil          *time.Time `db:"valid_until"`
	SubmittedAt         *time.Time `db:"submitted_at"`
	ApprovedAt          *time.Time `db:"approved_at"`
	ApprovedByID        *uuid.UUID `db:"approved_by_id"`
	RejectedAt          *time.Time `db:"rejected_at"`
	WonAt               *time.Time `db:"won_at"`
	LostAt              *time.Time `db:"lost_at"`
	ExpiredAt           *time.Time `db:"expired_at"`
	CancelledAt         *time.Time `db:"cancelled_at"`
	DeletedAt           *time.Time `db:"deleted_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// Section is the database model for a named group of line items
type Section struct {
	ID                 uuid.UUID `db:"id"`
	QuoteID            uuid.UUID `db:"quote_id"`
	Name               string    `db:"name"`
	Description        *string   `db:"description"`
	TemplateRef        *string   `db:"template_ref"`
	SortOrder          int       `db:"sort_order"`
	SectionTotalCents  int64     `db:"section_total_cents"`
	SectionCostCents   int64     `db:"section_cost_cents"`
	SectionMarginCents int64     `db:"section_margin_cents"`
	CreatedAt          time.Time `db:"created_at"`
}

// LineItem is the database model for a priced row within a section
type LineItem struct {
	ID              uuid.UUID  `db:"id"`
	SectionID       uuid.UUID  `db:"section_id"`
	QuoteID         uuid.UUID  `db:"quote_id"`
	ProductID       *uuid.UUID `db:"product_id"`
	Description     string     `db:"description"`
	Unit            string     `db:"unit"`
	Quantity        float64    `db:"quantity"`
	UnitPriceCents  int64      `db:"unit_price_cents"`
	UnitCostCents   int64      `db:"unit_cost_cents"`
	SortOrder       int        `db:"sort_order"`
	LineTotalCents  int64      `db:"line_total_cents"`
	LineCostCents   int64      `db:"line_cost_cents"`
	LineMarginCents int64      `db:"line_margin_cents"`
	MarginPercent   float64    `db:"margin_percent"`
	CreatedAt       time.Time  `db:"created_at"`
}

// Contact is the database model for a quote contact
type Contact struct {
	ID        uuid.UUID `db:"id"`
	QuoteID   uuid.UUID `db:"quote_id"`
	Name      string    `db:"name"`
	Email     *string   `db:"email"`
	Phone     *string   `db:"phone"`
	Role      *string   `db:"role"`
	IsPrimary bool      `db:"is_primary"`
	CreatedAt time.Time `db:"created_at"`
}

// Note is one append-only entry of a quote's audit note log
type Note struct {
	ID        uuid.UUID  `db:"id"`
	QuoteID   uuid.UUID  `db:"quote_id"`
	ActorID   *uuid.UUID `db:"actor_id"`
	NoteType  string     `db:"note_type"`
	Body      string     `db:"body"`
	CreatedAt time.Time  `db:"created_at"`
}

// ListParams contains parameters for listing quotes
type ListParams struct {
	Status    *string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListResult contains the paginated result of listing quotes
type ListResult struct {
	Items      []Quote
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// ── Repository ────────────────────────────────────────────────────────────────

const quoteNotFoundMsg = "quote not found"

const quoteColumns = `id, quote_number, version, parent_id, status,
		client_name, client_reference, project_name, currency,
		discount_percent, vat_rate,
		subtotal_cents, discount_amount_cents, net_total_cents, vat_amount_cents,
		grand_total_cents, total_cost_cents, total_margin_cents, margin_percent,
		valid_until, submitted_at, approved_at, approved_by_id, rejected_at,
		won_at, lost_at, expired_at, cancelled_at, deleted_at, created_at, updated_at`

// Repository provides database operations for quotes
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new quotes repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanQuote(row pgx.Row) (*Quote, error) {
	var q Quote
	err := row.Scan(
		&q.ID, &q.QuoteNumber, &q.Version, &q.ParentID, &q.Status,
		&q.ClientName, &q.ClientReference, &q.ProjectName, &q.Currency,
		&q.DiscountPercent, &q.VatRate,
		&q.SubtotalCents, &q.DiscountAmountCents, &q.NetTotalCents, &q.VatAmountCents,
		&q.GrandTotalCents, &q.TotalCostCents, &q.TotalMarginCents, &q.MarginPercent,
		&q.ValidUntil, &q.SubmittedAt, &q.ApprovedAt, &q.ApprovedByID, &q.RejectedAt,
		&q.WonAt, &q.LostAt, &q.ExpiredAt, &q.CancelledAt, &q.DeletedAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quoteNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan quote: %w", err)
	}
	return &q, nil
}

// NextQuoteNumber atomically generates the next human-readable quote number
func (r *Repository) NextQuoteNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	var nextNum int
	query := `
		INSERT INTO quote_counters (year, last_number)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_number = quote_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, year).Scan(&nextNum); err != nil {
		return "", fmt.Errorf("failed to generate quote number: %w", err)
	}

	return fmt.Sprintf("QUO-%d-%04d", year, nextNum), nil
}

// CreateAggregate inserts a quote with its sections, line items, contacts and
// an optional initial note in a single transaction.
func (r *Repository) CreateAggregate(ctx context.Context, quote *Quote, sections []Section, items []LineItem, contacts []Contact, notes []Note) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	quoteQuery := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)`

	if _, err := tx.Exec(ctx, quoteQuery,
		quote.ID, quote.QuoteNumber, quote.Version, quote.ParentID, quote.Status,
		quote.ClientName, quote.ClientReference, quote.ProjectName, quote.Currency,
		quote.DiscountPercent, quote.VatRate,
		quote.SubtotalCents, quote.DiscountAmountCents, quote.NetTotalCents, quote.VatAmountCents,
		quote.GrandTotalCents, quote.TotalCostCents, quote.TotalMarginCents, quote.MarginPercent,
		quote.ValidUntil, quote.SubmittedAt, quote.ApprovedAt, quote.ApprovedByID, quote.RejectedAt,
		quote.WonAt, quote.LostAt, quote.ExpiredAt, quote.CancelledAt, quote.DeletedAt,
		quote.CreatedAt, quote.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}

	for i := range sections {
		if err := insertSection(ctx, tx, &sections[i]); err != nil {
			return err
		}
	}
	for i := range items {
		if err := insertItem(ctx, tx, &items[i]); err != nil {
			return err
		}
	}
	for i := range contacts {
		if err := insertContact(ctx, tx, &contacts[i]); err != nil {
			return err
		}
	}
	for i := range notes {
		if err := insertNote(ctx, tx, &notes[i]); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func insertSection(ctx context.Context, tx pgx.Tx, s *Section) error {
	query := `
		INSERT INTO quote_sections (
			id, quote_id, name, description, template_ref, sort_order,
			section_total_cents, section_cost_cents, section_margin_cents, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := tx.Exec(ctx, query,
		s.ID, s.QuoteID, s.Name, s.Description, s.TemplateRef, s.SortOrder,
		s.SectionTotalCents, s.SectionCostCents, s.SectionMarginCents, s.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert section: %w", err)
	}
	return nil
}

func insertItem(ctx context.Context, tx pgx.Tx, it *LineItem) error {
	query := `
		INSERT INTO quote_line_items (
			id, section_id, quote_id, product_id, description, unit, quantity,
			unit_price_cents, unit_cost_cents, sort_order,
			line_total_cents, line_cost_cents, line_margin_cents, margin_percent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	if _, err := tx.Exec(ctx, query,
		it.ID, it.SectionID, it.QuoteID, it.ProductID, it.Description, it.Unit, it.Quantity,
		it.UnitPriceCents, it.UnitCostCents, it.SortOrder,
		it.LineTotalCents, it.LineCostCents, it.LineMarginCents, it.MarginPercent, it.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert line item: %w", err)
	}
	return nil
}

func insertContact(ctx context.Context, tx pgx.Tx, c *Contact) error {
	query := `
		INSERT INTO quote_contacts (id, quote_id, name, email, phone, role, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := tx.Exec(ctx, query,
		c.ID, c.QuoteID, c.Name, c.Email, c.Phone, c.Role, c.IsPrimary, c.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

func insertNote(ctx context.Context, tx pgx.Tx, n *Note) error {
	query := `
		INSERT INTO quote_notes (id, quote_id, actor_id, note_type, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.Exec(ctx, query,
		n.ID, n.QuoteID, n.ActorID, n.NoteType, n.Body, n.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// GetByID retrieves a quote by its ID; soft-deleted quotes do not resolve
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1 AND deleted_at IS NULL`
	return scanQuote(r.pool.QueryRow(ctx, query, id))
}

// GetSections retrieves all sections for a quote ordered by sort order
func (r *Repository) GetSections(ctx context.Context, quoteID uuid.UUID) ([]Section, error) {
	query := `
		SELECT id, quote_id, name, description, template_ref, sort_order,
			section_total_cents, section_cost_cents, section_margin_cents, created_at
		FROM quote_sections WHERE quote_id = $1
		ORDER BY sort_order ASC, created_at ASC`
	rows, err := r.pool.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sections: %w", err)
	}
	defer rows.Close()
	return collectSections(rows)
}

func collectSections(rows pgx.Rows) ([]Section, error) {
	var sections []Section
	for rows.Next() {
		var s Section
		if err := rows.Scan(
			&s.ID, &s.QuoteID, &s.Name, &s.Description, &s.TemplateRef, &s.SortOrder,
			&s.SectionTotalCents, &s.SectionCostCents, &s.SectionMarginCents, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sections: %w", err)
	}
	return sections, nil
}

// GetSection retrieves one section, scoped to its quote
func (r *Repository) GetSection(ctx context.Context, sectionID, quoteID uuid.UUID) (*Section, error) {
	query := `
		SELECT id, quote_id, name, description, template_ref, sort_order,
			section_total_cents, section_cost_cents, section_margin_cents, created_at
		FROM quote_sections WHERE id = $1 AND quote_id = $2`
	var s Section
	err := r.pool.QueryRow(ctx, query, sectionID, quoteID).Scan(
		&s.ID, &s.QuoteID, &s.Name, &s.Description, &s.TemplateRef, &s.SortOrder,
		&s.SectionTotalCents, &s.SectionCostCents, &s.SectionMarginCents, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("section not found")
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return &s, nil
}

const itemColumns = `id, section_id, quote_id, product_id, description, unit, quantity,
			unit_price_cents, unit_cost_cents, sort_order,
			line_total_cents, line_cost_cents, line_margin_cents, margin_percent, created_at`

// GetItemsByQuoteID retrieves every line item under a quote
func (r *Repository) GetItemsByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]LineItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM quote_line_items WHERE quote_id = $1
		ORDER BY sort_order ASC, created_at ASC`
	rows, err := r.pool.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func collectItems(rows pgx.Rows) ([]LineItem, error) {
	var items []LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(
			&it.ID, &it.SectionID, &it.QuoteID, &it.ProductID, &it.Description, &it.Unit, &it.Quantity,
			&it.UnitPriceCents, &it.UnitCostCents, &it.SortOrder,
			&it.LineTotalCents, &it.LineCostCents, &it.LineMarginCents, &it.MarginPercent, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line items: %w", err)
	}
	return items, nil
}

// GetItem retrieves one line item, scoped to its quote
func (r *Repository) GetItem(ctx context.Context, itemID, quoteID uuid.UUID) (*LineItem, error) {
	query := `SELECT ` + itemColumns + ` FROM quote_line_items WHERE id = $1 AND quote_id = $2`
	var it LineItem
	err := r.pool.QueryRow(ctx, query, itemID, quoteID).Scan(
		&it.ID, &it.SectionID, &it.QuoteID, &it.ProductID, &it.Description, &it.Unit, &it.Quantity,
		&it.UnitPriceCents, &it.UnitCostCents, &it.SortOrder,
		&it.LineTotalCents, &it.LineCostCents, &it.LineMarginCents, &it.MarginPercent, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("line item not found")
		}
		return nil, fmt.Errorf("failed to get line item: %w", err)
	}
	return &it, nil
}

// AddSection inserts a section together with its initial items. guard runs
// against the locked quote row.
func (r *Repository) AddSection(ctx context.Context, guard Guard, section *Section, items []LineItem) error {
	return r.mutateLocked(ctx, section.QuoteID, guard, func(tx pgx.Tx) error {
		if err := insertSection(ctx, tx, section); err != nil {
			return err
		}
		for i := range items {
			if err := insertItem(ctx, tx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateSection updates a section's descriptive fields
func (r *Repository) UpdateSection(ctx context.Context, guard Guard, s *Section) error {
	return r.mutateLocked(ctx, s.QuoteID, guard, func(tx pgx.Tx) error {
		query := `
			UPDATE quote_sections SET name = $3, description = $4, sort_order = $5
			WHERE id = $1 AND quote_id = $2`
		result, err := tx.Exec(ctx, query, s.ID, s.QuoteID, s.Name, s.Description, s.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to update section: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound("section not found")
		}
		return nil
	})
}

// DeleteSection removes a section (cascade deletes its line items)
func (r *Repository) DeleteSection(ctx context.Context, guard Guard, sectionID, quoteID uuid.UUID) error {
	return r.mutateLocked(ctx, quoteID, guard, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM quote_sections WHERE id = $1 AND quote_id = $2`, sectionID, quoteID)
		if err != nil {
			return fmt.Errorf("failed to delete section: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound("section not found")
		}
		return nil
	})
}

// AddItem inserts a single line item
func (r *Repository) AddItem(ctx context.Context, guard Guard, it *LineItem) error {
	return r.mutateLocked(ctx, it.QuoteID, guard, func(tx pgx.Tx) error {
		return insertItem(ctx, tx, it)
	})
}

// UpdateItem updates a line item's raw input fields
func (r *Repository) UpdateItem(ctx context.Context, guard Guard, it *LineItem) error {
	return r.mutateLocked(ctx, it.QuoteID, guard, func(tx pgx.Tx) error {
		query := `
			UPDATE quote_line_items SET
				product_id = $3, description = $4, unit = $5, quantity = $6,
				unit_price_cents = $7, unit_cost_cents = $8, sort_order = $9
			WHERE id = $1 AND quote_id = $2`
		result, err := tx.Exec(ctx, query,
			it.ID, it.QuoteID, it.ProductID, it.Description, it.Unit, it.Quantity,
			it.UnitPriceCents, it.UnitCostCents, it.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to update line item: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound("line item not found")
		}
		return nil
	})
}

// DeleteItem removes a line item
func (r *Repository) DeleteItem(ctx context.Context, guard Guard, itemID, quoteID uuid.UUID) error {
	return r.mutateLocked(ctx, quoteID, guard, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM quote_line_items WHERE id = $1 AND quote_id = $2`, itemID, quoteID)
		if err != nil {
			return fmt.Errorf("failed to delete line item: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound("line item not found")
		}
		return nil
	})
}

// UpdateHeaderFields persists whole-quote field edits
func (r *Repository) UpdateHeaderFields(ctx context.Context, guard Guard, q *Quote) error {
	return r.mutateLocked(ctx, q.ID, guard, func(tx pgx.Tx) error {
		query := `
			UPDATE quotes SET
				client_name = $2, client_reference = $3, project_name = $4, currency = $5,
				discount_percent = $6, vat_rate = $7, valid_until = $8, updated_at = $9
			WHERE id = $1 AND deleted_at IS NULL`
		result, err := tx.Exec(ctx, query,
			q.ID, q.ClientName, q.ClientReference, q.ProjectName, q.Currency,
			q.DiscountPercent, q.VatRate, q.ValidUntil, q.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update quote: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound(quoteNotFoundMsg)
		}
		return nil
	})
}

// SoftDelete marks a quote deleted; rows are never removed
func (r *Repository) SoftDelete(ctx context.Context, guard Guard, id uuid.UUID) error {
	return r.mutateLocked(ctx, id, guard, func(tx pgx.Tx) error {
		query := `UPDATE quotes SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
		result, err := tx.Exec(ctx, query, id, time.Now())
		if err != nil {
			return fmt.Errorf("failed to soft delete quote: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound(quoteNotFoundMsg)
		}
		return nil
	})
}

// List retrieves quotes with filtering and pagination
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	sortBy, err := resolveSortBy(params.SortBy)
	if err != nil {
		return nil, err
	}
	sortOrder, err := resolveSortOrder(params.SortOrder)
	if err != nil {
		return nil, err
	}

	var searchParam interface{}
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}
	var statusParam interface{}
	if params.Status != nil {
		statusParam = *params.Status
	}

	baseQuery := `
		FROM quotes
		WHERE deleted_at IS NULL
			AND ($1::text IS NULL OR status = $1)
			AND ($2::text IS NULL OR quote_number ILIKE $2 OR client_name ILIKE $2 OR project_name ILIKE $2)
	`
	args := []interface{}{statusParam, searchParam}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count quotes: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := `
		SELECT ` + quoteColumns + `
		` + baseQuery + `
		ORDER BY
			CASE WHEN $3 = 'quoteNumber' AND $4 = 'asc' THEN quote_number END ASC,
			CASE WHEN $3 = 'quoteNumber' AND $4 = 'desc' THEN quote_number END DESC,
			CASE WHEN $3 = 'status' AND $4 = 'asc' THEN status END ASC,
			CASE WHEN $3 = 'status' AND $4 = 'desc' THEN status END DESC,
			CASE WHEN $3 = 'grandTotal' AND $4 = 'asc' THEN grand_total_cents END ASC,
			CASE WHEN $3 = 'grandTotal' AND $4 = 'desc' THEN grand_total_cents END DESC,
			CASE WHEN $3 = 'updatedAt' AND $4 = 'asc' THEN updated_at END ASC,
			CASE WHEN $3 = 'updatedAt' AND $4 = 'desc' THEN updated_at END DESC,
			CASE WHEN $3 = 'createdAt' AND $4 = 'asc' THEN created_at END ASC,
			created_at DESC
		LIMIT $5 OFFSET $6`

	args = append(args, sortBy, sortOrder, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var items []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

func resolveSortBy(sortBy string) (string, error) {
	if sortBy == "" {
		return "createdAt", nil
	}
	switch sortBy {
	case "quoteNumber", "status", "grandTotal", "createdAt", "updatedAt":
		return sortBy, nil
	default:
		return "", apperr.BadRequest("invalid sort field")
	}
}

func resolveSortOrder(sortOrder string) (string, error) {
	if sortOrder == "" {
		return "desc", nil
	}
	switch sortOrder {
	case "asc", "desc":
		return sortOrder, nil
	default:
		return "", apperr.BadRequest("invalid sort order")
	}
}
