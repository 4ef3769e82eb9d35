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

// StockLevel is the database model for per-location product stock
type StockLevel struct {
	ProductID uuid.UUID `db:"product_id"`
	Location  string    `db:"location"`
	OnHand    float64   `db:"on_hand"`
	Reserved  float64   `db:"reserved"`
	UpdatedAt time.Time `db:"updated_at"`
}

// StockOrder is the database model for a fulfillment order header
type StockOrder struct {
	ID              uuid.UUID  `db:"id"`
	OrderNumber     string     `db:"order_number"`
	DestinationSite string     `db:"destination_site"`
	SourceLocation  string     `db:"source_location"`
	RequestedByID   uuid.UUID  `db:"requested_by_id"`
	RequiredBy      *time.Time `db:"required_by"`
	Notes           string     `db:"notes"`
	SourceQuoteID   *uuid.UUID `db:"source_quote_id"`
	SourceQuoteNum  *string    `db:"source_quote_number"`
	TotalValueCents int64      `db:"total_value_cents"`
	Status          string     `db:"status"`
	CreatedAt       time.Time  `db:"created_at"`
}

// StockOrderLine is one requested product on a stock order
type StockOrderLine struct {
	ID             uuid.UUID `db:"id"`
	OrderID        uuid.UUID `db:"order_id"`
	ProductID      uuid.UUID `db:"product_id"`
	Quantity       int64     `db:"quantity"`
	UnitPriceCents int64     `db:"unit_price_cents"`
	SortOrder      int       `db:"sort_order"`
}

// Repository provides database operations for inventory
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new inventory repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetStockLevel returns the stock record for a product at a location. A
// missing record reads as zero on hand and zero reserved.
func (r *Repository) GetStockLevel(ctx context.Context, productID uuid.UUID, location string) (*StockLevel, error) {
	query := `
		SELECT product_id, location, on_hand, reserved, updated_at
		FROM stock_levels WHERE product_id = $1 AND location = $2`
	var sl StockLevel
	err := r.pool.QueryRow(ctx, query, productID, location).Scan(
		&sl.ProductID, &sl.Location, &sl.OnHand, &sl.Reserved, &sl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &StockLevel{ProductID: productID, Location: location}, nil
		}
		return nil, fmt.Errorf("failed to get stock level: %w", err)
	}
	return &sl, nil
}

// UpsertStockLevel writes the absolute stock figures for a product at a location
func (r *Repository) UpsertStockLevel(ctx context.Context, sl *StockLevel) error {
	query := `
		INSERT INTO stock_levels (product_id, location, on_hand, reserved, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, location) DO UPDATE
		SET on_hand = EXCLUDED.on_hand, reserved = EXCLUDED.reserved, updated_at = EXCLUDED.updated_at`
	if _, err := r.pool.Exec(ctx, query, sl.ProductID, sl.Location, sl.OnHand, sl.Reserved, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert stock level: %w", err)
	}
	return nil
}

// NextOrderNumber atomically generates the next stock order number
func (r *Repository) NextOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	var nextNum int
	query := `
		INSERT INTO stock_order_counters (year, last_number)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_number = stock_order_counters.last_number + 1
		RETURNING last_number`
	if err := r.pool.QueryRow(ctx, query, year).Scan(&nextNum); err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}
	return fmt.Sprintf("SO-%d-%04d", year, nextNum), nil
}

// CreateOrder inserts an order with its lines in one transaction
func (r *Repository) CreateOrder(ctx context.Context, order *StockOrder, lines []StockOrderLine) error {
	if len(lines) == 0 {
		return apperr.Validation("stock order requires at least one line")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO stock_orders (
			id, order_number, destination_site, source_location, requested_by_id,
			required_by, notes, source_quote_id, source_quote_number,
			total_value_cents, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := tx.Exec(ctx, orderQuery,
		order.ID, order.OrderNumber, order.DestinationSite, order.SourceLocation, order.RequestedByID,
		order.RequiredBy, order.Notes, order.SourceQuoteID, order.SourceQuoteNum,
		order.TotalValueCents, order.Status, order.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert stock order: %w", err)
	}

	lineQuery := `
		INSERT INTO stock_order_lines (id, order_id, product_id, quantity, unit_price_cents, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, line := range lines {
		if _, err := tx.Exec(ctx, lineQuery,
			line.ID, line.OrderID, line.ProductID, line.Quantity, line.UnitPriceCents, line.SortOrder,
		); err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetOrder retrieves an order header by ID
func (r *Repository) GetOrder(ctx context.Context, id uuid.UUID) (*StockOrder, error) {
	query := `
		SELECT id, order_number, destination_site, source_location, requested_by_id,
			required_by, notes, source_quote_id, source_quote_number,
			total_value_cents, status, created_at
		FROM stock_orders WHERE id = $1`
	var o StockOrder
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.OrderNumber, &o.DestinationSite, &o.SourceLocation, &o.RequestedByID,
		&o.RequiredBy, &o.Notes, &o.SourceQuoteID, &o.SourceQuoteNum,
		&o.TotalValueCents, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("stock order not found")
		}
		return nil, fmt.Errorf("failed to get stock order: %w", err)
	}
	return &o, nil
}

// GetOrderLines retrieves an order's lines in their original order
func (r *Repository) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]StockOrderLine, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price_cents, sort_order
		FROM stock_order_lines WHERE order_id = $1
		ORDER BY sort_order ASC`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []StockOrderLine
	for rows.Next() {
		var l StockOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPriceCents, &l.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order lines: %w", err)
	}
	return lines, nil
}
