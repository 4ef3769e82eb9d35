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

// Product is the database model for a catalog product
type Product struct {
	ID             uuid.UUID `db:"id"`
	SKU            string    `db:"sku"`
	Name           string    `db:"name"`
	Description    *string   `db:"description"`
	Unit           string    `db:"unit"`
	UnitPriceCents int64     `db:"unit_price_cents"`
	UnitCostCents  int64     `db:"unit_cost_cents"`
	Active         bool      `db:"active"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Repository provides database operations for the product catalog
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `id, sku, name, description, unit, unit_price_cents, unit_cost_cents, active, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.Unit,
		&p.UnitPriceCents, &p.UnitCostCents, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &p, nil
}

// Create inserts a new product
func (r *Repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.pool.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.Unit,
		p.UnitPriceCents, p.UnitCostCents, p.Active, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

// GetBySKU retrieves a product by its SKU
func (r *Repository) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	return scanProduct(r.pool.QueryRow(ctx, query, sku))
}

// List retrieves products, optionally filtered to active ones
func (r *Repository) List(ctx context.Context, activeOnly bool, search string) ([]Product, error) {
	var searchParam interface{}
	if search != "" {
		searchParam = "%" + search + "%"
	}
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = false OR active = true)
			AND ($2::text IS NULL OR name ILIKE $2 OR sku ILIKE $2)
		ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, activeOnly, searchParam)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// Update persists product field edits
func (r *Repository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products SET
			sku = $2, name = $3, description = $4, unit = $5,
			unit_price_cents = $6, unit_cost_cents = $7, active = $8, updated_at = $9
		WHERE id = $1`
	result, err := r.pool.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.Unit,
		p.UnitPriceCents, p.UnitCostCents, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}
