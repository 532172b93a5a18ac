package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quote_order_backend/internal/numbering"
	"quote_order_backend/platform/apperr"
	"quote_order_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	quoteNotFoundMsg    = "quote not found"
	quoteNumberTakenMsg = "quote number already in use"
)

const quoteColumns = `
	id, owner_id, quote_number, customer_name, customer_email, customer_phone, customer_address,
	subtotal, discount_percent, discount_amount, total, status, valid_until, notes,
	created_at, updated_at`

const insertQuoteQuery = `
	INSERT INTO quotes (
		id, owner_id, quote_number, customer_name, customer_email, customer_phone, customer_address,
		subtotal, discount_percent, discount_amount, total, status, valid_until, notes,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

// Without replaced items the financials are derived from the row's own
// subtotal, which the UPDATE reads under its row lock.
const updateQuoteQuery = `
	UPDATE quotes SET
		customer_name = $3, customer_email = $4, customer_phone = $5, customer_address = $6,
		subtotal = CASE WHEN $15::boolean THEN $7::double precision ELSE subtotal END,
		discount_percent = $8,
		discount_amount = CASE WHEN $15::boolean THEN $9::double precision
			ELSE subtotal * $8::double precision / 100 END,
		total = CASE WHEN $15::boolean THEN $10::double precision
			ELSE subtotal - subtotal * $8::double precision / 100 END,
		status = $11, valid_until = $12, notes = $13, updated_at = $14
	WHERE id = $1 AND owner_id = $2
	RETURNING subtotal, discount_amount, total`

const insertItemQuery = `
	INSERT INTO quote_items (
		id, quote_id, product_id, product_name, product_sku,
		unit_price, quantity, line_total, sort_order, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const selectItemsQuery = `
	SELECT qi.id, qi.quote_id, qi.product_id, qi.product_name, qi.product_sku,
		qi.unit_price, qi.quantity, qi.line_total, qi.sort_order, qi.created_at
	FROM quote_items qi
	JOIN quotes q ON q.id = qi.quote_id
	WHERE qi.quote_id = $1 AND q.owner_id = $2
	ORDER BY qi.sort_order ASC, qi.created_at ASC`

const listQuotesQuery = `
	SELECT ` + quoteColumns + `
	FROM quotes
	WHERE owner_id = $1
		AND ($2::text IS NULL OR status = $2)
	ORDER BY created_at DESC, seq DESC`

const quoteStatsQuery = `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'draft'),
		COUNT(*) FILTER (WHERE status = 'sent'),
		COUNT(*) FILTER (WHERE status = 'approved'),
		COUNT(*) FILTER (WHERE status = 'rejected'),
		COUNT(*) FILTER (WHERE status = 'expired')
	FROM quotes
	WHERE owner_id = $1`

const expireOverdueQuery = `
	WITH overdue AS (
		SELECT id, status FROM quotes
		WHERE status IN ('draft', 'sent') AND valid_until < $1::date
		FOR UPDATE
	)
	UPDATE quotes q
	SET status = 'expired', updated_at = now()
	FROM overdue o
	WHERE q.id = o.id
	RETURNING q.id, q.owner_id, q.quote_number, o.status`

// Repo provides Postgres operations for quotes.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new quotes repository
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create numbers and inserts a quote and its line items in a single transaction.
func (r *Repo) Create(ctx context.Context, quote *Quote, items []QuoteItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	number, err := numbering.Next(ctx, tx, quote.OwnerID, numbering.KindQuote, quote.CreatedAt.Year())
	if err != nil {
		return fmt.Errorf("failed to generate quote number: %w", err)
	}
	quote.QuoteNumber = number

	if _, err := tx.Exec(ctx, insertQuoteQuery,
		quote.ID, quote.OwnerID, quote.QuoteNumber,
		quote.CustomerName, quote.CustomerEmail, quote.CustomerPhone, quote.CustomerAddress,
		quote.Subtotal, quote.DiscountPercent, quote.DiscountAmount, quote.Total,
		quote.Status, quote.ValidUntil, quote.Notes, quote.CreatedAt, quote.UpdatedAt,
	); err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Wrap(apperr.KindConflict, quoteNumberTakenMsg, err)
		}
		return fmt.Errorf("failed to insert quote: %w", err)
	}

	if err := insertItems(ctx, tx, items); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update writes the quote header and optionally replaces its line items.
func (r *Repo) Update(ctx context.Context, quote *Quote, items []QuoteItem, replaceItems bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, updateQuoteQuery,
		quote.ID, quote.OwnerID,
		quote.CustomerName, quote.CustomerEmail, quote.CustomerPhone, quote.CustomerAddress,
		quote.Subtotal, quote.DiscountPercent, quote.DiscountAmount, quote.Total,
		quote.Status, quote.ValidUntil, quote.Notes, quote.UpdatedAt, replaceItems,
	).Scan(&quote.Subtotal, &quote.DiscountAmount, &quote.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(quoteNotFoundMsg)
		}
		return fmt.Errorf("failed to update quote: %w", err)
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM quote_items WHERE quote_id = $1`, quote.ID); err != nil {
			return fmt.Errorf("failed to delete old quote items: %w", err)
		}
		if err := insertItems(ctx, tx, items); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func insertItems(ctx context.Context, tx pgx.Tx, items []QuoteItem) error {
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(insertItemQuery,
			item.ID, item.QuoteID, item.ProductID, item.ProductName, item.ProductSKU,
			item.UnitPrice, item.Quantity, item.LineTotal, item.SortOrder, item.CreatedAt,
		)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert quote items: %w", err)
	}
	return nil
}

// GetByID retrieves a quote by its ID scoped to owner
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1 AND owner_id = $2`
	return r.getOne(ctx, query, id, ownerID)
}

// GetByNumber retrieves a quote by its number scoped to owner
func (r *Repo) GetByNumber(ctx context.Context, number string, ownerID uuid.UUID) (*Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE quote_number = $1 AND owner_id = $2`
	return r.getOne(ctx, query, number, ownerID)
}

func (r *Repo) getOne(ctx context.Context, query string, args ...any) (*Quote, error) {
	q, err := scanQuote(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quoteNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return q, nil
}

// GetItems retrieves all items for an owned quote in insertion order.
func (r *Repo) GetItems(ctx context.Context, quoteID uuid.UUID, ownerID uuid.UUID) ([]QuoteItem, error) {
	rows, err := r.pool.Query(ctx, selectItemsQuery, quoteID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quote items: %w", err)
	}
	defer rows.Close()

	items := make([]QuoteItem, 0)
	for rows.Next() {
		var it QuoteItem
		if err := rows.Scan(
			&it.ID, &it.QuoteID, &it.ProductID, &it.ProductName, &it.ProductSKU,
			&it.UnitPrice, &it.Quantity, &it.LineTotal, &it.SortOrder, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quote item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote items: %w", err)
	}
	return items, nil
}

// List returns the owner's quotes, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Quote, error) {
	var statusParam interface{}
	if params.Status != nil {
		statusParam = *params.Status
	}

	rows, err := r.pool.Query(ctx, listQuotesQuery, params.OwnerID, statusParam)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}
	return quotes, nil
}

// Delete removes a quote; items go with it via ON DELETE CASCADE.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete quote: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Stats counts the owner's quotes per status.
func (r *Repo) Stats(ctx context.Context, ownerID uuid.UUID) (Stats, error) {
	var s Stats
	if err := r.pool.QueryRow(ctx, quoteStatsQuery, ownerID).Scan(
		&s.Total, &s.Draft, &s.Sent, &s.Approved, &s.Rejected, &s.Expired,
	); err != nil {
		return Stats{}, fmt.Errorf("failed to count quotes: %w", err)
	}
	return s, nil
}

// ExpireOverdue expires every open quote whose validity ended before today.
func (r *Repo) ExpireOverdue(ctx context.Context, today time.Time) ([]ExpiredQuote, error) {
	rows, err := r.pool.Query(ctx, expireOverdueQuery, today)
	if err != nil {
		return nil, fmt.Errorf("failed to expire quotes: %w", err)
	}
	defer rows.Close()

	expired := make([]ExpiredQuote, 0)
	for rows.Next() {
		var e ExpiredQuote
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.QuoteNumber, &e.PrevStatus); err != nil {
			return nil, fmt.Errorf("failed to scan expired quote: %w", err)
		}
		expired = append(expired, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expired quotes: %w", err)
	}
	return expired, nil
}

func scanQuote(row pgx.Row) (*Quote, error) {
	var q Quote
	if err := row.Scan(
		&q.ID, &q.OwnerID, &q.QuoteNumber,
		&q.CustomerName, &q.CustomerEmail, &q.CustomerPhone, &q.CustomerAddress,
		&q.Subtotal, &q.DiscountPercent, &q.DiscountAmount, &q.Total,
		&q.Status, &q.ValidUntil, &q.Notes, &q.CreatedAt, &q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &q, nil
}
