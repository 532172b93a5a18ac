package repository

import (
	"context"
	"errors"
	"fmt"

	"quote_order_backend/internal/numbering"
	"quote_order_backend/platform/apperr"
	"quote_order_backend/platform/db"

	"github.com/jackc/pgx/v5"
)

const (
	quoteNotFoundMsg    = "quote not found"
	quoteNotApprovedMsg = "can only convert an approved quote to an order"
	orderNumberTakenMsg = "order number already in use"
)

// Locks the source quote for the rest of the transaction.
const lockQuoteForConversionQuery = `
	SELECT status FROM quotes
	WHERE id = $1 AND owner_id = $2
	FOR UPDATE`

const insertOrderFromQuoteQuery = `
	INSERT INTO orders (
		id, owner_id, order_number, quote_id,
		customer_name, customer_email, customer_phone, customer_address,
		subtotal, discount_percent, discount_amount, total,
		status, notes, created_at, updated_at
	)
	SELECT $1, q.owner_id, $3, q.id,
		q.customer_name, q.customer_email, q.customer_phone, q.customer_address,
		q.subtotal, q.discount_percent, q.discount_amount, q.total,
		'pending', q.notes, $4, $4
	FROM quotes q
	WHERE q.id = $2
	RETURNING ` + orderColumns

const copyQuoteItemsQuery = `
	INSERT INTO order_items (
		id, order_id, product_id, product_name, product_sku,
		unit_price, quantity, line_total, sort_order, created_at
	)
	SELECT gen_random_uuid(), $1, qi.product_id, qi.product_name, qi.product_sku,
		qi.unit_price, qi.quantity, qi.line_total, qi.sort_order, $3
	FROM quote_items qi
	WHERE qi.quote_id = $2
	ORDER BY qi.sort_order ASC, qi.created_at ASC`

const confirmQuoteApprovedQuery = `
	UPDATE quotes SET status = 'approved', updated_at = now()
	WHERE id = $1 AND owner_id = $2`

// CreateFromQuote turns an approved quote into a pending order. The quote
// row is locked, the order number drawn, the header and items copied and
// the quote's approved status confirmed in one transaction.
func (r *Repo) CreateFromQuote(ctx context.Context, params ConvertParams) (*Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	if err := tx.QueryRow(ctx, lockQuoteForConversionQuery, params.QuoteID, params.OwnerID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quoteNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to lock quote: %w", err)
	}
	if status != "approved" {
		return nil, apperr.Precondition(quoteNotApprovedMsg)
	}

	number, err := numbering.Next(ctx, tx, params.OwnerID, numbering.KindOrder, params.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	order, err := scanOrder(tx.QueryRow(ctx, insertOrderFromQuoteQuery, params.OrderID, params.QuoteID, number, params.Now))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Wrap(apperr.KindConflict, orderNumberTakenMsg, err)
		}
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if _, err := tx.Exec(ctx, copyQuoteItemsQuery, order.ID, params.QuoteID, params.Now); err != nil {
		return nil, fmt.Errorf("failed to copy quote items: %w", err)
	}

	if _, err := tx.Exec(ctx, confirmQuoteApprovedQuery, params.QuoteID, params.OwnerID); err != nil {
		return nil, fmt.Errorf("failed to confirm quote status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit conversion: %w", err)
	}
	return order, nil
}
