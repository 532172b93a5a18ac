package repository

import (
	"context"
	"errors"
	"fmt"

	"quote_order_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderNotFoundMsg = "order not found"

const orderColumns = `
	id, owner_id, order_number, quote_id, customer_name, customer_email, customer_phone, customer_address,
	subtotal, discount_percent, discount_amount, total, status, notes, created_at, updated_at`

const selectOrderItemsQuery = `
	SELECT oi.id, oi.order_id, oi.product_id, oi.product_name, oi.product_sku,
		oi.unit_price, oi.quantity, oi.line_total, oi.sort_order, oi.created_at
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	WHERE oi.order_id = $1 AND o.owner_id = $2
	ORDER BY oi.sort_order ASC, oi.created_at ASC`

const listOrdersQuery = `
	SELECT ` + orderColumns + `
	FROM orders
	WHERE owner_id = $1
		AND ($2::text IS NULL OR status = $2)
	ORDER BY created_at DESC, seq DESC`

// The CTE reads the pre-update row so the previous status can be returned.
const updateOrderQuery = `
	WITH prev AS (
		SELECT id, status FROM orders
		WHERE id = $1 AND owner_id = $2
		FOR UPDATE
	)
	UPDATE orders o SET
		status = COALESCE($3::text, o.status),
		notes = CASE WHEN $4::boolean THEN $5::text ELSE o.notes END,
		updated_at = now()
	FROM prev
	WHERE o.id = prev.id
	RETURNING prev.status, ` + qualifiedOrderColumns

const qualifiedOrderColumns = `
	o.id, o.owner_id, o.order_number, o.quote_id, o.customer_name, o.customer_email, o.customer_phone, o.customer_address,
	o.subtotal, o.discount_percent, o.discount_amount, o.total, o.status, o.notes, o.created_at, o.updated_at`

const orderStatsQuery = `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE status = 'processing'),
		COUNT(*) FILTER (WHERE status = 'completed'),
		COUNT(*) FILTER (WHERE status = 'cancelled')
	FROM orders
	WHERE owner_id = $1`

// Repo provides Postgres operations for orders.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new orders repository
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// GetByID retrieves an order by its ID scoped to owner
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND owner_id = $2`
	return r.getOne(ctx, query, id, ownerID)
}

// GetByNumber retrieves an order by its number scoped to owner
func (r *Repo) GetByNumber(ctx context.Context, number string, ownerID uuid.UUID) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1 AND owner_id = $2`
	return r.getOne(ctx, query, number, ownerID)
}

func (r *Repo) getOne(ctx context.Context, query string, args ...any) (*Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(orderNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

// GetItems retrieves all items of an owned order in their original order.
func (r *Repo) GetItems(ctx context.Context, orderID uuid.UUID, ownerID uuid.UUID) ([]OrderItem, error) {
	rows, err := r.pool.Query(ctx, selectOrderItemsQuery, orderID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductSKU,
			&it.UnitPrice, &it.Quantity, &it.LineTotal, &it.SortOrder, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}
	return items, nil
}

// List returns the owner's orders, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Order, error) {
	var statusParam interface{}
	if params.Status != nil {
		statusParam = *params.Status
	}

	rows, err := r.pool.Query(ctx, listOrdersQuery, params.OwnerID, statusParam)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

// Update changes status and/or notes. Every other column is immutable.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (*Order, string, error) {
	var statusParam interface{}
	if params.Status != nil {
		statusParam = *params.Status
	}

	var prevStatus string
	var o Order
	err := r.pool.QueryRow(ctx, updateOrderQuery,
		params.ID, params.OwnerID, statusParam, params.Notes != nil, params.Notes,
	).Scan(
		&prevStatus,
		&o.ID, &o.OwnerID, &o.OrderNumber, &o.QuoteID,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.CustomerAddress,
		&o.Subtotal, &o.DiscountPercent, &o.DiscountAmount, &o.Total,
		&o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperr.NotFound(orderNotFoundMsg)
		}
		return nil, "", fmt.Errorf("failed to update order: %w", err)
	}
	return &o, prevStatus, nil
}

// Delete removes an order; items go with it via ON DELETE CASCADE.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Stats counts the owner's orders per status.
func (r *Repo) Stats(ctx context.Context, ownerID uuid.UUID) (Stats, error) {
	var s Stats
	if err := r.pool.QueryRow(ctx, orderStatsQuery, ownerID).Scan(
		&s.Total, &s.Pending, &s.Processing, &s.Completed, &s.Cancelled,
	); err != nil {
		return Stats{}, fmt.Errorf("failed to count orders: %w", err)
	}
	return s, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	if err := row.Scan(
		&o.ID, &o.OwnerID, &o.OrderNumber, &o.QuoteID,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.CustomerAddress,
		&o.Subtotal, &o.DiscountPercent, &o.DiscountAmount, &o.Total,
		&o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
