package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Quote is the database model for a quote header.
type Quote struct {
	ID              uuid.UUID  `db:"id"`
	OwnerID         uuid.UUID  `db:"owner_id"`
	QuoteNumber     string     `db:"quote_number"`
	CustomerName    string     `db:"customer_name"`
	CustomerEmail   *string    `db:"customer_email"`
	CustomerPhone   *string    `db:"customer_phone"`
	CustomerAddress *string    `db:"customer_address"`
	Subtotal        float64    `db:"subtotal"`
	DiscountPercent float64    `db:"discount_percent"`
	DiscountAmount  float64    `db:"discount_amount"`
	Total           float64    `db:"total"`
	Status          string     `db:"status"`
	ValidUntil      *time.Time `db:"valid_until"`
	Notes           *string    `db:"notes"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// QuoteItem is a snapshot of a product at the time it was quoted.
type QuoteItem struct {
	ID          uuid.UUID  `db:"id"`
	QuoteID     uuid.UUID  `db:"quote_id"`
	ProductID   *uuid.UUID `db:"product_id"`
	ProductName string     `db:"product_name"`
	ProductSKU  *string    `db:"product_sku"`
	UnitPrice   float64    `db:"unit_price"`
	Quantity    int        `db:"quantity"`
	LineTotal   float64    `db:"line_total"`
	SortOrder   int        `db:"sort_order"`
	CreatedAt   time.Time  `db:"created_at"`
}

// ListParams filters the owner's quotes.
type ListParams struct {
	OwnerID uuid.UUID
	Status  *string
}

// Stats counts an owner's quotes per status.
type Stats struct {
	Total    int
	Draft    int
	Sent     int
	Approved int
	Rejected int
	Expired  int
}

// ExpiredQuote identifies a quote moved to expired by the sweep.
type ExpiredQuote struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	QuoteNumber string
	PrevStatus  string
}

// Repository is the persistence port of the quotes module.
type Repository interface {
	// Create assigns the next quote number and inserts the quote with its
	// items in one transaction. quote.QuoteNumber is set on success.
	Create(ctx context.Context, quote *Quote, items []QuoteItem) error
	// Update writes every mutable header field. When replaceItems is true the
	// stored items are swapped for items in the same transaction; otherwise
	// the stored subtotal is kept and discount_amount and total are derived
	// from it. The persisted financials are written back into quote.
	Update(ctx context.Context, quote *Quote, items []QuoteItem, replaceItems bool) error
	GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Quote, error)
	GetByNumber(ctx context.Context, number string, ownerID uuid.UUID) (*Quote, error)
	GetItems(ctx context.Context, quoteID uuid.UUID, ownerID uuid.UUID) ([]QuoteItem, error)
	List(ctx context.Context, params ListParams) ([]Quote, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (bool, error)
	Stats(ctx context.Context, ownerID uuid.UUID) (Stats, error)
	// ExpireOverdue moves draft and sent quotes valid until before today to expired.
	ExpireOverdue(ctx context.Context, today time.Time) ([]ExpiredQuote, error)
}
