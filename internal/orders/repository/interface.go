package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Order is the database model for an order header.
type Order struct {
	ID              uuid.UUID  `db:"id"`
	OwnerID         uuid.UUID  `db:"owner_id"`
	OrderNumber     string     `db:"order_number"`
	QuoteID         *uuid.UUID `db:"quote_id"`
	CustomerName    string     `db:"customer_name"`
	CustomerEmail   *string    `db:"customer_email"`
	CustomerPhone   *string    `db:"customer_phone"`
	CustomerAddress *string    `db:"customer_address"`
	Subtotal        float64    `db:"subtotal"`
	DiscountPercent float64    `db:"discount_percent"`
	DiscountAmount  float64    `db:"discount_amount"`
	Total           float64    `db:"total"`
	Status          string     `db:"status"`
	Notes           *string    `db:"notes"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// OrderItem is copied verbatim from a quote item at conversion time.
type OrderItem struct {
	ID          uuid.UUID  `db:"id"`
	OrderID     uuid.UUID  `db:"order_id"`
	ProductID   *uuid.UUID `db:"product_id"`
	ProductName string     `db:"product_name"`
	ProductSKU  *string    `db:"product_sku"`
	UnitPrice   float64    `db:"unit_price"`
	Quantity    int        `db:"quantity"`
	LineTotal   float64    `db:"line_total"`
	SortOrder   int        `db:"sort_order"`
	CreatedAt   time.Time  `db:"created_at"`
}

// ListParams filters the owner's orders.
type ListParams struct {
	OwnerID uuid.UUID
	Status  *string
}

// UpdateParams carries the only fields an order allows to change.
// Nil leaves the stored value untouched.
type UpdateParams struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Status  *string
	Notes   *string
}

// Stats counts an owner's orders per status.
type Stats struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Cancelled  int
}

// ConvertParams identifies the quote to convert and stamps the new order.
type ConvertParams struct {
	QuoteID uuid.UUID
	OwnerID uuid.UUID
	OrderID uuid.UUID
	Year    int
	Now     time.Time
}

// Repository is the persistence port of the orders module.
type Repository interface {
	// CreateFromQuote converts an approved quote into a pending order with
	// copied items in one transaction and returns the new order header.
	CreateFromQuote(ctx context.Context, params ConvertParams) (*Order, error)
	GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Order, error)
	GetByNumber(ctx context.Context, number string, ownerID uuid.UUID) (*Order, error)
	GetItems(ctx context.Context, orderID uuid.UUID, ownerID uuid.UUID) ([]OrderItem, error)
	List(ctx context.Context, params ListParams) ([]Order, error)
	// Update returns the old status alongside the updated order.
	Update(ctx context.Context, params UpdateParams) (*Order, string, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (bool, error)
	Stats(ctx context.Context, ownerID uuid.UUID) (Stats, error)
}
