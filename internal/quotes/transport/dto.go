package transport

import (
	"time"

	"github.com/google/uuid"
)

// QuoteStatus defines the status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusApproved QuoteStatus = "approved"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// Valid reports whether s is one of the known statuses.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusApproved, QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}

// DateLayout is the wire format of valid_until.
const DateLayout = "2006-01-02"

// ── Requests ──────────────────────────────────────────────────────────────────

// QuoteItemRequest is the input for a single line item
type QuoteItemRequest struct {
	ProductID   *uuid.UUID `json:"product_id"`
	ProductName string     `json:"product_name" validate:"required,notblank,max=500"`
	ProductSKU  *string    `json:"product_sku" validate:"omitempty,max=100"`
	UnitPrice   float64    `json:"unit_price" validate:"finite,gte=0"`
	Quantity    int        `json:"quantity" validate:"gte=1"`
}

// CreateQuoteRequest is the request body for creating a new quote
type CreateQuoteRequest struct {
	CustomerName    string             `json:"customer_name" validate:"required,notblank,max=255"`
	CustomerEmail   *string            `json:"customer_email" validate:"omitempty,max=255"`
	CustomerPhone   *string            `json:"customer_phone" validate:"omitempty,max=50"`
	CustomerAddress *string            `json:"customer_address" validate:"omitempty,max=1000"`
	DiscountPercent float64            `json:"discount_percent" validate:"finite,gte=0,lte=100"`
	ValidUntil      *string            `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
	Notes           *string            `json:"notes" validate:"omitempty,max=5000"`
	Items           []QuoteItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateQuoteRequest is the request body for updating a quote.
// Nil fields keep their stored value; a non-nil Items replaces every line.
// An empty valid_until clears the date.
type UpdateQuoteRequest struct {
	CustomerName    *string             `json:"customer_name" validate:"omitempty,max=255"`
	CustomerEmail   *string             `json:"customer_email" validate:"omitempty,max=255"`
	CustomerPhone   *string             `json:"customer_phone" validate:"omitempty,max=50"`
	CustomerAddress *string             `json:"customer_address" validate:"omitempty,max=1000"`
	DiscountPercent *float64            `json:"discount_percent" validate:"omitempty,finite,gte=0,lte=100"`
	ValidUntil      *string             `json:"valid_until" validate:"omitempty,max=32"`
	Notes           *string             `json:"notes" validate:"omitempty,max=5000"`
	Status          *QuoteStatus        `json:"status" validate:"omitempty,oneof=draft sent approved rejected expired"`
	Items           *[]QuoteItemRequest `json:"items" validate:"omitempty,dive"`
}

// QuoteCalculationRequest is the request body for the preview calculation endpoint
type QuoteCalculationRequest struct {
	Items           []QuoteItemRequest `json:"items" validate:"dive"`
	DiscountPercent float64            `json:"discount_percent" validate:"finite,gte=0,lte=100"`
}

// ListQuotesRequest defines the query parameters for listing quotes
type ListQuotesRequest struct {
	Status string `form:"status" validate:"omitempty,oneof=draft sent approved rejected expired"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// QuoteItemResponse is the response for a single line item
type QuoteItemResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   *uuid.UUID `json:"product_id"`
	ProductName string     `json:"product_name"`
	ProductSKU  *string    `json:"product_sku"`
	UnitPrice   float64    `json:"unit_price"`
	Quantity    int        `json:"quantity"`
	LineTotal   float64    `json:"line_total"`
	SortOrder   int        `json:"sort_order"`
}

// QuoteResponse is the response for a single quote
type QuoteResponse struct {
	ID              uuid.UUID           `json:"id"`
	QuoteNumber     string              `json:"quote_number"`
	UserID          uuid.UUID           `json:"user_id"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   *string             `json:"customer_email"`
	CustomerPhone   *string             `json:"customer_phone"`
	CustomerAddress *string             `json:"customer_address"`
	Subtotal        float64             `json:"subtotal"`
	DiscountPercent float64             `json:"discount_percent"`
	DiscountAmount  float64             `json:"discount_amount"`
	Total           float64             `json:"total"`
	Status          QuoteStatus         `json:"status"`
	ValidUntil      *string             `json:"valid_until"`
	Notes           *string             `json:"notes"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Items           []QuoteItemResponse `json:"items,omitempty"`
}

// QuoteStatsResponse counts the caller's quotes per status
type QuoteStatsResponse struct {
	Total    int `json:"total"`
	Draft    int `json:"draft"`
	Sent     int `json:"sent"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Expired  int `json:"expired"`
}

// CalculatedLineItem is one priced line of a preview
type CalculatedLineItem struct {
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

// QuoteCalculationResponse is the response of the preview calculation endpoint
type QuoteCalculationResponse struct {
	Lines          []CalculatedLineItem `json:"lines"`
	Subtotal       float64              `json:"subtotal"`
	DiscountAmount float64              `json:"discount_amount"`
	Total          float64              `json:"total"`
}

// DeleteResponse acknowledges a successful delete
type DeleteResponse struct {
	Success bool `json:"success"`
}

// ExpirySweepResult summarises one run of the expiry sweep
type ExpirySweepResult struct {
	Expired int `json:"expired"`
}
