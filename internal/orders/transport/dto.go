package transport

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus defines the status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// UpdateOrderRequest is the request body for updating an order.
// Financials and items are fixed once the order exists.
type UpdateOrderRequest struct {
	Status *OrderStatus `json:"status" validate:"omitempty,oneof=pending processing completed cancelled"`
	Notes  *string      `json:"notes" validate:"omitempty,max=5000"`
}

// ListOrdersRequest defines the query parameters for listing orders
type ListOrdersRequest struct {
	Status string `form:"status" validate:"omitempty,oneof=pending processing completed cancelled"`
}

// OrderItemResponse is the response for a single order line
type OrderItemResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   *uuid.UUID `json:"product_id"`
	ProductName string     `json:"product_name"`
	ProductSKU  *string    `json:"product_sku"`
	UnitPrice   float64    `json:"unit_price"`
	Quantity    int        `json:"quantity"`
	LineTotal   float64    `json:"line_total"`
	SortOrder   int        `json:"sort_order"`
}

// OrderResponse is the response for a single order
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	UserID          uuid.UUID           `json:"user_id"`
	QuoteID         *uuid.UUID          `json:"quote_id"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   *string             `json:"customer_email"`
	CustomerPhone   *string             `json:"customer_phone"`
	CustomerAddress *string             `json:"customer_address"`
	Subtotal        float64             `json:"subtotal"`
	DiscountPercent float64             `json:"discount_percent"`
	DiscountAmount  float64             `json:"discount_amount"`
	Total           float64             `json:"total"`
	Status          OrderStatus         `json:"status"`
	Notes           *string             `json:"notes"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Items           []OrderItemResponse `json:"items,omitempty"`
}

// OrderStatsResponse counts the caller's orders per status
type OrderStatsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

// DeleteResponse acknowledges a successful delete
type DeleteResponse struct {
	Success bool `json:"success"`
}
