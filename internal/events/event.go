// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"quote_order_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Quotes Domain Events
// =============================================================================

// QuoteCreated is published after a quote and its items are committed.
type QuoteCreated struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	OwnerID     uuid.UUID `json:"ownerId"`
	QuoteNumber string    `json:"quoteNumber"`
	ItemCount   int       `json:"itemCount"`
	Total       float64   `json:"total"`
}

func (e QuoteCreated) EventName() string { return "quotes.quote.created" }

// QuoteUpdated is published after any successful quote update.
type QuoteUpdated struct {
	BaseEvent
	QuoteID         uuid.UUID `json:"quoteId"`
	OwnerID         uuid.UUID `json:"ownerId"`
	QuoteNumber     string    `json:"quoteNumber"`
	ItemsChanged    bool      `json:"itemsChanged"`
	DiscountPercent float64   `json:"discountPercent"`
	Total           float64   `json:"total"`
}

func (e QuoteUpdated) EventName() string { return "quotes.quote.updated" }

// QuoteStatusChanged is published when a quote moves to a different status,
// whether by a caller or by the expiry sweep.
type QuoteStatusChanged struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	OwnerID     uuid.UUID `json:"ownerId"`
	QuoteNumber string    `json:"quoteNumber"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
}

func (e QuoteStatusChanged) EventName() string { return "quotes.quote.status_changed" }

// QuoteDeleted is published after a quote and its items are removed.
type QuoteDeleted struct {
	BaseEvent
	QuoteID uuid.UUID `json:"quoteId"`
	OwnerID uuid.UUID `json:"ownerId"`
}

func (e QuoteDeleted) EventName() string { return "quotes.quote.deleted" }

// =============================================================================
// Orders Domain Events
// =============================================================================

// QuoteConverted is published after an approved quote became an order.
type QuoteConverted struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	OrderID     uuid.UUID `json:"orderId"`
	OwnerID     uuid.UUID `json:"ownerId"`
	OrderNumber string    `json:"orderNumber"`
	Total       float64   `json:"total"`
}

func (e QuoteConverted) EventName() string { return "orders.quote.converted" }

// OrderStatusChanged is published when an order moves to a different status.
type OrderStatusChanged struct {
	BaseEvent
	OrderID     uuid.UUID `json:"orderId"`
	OwnerID     uuid.UUID `json:"ownerId"`
	OrderNumber string    `json:"orderNumber"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
}

func (e OrderStatusChanged) EventName() string { return "orders.order.status_changed" }

// OrderDeleted is published after an order and its items are removed.
type OrderDeleted struct {
	BaseEvent
	OrderID uuid.UUID `json:"orderId"`
	OwnerID uuid.UUID `json:"ownerId"`
}

func (e OrderDeleted) EventName() string { return "orders.order.deleted" }
