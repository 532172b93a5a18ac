// Package activity records the quote and order lifecycle as structured log
// entries. It is the event bus subscriber for every lifecycle event.
package activity

import (
	"context"

	"quote_order_backend/internal/events"
	"quote_order_backend/platform/logger"
	"quote_order_backend/platform/money"
)

// Module subscribes to lifecycle events and writes one log line per event.
type Module struct {
	log *logger.Logger
}

func NewModule(log *logger.Logger) *Module {
	return &Module{log: log}
}

// RegisterHandlers subscribes to all lifecycle events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	// Quotes
	bus.Subscribe(events.QuoteCreated{}.EventName(), m)
	bus.Subscribe(events.QuoteUpdated{}.EventName(), m)
	bus.Subscribe(events.QuoteStatusChanged{}.EventName(), m)
	bus.Subscribe(events.QuoteDeleted{}.EventName(), m)

	// Orders
	bus.Subscribe(events.QuoteConverted{}.EventName(), m)
	bus.Subscribe(events.OrderStatusChanged{}.EventName(), m)
	bus.Subscribe(events.OrderDeleted{}.EventName(), m)

	m.log.Info("activity module registered event handlers")
}

// Handle routes events to the matching log entry.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	log := m.log.WithContext(ctx)

	switch e := event.(type) {
	case events.QuoteCreated:
		log.WithOwnerID(e.OwnerID.String()).DomainEvent(e.EventName(),
			"quote_id", e.QuoteID, "quote_number", e.QuoteNumber,
			"items", e.ItemCount, "total", money.Format(e.Total))
	case events.QuoteUpdated:
		log.WithOwnerID(e.OwnerID.String()).DomainEvent(e.EventName(),
			"quote_id", e.QuoteID, "quote_number", e.QuoteNumber,
			"items_changed", e.ItemsChanged, "discount", money.Percent(e.DiscountPercent),
			"total", money.Format(e.Total))
	case events.QuoteStatusChanged:
		log.WithOwnerID(e.OwnerID.String()).DomainEvent(e.EventName(),
			"quote_id", e.QuoteID, "quote_number", e.QuoteNumber,
			"from", e.OldStatus, "to", e.NewStatus)
	case events.QuoteDeleted:
		log.WithOwnerID(e.OwnerID.String()).DomainEvent(e.EventName(), "quote_id", e.QuoteID)
	case events.QuoteConverted:
		log.WithOwnerID(e.OwnerID.String()).DomainEvent(e.EventName(),
			"quote_id", e.QuoteID, "order_id", e.OrderID,
			"order_number", e.OrderNumber, "total", money.Format(e.Total))
	case events.OrderStatusChanged:
		log.WithOwnerID(e.OwnerID.String()).DomainEvent(e.EventName(),
			"order_id", e.OrderID, "order_number", e.OrderNumber,
			"from", e.OldStatus, "to", e.NewStatus)
	case events.OrderDeleted:
		log.WithOwnerID(e.OwnerID.String()).DomainEvent(e.EventName(), "order_id", e.OrderID)
	default:
		log.Debug("activity: ignoring unhandled event", "event", event.EventName())
	}
	return nil
}
