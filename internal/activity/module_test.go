package activity

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"quote_order_backend/internal/events"
	"quote_order_backend/platform/logger"

	"github.com/google/uuid"
)

func TestLifecycleEventsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)
	bus := events.NewInMemoryBus(log)
	NewModule(log).RegisterHandlers(bus)

	owner := uuid.New()
	err := bus.PublishSync(context.Background(), events.QuoteConverted{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     uuid.New(),
		OrderID:     uuid.New(),
		OwnerID:     owner,
		OrderNumber: "ORD-2026-0001",
		Total:       31.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"event":"orders.quote.converted"`, `"order_number":"ORD-2026-0001"`, `"total":"31.50"`, owner.String()} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log output:\n%s", want, out)
		}
	}
}

func TestStatusChangeLogsTransition(t *testing.T) {
	var buf bytes.Buffer
	m := NewModule(logger.NewWithWriter("production", &buf))

	_ = m.Handle(context.Background(), events.QuoteStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     uuid.New(),
		OwnerID:     uuid.New(),
		QuoteNumber: "Q-2026-0003",
		OldStatus:   "sent",
		NewStatus:   "expired",
	})

	out := buf.String()
	if !strings.Contains(out, `"from":"sent"`) || !strings.Contains(out, `"to":"expired"`) {
		t.Fatalf("expected transition in log output:\n%s", out)
	}
}

func TestQuoteUpdateLogsDiscountAndTotal(t *testing.T) {
	var buf bytes.Buffer
	m := NewModule(logger.NewWithWriter("production", &buf))

	_ = m.Handle(context.Background(), events.QuoteUpdated{
		BaseEvent:       events.NewBaseEvent(),
		QuoteID:         uuid.New(),
		OwnerID:         uuid.New(),
		QuoteNumber:     "Q-2026-0004",
		DiscountPercent: 12.5,
		Total:           87.5,
	})

	out := buf.String()
	for _, want := range []string{`"discount":"12.5%"`, `"total":"87.50"`, `"quote_number":"Q-2026-0004"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log output:\n%s", want, out)
		}
	}
}
