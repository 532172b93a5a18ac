package adapters

import (
	"context"

	"quote_order_backend/internal/orders/ports"
	quotesvc "quote_order_backend/internal/quotes/service"

	"github.com/google/uuid"
)

// QuotesReader adapts the quotes service for the orders domain.
type QuotesReader struct {
	svc *quotesvc.Service
}

// NewQuotesReader creates a new quotes reader adapter.
func NewQuotesReader(svc *quotesvc.Service) *QuotesReader {
	return &QuotesReader{svc: svc}
}

// GetQuote returns the owner-scoped quote snapshot. Not-found errors from the
// quotes service pass through unchanged.
func (a *QuotesReader) GetQuote(ctx context.Context, quoteID uuid.UUID, ownerID uuid.UUID) (ports.QuoteSnapshot, error) {
	quote, err := a.svc.GetByID(ctx, quoteID, ownerID)
	if err != nil {
		return ports.QuoteSnapshot{}, err
	}
	return ports.QuoteSnapshot{
		ID:          quote.ID,
		QuoteNumber: quote.QuoteNumber,
		Status:      string(quote.Status),
		Total:       quote.Total,
	}, nil
}

var _ ports.QuoteReader = (*QuotesReader)(nil)
