// Package dashboard aggregates per-owner quote and order counts.
package dashboard

import (
	"context"
	"time"

	ordertransport "quote_order_backend/internal/orders/transport"
	quotetransport "quote_order_backend/internal/quotes/transport"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// QuoteStatsReader is satisfied by the quotes service.
type QuoteStatsReader interface {
	Stats(ctx context.Context, ownerID uuid.UUID) (*quotetransport.QuoteStatsResponse, error)
}

// OrderStatsReader is satisfied by the orders service.
type OrderStatsReader interface {
	Stats(ctx context.Context, ownerID uuid.UUID) (*ordertransport.OrderStatsResponse, error)
}

// Summary is the dashboard payload.
type Summary struct {
	Quotes          quotetransport.QuoteStatsResponse `json:"quotes"`
	Orders          ordertransport.OrderStatsResponse `json:"orders"`
	ConversionRatio float64                           `json:"conversion_ratio"`
	GeneratedAt     time.Time                         `json:"generated_at"`
}

type Service struct {
	quotes QuoteStatsReader
	orders OrderStatsReader
}

func NewService(quotes QuoteStatsReader, orders OrderStatsReader) *Service {
	return &Service{quotes: quotes, orders: orders}
}

// Summary loads quote and order counts concurrently. Either failure fails the
// whole summary.
func (s *Service) Summary(ctx context.Context, ownerID uuid.UUID) (*Summary, error) {
	var (
		quoteStats *quotetransport.QuoteStatsResponse
		orderStats *ordertransport.OrderStatsResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quoteStats, err = s.quotes.Stats(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		orderStats, err = s.orders.Stats(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{
		Quotes:      *quoteStats,
		Orders:      *orderStats,
		GeneratedAt: time.Now().UTC(),
	}
	// Orders can outlive their quote, so the ratio is capped at 1.
	if quoteStats.Approved > 0 {
		summary.ConversionRatio = min(float64(orderStats.Total)/float64(quoteStats.Approved), 1)
	}
	return summary, nil
}
