// Package ports defines the interfaces the orders domain requires from other
// modules. Implementations are wired in by the composition root so orders never
// imports the quotes domain directly.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// QuoteSnapshot is the slice of a quote the orders domain needs to decide
// whether it may be converted.
type QuoteSnapshot struct {
	ID          uuid.UUID
	QuoteNumber string
	Status      string
	Total       float64
}

// QuoteReader looks up quotes owned by the caller.
type QuoteReader interface {
	// GetQuote returns a NotFound error when the quote does not exist for ownerID.
	GetQuote(ctx context.Context, quoteID uuid.UUID, ownerID uuid.UUID) (QuoteSnapshot, error)
}

// ConversionLocker serialises conversions of the same quote across processes.
// Acquire returns a release func, or lock.ErrNotAcquired when the quote is
// already being converted.
type ConversionLocker interface {
	Acquire(ctx context.Context, key string) (func(context.Context) error, error)
}
