package service

import (
	"context"
	"errors"

	"quote_order_backend/internal/events"
	"quote_order_backend/internal/orders/repository"
	"quote_order_backend/internal/orders/transport"
	"quote_order_backend/platform/apperr"
	"quote_order_backend/platform/lock"

	"github.com/google/uuid"
)

const (
	quoteStatusApproved     = "approved"
	msgQuoteNotApproved     = "can only convert an approved quote to an order"
	msgConversionInFlight   = "quote is already being converted"
	conversionLockKeyPrefix = "convert:"
)

// ConvertQuote turns an approved quote into a pending order. The quote must
// exist for ownerID and be approved before the transactional copy runs; the
// repository re-checks both under a row lock.
func (s *Service) ConvertQuote(ctx context.Context, quoteID uuid.UUID, ownerID uuid.UUID) (*transport.OrderResponse, error) {
	quote, err := s.quotes.GetQuote(ctx, quoteID, ownerID)
	if err != nil {
		return nil, err
	}
	if quote.Status != quoteStatusApproved {
		return nil, apperr.Precondition(msgQuoteNotApproved)
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, conversionLockKeyPrefix+quoteID.String())
		if err != nil {
			if errors.Is(err, lock.ErrNotAcquired) {
				return nil, apperr.Conflict(msgConversionInFlight)
			}
			return nil, apperr.Internal("failed to acquire conversion lock", err)
		}
		defer func() { _ = release(context.WithoutCancel(ctx)) }()
	}

	now := s.now()
	order, err := s.repo.CreateFromQuote(ctx, repository.ConvertParams{
		QuoteID: quoteID,
		OwnerID: ownerID,
		OrderID: uuid.New(),
		Year:    now.Year(),
		Now:     now,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.QuoteConverted{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quoteID,
		OrderID:     order.ID,
		OwnerID:     ownerID,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
	})

	return s.withItems(ctx, order)
}
