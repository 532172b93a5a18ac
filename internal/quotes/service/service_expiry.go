package service

import (
	"context"
	"time"

	"quote_order_backend/internal/events"
	"quote_order_backend/internal/quotes/transport"
)

// ExpireOverdue marks every draft or sent quote whose valid_until lies before
// today as expired, across all owners. It is driven by the scheduler.
func (s *Service) ExpireOverdue(ctx context.Context) (*transport.ExpirySweepResult, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	expired, err := s.repo.ExpireOverdue(ctx, today)
	if err != nil {
		return nil, err
	}

	for _, q := range expired {
		s.publish(ctx, events.QuoteStatusChanged{
			BaseEvent:   events.NewBaseEvent(),
			QuoteID:     q.ID,
			OwnerID:     q.OwnerID,
			QuoteNumber: q.QuoteNumber,
			OldStatus:   q.PrevStatus,
			NewStatus:   string(transport.QuoteStatusExpired),
		})
	}

	return &transport.ExpirySweepResult{Expired: len(expired)}, nil
}
