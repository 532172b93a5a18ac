package service

import (
	"context"
	"strings"
	"time"

	"quote_order_backend/internal/events"
	"quote_order_backend/internal/orders/ports"
	"quote_order_backend/internal/orders/repository"
	"quote_order_backend/internal/orders/transport"
	"quote_order_backend/platform/apperr"
	"quote_order_backend/platform/sanitize"

	"github.com/google/uuid"
)

const msgInvalidStatus = "invalid order status"

// Service provides business logic for orders
type Service struct {
	repo     repository.Repository
	quotes   ports.QuoteReader
	locker   ports.ConversionLocker
	eventBus events.Bus
	now      func() time.Time
}

// New creates a new orders service. eventBus may be nil.
func New(repo repository.Repository, quotes ports.QuoteReader, eventBus events.Bus) *Service {
	return &Service{
		repo:     repo,
		quotes:   quotes,
		eventBus: eventBus,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetConversionLocker enables the cross-process conversion guard.
func (s *Service) SetConversionLocker(locker ports.ConversionLocker) {
	s.locker = locker
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// GetByID retrieves an order with its items
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*transport.OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, order)
}

// GetByNumber retrieves an order by its human-readable number
func (s *Service) GetByNumber(ctx context.Context, number string, ownerID uuid.UUID) (*transport.OrderResponse, error) {
	order, err := s.repo.GetByNumber(ctx, strings.TrimSpace(number), ownerID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, order)
}

func (s *Service) withItems(ctx context.Context, order *repository.Order) (*transport.OrderResponse, error) {
	items, err := s.repo.GetItems(ctx, order.ID, order.OwnerID)
	if err != nil {
		return nil, err
	}
	return buildResponse(order, items), nil
}

// List returns the owner's orders newest first, optionally filtered by status
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, req transport.ListOrdersRequest) ([]transport.OrderResponse, error) {
	params := repository.ListParams{OwnerID: ownerID}
	if req.Status != "" {
		if !transport.OrderStatus(req.Status).Valid() {
			return nil, apperr.Validation(msgInvalidStatus)
		}
		params.Status = &req.Status
	}

	orders, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]transport.OrderResponse, len(orders))
	for i := range orders {
		out[i] = *buildResponse(&orders[i], nil)
	}
	return out, nil
}

// Update changes an order's status and/or notes
func (s *Service) Update(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, req transport.UpdateOrderRequest) (*transport.OrderResponse, error) {
	params := repository.UpdateParams{ID: id, OwnerID: ownerID}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperr.Validation(msgInvalidStatus)
		}
		status := string(*req.Status)
		params.Status = &status
	}
	if req.Notes != nil {
		notes := sanitize.Text(*req.Notes)
		params.Notes = &notes
	}

	order, prevStatus, err := s.repo.Update(ctx, params)
	if err != nil {
		return nil, err
	}

	if order.Status != prevStatus {
		s.publish(ctx, events.OrderStatusChanged{
			BaseEvent:   events.NewBaseEvent(),
			OrderID:     order.ID,
			OwnerID:     ownerID,
			OrderNumber: order.OrderNumber,
			OldStatus:   prevStatus,
			NewStatus:   order.Status,
		})
	}

	return s.withItems(ctx, order)
}

// Delete removes an order and its items, reporting whether it existed
func (s *Service) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.publish(ctx, events.OrderDeleted{
			BaseEvent: events.NewBaseEvent(),
			OrderID:   id,
			OwnerID:   ownerID,
		})
	}
	return deleted, nil
}

// Stats counts the owner's orders per status
func (s *Service) Stats(ctx context.Context, ownerID uuid.UUID) (*transport.OrderStatsResponse, error) {
	stats, err := s.repo.Stats(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &transport.OrderStatsResponse{
		Total:      stats.Total,
		Pending:    stats.Pending,
		Processing: stats.Processing,
		Completed:  stats.Completed,
		Cancelled:  stats.Cancelled,
	}, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}

func buildResponse(o *repository.Order, items []repository.OrderItem) *transport.OrderResponse {
	var respItems []transport.OrderItemResponse
	if items != nil {
		respItems = make([]transport.OrderItemResponse, len(items))
		for i, it := range items {
			respItems[i] = transport.OrderItemResponse{
				ID:          it.ID,
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				ProductSKU:  it.ProductSKU,
				UnitPrice:   it.UnitPrice,
				Quantity:    it.Quantity,
				LineTotal:   it.LineTotal,
				SortOrder:   it.SortOrder,
			}
		}
	}

	return &transport.OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.OwnerID,
		QuoteID:         o.QuoteID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		Subtotal:        o.Subtotal,
		DiscountPercent: o.DiscountPercent,
		DiscountAmount:  o.DiscountAmount,
		Total:           o.Total,
		Status:          transport.OrderStatus(o.Status),
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           respItems,
	}
}
