package service

import (
	"context"
	"strings"
	"time"

	"quote_order_backend/internal/events"
	"quote_order_backend/internal/quotes/repository"
	"quote_order_backend/internal/quotes/transport"
	"quote_order_backend/platform/apperr"
	"quote_order_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgCustomerNameRequired = "customer_name is required"
	msgItemsRequired        = "at least one item is required"
	msgInvalidStatus        = "invalid quote status"
	msgInvalidValidUntil    = "valid_until must be a date in YYYY-MM-DD format"
)

// PhoneNormalizer canonicalises customer phone numbers.
type PhoneNormalizer interface {
	Normalize(input string) string
}

// Service provides business logic for quotes
type Service struct {
	repo     repository.Repository
	eventBus events.Bus
	phone    PhoneNormalizer
	now      func() time.Time
}

// New creates a new quotes service. eventBus and phone may be nil.
func New(repo repository.Repository, eventBus events.Bus, phone PhoneNormalizer) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		phone:    phone,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Create creates a draft quote with line items, computing totals server-side
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req transport.CreateQuoteRequest) (*transport.QuoteResponse, error) {
	name := sanitize.Text(req.CustomerName)
	if name == "" {
		return nil, apperr.Validation(msgCustomerNameRequired)
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validation(msgItemsRequired)
	}

	validUntil, err := parseValidUntil(req.ValidUntil)
	if err != nil {
		return nil, err
	}

	calc, err := CalculateQuote(toLineInputs(req.Items), req.DiscountPercent)
	if err != nil {
		return nil, err
	}

	now := s.now()
	quote := &repository.Quote{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		CustomerName:    name,
		CustomerEmail:   sanitize.TextPtr(req.CustomerEmail),
		CustomerPhone:   s.normalizePhone(req.CustomerPhone),
		CustomerAddress: sanitize.TextPtr(req.CustomerAddress),
		Subtotal:        calc.Subtotal,
		DiscountPercent: req.DiscountPercent,
		DiscountAmount:  calc.DiscountAmount,
		Total:           calc.Total,
		Status:          string(transport.QuoteStatusDraft),
		ValidUntil:      validUntil,
		Notes:           sanitize.TextPtr(req.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	items := buildItems(quote.ID, req.Items, calc.Lines, now)

	if err := s.repo.Create(ctx, quote, items); err != nil {
		return nil, err
	}

	s.publish(ctx, events.QuoteCreated{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		OwnerID:     ownerID,
		QuoteNumber: quote.QuoteNumber,
		ItemCount:   len(items),
		Total:       quote.Total,
	})

	return buildResponse(quote, items), nil
}

// Update applies a partial update. Supplied items replace the stored set and
// drive a full recalculation; otherwise totals are re-derived from the stored
// subtotal and the effective discount.
func (s *Service) Update(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, req transport.UpdateQuoteRequest) (*transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	prevStatus := quote.Status

	if err := s.applyQuoteUpdates(quote, req); err != nil {
		return nil, err
	}

	now := s.now()
	replaceItems := req.Items != nil
	var items []repository.QuoteItem

	if replaceItems {
		if len(*req.Items) == 0 {
			return nil, apperr.Validation(msgItemsRequired)
		}
		calc, err := CalculateQuote(toLineInputs(*req.Items), quote.DiscountPercent)
		if err != nil {
			return nil, err
		}
		items = buildItems(quote.ID, *req.Items, calc.Lines, now)
		quote.Subtotal = calc.Subtotal
		quote.DiscountAmount = calc.DiscountAmount
		quote.Total = calc.Total
	} else {
		discountAmount, total, err := ApplyDiscount(quote.Subtotal, quote.DiscountPercent)
		if err != nil {
			return nil, err
		}
		quote.DiscountAmount = discountAmount
		quote.Total = total
	}

	quote.UpdatedAt = now

	if err := s.repo.Update(ctx, quote, items, replaceItems); err != nil {
		return nil, err
	}

	if !replaceItems {
		items, err = s.repo.GetItems(ctx, quote.ID, ownerID)
		if err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.QuoteUpdated{
		BaseEvent:       events.NewBaseEvent(),
		QuoteID:         quote.ID,
		OwnerID:         ownerID,
		QuoteNumber:     quote.QuoteNumber,
		ItemsChanged:    replaceItems,
		DiscountPercent: quote.DiscountPercent,
		Total:           quote.Total,
	})
	if quote.Status != prevStatus {
		s.publish(ctx, events.QuoteStatusChanged{
			BaseEvent:   events.NewBaseEvent(),
			QuoteID:     quote.ID,
			OwnerID:     ownerID,
			QuoteNumber: quote.QuoteNumber,
			OldStatus:   prevStatus,
			NewStatus:   quote.Status,
		})
	}

	return buildResponse(quote, items), nil
}

func (s *Service) applyQuoteUpdates(quote *repository.Quote, req transport.UpdateQuoteRequest) error {
	if req.CustomerName != nil {
		name := sanitize.Text(*req.CustomerName)
		if name == "" {
			return apperr.Validation(msgCustomerNameRequired)
		}
		quote.CustomerName = name
	}
	if req.CustomerEmail != nil {
		quote.CustomerEmail = sanitize.TextPtr(req.CustomerEmail)
	}
	if req.CustomerPhone != nil {
		quote.CustomerPhone = s.normalizePhone(req.CustomerPhone)
	}
	if req.CustomerAddress != nil {
		quote.CustomerAddress = sanitize.TextPtr(req.CustomerAddress)
	}
	if req.DiscountPercent != nil {
		quote.DiscountPercent = *req.DiscountPercent
	}
	if req.ValidUntil != nil {
		validUntil, err := parseValidUntil(req.ValidUntil)
		if err != nil {
			return err
		}
		quote.ValidUntil = validUntil
	}
	if req.Notes != nil {
		quote.Notes = sanitize.TextPtr(req.Notes)
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return apperr.Validation(msgInvalidStatus)
		}
		quote.Status = string(*req.Status)
	}
	return nil
}

// GetByID retrieves a quote with its line items
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, quote)
}

// GetByNumber retrieves a quote by its human-readable number
func (s *Service) GetByNumber(ctx context.Context, number string, ownerID uuid.UUID) (*transport.QuoteResponse, error) {
	quote, err := s.repo.GetByNumber(ctx, strings.TrimSpace(number), ownerID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, quote)
}

func (s *Service) withItems(ctx context.Context, quote *repository.Quote) (*transport.QuoteResponse, error) {
	items, err := s.repo.GetItems(ctx, quote.ID, quote.OwnerID)
	if err != nil {
		return nil, err
	}
	return buildResponse(quote, items), nil
}

// List returns the owner's quotes newest first, optionally filtered by status
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, req transport.ListQuotesRequest) ([]transport.QuoteResponse, error) {
	params := repository.ListParams{OwnerID: ownerID}
	if req.Status != "" {
		if !transport.QuoteStatus(req.Status).Valid() {
			return nil, apperr.Validation(msgInvalidStatus)
		}
		params.Status = &req.Status
	}

	quotes, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]transport.QuoteResponse, len(quotes))
	for i := range quotes {
		out[i] = *buildResponse(&quotes[i], nil)
	}
	return out, nil
}

// Delete removes a quote and its line items, reporting whether it existed
func (s *Service) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.publish(ctx, events.QuoteDeleted{
			BaseEvent: events.NewBaseEvent(),
			QuoteID:   id,
			OwnerID:   ownerID,
		})
	}
	return deleted, nil
}

// Stats counts the owner's quotes per status
func (s *Service) Stats(ctx context.Context, ownerID uuid.UUID) (*transport.QuoteStatsResponse, error) {
	stats, err := s.repo.Stats(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &transport.QuoteStatsResponse{
		Total:    stats.Total,
		Draft:    stats.Draft,
		Sent:     stats.Sent,
		Approved: stats.Approved,
		Rejected: stats.Rejected,
		Expired:  stats.Expired,
	}, nil
}

// Preview prices line items without persisting anything
func (s *Service) Preview(req transport.QuoteCalculationRequest) (*transport.QuoteCalculationResponse, error) {
	calc, err := CalculateQuote(toLineInputs(req.Items), req.DiscountPercent)
	if err != nil {
		return nil, err
	}

	lines := make([]transport.CalculatedLineItem, len(req.Items))
	for i, it := range req.Items {
		lines[i] = transport.CalculatedLineItem{
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   calc.Lines[i],
		}
	}

	return &transport.QuoteCalculationResponse{
		Lines:          lines,
		Subtotal:       calc.Subtotal,
		DiscountAmount: calc.DiscountAmount,
		Total:          calc.Total,
	}, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}

func (s *Service) normalizePhone(raw *string) *string {
	value := trimmedOrNil(raw)
	if value == nil || s.phone == nil {
		return value
	}
	normalized := s.phone.Normalize(*value)
	return &normalized
}

func toLineInputs(items []transport.QuoteItemRequest) []LineInput {
	out := make([]LineInput, len(items))
	for i, it := range items {
		out[i] = LineInput{UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}
	return out
}

func buildItems(quoteID uuid.UUID, reqs []transport.QuoteItemRequest, lineTotals []float64, now time.Time) []repository.QuoteItem {
	items := make([]repository.QuoteItem, len(reqs))
	for i, it := range reqs {
		items[i] = repository.QuoteItem{
			ID:          uuid.New(),
			QuoteID:     quoteID,
			ProductID:   it.ProductID,
			ProductName: sanitize.Text(it.ProductName),
			ProductSKU:  sanitize.TextPtr(it.ProductSKU),
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   lineTotals[i],
			SortOrder:   i,
			CreatedAt:   now,
		}
	}
	return items
}

// buildResponse converts a repository Quote + items into a transport response
func buildResponse(q *repository.Quote, items []repository.QuoteItem) *transport.QuoteResponse {
	var respItems []transport.QuoteItemResponse
	if items != nil {
		respItems = make([]transport.QuoteItemResponse, len(items))
		for i, it := range items {
			respItems[i] = transport.QuoteItemResponse{
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

	return &transport.QuoteResponse{
		ID:              q.ID,
		QuoteNumber:     q.QuoteNumber,
		UserID:          q.OwnerID,
		CustomerName:    q.CustomerName,
		CustomerEmail:   q.CustomerEmail,
		CustomerPhone:   q.CustomerPhone,
		CustomerAddress: q.CustomerAddress,
		Subtotal:        q.Subtotal,
		DiscountPercent: q.DiscountPercent,
		DiscountAmount:  q.DiscountAmount,
		Total:           q.Total,
		Status:          transport.QuoteStatus(q.Status),
		ValidUntil:      formatDate(q.ValidUntil),
		Notes:           q.Notes,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
		Items:           respItems,
	}
}

func parseValidUntil(raw *string) (*time.Time, error) {
	value := trimmedOrNil(raw)
	if value == nil {
		return nil, nil
	}
	parsed, err := time.Parse(transport.DateLayout, *value)
	if err != nil {
		return nil, apperr.Validation(msgInvalidValidUntil)
	}
	return &parsed, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(transport.DateLayout)
	return &formatted
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
