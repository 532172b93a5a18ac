package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"quote_order_backend/internal/events"
	"quote_order_backend/internal/numbering"
	"quote_order_backend/internal/quotes/repository"
	"quote_order_backend/platform/apperr"

	"github.com/google/uuid"
)

type counterKey struct {
	owner uuid.UUID
	year  int
}

// memRepo is an in-memory stand-in for the Postgres repository.
type memRepo struct {
	mu       sync.Mutex
	quotes   map[uuid.UUID]repository.Quote
	items    map[uuid.UUID][]repository.QuoteItem
	order    []uuid.UUID
	counters map[counterKey]int64
	failNext error
	// beforeUpdate runs ahead of Update, standing in for a writer that
	// commits between the service's read and its write.
	beforeUpdate func()
}

func newMemRepo() *memRepo {
	return &memRepo{
		quotes:   map[uuid.UUID]repository.Quote{},
		items:    map[uuid.UUID][]repository.QuoteItem{},
		counters: map[counterKey]int64{},
	}
}

func (m *memRepo) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *memRepo) Create(_ context.Context, quote *repository.Quote, items []repository.QuoteItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}

	key := counterKey{quote.OwnerID, quote.CreatedAt.Year()}
	m.counters[key]++
	quote.QuoteNumber = numbering.Format(numbering.KindQuote, key.year, m.counters[key])

	m.quotes[quote.ID] = *quote
	m.items[quote.ID] = append([]repository.QuoteItem(nil), items...)
	m.order = append(m.order, quote.ID)
	return nil
}

func (m *memRepo) Update(_ context.Context, quote *repository.Quote, items []repository.QuoteItem, replaceItems bool) error {
	if hook := m.beforeUpdate; hook != nil {
		m.beforeUpdate = nil
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}

	existing, ok := m.quotes[quote.ID]
	if !ok || existing.OwnerID != quote.OwnerID {
		return apperr.NotFound("quote not found")
	}
	if replaceItems {
		m.items[quote.ID] = append([]repository.QuoteItem(nil), items...)
	} else {
		quote.Subtotal = existing.Subtotal
		quote.DiscountAmount = existing.Subtotal * quote.DiscountPercent / 100
		quote.Total = existing.Subtotal - quote.DiscountAmount
	}
	m.quotes[quote.ID] = *quote
	return nil
}

// replaceItemsDirect swaps a quote's lines and financials the way a
// concurrent item-replacing update would.
func (m *memRepo) replaceItemsDirect(quoteID uuid.UUID, items []repository.QuoteItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.quotes[quoteID]
	q.Subtotal = 0
	for _, it := range items {
		q.Subtotal += it.LineTotal
	}
	q.DiscountAmount = q.Subtotal * q.DiscountPercent / 100
	q.Total = q.Subtotal - q.DiscountAmount
	m.quotes[quoteID] = q
	m.items[quoteID] = items
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID, ownerID uuid.UUID) (*repository.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotes[id]
	if !ok || q.OwnerID != ownerID {
		return nil, apperr.NotFound("quote not found")
	}
	return &q, nil
}

func (m *memRepo) GetByNumber(_ context.Context, number string, ownerID uuid.UUID) (*repository.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.quotes {
		if q.QuoteNumber == number && q.OwnerID == ownerID {
			return &q, nil
		}
	}
	return nil, apperr.NotFound("quote not found")
}

func (m *memRepo) GetItems(_ context.Context, quoteID uuid.UUID, ownerID uuid.UUID) ([]repository.QuoteItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotes[quoteID]
	if !ok || q.OwnerID != ownerID {
		return []repository.QuoteItem{}, nil
	}
	items := append([]repository.QuoteItem{}, m.items[quoteID]...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
	return items, nil
}

func (m *memRepo) List(_ context.Context, params repository.ListParams) ([]repository.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.Quote, 0)
	for i := len(m.order) - 1; i >= 0; i-- {
		q, ok := m.quotes[m.order[i]]
		if !ok || q.OwnerID != params.OwnerID {
			continue
		}
		if params.Status != nil && q.Status != *params.Status {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID, ownerID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotes[id]
	if !ok || q.OwnerID != ownerID {
		return false, nil
	}
	delete(m.quotes, id)
	delete(m.items, id)
	return true, nil
}

func (m *memRepo) Stats(_ context.Context, ownerID uuid.UUID) (repository.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s repository.Stats
	for _, q := range m.quotes {
		if q.OwnerID != ownerID {
			continue
		}
		s.Total++
		switch q.Status {
		case "draft":
			s.Draft++
		case "sent":
			s.Sent++
		case "approved":
			s.Approved++
		case "rejected":
			s.Rejected++
		case "expired":
			s.Expired++
		}
	}
	return s, nil
}

func (m *memRepo) ExpireOverdue(_ context.Context, today time.Time) ([]repository.ExpiredQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.ExpiredQuote, 0)
	for id, q := range m.quotes {
		if q.ValidUntil == nil || !q.ValidUntil.Before(today) {
			continue
		}
		if q.Status != "draft" && q.Status != "sent" {
			continue
		}
		out = append(out, repository.ExpiredQuote{ID: id, OwnerID: q.OwnerID, QuoteNumber: q.QuoteNumber, PrevStatus: q.Status})
		q.Status = "expired"
		m.quotes[id] = q
	}
	return out, nil
}

// recordingBus captures published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.EventName()
	}
	return out
}

type upperPhone struct{}

func (upperPhone) Normalize(input string) string { return "+" + input }
