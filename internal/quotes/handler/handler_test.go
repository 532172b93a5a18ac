package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quote_order_backend/internal/quotes/repository"
	"quote_order_backend/internal/quotes/service"
	"quote_order_backend/internal/quotes/transport"
	"quote_order_backend/platform/apperr"
	"quote_order_backend/platform/httpkit"
	"quote_order_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubRepo keeps quotes in memory; numbering is a plain per-repo counter.
type stubRepo struct {
	quotes map[uuid.UUID]repository.Quote
	items  map[uuid.UUID][]repository.QuoteItem
	seq    int
}

func newStubRepo() *stubRepo {
	return &stubRepo{quotes: map[uuid.UUID]repository.Quote{}, items: map[uuid.UUID][]repository.QuoteItem{}}
}

func (r *stubRepo) Create(_ context.Context, q *repository.Quote, items []repository.QuoteItem) error {
	r.seq++
	q.QuoteNumber = "Q-2026-000" + string(rune('0'+r.seq))
	r.quotes[q.ID] = *q
	r.items[q.ID] = items
	return nil
}

func (r *stubRepo) Update(_ context.Context, q *repository.Quote, items []repository.QuoteItem, replace bool) error {
	r.quotes[q.ID] = *q
	if replace {
		r.items[q.ID] = items
	}
	return nil
}

func (r *stubRepo) GetByID(_ context.Context, id, owner uuid.UUID) (*repository.Quote, error) {
	q, ok := r.quotes[id]
	if !ok || q.OwnerID != owner {
		return nil, apperr.NotFound("quote not found")
	}
	return &q, nil
}

func (r *stubRepo) GetByNumber(_ context.Context, number string, owner uuid.UUID) (*repository.Quote, error) {
	for _, q := range r.quotes {
		if q.QuoteNumber == number && q.OwnerID == owner {
			return &q, nil
		}
	}
	return nil, apperr.NotFound("quote not found")
}

func (r *stubRepo) GetItems(_ context.Context, id, _ uuid.UUID) ([]repository.QuoteItem, error) {
	return r.items[id], nil
}

func (r *stubRepo) List(_ context.Context, p repository.ListParams) ([]repository.Quote, error) {
	out := []repository.Quote{}
	for _, q := range r.quotes {
		if q.OwnerID == p.OwnerID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *stubRepo) Delete(_ context.Context, id, owner uuid.UUID) (bool, error) {
	q, ok := r.quotes[id]
	if !ok || q.OwnerID != owner {
		return false, nil
	}
	delete(r.quotes, id)
	return true, nil
}

func (r *stubRepo) Stats(_ context.Context, owner uuid.UUID) (repository.Stats, error) {
	var s repository.Stats
	for _, q := range r.quotes {
		if q.OwnerID == owner {
			s.Total++
		}
	}
	return s, nil
}

func (r *stubRepo) ExpireOverdue(context.Context, time.Time) ([]repository.ExpiredQuote, error) {
	return nil, nil
}

func newTestRouter(owner uuid.UUID) (*gin.Engine, *stubRepo) {
	repo := newStubRepo()
	h := New(service.New(repo, nil, nil), validator.New())

	engine := gin.New()
	group := engine.Group("/quotes", func(c *gin.Context) {
		if owner != uuid.Nil {
			c.Set(httpkit.ContextOwnerIDKey, owner)
		}
		c.Next()
	})
	h.RegisterRoutes(group)
	return engine, repo
}

func doJSON(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

var createBody = map[string]any{
	"customer_name":    "Acme Corp",
	"discount_percent": 10,
	"items": []map[string]any{
		{"product_name": "Widget", "unit_price": 10, "quantity": 2},
		{"product_name": "Gadget", "unit_price": 5, "quantity": 3},
	},
}

func TestCreateReturns201WithTotals(t *testing.T) {
	engine, _ := newTestRouter(uuid.New())

	rec := doJSON(engine, http.MethodPost, "/quotes", createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp transport.QuoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 31.5 || resp.Status != transport.QuoteStatusDraft || len(resp.Items) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCreateRejectsInvalidBodies(t *testing.T) {
	engine, _ := newTestRouter(uuid.New())

	cases := map[string]map[string]any{
		"missing items": {"customer_name": "Acme"},
		"blank name":    {"customer_name": "  ", "items": createBody["items"]},
		"bad quantity": {"customer_name": "Acme", "items": []map[string]any{
			{"product_name": "Widget", "unit_price": 10, "quantity": 0},
		}},
		"discount too high": {"customer_name": "Acme", "discount_percent": 150, "items": createBody["items"]},
	}

	for name, body := range cases {
		rec := doJSON(engine, http.MethodPost, "/quotes", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestRequestsWithoutOwnerAreUnauthorized(t *testing.T) {
	engine, _ := newTestRouter(uuid.Nil)

	rec := doJSON(engine, http.MethodGet, "/quotes", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGetByIDRejectsMalformedID(t *testing.T) {
	engine, _ := newTestRouter(uuid.New())

	rec := doJSON(engine, http.MethodGet, "/quotes/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetByIDReturns404ForUnknownQuote(t *testing.T) {
	engine, _ := newTestRouter(uuid.New())

	rec := doJSON(engine, http.MethodGet, "/quotes/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteReportsSuccessThen404(t *testing.T) {
	engine, repo := newTestRouter(uuid.New())

	created := doJSON(engine, http.MethodPost, "/quotes", createBody)
	var resp transport.QuoteResponse
	_ = json.Unmarshal(created.Body.Bytes(), &resp)

	rec := doJSON(engine, http.MethodDelete, "/quotes/"+resp.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var ack transport.DeleteResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &ack)
	if !ack.Success {
		t.Fatal("expected success acknowledgement")
	}
	if len(repo.quotes) != 0 {
		t.Fatal("expected quote to be removed")
	}

	rec = doJSON(engine, http.MethodDelete, "/quotes/"+resp.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	engine, _ := newTestRouter(uuid.New())

	created := doJSON(engine, http.MethodPost, "/quotes", createBody)
	var resp transport.QuoteResponse
	_ = json.Unmarshal(created.Body.Bytes(), &resp)

	rec := doJSON(engine, http.MethodPut, "/quotes/"+resp.ID.String(), map[string]any{"status": "archived"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = doJSON(engine, http.MethodPut, "/quotes/"+resp.ID.String(), map[string]any{"status": "sent"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPreviewCalculation(t *testing.T) {
	engine, repo := newTestRouter(uuid.New())

	rec := doJSON(engine, http.MethodPost, "/quotes/calculate", map[string]any{
		"discount_percent": 10,
		"items":            createBody["items"],
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp transport.QuoteCalculationResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Subtotal != 35 || resp.DiscountAmount != 3.5 || resp.Total != 31.5 {
		t.Fatalf("unexpected preview: %+v", resp)
	}
	if len(repo.quotes) != 0 {
		t.Fatal("preview must not persist")
	}
}

func TestGetByNumberAndStats(t *testing.T) {
	engine, _ := newTestRouter(uuid.New())
	_ = doJSON(engine, http.MethodPost, "/quotes", createBody)

	rec := doJSON(engine, http.MethodGet, "/quotes/by-number/Q-2026-0001", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(engine, http.MethodGet, "/quotes/stats", nil)
	var stats transport.QuoteStatsResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &stats)
	if rec.Code != http.StatusOK || stats.Total != 1 {
		t.Fatalf("unexpected stats %d: %+v", rec.Code, stats)
	}
}

func TestUpdateClearsValidUntilWithEmptyString(t *testing.T) {
	engine, _ := newTestRouter(uuid.New())

	body := map[string]any{"valid_until": "2026-04-30"}
	for k, v := range createBody {
		body[k] = v
	}
	created := doJSON(engine, http.MethodPost, "/quotes", body)
	var resp transport.QuoteResponse
	_ = json.Unmarshal(created.Body.Bytes(), &resp)
	if resp.ValidUntil == nil || *resp.ValidUntil != "2026-04-30" {
		t.Fatalf("expected valid_until to be stored, got %v", resp.ValidUntil)
	}

	rec := doJSON(engine, http.MethodPut, "/quotes/"+resp.ID.String(), map[string]any{"valid_until": ""})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated transport.QuoteResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.ValidUntil != nil {
		t.Fatalf("expected valid_until to be cleared, got %q", *updated.ValidUntil)
	}

	rec = doJSON(engine, http.MethodPut, "/quotes/"+resp.ID.String(), map[string]any{"valid_until": "2026-13-45"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", rec.Code)
	}
}
