package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	ordertransport "quote_order_backend/internal/orders/transport"
	quotetransport "quote_order_backend/internal/quotes/transport"
	"quote_order_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type quoteStats struct {
	stats quotetransport.QuoteStatsResponse
	err   error
}

func (q quoteStats) Stats(context.Context, uuid.UUID) (*quotetransport.QuoteStatsResponse, error) {
	if q.err != nil {
		return nil, q.err
	}
	return &q.stats, nil
}

type orderStats struct {
	stats ordertransport.OrderStatsResponse
	err   error
}

func (o orderStats) Stats(context.Context, uuid.UUID) (*ordertransport.OrderStatsResponse, error) {
	if o.err != nil {
		return nil, o.err
	}
	return &o.stats, nil
}

func TestSummaryCombinesStats(t *testing.T) {
	svc := NewService(
		quoteStats{stats: quotetransport.QuoteStatsResponse{Total: 5, Approved: 4}},
		orderStats{stats: ordertransport.OrderStatsResponse{Total: 2, Pending: 2}},
	)

	summary, err := svc.Summary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Quotes.Total != 5 || summary.Orders.Pending != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.ConversionRatio != 0.5 {
		t.Fatalf("expected ratio 0.5, got %v", summary.ConversionRatio)
	}
}

func TestSummaryRatioWithoutApprovedQuotes(t *testing.T) {
	svc := NewService(quoteStats{}, orderStats{stats: ordertransport.OrderStatsResponse{Total: 3}})

	summary, err := svc.Summary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ConversionRatio != 0 {
		t.Fatalf("expected zero ratio, got %v", summary.ConversionRatio)
	}
}

func TestSummaryFailsWhenEitherSideFails(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(quoteStats{}, orderStats{err: boom})

	if _, err := svc.Summary(context.Background(), uuid.New()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestSummaryHandlerRequiresOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(quoteStats{}, orderStats{}))

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/dashboard"))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	authed := gin.New()
	h.RegisterRoutes(authed.Group("/dashboard", func(c *gin.Context) {
		c.Set(httpkit.ContextOwnerIDKey, uuid.New())
	}))
	rec = httptest.NewRecorder()
	authed.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var summary Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
}
