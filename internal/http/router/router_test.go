package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "quote_order_backend/internal/http"
	"quote_order_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testConfig struct {
	allowAll bool
	origins  []string
}

func (c testConfig) GetHTTPAddr() string            { return ":0" }
func (c testConfig) GetCORSAllowAll() bool          { return c.allowAll }
func (c testConfig) GetCORSOrigins() []string       { return c.origins }
func (c testConfig) GetCORSAllowCreds() bool        { return true }
func (c testConfig) GetRateLimitPerSecond() float64 { return 100 }
func (c testConfig) GetRateLimitBurst() int         { return 100 }
func (c testConfig) GetJWTAccessSecret() string     { return "test-secret" }

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/echo", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	ctx.V1.GET("/public-echo", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

func newApp(health apphttp.HealthChecker) *apphttp.App {
	return &apphttp.App{
		Config:  testConfig{origins: []string{"http://localhost:4200"}},
		Logger:  logger.Discard(),
		Health:  health,
		Modules: []apphttp.Module{echoModule{}},
	}
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealthReflectsDatabase(t *testing.T) {
	rec := serve(New(newApp(pinger{})), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = serve(New(newApp(pinger{err: errors.New("down")})), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine := New(newApp(pinger{}))

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/public-echo", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on public route, got %d", rec.Code)
	}
}

func TestResponsesCarryRequestID(t *testing.T) {
	rec := serve(New(newApp(pinger{})), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id header")
	}
}

func TestCORSPreflightForConfiguredOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/echo", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := serve(New(newApp(pinger{})), req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:4200" {
		t.Fatalf("expected origin to be allowed, got %q", got)
	}
}

func TestNoCORSWithoutOrigins(t *testing.T) {
	if newCORS(testConfig{}) != nil {
		t.Fatal("expected no CORS middleware when nothing is allowed")
	}
	if newCORS(testConfig{allowAll: true}) == nil {
		t.Fatal("expected CORS middleware for allow-all")
	}
}
