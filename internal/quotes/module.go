// Package quotes provides the quotes domain module.
package quotes

import (
	apphttp "quote_order_backend/internal/http"
	"quote_order_backend/internal/quotes/handler"
	"quote_order_backend/internal/quotes/repository"
	"quote_order_backend/internal/quotes/service"
	"quote_order_backend/platform/events"
	"quote_order_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotes domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new quotes module with all dependencies wired.
// phone may be nil, in which case phone numbers are stored trimmed.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, phone service.PhoneNormalizer) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, phone)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	quotes := ctx.Protected.Group("/quotes")
	m.handler.RegisterRoutes(quotes)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
