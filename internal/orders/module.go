// Package orders provides the orders domain module, including conversion of
// approved quotes into orders.
package orders

import (
	apphttp "quote_order_backend/internal/http"
	"quote_order_backend/internal/orders/handler"
	"quote_order_backend/internal/orders/ports"
	"quote_order_backend/internal/orders/repository"
	"quote_order_backend/internal/orders/service"
	"quote_order_backend/platform/events"
	"quote_order_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the orders domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new orders module. locker may be nil, which disables
// the cross-process conversion guard.
func NewModule(pool *pgxpool.Pool, quotes ports.QuoteReader, locker ports.ConversionLocker, eventBus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, quotes, eventBus)
	if locker != nil {
		svc.SetConversionLocker(locker)
	}

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "orders"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/orders"))
	m.handler.RegisterConversionRoute(ctx.Protected.Group("/quotes"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
