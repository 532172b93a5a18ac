package dashboard

import (
	apphttp "quote_order_backend/internal/http"
)

type Module struct {
	handler *Handler
}

func NewModule(quotes QuoteStatsReader, orders OrderStatsReader) *Module {
	return &Module{handler: NewHandler(NewService(quotes, orders))}
}

func (m *Module) Name() string {
	return "dashboard"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/dashboard"))
}

var _ apphttp.Module = (*Module)(nil)
