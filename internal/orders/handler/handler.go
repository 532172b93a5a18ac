package handler

import (
	"net/http"
	"strings"

	"quote_order_backend/internal/orders/service"
	"quote_order_backend/internal/orders/transport"
	"quote_order_backend/platform/httpkit"
	"quote_order_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgOrderNotFound    = "order not found"
)

// Handler handles HTTP requests for orders
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new orders handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the order routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/stats", h.Stats)
	rg.GET("/by-number/:number", h.GetByNumber)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// RegisterConversionRoute mounts POST /:id/convert on the quotes group.
func (h *Handler) RegisterConversionRoute(quotes *gin.RouterGroup) {
	quotes.POST("/:id/convert", h.ConvertQuote)
}

// ConvertQuote handles POST /api/v1/quotes/:id/convert
func (h *Handler) ConvertQuote(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	ownerID, ok := mustGetOwnerID(c)
	if !ok {
		return
	}

	result, err := h.svc.ConvertQuote(c.Request.Context(), quoteID, ownerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// List handles GET /api/v1/orders
func (h *Handler) List(c *gin.Context) {
	var req transport.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Details(err))
		return
	}

	ownerID, ok := mustGetOwnerID(c)
	if !ok {
		return
	}

	result, err := h.svc.List(c.Request.Context(), ownerID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Stats handles GET /api/v1/orders/stats
func (h *Handler) Stats(c *gin.Context) {
	ownerID, ok := mustGetOwnerID(c)
	if !ok {
		return
	}

	result, err := h.svc.Stats(c.Request.Context(), ownerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetByID handles GET /api/v1/orders/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	ownerID, ok := mustGetOwnerID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id, ownerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetByNumber handles GET /api/v1/orders/by-number/:number
func (h *Handler) GetByNumber(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	if number == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	ownerID, ok := mustGetOwnerID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByNumber(c.Request.Context(), number, ownerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Update handles PUT /api/v1/orders/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Details(err))
		return
	}

	ownerID, ok := mustGetOwnerID(c)
	if !ok {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, ownerID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Delete handles DELETE /api/v1/orders/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	ownerID, ok := mustGetOwnerID(c)
	if !ok {
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), id, ownerID)
	if httpkit.HandleError(c, err) {
		return
	}
	if !deleted {
		httpkit.Error(c, http.StatusNotFound, msgOrderNotFound, nil)
		return
	}

	httpkit.OK(c, transport.DeleteResponse{Success: true})
}

func mustGetOwnerID(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, false
	}
	return identity.OwnerID(), true
}
