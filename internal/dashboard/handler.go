package dashboard

import (
	"quote_order_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/summary", h.Summary)
}

// Summary handles GET /api/v1/dashboard/summary
func (h *Handler) Summary(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Summary(c.Request.Context(), identity.OwnerID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
