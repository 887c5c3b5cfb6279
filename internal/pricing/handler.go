package pricing

import (
	"github.com/gin-gonic/gin"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/middleware"
)

// Handler handles HTTP requests for pricing
type Handler struct {
	engine *Engine
}

// NewHandler creates a new pricing handler
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// Quote prices a wizard selection without booking it
func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	breakdown, err := h.engine.Compute(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to calculate price")
		return
	}

	common.SuccessResponse(c, breakdown.ToResponse())
}

// RegisterRoutes registers pricing routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	pricing := rg.Group("/pricing")
	{
		pricing.POST("/quote", h.Quote)
	}
}
