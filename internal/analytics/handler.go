package analytics

import (
	"github.com/gin-gonic/gin"
	"github.com/richxcame/carwash-booking/pkg/common"
)

// Handler handles HTTP requests for the admin dashboard
type Handler struct {
	service *Service
}

// NewHandler creates a new analytics handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes registers the dashboard routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/overview", h.GetOverview)
}

// GetOverview returns today's operational summary
// GET /api/v1/admin/overview
func (h *Handler) GetOverview(c *gin.Context) {
	overview, err := h.service.GetOverview(c.Request.Context())
	if err != nil {
		common.HandleError(c, err, "Failed to get overview")
		return
	}

	common.SuccessResponse(c, overview)
}
