package fleetleads

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/middleware"
	"github.com/richxcame/carwash-booking/pkg/pagination"
)

// Handler handles HTTP requests for fleet leads
type Handler struct {
	service *Service
}

// NewHandler creates a new fleet lead handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public lead form
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/fleet-leads", h.CreateFleetLead)
}

// RegisterAdminRoutes registers the lead pipeline routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	leads := rg.Group("/fleet-leads")
	{
		leads.GET("", h.ListFleetLeads)
		leads.PATCH("/:id", h.UpdateStatus)
	}
}

// CreateFleetLead accepts a fleet lead form
// POST /api/v1/fleet-leads
func (h *Handler) CreateFleetLead(c *gin.Context) {
	var req CreateFleetLeadRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	lead, err := h.service.CreateFleetLead(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to create fleet lead")
		return
	}

	common.SuccessResponseWithStatus(c, http.StatusCreated, lead, "Thank you, we will contact you soon")
}

// UpdateStatus moves a lead to another stage
// PATCH /api/v1/admin/fleet-leads/:id
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid fleet lead id")
		return
	}

	var req UpdateStatusRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	lead, err := h.service.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleError(c, err, "Failed to update fleet lead")
		return
	}

	common.SuccessResponse(c, lead)
}

// ListFleetLeads lists leads
// GET /api/v1/admin/fleet-leads?status=new&limit=20&offset=0
func (h *Handler) ListFleetLeads(c *gin.Context) {
	var status *Status
	if raw := c.Query("status"); raw != "" {
		s := Status(raw)
		if !s.Valid() {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid fleet lead status")
			return
		}
		status = &s
	}
	params := pagination.ParseParams(c)

	leads, total, err := h.service.ListFleetLeads(c.Request.Context(), status, params.Limit, params.Offset)
	if err != nil {
		common.HandleError(c, err, "Failed to list fleet leads")
		return
	}

	common.SuccessResponseWithMeta(c, leads, pagination.BuildMeta(params.Limit, params.Offset, total))
}
