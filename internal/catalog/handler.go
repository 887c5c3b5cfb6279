package catalog

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/middleware"
)

// Handler serves the public catalog and the admin catalog endpoints
type Handler struct {
	service *Service
}

// NewHandler creates a new catalog handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public catalog routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/services", h.ListServices)
		catalog.GET("/addons", h.ListAddons)
		catalog.GET("/zones", h.ListZones)
	}
}

// RegisterAdminRoutes registers the admin catalog routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/services", h.CreateService)
	rg.POST("/addons", h.CreateAddon)
	rg.GET("/pricing-rules", h.ListPricingRules)
	rg.PUT("/pricing-rules/:key", h.UpsertPricingRule)
}

// ListServices lists visible wash services
func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.service.ListServices(c.Request.Context(), true)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch services")
		return
	}
	common.SuccessResponse(c, services)
}

// ListAddons lists visible addons
func (h *Handler) ListAddons(c *gin.Context) {
	addons, err := h.service.ListAddons(c.Request.Context(), true)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch addons")
		return
	}
	common.SuccessResponse(c, addons)
}

// ListZones lists service zones
func (h *Handler) ListZones(c *gin.Context) {
	zones, err := h.service.ListZones(c.Request.Context())
	if err != nil {
		common.HandleError(c, err, "Failed to fetch zones")
		return
	}
	common.SuccessResponse(c, zones)
}

// CreateService creates a wash service
func (h *Handler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	svc, err := h.service.CreateService(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to create service")
		return
	}
	common.SuccessResponseWithStatus(c, http.StatusCreated, svc, "Service created successfully")
}

// CreateAddon creates an addon
func (h *Handler) CreateAddon(c *gin.Context) {
	var req CreateAddonRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	addon, err := h.service.CreateAddon(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to create addon")
		return
	}
	common.SuccessResponseWithStatus(c, http.StatusCreated, addon, "Addon created successfully")
}

// ListPricingRules lists pricing rules. Query: enabled_only=true, keys=a,b
func (h *Handler) ListPricingRules(c *gin.Context) {
	enabledOnly := c.Query("enabled_only") == "true"

	var keys []string
	if raw := c.Query("keys"); raw != "" {
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}

	rules, err := h.service.ListPricingRules(c.Request.Context(), enabledOnly, keys)
	if err != nil {
		common.HandleError(c, err, "Failed to fetch pricing rules")
		return
	}
	common.SuccessResponse(c, rules)
}

// UpsertPricingRule creates or replaces the rule stored under :key
func (h *Handler) UpsertPricingRule(c *gin.Context) {
	var req UpsertPricingRuleRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	rule, err := h.service.UpsertPricingRule(c.Request.Context(), c.Param("key"), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to update pricing rule")
		return
	}
	common.SuccessResponseWithStatus(c, http.StatusOK, rule, "Pricing rule saved")
}
