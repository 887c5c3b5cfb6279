package bookings

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/middleware"
	"github.com/richxcame/carwash-booking/pkg/pagination"
	"github.com/richxcame/carwash-booking/pkg/validation"
)

// Handler handles HTTP requests for bookings
type Handler struct {
	service *Service
}

// NewHandler creates a new booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public booking routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
}

// RegisterAdminRoutes registers the admin booking routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/history", h.GetStatusHistory)
		bookings.PATCH("/:id", h.UpdateBooking)
	}
}

// CreateBooking accepts a booking wizard submission
// POST /api/v1/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	resp, err := h.service.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err, "Failed to create booking")
		return
	}

	common.SuccessResponseWithStatus(c, http.StatusCreated, resp, "Booking confirmed")
}

// GetBooking returns a booking by human or numeric id
// GET /api/v1/admin/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err, "Failed to get booking")
		return
	}

	common.SuccessResponse(c, booking)
}

// GetStatusHistory returns the status changes of a booking
// GET /api/v1/admin/bookings/:id/history
func (h *Handler) GetStatusHistory(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	history, err := h.service.StatusHistory(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err, "Failed to get booking history")
		return
	}

	common.SuccessResponse(c, history)
}

// UpdateBooking applies a partial update
// PATCH /api/v1/admin/bookings/:id
func (h *Handler) UpdateBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	booking, err := h.service.UpdateBooking(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleError(c, err, "Failed to update booking")
		return
	}

	common.SuccessResponseWithStatus(c, http.StatusOK, booking, "Booking updated")
}

// ListBookings lists bookings
// GET /api/v1/admin/bookings?status=confirmed&date_from=2025-01-01&date_to=2025-01-31&zone_id=1&customer_id=2&limit=20&offset=0
func (h *Handler) ListBookings(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		middleware.RespondWithValidationError(c, err)
		return
	}
	params := pagination.ParseParams(c)

	bookings, total, err := h.service.ListBookings(c.Request.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		common.HandleError(c, err, "Failed to list bookings")
		return
	}

	common.SuccessResponseWithMeta(c, bookings, pagination.BuildMeta(params.Limit, params.Offset, total))
}

func (h *Handler) bookingID(c *gin.Context) (int64, bool) {
	id, err := h.service.IDFormat().Parse(c.Param("id"))
	if err != nil {
		common.HandleError(c, err, "Invalid booking id")
		return 0, false
	}
	return id, true
}

// parseListFilter reads the list filters. date_to covers the whole day.
func parseListFilter(c *gin.Context) (*ListFilter, error) {
	verr := &validation.ValidationError{}
	filter := &ListFilter{}

	if raw := c.Query("status"); raw != "" {
		status := Status(raw)
		if !status.Valid() {
			verr.AddError("status", "must be a booking status")
		}
		filter.Status = &status
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			verr.AddError("date_from", "must be a date (YYYY-MM-DD)")
		}
		filter.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			verr.AddError("date_to", "must be a date (YYYY-MM-DD)")
		}
		next := t.AddDate(0, 0, 1)
		filter.DateTo = &next
	}
	if raw := c.Query("zone_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			verr.AddError("zone_id", "must be a positive integer")
		}
		filter.ZoneID = &id
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			verr.AddError("customer_id", "must be a positive integer")
		}
		filter.CustomerID = &id
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return filter, nil
}
