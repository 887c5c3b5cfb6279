package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/middleware"
)

// Handler lets admins message customers directly
type Handler struct {
	dispatcher *Dispatcher
}

// NewHandler creates a new notifications handler
func NewHandler(dispatcher *Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// RegisterAdminRoutes registers the admin notification routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/notifications", h.Send)
}

// Send delivers a templated or custom WhatsApp message
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	receipt, err := h.dispatcher.Send(c.Request.Context(), &Message{
		Phone:    req.Phone,
		Template: req.Template,
		Vars:     req.Vars,
		Lang:     req.Lang,
		Custom:   req.Custom,
	})
	if err != nil {
		common.HandleError(c, err, "Failed to send message")
		return
	}

	common.SuccessResponseWithStatus(c, http.StatusOK, receipt, "Message sent")
}
