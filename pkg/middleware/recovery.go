package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/logger"
	"go.uber.org/zap"
)

// Recovery converts a handler panic into the standard 500 envelope. The
// panic value is logged, never returned to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.WithContext(c.Request.Context()).Error("Handler panicked",
				zap.Any("panic", rec),
				zap.String("route", c.FullPath()),
				zap.String("method", c.Request.Method),
				zap.Stack("stack"),
			)
			if !c.Writer.Written() {
				common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
			}
			c.Abort()
		}()

		c.Next()
	}
}
