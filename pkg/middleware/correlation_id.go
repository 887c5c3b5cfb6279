package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/carwash-booking/pkg/logger"
)

const (
	// CorrelationIDHeader carries the request id in both directions
	CorrelationIDHeader = "X-Request-ID"
	// CorrelationIDKey is where the id is stored on the gin context
	CorrelationIDKey = "correlation_id"

	maxCorrelationIDLen = 128
)

// CorrelationID tags every request with an id. A caller supplied
// X-Request-ID is kept when it is short enough, otherwise a UUID is issued.
// The id is echoed back and attached to the request context for logging.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" || len(id) > maxCorrelationIDLen {
			id = uuid.NewString()
		}

		c.Set(CorrelationIDKey, id)
		c.Header(CorrelationIDHeader, id)
		c.Request = c.Request.WithContext(logger.ContextWithCorrelationID(c.Request.Context(), id))

		c.Next()
	}
}

// GetCorrelationID returns the id set by CorrelationID, or "" outside it
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(CorrelationIDKey)
}
