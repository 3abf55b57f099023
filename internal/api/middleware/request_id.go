package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/prosperva/gridstate/internal/shared/id"
)

// RequestIDHeader carries the request id on both request and response.
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a ULID request id to every request, honoring one
// supplied by the caller so ids correlate across services.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = id.NewRequestID().String()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set(RequestIDHeader, reqID)
		c.Next()
	}
}
