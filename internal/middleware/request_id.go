package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key carrying the request ID
const RequestIDKey = "request_id"

// requestIDMaxLen caps inbound request IDs to keep log fields bounded
const requestIDMaxLen = 64

// RequestID accepts an inbound X-Request-ID header or generates a UUID, stores
// it in the request context and echoes it in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(RequestIDKey, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}
