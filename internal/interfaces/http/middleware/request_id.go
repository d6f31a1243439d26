package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key holding the request correlation id
const RequestIDKey = "request_id"

// RequestIDHeader is the wire header carrying the request correlation id
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a correlation id, reusing the client's
// header value when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request correlation id, or empty
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
