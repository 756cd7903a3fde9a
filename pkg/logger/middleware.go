package logger

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the header used to propagate request IDs
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds inbound IDs so clients cannot bloat every log line
const maxRequestIDLength = 128

// RequestIDMiddleware is a Gin middleware that adds a request ID to the request context.
// An inbound X-Request-ID is reused; otherwise a new UUID is generated.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.New().String()
		}

		c.Request = c.Request.WithContext(ContextWithRequestID(c.Request.Context(), requestID))
		c.Set(string(RequestIDKey), requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
