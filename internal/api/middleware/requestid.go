package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/procintf/internal/shared/id"
)

// HeaderRequestID carries the request identifier in both directions
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID tags every request with an identifier, reusing a valid one
// supplied by the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if !id.IsValid(rid) {
			rid = string(id.NewRequestID())
		}
		c.Set(requestIDKey, rid)
		c.Header(HeaderRequestID, rid)
		c.Next()
	}
}

// GetRequestID returns the identifier set by RequestID, or ""
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
