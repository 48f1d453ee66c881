package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/procintf/internal/shared/fault"
)

// RetryAfter is the hint sent with interrupted requests
const RetryAfter = "1"

// StatusOf maps a classified error to an HTTP status
func StatusOf(err error) int {
	switch fault.KindOf(err) {
	case fault.KindValidation, fault.KindRange:
		return http.StatusBadRequest
	case fault.KindPermission:
		return http.StatusForbidden
	case fault.KindNotFound:
		return http.StatusNotFound
	case fault.KindInterrupted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", RetryAfter)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
		"code":    fault.CodeOf(err),
	})
}
