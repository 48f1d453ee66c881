package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/procintf/internal/domain/access"
)

// Caller credential headers
const (
	HeaderCallerUID = "X-Caller-UID"
	HeaderCallerGID = "X-Caller-GID"
)

const callerKey = "caller"

// Credentials resolves the caller identity from request headers, falling
// back to def for any header that is absent. Malformed ids are rejected.
func Credentials(def access.Caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := def

		if v := c.GetHeader(HeaderCallerUID); v != "" {
			uid, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				badCredential(c, HeaderCallerUID)
				return
			}
			caller.UID = uint32(uid)
		}
		if v := c.GetHeader(HeaderCallerGID); v != "" {
			gid, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				badCredential(c, HeaderCallerGID)
				return
			}
			caller.GID = uint32(gid)
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// GetCaller returns the identity set by Credentials. Without the
// middleware it returns the unprivileged nobody identity.
func GetCaller(c *gin.Context) access.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(access.Caller); ok {
			return caller
		}
	}
	return access.Nobody
}

func badCredential(c *gin.Context, header string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "malformed " + header,
		"code":    "EINVAL",
	})
}
