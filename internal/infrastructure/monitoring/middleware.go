package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/procintf/internal/shared/fault"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		c.Next()

		// Route templates keep label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())
		respSize := int64(c.Writer.Size())
		if respSize < 0 {
			respSize = 0
		}

		metrics.RecordHTTPRequest(method, path, status, duration, reqSize, respSize)
	}
}

// Timer measures one access point call
type Timer struct {
	start    time.Time
	metrics  *Metrics
	endpoint string
	op       string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, endpoint, op string) *Timer {
	return &Timer{
		start:    time.Now(),
		metrics:  metrics,
		endpoint: endpoint,
		op:       op,
	}
}

// Stop records the duration with the outcome derived from err. Calls that
// named no registered node are folded into one label.
func (t *Timer) Stop(err error) {
	endpoint := t.endpoint
	if fault.KindOf(err) == fault.KindNotFound {
		endpoint = UnknownEndpoint
	}
	t.metrics.RecordEndpointCall(endpoint, t.op, Outcome(err), time.Since(t.start))
}
