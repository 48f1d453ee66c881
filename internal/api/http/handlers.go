package http

import (
	"context"
	"io"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/procintf/internal/api/middleware"
	"github.com/GriffinCanCode/procintf/internal/domain/access"
	"github.com/GriffinCanCode/procintf/internal/domain/endpoint"
	"github.com/GriffinCanCode/procintf/internal/domain/lifecycle"
	"github.com/GriffinCanCode/procintf/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/procintf/internal/shared/fault"
)

// MaxBody is the most a write request may carry into the handler. It is
// one byte past the largest accepted input so oversized writes are still
// seen as oversized.
const MaxBody = endpoint.DebugLevelMaxBytes + 2

// Namespace is the view of the access point host the handlers need
type Namespace interface {
	Read(ctx context.Context, p string, caller access.Caller) (string, error)
	Write(ctx context.Context, p string, caller access.Caller, data []byte) (int, error)
	List() []access.NodeInfo
}

// Lifecycle reports the state of the interface
type Lifecycle interface {
	State() lifecycle.State
	Name() string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	ns        Namespace
	lifecycle Lifecycle
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(ns Namespace, lc Lifecycle, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		ns:        ns,
		lifecycle: lc,
		metrics:   metrics,
		logger:    logger,
	}
}

// Register mounts the routes on router
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics/json", h.MetricsJSON)

	router.GET("/proc", h.List)
	router.GET("/proc/:container/:name", h.Read)
	router.PUT("/proc/:container/:name", h.Write)
	router.POST("/proc/:container/:name", h.Write)
}

// Root describes the service
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"service":   "procintf",
		"container": h.lifecycle.Name(),
	})
}

// Health reports whether the access points are being served
func (h *Handlers) Health(c *gin.Context) {
	st := h.lifecycle.State()
	status, code := "healthy", http.StatusOK
	if st != lifecycle.StateReady {
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"lifecycle": st.String(),
		"nodes":     len(h.ns.List()),
	})
}

// MetricsJSON returns the counters snapshot
func (h *Handlers) MetricsJSON(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"metrics": h.metrics.GetSnapshot(),
	})
}

// List returns every registered node
func (h *Handlers) List(c *gin.Context) {
	nodes := h.ns.List()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"nodes":   nodes,
		"count":   len(nodes),
	})
}

// Read serves the show output of one access point as plain text
func (h *Handlers) Read(c *gin.Context) {
	name := c.Param("name")
	p := path.Join(c.Param("container"), name)
	caller := middleware.GetCaller(c)

	timer := monitoring.NewTimer(h.metrics, name, monitoring.OpRead)
	out, err := h.ns.Read(c.Request.Context(), p, caller)
	timer.Stop(err)

	if err != nil {
		h.logger.Debug("Read rejected",
			zap.String("endpoint", p),
			zap.Uint32("caller_uid", caller.UID),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(out))
}

// Write applies the request body to one access point
func (h *Handlers) Write(c *gin.Context) {
	name := c.Param("name")
	p := path.Join(c.Param("container"), name)
	caller := middleware.GetCaller(c)

	// Copy the caller's data into a bounded buffer before any lock is taken
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxBody))
	if err != nil {
		respondError(c, fault.New(fault.KindValidation, "read body", err))
		return
	}

	timer := monitoring.NewTimer(h.metrics, name, monitoring.OpWrite)
	n, err := h.ns.Write(c.Request.Context(), p, caller, data)
	timer.Stop(err)

	if err != nil {
		h.logger.Info("Write rejected",
			zap.String("endpoint", p),
			zap.Uint32("caller_uid", caller.UID),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"written": n,
	})
}
