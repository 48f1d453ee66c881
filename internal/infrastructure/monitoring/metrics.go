package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "procintf"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Access point metrics
	EndpointCalls    *prometheus.CounterVec
	EndpointDuration *prometheus.HistogramVec
	LockWait         prometheus.Histogram

	// Lifecycle metrics
	LifecycleState prometheus.Gauge
	Nodes          prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time

	// Snapshot for the health endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current values for the JSON health endpoint
type Snapshot struct {
	TotalRequests int64   `json:"total_requests"`
	TotalErrors   int64   `json:"total_errors"`
	Writes        int64   `json:"writes"`
	Reads         int64   `json:"reads"`
	Rejected      int64   `json:"rejected"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// NewMetrics creates a collector backed by its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_size_bytes",
				Help:      "HTTP request size in bytes",
				Buckets:   []float64{0, 4, 8, 12, 16, 64, 256, 1024},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   []float64{16, 64, 256, 1024, 4096},
			},
			[]string{"method", "path"},
		),

		EndpointCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "endpoint_calls_total",
				Help:      "Access point calls by endpoint, operation and outcome",
			},
			[]string{"endpoint", "op", "outcome"},
		),
		EndpointDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "endpoint_duration_seconds",
				Help:      "Access point handler duration in seconds",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"endpoint", "op"},
		),
		LockWait: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "context_lock_wait_seconds",
				Help:      "Time spent waiting for the shared context lock",
				Buckets:   []float64{.000001, .00001, .0001, .001, .01, .1, 1},
			},
		),

		LifecycleState: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "lifecycle_state",
				Help:      "Current lifecycle state ordinal",
			},
		),
		Nodes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "registered_nodes",
				Help:      "Number of nodes in the namespace",
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordEndpointCall records one show or apply against an access point
func (m *Metrics) RecordEndpointCall(endpoint, op, outcome string, duration time.Duration) {
	m.EndpointCalls.WithLabelValues(endpoint, op, outcome).Inc()
	m.EndpointDuration.WithLabelValues(endpoint, op).Observe(duration.Seconds())

	m.mu.Lock()
	switch {
	case outcome != OutcomeOK:
		m.snapshot.Rejected++
	case op == OpWrite:
		m.snapshot.Writes++
	default:
		m.snapshot.Reads++
	}
	m.mu.Unlock()
}

// ObserveLockWait records how long a caller waited for the context lock
func (m *Metrics) ObserveLockWait(d time.Duration) {
	m.LockWait.Observe(d.Seconds())
}

// SetLifecycleState sets the lifecycle state gauge
func (m *Metrics) SetLifecycleState(ordinal int) {
	m.LifecycleState.Set(float64(ordinal))
}

// SetNodes sets the registered node gauge
func (m *Metrics) SetNodes(count int) {
	m.Nodes.Set(float64(count))
}

// GetSnapshot returns a copy of the current counters
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
