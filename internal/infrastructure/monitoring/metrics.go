package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Grid state metrics
	GridReads  prometheus.Counter
	GridWrites *prometheus.CounterVec

	// Navigation metrics
	NavigationPushes prometheus.Counter
	NavigationPops   prometheus.Counter
	SnapshotsPruned  prometheus.Counter

	// Persistence metrics
	PersistWrites prometheus.Counter
	PersistErrors prometheus.Counter

	// Session metrics
	SessionsActive prometheus.Gauge
	SessionsEnded  prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSEvents      *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridstate_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gridstate_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "path"},
		),
		ResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gridstate_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		GridReads: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gridstate_grid_reads_total",
				Help: "Total number of grid state reads",
			},
		),
		GridWrites: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridstate_grid_writes_total",
				Help: "Total number of grid state writes",
			},
			[]string{"op"},
		),

		NavigationPushes: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gridstate_navigation_pushes_total",
				Help: "Total number of navigation snapshots pushed",
			},
		),
		NavigationPops: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gridstate_navigation_pops_total",
				Help: "Total number of navigation snapshots popped",
			},
		),
		SnapshotsPruned: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gridstate_snapshots_pruned_total",
				Help: "Total number of navigation snapshots pruned by age",
			},
		),

		PersistWrites: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gridstate_persist_writes_total",
				Help: "Total number of session payload writes",
			},
		),
		PersistErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gridstate_persist_errors_total",
				Help: "Total number of failed session payload writes",
			},
		),

		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "gridstate_sessions_active",
				Help: "Number of sessions with an in-memory store",
			},
		),
		SessionsEnded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gridstate_sessions_ended_total",
				Help: "Total number of sessions explicitly ended",
			},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "gridstate_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridstate_ws_events_total",
				Help: "Total number of WebSocket events published",
			},
			[]string{"type"},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "gridstate_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// IncGridRead records a grid state read
func (m *Metrics) IncGridRead() {
	m.GridReads.Inc()
}

// IncGridWrite records a grid state write for the given operation
// ("update", "set" or "restore")
func (m *Metrics) IncGridWrite(op string) {
	m.GridWrites.WithLabelValues(op).Inc()
}

// IncNavigationPush records a pushed snapshot
func (m *Metrics) IncNavigationPush() {
	m.NavigationPushes.Inc()
}

// IncNavigationPop records a popped snapshot
func (m *Metrics) IncNavigationPop() {
	m.NavigationPops.Inc()
}

// AddSnapshotsPruned records pruned snapshots
func (m *Metrics) AddSnapshotsPruned(count int) {
	if count > 0 {
		m.SnapshotsPruned.Add(float64(count))
	}
}

// IncPersistWrite records a session payload write
func (m *Metrics) IncPersistWrite() {
	m.PersistWrites.Inc()
}

// IncPersistError records a failed session payload write
func (m *Metrics) IncPersistError() {
	m.PersistErrors.Inc()
}

// SetSessionsActive sets the number of in-memory sessions
func (m *Metrics) SetSessionsActive(count int) {
	m.SessionsActive.Set(float64(count))
}

// IncSessionsEnded increments the ended sessions counter
func (m *Metrics) IncSessionsEnded() {
	m.SessionsEnded.Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// IncWSEvent records a published WebSocket event
func (m *Metrics) IncWSEvent(eventType string) {
	m.WSEvents.WithLabelValues(eventType).Inc()
}
