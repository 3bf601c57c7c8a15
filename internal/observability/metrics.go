package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Histogram bucket definitions.
var (
	httpDurationBuckets    = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	backendDurationBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
)

// Metrics holds all Prometheus metric instruments for the console.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Backend call metrics
	BackendRequestsTotal    *prometheus.CounterVec
	BackendRequestDuration  *prometheus.HistogramVec
	MalformedResponsesTotal *prometheus.CounterVec

	// Catalog metrics
	ValidationFailuresTotal *prometheus.CounterVec
	ConfirmationsTotal      *prometheus.CounterVec
	CollectionSize          *prometheus.GaugeVec
	LoadsTotal              *prometheus.CounterVec

	// Session metrics
	LoginsTotal        *prometheus.CounterVec
	RejectedSessions   prometheus.Counter
	ActiveSessionHints prometheus.Gauge
}

// InitMetrics creates and registers all Prometheus metric instruments.
func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		// HTTP
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path_pattern"}),

		// Backend
		BackendRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_backend_requests_total",
			Help: "Total number of catalog backend requests.",
		}, []string{"method", "path", "status"}),
		BackendRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_backend_request_duration_seconds",
			Help:    "Catalog backend request duration in seconds.",
			Buckets: backendDurationBuckets,
		}, []string{"method", "path"}),
		MalformedResponsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_backend_malformed_responses_total",
			Help: "Total list responses rejected by the normalizer.",
		}, []string{"resource"}),

		// Catalog
		ValidationFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_validation_failures_total",
			Help: "Total draft validation failures.",
		}, []string{"resource", "field", "rule"}),
		ConfirmationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_confirmations_total",
			Help: "Total confirmation workflow outcomes.",
		}, []string{"resource", "action", "outcome"}),
		CollectionSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "console_collection_size",
			Help: "Entities held in each resource collection.",
		}, []string{"resource"}),
		LoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_loads_total",
			Help: "Total collection loads.",
		}, []string{"resource", "status"}),

		// Sessions
		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_logins_total",
			Help: "Total login attempts.",
		}, []string{"status"}),
		RejectedSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "console_rejected_sessions_total",
			Help: "Requests rejected by the session guard.",
		}),
		ActiveSessionHints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "console_active_sessions",
			Help: "Sessions currently held in the store (best effort).",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BackendRequestsTotal,
		m.BackendRequestDuration,
		m.MalformedResponsesTotal,
		m.ValidationFailuresTotal,
		m.ConfirmationsTotal,
		m.CollectionSize,
		m.LoadsTotal,
		m.LoginsTotal,
		m.RejectedSessions,
		m.ActiveSessionHints,
	)

	return m
}

// --- Recording helpers ---

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(method, pathPattern string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(duration.Seconds())
}

// RecordBackendRequest records a catalog backend call.
func (m *Metrics) RecordBackendRequest(method, path string, status int, duration time.Duration) {
	m.BackendRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.BackendRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordMalformedResponse records a list response the normalizer rejected.
func (m *Metrics) RecordMalformedResponse(resource string) {
	m.MalformedResponsesTotal.WithLabelValues(resource).Inc()
}

// RecordValidationFailure records a rejected draft.
func (m *Metrics) RecordValidationFailure(resource, field, rule string) {
	m.ValidationFailuresTotal.WithLabelValues(resource, field, rule).Inc()
}

// RecordConfirmation records a confirmation workflow outcome
// (confirmed, cancelled, or failed).
func (m *Metrics) RecordConfirmation(resource, action, outcome string) {
	m.ConfirmationsTotal.WithLabelValues(resource, action, outcome).Inc()
}

// RecordLoad records a collection load and its resulting size.
func (m *Metrics) RecordLoad(resource, status string, size int) {
	m.LoadsTotal.WithLabelValues(resource, status).Inc()
	if status == "ok" {
		m.CollectionSize.WithLabelValues(resource).Set(float64(size))
	}
}

// RecordLogin records a login attempt.
func (m *Metrics) RecordLogin(status string) {
	m.LoginsTotal.WithLabelValues(status).Inc()
}

// RecordRejectedSession records a request turned away by the session guard.
func (m *Metrics) RecordRejectedSession() {
	m.RejectedSessions.Inc()
}

// --- HTTP Middleware ---

// MetricsMiddleware returns HTTP middleware that records request metrics using
// chi's route pattern (not the actual URL path) to avoid label cardinality
// explosion.
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &metricsResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		m.RecordHTTPRequest(r.Method, routePattern(r), sw.status, time.Since(start))
	})
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// routePattern extracts chi's route pattern from the request context.
// Falls back to the raw URL path if no pattern is found.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}
	pattern := strings.Join(rctx.RoutePatterns, "")
	// chi route patterns have trailing /*, remove it.
	pattern = strings.TrimSuffix(pattern, "/*")
	if pattern == "" {
		return r.URL.Path
	}
	return pattern
}

// metricsResponseWriter wraps http.ResponseWriter to capture the status code.
type metricsResponseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *metricsResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	return w.ResponseWriter.Write(b)
}
