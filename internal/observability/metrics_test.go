package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return InitMetrics(reg), reg
}

func TestInitMetrics_registersAllMetrics(t *testing.T) {
	m, reg := newTestMetrics(t)
	if m == nil {
		t.Fatal("InitMetrics returned nil")
	}

	// Counters with no observations yet do not appear in Gather, so touch
	// one label set per instrument first.
	m.RecordHTTPRequest(http.MethodGet, "/ui/categories", 200, time.Millisecond)
	m.RecordBackendRequest(http.MethodGet, "/categories", 200, time.Millisecond)
	m.RecordMalformedResponse("categories")
	m.RecordValidationFailure("categories", "name", "min_length")
	m.RecordConfirmation("categories", "delete", "confirmed")
	m.RecordLoad("categories", "ok", 3)
	m.RecordLogin("ok")
	m.RecordRejectedSession()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	expected := []string{
		"console_http_requests_total",
		"console_http_request_duration_seconds",
		"console_backend_requests_total",
		"console_backend_request_duration_seconds",
		"console_backend_malformed_responses_total",
		"console_validation_failures_total",
		"console_confirmations_total",
		"console_collection_size",
		"console_loads_total",
		"console_logins_total",
		"console_rejected_sessions_total",
		"console_active_sessions",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %q not registered", name)
		}
	}
}

func TestRecordLoad_setsCollectionSizeOnlyOnSuccess(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.RecordLoad("products", "ok", 7)
	if got := testutil.ToFloat64(m.CollectionSize.WithLabelValues("products")); got != 7 {
		t.Fatalf("collection size = %v, want 7", got)
	}

	m.RecordLoad("products", "error", 0)
	if got := testutil.ToFloat64(m.CollectionSize.WithLabelValues("products")); got != 7 {
		t.Fatalf("failed load must not reset the gauge, got %v", got)
	}
}

func TestMetricsMiddleware_usesRoutePattern(t *testing.T) {
	m, _ := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.MetricsMiddleware)
	r.Get("/ui/categories/{id}/edit-request", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ui/categories/42/edit-request", nil))

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(
		http.MethodGet, "/ui/categories/{id}/edit-request", "202"))
	if got != 1 {
		t.Fatalf("counter = %v, want 1 observation under the route pattern", got)
	}
}
