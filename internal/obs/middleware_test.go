package obs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/noah-isme/tcm-pricing/internal/obs"
)

func TestHTTPMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("tcm", []float64{1, 10}, registry)
	handler := obs.HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	req = req.WithContext(obs.WithRoutePattern(req.Context(), "/api/v1/invoices"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}

	total := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/api/v1/invoices", "204"))
	if total != 1 {
		t.Fatalf("expected counter to be 1, got %v", total)
	}

	samples := testutil.CollectAndCount(metrics.ReqDur)
	if samples == 0 {
		t.Fatalf("expected histogram sample")
	}

	if metrics.InFlight != nil {
		if val := testutil.ToFloat64(metrics.InFlight); val != 0 {
			t.Fatalf("expected no in-flight requests, got %v", val)
		}
	}
}

func TestHTTPMetricsUseChiRoutePattern(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("tcm", nil, registry)
	r := chi.NewRouter()
	r.Use(obs.HTTPObs{Metrics: metrics}.Middleware)
	r.Get("/api/v1/invoices/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/invoices/INV-1-ABCD", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if got := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/api/v1/invoices/{id}", "200")); got != 1 {
		t.Fatalf("expected route pattern label, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "unmatched", "404")); got != 1 {
		t.Fatalf("expected unmatched label, got %v", got)
	}
}

func TestHTTPMetricsReuseExistingCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := obs.NewHTTPMetrics("tcm", nil, registry)
	second := obs.NewHTTPMetrics("tcm", nil, registry)
	if first.ReqTotal != second.ReqTotal {
		t.Fatal("expected second registration to reuse the first counter")
	}
}

func TestParseBucketsCSV(t *testing.T) {
	got := obs.ParseBucketsCSV(" 5, x, -1, , 20")
	if len(got) != 2 || got[0] != 5 || got[1] != 20 {
		t.Fatalf("unexpected buckets: %v", got)
	}
	if obs.ParseBucketsCSV("") != nil {
		t.Fatal("expected nil for blank input")
	}
}

func TestDomainMetricsRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()
	obs.MustRegisterDomainMetrics("tcm", registry)
	if obs.InvoicesGeneratedTotal == nil || obs.SKUConflictsTotal == nil {
		t.Fatal("expected domain counters to be initialised")
	}
	obs.InvoiceArchiveTotal.WithLabelValues("stored").Inc()
	if v := testutil.ToFloat64(obs.InvoiceArchiveTotal.WithLabelValues("stored")); v != 1 {
		t.Fatalf("expected archive counter 1, got %v", v)
	}
}
