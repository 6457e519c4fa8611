package dashboard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"signalflow/config"
	"signalflow/internal/metrics"
	"signalflow/logger"
)

func TestNormalizeAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "0.0.0.0:10000"},
		{":8080", "0.0.0.0:8080"},
		{"localhost", "localhost:10000"},
		{"localhost:9000", "localhost:9000"},
		{"0.0.0.0:10000", "0.0.0.0:10000"},
		{"127.0.0.1", "127.0.0.1:10000"},
		{"http://localhost:8080", "localhost:8080"},
		{"*:7000", "0.0.0.0:7000"},
		{"  :8080  ", "0.0.0.0:8080"},
	}
	for _, tc := range cases {
		if got := normalizeAddress(tc.in); got != tc.want {
			t.Errorf("normalizeAddress(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewServerDisabled(t *testing.T) {
	srv, err := NewServer(config.DashboardConfig{Enabled: false}, logger.GetLogger(), Info{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv != nil {
		t.Errorf("disabled dashboard must yield a nil server")
	}
}

func testServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(config.DashboardConfig{Enabled: true, Address: ":0"}, logger.GetLogger(), Info{
		AppName:           "signalflow-test",
		Version:           "0.0.1",
		SourceChat:        -100,
		TargetChat:        -200,
		KeepAliveInterval: 3 * time.Minute,
	}, func() map[string]interface{} {
		return map[string]interface{}{"forwarded": int64(3)}
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	t.Cleanup(srv.cleanup)
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)
	router, err := srv.buildRouter()
	if err != nil {
		t.Fatalf("buildRouter failed: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "signalflow-test is running") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestStatusPage(t *testing.T) {
	srv := testServer(t)
	router, err := srv.buildRouter()
	if err != nil {
		t.Fatalf("buildRouter failed: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"signalflow-test", "0.0.1", "forwarded", "3m0s"} {
		if !strings.Contains(body, want) {
			t.Errorf("status page missing %q", want)
		}
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv := testServer(t)
	router, err := srv.buildRouter()
	if err != nil {
		t.Fatalf("buildRouter failed: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"forwarded":3`) {
		t.Errorf("unexpected stats payload: %s", rec.Body.String())
	}
}

func TestStatsEndpointShowsRecentMetrics(t *testing.T) {
	srv := testServer(t)
	router, err := srv.buildRouter()
	if err != nil {
		t.Fatalf("buildRouter failed: %v", err)
	}

	metrics.EmitDropMetric(logger.GetLogger(), metrics.DropMetricDuplicate, "BTCUSDT", "dedup")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"duplicates_suppressed", "BTCUSDT", "relay_drops"} {
		if !strings.Contains(body, want) {
			t.Errorf("stats payload missing %q:\n%s", want, body)
		}
	}
}

func TestCleanupDetachesMetricHandler(t *testing.T) {
	srv := testServer(t)
	srv.cleanup()

	before := len(srv.metricStore.snapshot())
	metrics.EmitDropMetric(logger.GetLogger(), metrics.DropMetricSendFailure, "", "writer")

	if after := len(srv.metricStore.snapshot()); after != before {
		t.Errorf("store still receiving metrics after cleanup: %d -> %d", before, after)
	}
}
