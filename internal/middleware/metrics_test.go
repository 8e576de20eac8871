package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type metricRecord struct {
	method   string
	endpoint string
	status   string
}

func captureMetrics() (*[]metricRecord, func()) {
	var records []metricRecord
	original := recordHTTPRequest
	recordHTTPRequest = func(method, endpoint, status string, _ time.Duration) {
		records = append(records, metricRecord{method: method, endpoint: endpoint, status: status})
	}
	return &records, func() { recordHTTPRequest = original }
}

func TestMetricsMiddleware(t *testing.T) {
	records, restore := captureMetrics()
	defer restore()

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/performance/user-1", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(*records) != 1 {
		t.Fatalf("expected 1 metric record, got %d", len(*records))
	}
	got := (*records)[0]
	if got.method != http.MethodGet {
		t.Errorf("expected method GET, got %s", got.method)
	}
	if got.endpoint != "/api/performance/:user_id" {
		t.Errorf("expected normalized endpoint, got %s", got.endpoint)
	}
	if got.status != "404" {
		t.Errorf("expected status 404, got %s", got.status)
	}
}

func TestMetricsMiddlewareDefaultStatus(t *testing.T) {
	records, restore := captureMetrics()
	defer restore()

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/interventions/check", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	got := (*records)[0]
	if got.status != "200" {
		t.Errorf("expected implicit 200, got %s", got.status)
	}
	if got.endpoint != "/api/interventions/check" {
		t.Errorf("unexpected endpoint %s", got.endpoint)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/performance/abc-123", "/api/performance/:user_id"},
		{"/api/records/rec-9", "/api/records/:id"},
		{"/api/interventions/apply", "/api/interventions/apply"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		if got := normalizeEndpoint(tt.path); got != tt.want {
			t.Errorf("normalizeEndpoint(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
