package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// getTestMetrics returns metrics bound to a throwaway registry
func getTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

// TestMetricsInitialization tests that all metrics are properly initialized
func TestMetricsInitialization(t *testing.T) {
	m := getTestMetrics()

	if m.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal should not be nil")
	}
	if m.HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration should not be nil")
	}
	if m.ExternalAPIRequestDuration == nil {
		t.Error("ExternalAPIRequestDuration should not be nil")
	}
	if m.ExternalAPIRequestsTotal == nil {
		t.Error("ExternalAPIRequestsTotal should not be nil")
	}
	if m.ExternalAPIErrors == nil {
		t.Error("ExternalAPIErrors should not be nil")
	}
	if m.CommentsCreatedTotal == nil {
		t.Error("CommentsCreatedTotal should not be nil")
	}
	if m.CommentsEditedTotal == nil {
		t.Error("CommentsEditedTotal should not be nil")
	}
	if m.CommentsDeletedTotal == nil {
		t.Error("CommentsDeletedTotal should not be nil")
	}
	if m.CommentsRestoredTotal == nil {
		t.Error("CommentsRestoredTotal should not be nil")
	}
	if m.RefreshTotal == nil {
		t.Error("RefreshTotal should not be nil")
	}
	if m.StaleResponsesDiscarded == nil {
		t.Error("StaleResponsesDiscarded should not be nil")
	}
	if m.LocalRejectionsTotal == nil {
		t.Error("LocalRejectionsTotal should not be nil")
	}
	if m.CacheLookupsTotal == nil {
		t.Error("CacheLookupsTotal should not be nil")
	}
}

func TestMetricNamesUseNamespace(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, nil)

	// Vec metrics only show up once a label set exists
	m.RecordHTTPRequest("GET", "/health", 200, 0)
	m.RecordExternalAPICall("/api/v1/comments/1", "GET", 500, 0, nil)
	m.RecordRefresh("tree", nil)
	m.IncrementLocalRejection("validation")
	m.RecordCacheLookup(true)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}
	for _, f := range families {
		name := f.GetName()
		if len(name) < len(namespace)+1 || name[:len(namespace)+1] != namespace+"_" {
			t.Errorf("metric %q is missing the %q prefix", name, namespace)
		}
		for _, r := range name {
			if r >= 'A' && r <= 'Z' {
				t.Errorf("metric %q is not snake_case", name)
				break
			}
		}
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/v1/comments/posts/42/tree", "/api/v1/comments/posts/{id}/tree"},
		{"/api/v1/comments/posts/42/flat?limit=10", "/api/v1/comments/posts/{id}/flat"},
		{"/api/v1/comments/7", "/api/v1/comments/{id}"},
		{"/api/v1/comments/7/restore", "/api/v1/comments/{id}/restore"},
		{"/api/v1/comments/posts/3", "/api/v1/comments/posts/{id}"},
		{"/a/1/2/3", "/a/{id}/{id}/{id}"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeEndpoint(tt.in); got != tt.want {
				t.Errorf("normalizeEndpoint(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestShouldSkipEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/metrics", true},
		{"/health", true},
		{"/ready", true},
		{"/api/comments/health", true},
		{"/api/comments/metrics", true},
		{"/api/v1/comments/1", false},
		{"/posts/1/comments", false},
	}

	for _, tt := range tests {
		if got := ShouldSkipEndpoint(tt.path); got != tt.want {
			t.Errorf("ShouldSkipEndpoint(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name   string
		status int
		err    error
		want   string
	}{
		{"bad request", 400, nil, "bad_request"},
		{"validation", 422, nil, "unprocessable_entity"},
		{"teapot", 418, nil, "client_error"},
		{"bad gateway", 502, nil, "bad_gateway"},
		{"refused", 0, errString("dial tcp: connection refused"), "connection_refused"},
		{"deadline", 0, errString("context deadline exceeded"), "timeout"},
		{"canceled", 0, errString("context canceled"), "canceled"},
		{"other", 0, errString("boom"), "network_error"},
		{"nothing", 200, nil, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getErrorType(tt.status, tt.err); got != tt.want {
				t.Errorf("getErrorType(%d, %v) = %q, want %q", tt.status, tt.err, got, tt.want)
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
