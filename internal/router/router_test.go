package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"comment-gateway/internal/client"
	"comment-gateway/internal/dto"
	"comment-gateway/internal/metrics"
)

// setupTestRouter creates a router backed by a mock Comment Service
func setupTestRouter(t *testing.T, basePath string) (http.Handler, *client.MockCommentClient, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, zap.NewNop())
	mock := &client.MockCommentClient{}

	r, err := Setup(Config{
		Logger:         zap.NewNop(),
		Metrics:        m,
		CommentClient:  mock,
		BasePath:       basePath,
		AllowedOrigins: []string{"http://localhost:3000"},
		Gatherer:       registry,
	})
	require.NoError(t, err)
	return r, mock, registry
}

func serve(h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// TestMetricsEndpoint_RootPath tests /metrics endpoint at root path
func TestMetricsEndpoint_RootPath(t *testing.T) {
	r, _, _ := setupTestRouter(t, "")

	// one request so that counters have samples
	serve(r, http.MethodGet, "/posts/7/comments", nil)

	w := serve(r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	body := w.Body.String()
	assert.Contains(t, body, "# HELP")
	assert.Contains(t, body, "# TYPE")
	assert.Contains(t, body, "comment_gateway_http_requests_total")
}

// TestMetricsEndpoint_WithBasePath tests /metrics endpoint with base path configured
func TestMetricsEndpoint_WithBasePath(t *testing.T) {
	basePath := "/api/comments"
	r, _, _ := setupTestRouter(t, basePath)

	for _, path := range []string{"/metrics", basePath + "/metrics", "/health", basePath + "/health", basePath + "/ready"} {
		t.Run(path, func(t *testing.T) {
			w := serve(r, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestMetricsEndpoint_DefaultRegistry(t *testing.T) {
	r, err := Setup(Config{
		Logger:        zap.NewNop(),
		Metrics:       metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop()),
		CommentClient: &client.MockCommentClient{},
	})
	require.NoError(t, err)

	w := serve(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

// TestMetricsEndpoint_PrometheusFormat tests Prometheus format validation
func TestMetricsEndpoint_PrometheusFormat(t *testing.T) {
	r, _, _ := setupTestRouter(t, "/api/comments")
	serve(r, http.MethodGet, "/api/comments/posts/7/tree", nil)

	w := serve(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	hasHelpLine, hasTypeLine, hasMetricLine := false, false, false
	for _, line := range strings.Split(w.Body.String(), "\n") {
		switch {
		case strings.HasPrefix(line, "# HELP"):
			hasHelpLine = true
		case strings.HasPrefix(line, "# TYPE"):
			hasTypeLine = true
		case line != "" && strings.Contains(line, " "):
			hasMetricLine = true
		}
	}

	assert.True(t, hasHelpLine, "Should have at least one HELP line")
	assert.True(t, hasTypeLine, "Should have at least one TYPE line")
	assert.True(t, hasMetricLine, "Should have at least one metric line with value")
}

func TestRoutes(t *testing.T) {
	r, mock, _ := setupTestRouter(t, "/api/comments")
	auth := map[string]string{"Authorization": "Bearer tok"}

	tests := []struct {
		name       string
		method     string
		target     string
		header     map[string]string
		wantStatus int
		wantCall   string
	}{
		{"tree", http.MethodGet, "/api/comments/posts/7/tree", nil, http.StatusOK, "ListTree"},
		{"flat", http.MethodGet, "/api/comments/posts/7/flat", nil, http.StatusOK, "ListFlat"},
		{"single", http.MethodGet, "/api/comments/5", nil, http.StatusOK, "Get"},
		{"delete", http.MethodDelete, "/api/comments/5", auth, http.StatusOK, "Delete"},
		{"restore", http.MethodPatch, "/api/comments/5/restore", auth, http.StatusOK, "Restore"},
		{"delete without auth", http.MethodDelete, "/api/comments/5", nil, http.StatusUnauthorized, ""},
		{"page", http.MethodGet, "/posts/7/comments", nil, http.StatusOK, "ListTree"},
		{"swagger", http.MethodGet, "/api/comments/swagger/doc.json", nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := 0
			if tt.wantCall != "" {
				before = mock.Calls(tt.wantCall)
			}

			w := serve(r, tt.method, tt.target, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			if tt.wantCall != "" {
				assert.Equal(t, before+1, mock.Calls(tt.wantCall))
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r, _, _ := setupTestRouter(t, "/api/comments")

	w := serve(r, http.MethodOptions, "/api/comments/posts/7", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCreateThroughRouter(t *testing.T) {
	r, mock, _ := setupTestRouter(t, "/api/comments")
	mock.CreateFunc = func(ctx context.Context, token string, postID int64, req dto.CreateCommentRequest) (*dto.CreateCommentResponse, error) {
		assert.Equal(t, "tok", token)
		return &dto.CreateCommentResponse{ID: 1, PostID: postID, Content: req.Content}, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/comments/posts/7", strings.NewReader(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestPageForms_CookieRequiresSameOrigin(t *testing.T) {
	tests := []struct {
		name        string
		origin      string
		wantStatus  int
		wantDeletes int
	}{
		{"cross-site form", "https://evil.test", http.StatusForbidden, 0},
		{"same host form", "http://example.com", http.StatusSeeOther, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock, _ := setupTestRouter(t, "/api/comments")

			req := httptest.NewRequest(http.MethodPost, "http://example.com/posts/7/comments/1/delete", strings.NewReader("confirm=yes"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("Origin", tt.origin)
			req.AddCookie(&http.Cookie{Name: "access_token", Value: "tok"})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantDeletes, mock.Calls("Delete"))
		})
	}
}
