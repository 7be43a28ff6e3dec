package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/quick"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"

	"comment-gateway/internal/metrics"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

func setupTestRouter(m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics(m))
	return router
}

func requestCount(t *testing.T, m *metrics.Metrics, method, endpoint, status string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := m.HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Write(metric); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return metric.Counter.GetValue()
}

// For any status code the counter of its class grows by exactly one per request
func TestProperty_HTTPRequestMetricsIncrement(t *testing.T) {
	m := newTestMetrics()
	router := setupTestRouter(m)
	endpoint := "/api/comments/posts/:postId/tree"
	var statusCode int
	router.GET(endpoint, func(c *gin.Context) {
		c.Status(statusCode)
	})

	property := func(code uint16) bool {
		statusCode = 200 + int(code)%400

		before := requestCount(t, m, http.MethodGet, endpoint, categorize(statusCode))
		req := httptest.NewRequest(http.MethodGet, "/api/comments/posts/7/tree", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		after := requestCount(t, m, http.MethodGet, endpoint, categorize(statusCode))

		return w.Code == statusCode && after == before+1
	}

	if err := quick.Check(property, &quick.Config{MaxCount: 100}); err != nil {
		t.Errorf("Property test failed: %v", err)
	}
}

func categorize(code int) string {
	return string(rune('0'+code/100)) + "xx"
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	m := newTestMetrics()
	router := setupTestRouter(m)
	router.GET("/api/comments/:commentId", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, id := range []string{"1", "2", "3"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/comments/"+id, nil))
	}

	if got := requestCount(t, m, http.MethodGet, "/api/comments/:commentId", "2xx"); got != 3 {
		t.Errorf("expected 3 requests on the route pattern, got %v", got)
	}
}

func TestMetrics_SkipsHealthAndMetrics(t *testing.T) {
	m := newTestMetrics()
	router := setupTestRouter(m)
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if got := requestCount(t, m, http.MethodGet, path, "2xx"); got != 0 {
			t.Errorf("%s should not be recorded, got %v", path, got)
		}
	}
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	m := newTestMetrics()
	router := setupTestRouter(m)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere/123", nil))

	if got := requestCount(t, m, http.MethodGet, "unmatched", "4xx"); got != 1 {
		t.Errorf("expected unmatched 404 to be recorded once, got %v", got)
	}
}
