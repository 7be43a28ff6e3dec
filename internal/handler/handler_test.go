package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"comment-gateway/internal/cache"
	"comment-gateway/internal/client"
	"comment-gateway/internal/domain"
	"comment-gateway/internal/metrics"
	"comment-gateway/internal/middleware"
	"comment-gateway/internal/render"
	"comment-gateway/internal/response"
	"comment-gateway/internal/session"
)

type testEnv struct {
	router  *gin.Engine
	client  *client.MockCommentClient
	cache   *cache.ListCache
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mock := &client.MockCommentClient{}
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	store, err := cache.NewMemoryStore(16)
	require.NoError(t, err)
	lc := cache.New(store, time.Minute, m, zap.NewNop())

	renderer, err := render.NewRenderer()
	require.NoError(t, err)

	r := gin.New()
	r.HTMLRender = renderer
	r.Use(middleware.OptionalSession(session.NewParser(""), zap.NewNop()))

	comments := NewCommentHandler(mock, lc, m, zap.NewNop())
	api := r.Group("/api/comments")
	{
		api.GET("/posts/:postId/tree", comments.GetTree)
		api.GET("/posts/:postId/flat", comments.GetFlat)
		api.GET("/:commentId", comments.GetComment)

		authed := api.Group("")
		authed.Use(middleware.RequireBearer())
		authed.POST("/posts/:postId", comments.CreateComment)
		authed.PUT("/:commentId", comments.UpdateComment)
		authed.PATCH("/:commentId", comments.PatchComment)
		authed.DELETE("/:commentId", comments.DeleteComment)
		authed.PATCH("/:commentId/restore", comments.RestoreComment)
	}

	pages := NewPageHandler(mock, lc, m, zap.NewNop(), "")
	r.GET("/posts/:postId/comments", pages.Show)
	r.POST("/posts/:postId/comments", pages.Create)
	r.POST("/posts/:postId/comments/:commentId/edit", pages.Edit)
	r.POST("/posts/:postId/comments/:commentId/delete", pages.Delete)

	return &testEnv{router: r, client: mock, cache: lc, metrics: m}
}

func (e *testEnv) do(method, target, token string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(target, token string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func testToken(t *testing.T, userID int64, username string, admin bool) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"is_admin": admin,
	}).SignedString([]byte("unused"))
	require.NoError(t, err)
	return token
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

// sampleTree returns a root by user 10 with a reply by user 20
func sampleTree() []*domain.Comment {
	return []*domain.Comment{
		{ID: 1, PostID: 7, AuthorID: 10, Content: "Root comment", AuthorUsername: strPtr("alice"), Children: []*domain.Comment{
			{ID: 2, PostID: 7, ParentID: int64Ptr(1), AuthorID: 20, Depth: 1, Content: "A reply"},
		}},
	}
}
