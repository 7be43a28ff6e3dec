package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		checks     map[string]Pinger
		path       string
		wantStatus int
		wantBody   string
	}{
		{"health", nil, "/health", http.StatusOK, "healthy"},
		{"ready without checks", nil, "/ready", http.StatusOK, "ready"},
		{
			name:       "ready with healthy cache",
			checks:     map[string]Pinger{"redis": pingFunc(func(context.Context) error { return nil })},
			path:       "/ready",
			wantStatus: http.StatusOK,
			wantBody:   "ready",
		},
		{
			name:       "redis down",
			checks:     map[string]Pinger{"redis": pingFunc(func(context.Context) error { return errors.New("down") })},
			path:       "/ready",
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "redis connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checks)
			r := gin.New()
			r.GET("/health", h.Health)
			r.GET("/ready", h.Ready)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
