package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "/api/comments", cfg.Server.BasePath)
	assert.Equal(t, 10*time.Second, cfg.CommentAPI.Timeout)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "@every 30s", cfg.Watch.Schedule)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9100
  base_path: /comments
logger:
  level: debug
comment_api:
  base_url: http://backend:8000
  timeout: 3s
cache:
  enabled: true
  ttl: 1m
  size: 16
cors:
  allowed_origins:
    - https://admin.example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "/comments", cfg.Server.BasePath)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "http://backend:8000", cfg.CommentAPI.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.CommentAPI.Timeout)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"https://admin.example.com"}, cfg.CORS.AllowedOrigins)
	// untouched sections keep their defaults
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "comment_api:\n  base_url: http://from-file\n")

	t.Setenv("PORT", "9200")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("FASTAPI_BACKEND_URL", "http://fastapi:8000")
	t.Setenv("COMMENT_API_TIMEOUT", "750ms")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL", "15s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "http://fastapi:8000", cfg.CommentAPI.BaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.CommentAPI.Timeout)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Cache.TTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
}

func TestLoad_CommentAPIURLWinsOverFastAPI(t *testing.T) {
	t.Setenv("FASTAPI_BACKEND_URL", "http://fastapi:8000")
	t.Setenv("COMMENT_API_URL", "http://comments:8000")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://comments:8000", cfg.CommentAPI.BaseURL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{"bad port", map[string]string{"PORT": "eighty"}, ""},
		{"port out of range", map[string]string{"PORT": "70000"}, ""},
		{"bad timeout", map[string]string{"COMMENT_API_TIMEOUT": "soon"}, ""},
		{"bad cache flag", map[string]string{"CACHE_ENABLED": "maybe"}, ""},
		{"malformed yaml", nil, "server: [unclosed"},
		{"zero ttl with cache", nil, "cache:\n  enabled: true\n  ttl: 0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "none.yaml")
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path())

	t.Setenv("CONFIG_PATH", "/etc/comment-gateway.yaml")
	assert.Equal(t, "/etc/comment-gateway.yaml", Path())
}
