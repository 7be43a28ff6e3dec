package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"comment-gateway/internal/config"
	"comment-gateway/internal/metrics"
)

// FromConfig builds the list cache. Redis is preferred; when it cannot be
// reached the in-process LRU is used instead. A disabled cache is nil.
// The returned close function is never nil.
func FromConfig(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*ListCache, func() error, error) {
	noop := func() error { return nil }
	if !cfg.Cache.Enabled {
		logger.Info("List cache disabled")
		return nil, noop, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	client, err := NewRedisClient(pingCtx, cfg.Redis, logger)
	if err == nil {
		logger.Info("List cache backed by redis", zap.Duration("ttl", cfg.Cache.TTL))
		return New(NewRedisStore(client), cfg.Cache.TTL, m, logger), client.Close, nil
	}
	logger.Warn("Redis unavailable, falling back to in-process list cache", zap.Error(err))

	store, err := NewMemoryStore(cfg.Cache.Size)
	if err != nil {
		return nil, noop, err
	}
	logger.Info("List cache backed by memory",
		zap.Int("size", cfg.Cache.Size),
		zap.Duration("ttl", cfg.Cache.TTL),
	)
	return New(store, cfg.Cache.TTL, m, logger), noop, nil
}
