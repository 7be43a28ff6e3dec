package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"comment-gateway/internal/domain"
	"comment-gateway/internal/metrics"
)

// Store is the backend of a ListCache
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Generation returns the current generation of a scope
	Generation(ctx context.Context, scope string) (int64, error)
	// BumpGeneration makes every entry built under the scope unreachable
	BumpGeneration(ctx context.Context, scope string) error
}

// scopeAll is bumped by mutations whose post is unknown (edits and deletes by comment id)
const scopeAll = "all"

func postScope(postID int64) string {
	return fmt.Sprintf("post:%d", postID)
}

// ListCache caches anonymous comment list responses per post, view mode and
// query. Mutations bump a generation so the refetch that follows always misses. A nil *ListCache is a valid cache that never hits.
// Store errors are logged and treated as misses.
type ListCache struct {
	store   Store
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New creates a list cache over store
func New(store Store, ttl time.Duration, m *metrics.Metrics, logger *zap.Logger) *ListCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListCache{store: store, ttl: ttl, metrics: m, logger: logger}
}

func (c *ListCache) key(ctx context.Context, postID int64, mode domain.ViewMode, rawQuery string) (string, error) {
	global, err := c.store.Generation(ctx, scopeAll)
	if err != nil {
		return "", err
	}
	gen, err := c.store.Generation(ctx, postScope(postID))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("comment_gateway:list:%d:%d.%d:%s:%s", postID, global, gen, mode, rawQuery), nil
}

// Entry is the result of a lookup. On a miss it remembers the key the
// lookup was made under, so a body fetched afterwards is stored under the
// generations seen before the fetch. A mutation landing in between leaves
// that body unreachable.
type Entry struct {
	Body []byte
	Hit  bool
	key  string
}

// Get looks up the cached body of a list response
func (c *ListCache) Get(ctx context.Context, postID int64, mode domain.ViewMode, rawQuery string) Entry {
	if c == nil {
		return Entry{}
	}
	key, err := c.key(ctx, postID, mode, rawQuery)
	if err != nil {
		c.logger.Warn("Cache generation lookup failed", zap.Int64("post_id", postID), zap.Error(err))
		c.record(false)
		return Entry{}
	}
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache get failed", zap.String("key", key), zap.Error(err))
		ok = false
	}
	c.record(ok)
	if !ok {
		return Entry{key: key}
	}
	return Entry{Body: data, Hit: true, key: key}
}

// Set stores body under the key of a previous Get. Entries from a nil cache
// or a failed lookup carry no key and are dropped.
func (c *ListCache) Set(ctx context.Context, entry Entry, body []byte) {
	if c == nil || entry.key == "" {
		return
	}
	if err := c.store.Set(ctx, entry.key, body, c.ttl); err != nil {
		c.logger.Warn("Cache set failed", zap.String("key", entry.key), zap.Error(err))
	}
}

// Invalidate drops every cached list of the post
func (c *ListCache) Invalidate(ctx context.Context, postID int64) {
	if c == nil {
		return
	}
	if err := c.store.BumpGeneration(ctx, postScope(postID)); err != nil {
		c.logger.Warn("Cache invalidation failed", zap.Int64("post_id", postID), zap.Error(err))
		return
	}
	c.logger.Debug("Comment list cache invalidated", zap.Int64("post_id", postID))
}

// InvalidateAll drops every cached list
func (c *ListCache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.store.BumpGeneration(ctx, scopeAll); err != nil {
		c.logger.Warn("Cache invalidation failed", zap.Error(err))
		return
	}
	c.logger.Debug("Comment list cache invalidated for all posts")
}

func (c *ListCache) record(hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(hit)
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks the backing store when it is remote; nil caches and local stores are always ready
func (c *ListCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if p, ok := c.store.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
