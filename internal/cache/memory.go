package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem wraps cached data with its expiry
type cacheItem struct {
	Data      []byte
	ExpiresAt time.Time
}

// MemoryStore is an in-process LRU store for single-replica deployments
type MemoryStore struct {
	items *lru.Cache[string, cacheItem]
	now   func() time.Time

	mu          sync.Mutex
	generations map[string]int64
}

// NewMemoryStore creates a store holding at most size entries
func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = 256
	}
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{
		items:       l,
		now:         time.Now,
		generations: make(map[string]int64),
	}, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, ok := s.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	if s.now().After(val.ExpiresAt) {
		s.items.Remove(key)
		return nil, false, nil
	}
	return val.Data, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.items.Add(key, cacheItem{
		Data:      value,
		ExpiresAt: s.now().Add(ttl),
	})
	return nil
}

func (s *MemoryStore) Generation(_ context.Context, scope string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[scope], nil
}

func (s *MemoryStore) BumpGeneration(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[scope]++
	return nil
}

// Len returns the number of entries, expired ones included
func (s *MemoryStore) Len() int {
	return s.items.Len()
}
