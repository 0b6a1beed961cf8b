package cache

import (
	"context"
	"flight-route-service/internal/domain"
	"slices"
	"sync"
	"time"
)

// Every sweepInterval writes, Set drops all expired entries.
const sweepInterval = 64

type memoryEntry struct {
	results []domain.PricedResult
	expiry  time.Time
}

// MemoryResultCache is the default in-process TTL cache.
// Values are cloned on the way in and out so callers cannot mutate cached data.
type MemoryResultCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	writes  int
	now     func() time.Time
}

func NewMemoryResultCache() *MemoryResultCache {
	return &MemoryResultCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryResultCache) Get(_ context.Context, key string) ([]domain.PricedResult, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if c.now().After(e.expiry) {
		c.evictIfExpired(key)
		return nil, false, nil
	}

	return cloneResults(e.results), true, nil
}

func (c *MemoryResultCache) Set(_ context.Context, key string, results []domain.PricedResult, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = memoryEntry{results: cloneResults(results), expiry: now.Add(ttl)}

	c.writes++
	if c.writes%sweepInterval == 0 {
		for k, e := range c.entries {
			if now.After(e.expiry) {
				delete(c.entries, k)
			}
		}
	}
	return nil
}

// evictIfExpired re-reads key under the write lock so an entry stored by a
// concurrent Set is never removed.
func (c *MemoryResultCache) evictIfExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && c.now().After(e.expiry) {
		delete(c.entries, key)
	}
}

func cloneResults(in []domain.PricedResult) []domain.PricedResult {
	out := make([]domain.PricedResult, len(in))
	for i, r := range in {
		r.Flights = slices.Clone(r.Flights)
		out[i] = r
	}
	return out
}
