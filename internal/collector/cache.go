package collector

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// DefaultCacheTTL is how long fetched series are reused.
const DefaultCacheTTL = 10 * time.Minute

// CacheKey identifies one history request.
type CacheKey struct {
	Symbol   string
	Period   model.Period
	Interval model.Interval
}

// Cache memoizes fetched bars for a fixed time window. Safe for concurrent use.
// A nil *Cache is a valid, always-missing cache.
type Cache struct {
	lru *expirable.LRU[CacheKey, []model.Bar]
}

// NewCache creates a cache holding at most size entries (0 means unbounded) for ttl.
func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[CacheKey, []model.Bar](size, nil, ttl)}
}

// Get returns a copy of the cached bars for key.
func (c *Cache) Get(key CacheKey) ([]model.Bar, bool) {
	if c == nil {
		return nil, false
	}
	bars, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return append([]model.Bar(nil), bars...), true
}

// Put stores bars under key. Empty results are not cached.
func (c *Cache) Put(key CacheKey, bars []model.Bar) {
	if c == nil || len(bars) == 0 {
		return
	}
	c.lru.Add(key, append([]model.Bar(nil), bars...))
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}
