package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// LRUCache implements Cache on top of ristretto, bounded by both total byte
// size and entry count. Per-entry expiry uses ristretto's native TTL
// support. Metrics are enabled so the status and cache-admin endpoints can
// report real hit/miss counters.
type LRUCache struct {
	inner      *ristretto.Cache
	defaultTTL time.Duration
}

// NewLRU creates a cache bounded to maxSizeMB megabytes and roughly
// maxEntries entries. defaultTTL applies to Set calls with a zero TTL.
func NewLRU(maxSizeMB, maxEntries int64, defaultTTL time.Duration) (*LRUCache, error) {
	// Ristretto wants ~10x the expected entry count for its admission
	// counters.
	counters := maxEntries * 10
	if counters < 1000 {
		counters = 1000
	}

	inner, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: counters,
		MaxCost:     maxSizeMB << 20,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}

	return &LRUCache{inner: inner, defaultTTL: defaultTTL}, nil
}

func (c *LRUCache) Get(key string) ([]byte, bool) {
	val, found := c.inner.Get(key)
	if !found {
		return nil, false
	}
	data, ok := val.([]byte)
	if !ok {
		c.inner.Del(key)
		return nil, false
	}
	return data, true
}

// Set stores value under key. Cost is the payload size in bytes; ristretto
// may reject the entry under memory pressure, which is acceptable for a
// read-through cache.
func (c *LRUCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	_ = c.inner.SetWithTTL(key, value, int64(len(value)), ttl)

	// Flush the set buffers so a Get immediately after Set observes the
	// entry. The fact service relies on read-after-write within a request.
	c.inner.Wait()
}

func (c *LRUCache) Delete(key string) {
	c.inner.Del(key)
}

func (c *LRUCache) Clear() {
	c.inner.Clear()
}

func (c *LRUCache) Stats() Stats {
	m := c.inner.Metrics
	return Stats{
		Hits:      m.Hits(),
		Misses:    m.Misses(),
		KeysAdded: m.KeysAdded(),
		Evictions: m.KeysEvicted(),
		Size:      int64(m.CostAdded() - m.CostEvicted()),
		Items:     int64(m.KeysAdded() - m.KeysEvicted()),
	}
}

// Close releases the cache's background goroutines.
func (c *LRUCache) Close() {
	c.inner.Close()
}
