package pricecache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"position_tracker/internal/domain/entity"
)

// DefaultTTL is the maximum age of a cached price entry.
const DefaultTTL = 60 * time.Second

// Cache is a TTL cache of USD price facts keyed by lowercased token address.
// Expired entries are treated as absent on lookup; there is no background
// eviction. Concurrent writes to the same key are last-write-wins, which is
// acceptable because entries are idempotent value facts.
type Cache struct {
	inner *gocache.Cache
	ttl   time.Duration
}

// New creates a price cache with the given TTL. A non-positive TTL falls back
// to DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	// Cleanup interval 0 disables the janitor goroutine; expiry is checked
	// lazily on Get.
	return &Cache{inner: gocache.New(ttl, 0), ttl: ttl}
}

// Lookup returns the cached entry for a token address. It reports false both
// when the address was never stored and when the stored entry has expired.
func (c *Cache) Lookup(tokenAddress string) (entity.PriceEntry, bool) {
	v, found := c.inner.Get(strings.ToLower(tokenAddress))
	if !found {
		return entity.PriceEntry{}, false
	}
	e, ok := v.(entity.PriceEntry)
	return e, ok
}

// Store inserts or overwrites the price entry for a token address.
func (c *Cache) Store(tokenAddress string, e entity.PriceEntry) {
	key := strings.ToLower(tokenAddress)
	e.TokenAddress = key
	c.inner.Set(key, e, gocache.DefaultExpiration)
}

// Clear removes every entry and returns the number of entries dropped.
func (c *Cache) Clear() int {
	n := c.inner.ItemCount()
	c.inner.Flush()
	return n
}

// Size returns the number of entries currently held, which may include
// entries that have expired but not yet been evicted.
func (c *Cache) Size() int {
	return c.inner.ItemCount()
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}
