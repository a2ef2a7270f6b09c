package memory

import (
	"sync"

	"github.com/famfin/homeledger/internal/core/domain"
	"github.com/famfin/homeledger/internal/core/ports"
)

type pairKey struct {
	base  domain.CurrencyCode
	quote domain.CurrencyCode
}

// RateCache is an in-memory implementation of ports.RateCache: a map from
// ordered currency pair to the most recently fetched rate, safe under
// concurrent readers and writers. Entries are replaced wholesale and never
// expire here; staleness is evaluated by the rate provider on read.
type RateCache struct {
	mu      sync.RWMutex
	entries map[pairKey]domain.RateCacheEntry
}

// NewRateCache creates an empty rate cache.
func NewRateCache() *RateCache {
	return &RateCache{entries: make(map[pairKey]domain.RateCacheEntry)}
}

// Ensure RateCache implements the cache port
var _ ports.RateCache = (*RateCache)(nil)

// Get returns the cached entry for the exact ordered pair, if any.
func (c *RateCache) Get(base, quote domain.CurrencyCode) (domain.RateCacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[pairKey{base: base, quote: quote}]
	return entry, ok
}

// Put stores the entry for the exact ordered pair, replacing any prior one.
func (c *RateCache) Put(base, quote domain.CurrencyCode, entry domain.RateCacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[pairKey{base: base, quote: quote}] = entry
}

// Len returns the number of cached pairs.
func (c *RateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
