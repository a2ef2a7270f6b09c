package memory_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/famfin/homeledger/internal/core/domain"
	"github.com/famfin/homeledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(base, quote domain.CurrencyCode, rate string, fetchedAt time.Time) domain.RateCacheEntry {
	return domain.RateCacheEntry{
		Rate: domain.ExchangeRate{
			BaseCurrency:  base,
			QuoteCurrency: quote,
			Rate:          decimal.RequireFromString(rate),
			ObservedAt:    fetchedAt,
			Provider:      "test",
		},
		FetchedAt: fetchedAt,
	}
}

func TestRateCache_GetMissing(t *testing.T) {
	cache := memory.NewRateCache()

	_, ok := cache.Get("EUR", "USD")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestRateCache_PutAndGet(t *testing.T) {
	cache := memory.NewRateCache()
	now := time.Now()
	cache.Put("EUR", "USD", entry("EUR", "USD", "1.10", now))

	got, ok := cache.Get("EUR", "USD")
	require.True(t, ok)
	assert.True(t, got.Rate.Rate.Equal(decimal.RequireFromString("1.10")))
	assert.Equal(t, now, got.FetchedAt)
	assert.Equal(t, 1, cache.Len())
}

func TestRateCache_DirectionalPairs(t *testing.T) {
	cache := memory.NewRateCache()
	now := time.Now()
	cache.Put("EUR", "USD", entry("EUR", "USD", "1.10", now))

	// The inverse direction is a distinct key, never derived.
	_, ok := cache.Get("USD", "EUR")
	assert.False(t, ok)
}

func TestRateCache_PutReplaces(t *testing.T) {
	cache := memory.NewRateCache()
	earlier := time.Now().Add(-time.Hour)
	later := time.Now()

	cache.Put("EUR", "USD", entry("EUR", "USD", "1.10", earlier))
	cache.Put("EUR", "USD", entry("EUR", "USD", "1.12", later))

	got, ok := cache.Get("EUR", "USD")
	require.True(t, ok)
	assert.True(t, got.Rate.Rate.Equal(decimal.RequireFromString("1.12")))
	assert.Equal(t, later, got.FetchedAt)
	assert.Equal(t, 1, cache.Len())
}

func TestRateCache_ConcurrentAccess(t *testing.T) {
	cache := memory.NewRateCache()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		quote := domain.CurrencyCode(fmt.Sprintf("C%02d", i))
		go func() {
			defer wg.Done()
			cache.Put("EUR", quote, entry("EUR", quote, "1.10", now))
		}()
		go func() {
			defer wg.Done()
			cache.Get("EUR", quote)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, cache.Len())
}
