package ports

import (
	"context"
	"time"

	"github.com/famfin/homeledger/internal/core/domain"
)

// RateSource fetches a live exchange rate for an ordered currency pair from
// an external API. Implementations must honour ctx cancellation and apply
// their own transport timeouts.
type RateSource interface {
	// FetchRate returns the current base -> quote rate.
	FetchRate(ctx context.Context, base, quote domain.CurrencyCode) (domain.ExchangeRate, error)

	// Name identifies the source for logging and rate provenance.
	Name() string
}

// HistoricalRateStore answers past-dated rate queries and records observed
// rates for later historical valuation.
type HistoricalRateStore interface {
	// FindRateAsOf returns the most recent base -> quote rate observed at or
	// before the given instant, or apperrors.ErrNotFound when none exists.
	FindRateAsOf(ctx context.Context, base, quote domain.CurrencyCode, at time.Time) (*domain.ExchangeRate, error)

	// SaveRate records an observed rate.
	SaveRate(ctx context.Context, rate domain.ExchangeRate) error
}

// RateCache is a passive store of the most recently fetched rate per ordered
// currency pair. Get returns false on a miss; Put replaces any prior entry
// for the exact pair wholesale. The cache holds no expiry policy of its own:
// freshness is the rate provider's call.
type RateCache interface {
	Get(base, quote domain.CurrencyCode) (domain.RateCacheEntry, bool)
	Put(base, quote domain.CurrencyCode, entry domain.RateCacheEntry)
}
