package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProviderIdentity marks the synthetic 1:1 rate returned for same-currency
// requests. Identity rates never touch the cache or any external source.
const ProviderIdentity = "identity"

// ExchangeRate is a directional base -> quote rate observed at a point in
// time. The inverse direction is a separate rate: it is fetched or stored
// explicitly, never derived as the reciprocal, since the upstream source may
// carry a bid/ask spread.
type ExchangeRate struct {
	RateID        string          `json:"rateID"`
	BaseCurrency  CurrencyCode    `json:"baseCurrency"`
	QuoteCurrency CurrencyCode    `json:"quoteCurrency"`
	Rate          decimal.Decimal `json:"rate"` // quote units per one base unit, > 0
	ObservedAt    time.Time       `json:"observedAt"`
	Provider      string          `json:"provider"`
	Stale         bool            `json:"stale"` // served from the grace window after a failed refresh
}

// IdentityRate returns the synthetic 1:1 rate for a currency onto itself.
func IdentityRate(code CurrencyCode, at time.Time) ExchangeRate {
	return ExchangeRate{
		BaseCurrency:  code,
		QuoteCurrency: code,
		Rate:          decimal.NewFromInt(1),
		ObservedAt:    at,
		Provider:      ProviderIdentity,
	}
}

// RateCacheEntry is a cached rate plus the instant it was fetched. Entries
// are replaced wholesale on refresh; staleness is a judgement the provider
// makes on read, not state the cache maintains.
type RateCacheEntry struct {
	Rate      ExchangeRate
	FetchedAt time.Time
}

// Age returns how long ago the entry was fetched.
func (e RateCacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// ConversionResult carries a converted amount together with the rate that
// produced it, so callers can display an auditable trail.
type ConversionResult struct {
	Source    Money        `json:"source"`
	Converted Money        `json:"converted"`
	Rate      ExchangeRate `json:"rate"`
}
