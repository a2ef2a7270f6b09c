package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/famfin/homeledger/internal/apperrors"
	"github.com/famfin/homeledger/internal/core/domain"
	"github.com/famfin/homeledger/internal/core/ports"
	portssvc "github.com/famfin/homeledger/internal/core/ports/services"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	defaultRateTTL       = 15 * time.Minute
	defaultCryptoRateTTL = 5 * time.Minute
	defaultGraceWindow   = 24 * time.Hour
	defaultFetchTimeout  = 5 * time.Second
)

// RateProviderService serves exchange rates from a cache while fresh,
// fetching from the external source otherwise. Concurrent requests for the
// same pair coalesce onto a single outstanding fetch; after a failed fetch a
// rate within the grace window is served flagged stale. Historical requests
// go to the historical store and are never answered with a live rate.
type RateProviderService struct {
	BaseService
	cache      ports.RateCache
	source     ports.RateSource
	historical ports.HistoricalRateStore // optional; nil disables the historical path
	registry   portssvc.CurrencyRegistrySvc

	ttl          time.Duration
	cryptoTTL    time.Duration
	grace        time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	flights singleflight.Group
}

// RateProviderOption is a functional option for configuring the provider.
type RateProviderOption func(*RateProviderService)

// WithRateTTL sets the freshness window for fiat pairs.
func WithRateTTL(ttl time.Duration) RateProviderOption {
	return func(s *RateProviderService) { s.ttl = ttl }
}

// WithCryptoRateTTL sets the freshness window for pairs involving a crypto
// asset, which move faster than fiat.
func WithCryptoRateTTL(ttl time.Duration) RateProviderOption {
	return func(s *RateProviderService) { s.cryptoTTL = ttl }
}

// WithGraceWindow sets how long a cached rate stays usable as a stale
// fallback after a failed refresh.
func WithGraceWindow(grace time.Duration) RateProviderOption {
	return func(s *RateProviderService) { s.grace = grace }
}

// WithFetchTimeout bounds a single external fetch attempt.
func WithFetchTimeout(timeout time.Duration) RateProviderOption {
	return func(s *RateProviderService) { s.fetchTimeout = timeout }
}

// WithHistoricalStore wires the past-dated rate source.
func WithHistoricalStore(store ports.HistoricalRateStore) RateProviderOption {
	return func(s *RateProviderService) { s.historical = store }
}

// WithNowFunc overrides the clock, for tests.
func WithNowFunc(now func() time.Time) RateProviderOption {
	return func(s *RateProviderService) { s.now = now }
}

// NewRateProviderService creates a new RateProviderService.
func NewRateProviderService(cache ports.RateCache, source ports.RateSource, registry portssvc.CurrencyRegistrySvc, options ...RateProviderOption) *RateProviderService {
	svc := &RateProviderService{
		cache:        cache,
		source:       source,
		registry:     registry,
		ttl:          defaultRateTTL,
		cryptoTTL:    defaultCryptoRateTTL,
		grace:        defaultGraceWindow,
		fetchTimeout: defaultFetchTimeout,
		now:          time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure RateProviderService implements the provider facade
var _ portssvc.RateProviderSvc = (*RateProviderService)(nil)

// Rate returns the current base -> quote rate.
func (s *RateProviderService) Rate(ctx context.Context, base, quote domain.CurrencyCode) (domain.ExchangeRate, error) {
	if base == quote {
		return domain.IdentityRate(base, s.now()), nil
	}

	if entry, ok := s.cache.Get(base, quote); ok && entry.Age(s.now()) <= s.pairTTL(base, quote) {
		return entry.Rate, nil
	}

	rate, err := s.fetchCoalesced(ctx, base, quote)
	if err == nil {
		return rate, nil
	}

	// A waiter that was cancelled while the flight is still in progress has
	// no result to fall back to; the flight completes for the others.
	if ctx.Err() != nil {
		return domain.ExchangeRate{}, fmt.Errorf("waiting for rate %s/%s: %w", base, quote, ctx.Err())
	}

	if entry, ok := s.cache.Get(base, quote); ok && entry.Age(s.now()) <= s.grace {
		s.LogWarn(ctx, "Serving stale exchange rate after failed refresh",
			slog.String("base", string(base)),
			slog.String("quote", string(quote)),
			slog.Duration("age", entry.Age(s.now())),
			slog.String("fetch_error", err.Error()))
		stale := entry.Rate
		stale.Stale = true
		return stale, nil
	}

	return domain.ExchangeRate{}, fmt.Errorf("%w: %s/%s: %v", apperrors.ErrRateUnavailable, base, quote, err)
}

// HistoricalRate returns the base -> quote rate as of a past instant. The
// live cache and source are bypassed entirely: when no historical rate
// exists the call fails rather than silently valuing the past at today's
// rate.
func (s *RateProviderService) HistoricalRate(ctx context.Context, base, quote domain.CurrencyCode, at time.Time) (domain.ExchangeRate, error) {
	if base == quote {
		return domain.IdentityRate(base, at), nil
	}
	if s.historical == nil {
		return domain.ExchangeRate{}, fmt.Errorf("%w: no historical rate store configured", apperrors.ErrHistoricalRateUnavailable)
	}

	rate, err := s.historical.FindRateAsOf(ctx, base, quote, at)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("%w: %s/%s as of %s: %v",
			apperrors.ErrHistoricalRateUnavailable, base, quote, at.Format(time.RFC3339), err)
	}
	return *rate, nil
}

// fetchCoalesced funnels concurrent fetches for the same pair onto one
// external call and broadcasts the outcome to every waiter. DoChan rather
// than Do so a waiter whose context is cancelled can abandon the wait while
// the flight keeps running for the rest.
func (s *RateProviderService) fetchCoalesced(ctx context.Context, base, quote domain.CurrencyCode) (domain.ExchangeRate, error) {
	key := string(base) + "/" + string(quote)
	resultCh := s.flights.DoChan(key, func() (any, error) {
		// Detach from the initiating request: its cancellation must not
		// poison the shared result.
		return s.fetchAndStore(context.WithoutCancel(ctx), base, quote)
	})

	select {
	case <-ctx.Done():
		return domain.ExchangeRate{}, ctx.Err()
	case result := <-resultCh:
		if result.Err != nil {
			return domain.ExchangeRate{}, result.Err
		}
		return result.Val.(domain.ExchangeRate), nil
	}
}

// fetchAndStore performs the external fetch with one bounded retry, then
// replaces the cache entry wholesale and records the observation for
// historical valuation.
func (s *RateProviderService) fetchAndStore(ctx context.Context, base, quote domain.CurrencyCode) (domain.ExchangeRate, error) {
	rate, err := s.fetchOnce(ctx, base, quote)
	if err != nil {
		rate, err = s.fetchOnce(ctx, base, quote)
	}
	if err != nil {
		return domain.ExchangeRate{}, err
	}

	if rate.RateID == "" {
		rate.RateID = uuid.NewString()
	}
	if rate.ObservedAt.IsZero() {
		rate.ObservedAt = s.now()
	}
	rate.BaseCurrency = base
	rate.QuoteCurrency = quote
	rate.Stale = false

	s.cache.Put(base, quote, domain.RateCacheEntry{Rate: rate, FetchedAt: s.now()})

	if s.historical != nil {
		if saveErr := s.historical.SaveRate(ctx, rate); saveErr != nil {
			s.LogWarn(ctx, "Failed to record fetched rate in history",
				slog.String("base", string(base)),
				slog.String("quote", string(quote)),
				slog.String("error", saveErr.Error()))
		}
	}

	return rate, nil
}

func (s *RateProviderService) fetchOnce(ctx context.Context, base, quote domain.CurrencyCode) (domain.ExchangeRate, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	rate, err := s.source.FetchRate(fetchCtx, base, quote)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("fetching %s/%s from %s: %w", base, quote, s.source.Name(), err)
	}
	if !rate.Rate.IsPositive() {
		return domain.ExchangeRate{}, fmt.Errorf("source %s returned non-positive rate %s for %s/%s",
			s.source.Name(), rate.Rate.String(), base, quote)
	}
	return rate, nil
}

func (s *RateProviderService) pairTTL(base, quote domain.CurrencyCode) time.Duration {
	if s.registry == nil {
		return s.ttl
	}
	if s.isCrypto(base) || s.isCrypto(quote) {
		return s.cryptoTTL
	}
	return s.ttl
}

func (s *RateProviderService) isCrypto(code domain.CurrencyCode) bool {
	currency, err := s.registry.Lookup(string(code))
	return err == nil && currency.IsCrypto
}
