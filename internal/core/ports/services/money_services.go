package services

import (
	"context"
	"time"

	"github.com/famfin/homeledger/internal/core/domain"
)

// CurrencyRegistrySvc is the read-only currency metadata registry. It is
// provisioned once at process start and never mutated afterwards.
type CurrencyRegistrySvc interface {
	// Lookup resolves a raw code to its metadata, or fails with
	// apperrors.ErrUnsupportedCurrency. Codes are matched case-insensitively.
	Lookup(code string) (domain.Currency, error)

	// IsSupported reports whether the code resolves to a registry entry.
	IsSupported(code string) bool

	// MinorUnitDigits returns the minor unit digit count for a code.
	MinorUnitDigits(code string) (int32, error)

	// ListCurrencies returns every registered currency, fiat first, then
	// alphabetical within each group.
	ListCurrencies() []domain.Currency
}

// RateProviderSvc obtains exchange rates. The live and historical paths are
// deliberately separate methods so a live rate can never slip into a
// historical valuation.
type RateProviderSvc interface {
	// Rate returns the current base -> quote rate, served from cache while
	// fresh, fetched (with coalescing of concurrent requests for the same
	// pair) otherwise. After a failed fetch a cached rate within the grace
	// window is returned with its Stale flag set; beyond that the call fails
	// with apperrors.ErrRateUnavailable.
	Rate(ctx context.Context, base, quote domain.CurrencyCode) (domain.ExchangeRate, error)

	// HistoricalRate returns the base -> quote rate as of a past instant, or
	// fails with apperrors.ErrHistoricalRateUnavailable.
	HistoricalRate(ctx context.Context, base, quote domain.CurrencyCode, at time.Time) (domain.ExchangeRate, error)
}

// ConversionSvcFacade converts a single Money value between currencies.
type ConversionSvcFacade interface {
	// Convert converts money into the target currency at the current rate.
	Convert(ctx context.Context, money domain.Money, targetCurrency string) (domain.ConversionResult, error)

	// ConvertAt converts money into the target currency at a past instant.
	ConvertAt(ctx context.Context, money domain.Money, targetCurrency string, at time.Time) (domain.ConversionResult, error)
}

// CurrencySubtotal is the exact per-currency sum of an aggregation input
// together with its converted value.
type CurrencySubtotal struct {
	Subtotal  domain.Money        `json:"subtotal"`
	Converted domain.Money        `json:"converted"`
	Rate      domain.ExchangeRate `json:"rate"`
}

// AggregationSummary is the audit-friendly view of one aggregation call:
// every per-currency subtotal, the rate that converted it, and the grand
// total in the target currency.
type AggregationSummary struct {
	Total     domain.Money       `json:"total"`
	Subtotals []CurrencySubtotal `json:"subtotals"`
}

// AggregationSvcFacade sums mixed-currency batches into one target currency.
// Each call uses a single rate per currency pair, so splitting a batch and
// summing the partial totals equals aggregating it in one call.
type AggregationSvcFacade interface {
	Aggregate(ctx context.Context, values []domain.Money, targetCurrency string) (domain.Money, error)
	AggregateAt(ctx context.Context, values []domain.Money, targetCurrency string, at time.Time) (domain.Money, error)

	// Summarize is Aggregate plus the per-currency breakdown and rates used.
	Summarize(ctx context.Context, values []domain.Money, targetCurrency string) (AggregationSummary, error)
	SummarizeAt(ctx context.Context, values []domain.Money, targetCurrency string, at time.Time) (AggregationSummary, error)
}

// ServiceContainer holds instances of all the application services. Handlers
// receive this rather than concrete service types.
type ServiceContainer struct {
	Registry    CurrencyRegistrySvc
	Rates       RateProviderSvc
	Conversion  ConversionSvcFacade
	Aggregation AggregationSvcFacade
}
