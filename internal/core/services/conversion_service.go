package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/famfin/homeledger/internal/core/domain"
	portssvc "github.com/famfin/homeledger/internal/core/ports/services"
)

// ConversionService converts Money values between currencies using rates
// from the provider, rounding to the target currency's minor unit with ties
// away from zero. Registry, rate and precision errors from its dependencies
// propagate untranslated so callers see the originating error kind.
type ConversionService struct {
	BaseService
	registry portssvc.CurrencyRegistrySvc
	rates    portssvc.RateProviderSvc
}

// NewConversionService creates a new ConversionService.
func NewConversionService(registry portssvc.CurrencyRegistrySvc, rates portssvc.RateProviderSvc) *ConversionService {
	return &ConversionService{registry: registry, rates: rates}
}

// Ensure ConversionService implements the conversion facade
var _ portssvc.ConversionSvcFacade = (*ConversionService)(nil)

// Convert converts money into the target currency at the current rate.
func (s *ConversionService) Convert(ctx context.Context, money domain.Money, targetCurrency string) (domain.ConversionResult, error) {
	return s.convert(ctx, money, targetCurrency, time.Now(), func(base, quote domain.CurrencyCode) (domain.ExchangeRate, error) {
		return s.rates.Rate(ctx, base, quote)
	})
}

// ConvertAt converts money into the target currency at a past instant.
func (s *ConversionService) ConvertAt(ctx context.Context, money domain.Money, targetCurrency string, at time.Time) (domain.ConversionResult, error) {
	return s.convert(ctx, money, targetCurrency, at, func(base, quote domain.CurrencyCode) (domain.ExchangeRate, error) {
		return s.rates.HistoricalRate(ctx, base, quote, at)
	})
}

func (s *ConversionService) convert(ctx context.Context, money domain.Money, targetCurrency string, asOf time.Time, rateFor func(base, quote domain.CurrencyCode) (domain.ExchangeRate, error)) (domain.ConversionResult, error) {
	// Fail fast on an unknown target before asking for any rate.
	target, err := s.registry.Lookup(targetCurrency)
	if err != nil {
		return domain.ConversionResult{}, err
	}

	// Same-currency results carry the valuation instant in their audit
	// metadata, so a historical identity conversion is dated at the requested
	// instant, not at call time.
	if money.CurrencyCode() == target.CurrencyCode {
		return domain.ConversionResult{
			Source:    money,
			Converted: money,
			Rate:      domain.IdentityRate(target.CurrencyCode, asOf),
		}, nil
	}

	rate, err := rateFor(money.CurrencyCode(), target.CurrencyCode)
	if err != nil {
		return domain.ConversionResult{}, err
	}

	converted := domain.NewMoneyRounded(money.Amount().Mul(rate.Rate), target)

	s.LogDebug(ctx, "Converted amount",
		slog.String("from", money.String()),
		slog.String("to", converted.String()),
		slog.String("rate", rate.Rate.String()),
		slog.String("provider", rate.Provider),
		slog.Bool("stale", rate.Stale))

	return domain.ConversionResult{Source: money, Converted: converted, Rate: rate}, nil
}

// String renders a conversion result for audit display, e.g.
// "100.00 EUR -> 110.00 USD @ 1.1 (frankfurter, 2026-08-28T10:00:00Z)".
func FormatConversion(result domain.ConversionResult) string {
	return fmt.Sprintf("%s -> %s @ %s (%s, %s)",
		result.Source, result.Converted, result.Rate.Rate.String(),
		result.Rate.Provider, result.Rate.ObservedAt.Format(time.RFC3339))
}
