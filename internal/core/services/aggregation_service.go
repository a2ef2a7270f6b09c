package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/famfin/homeledger/internal/apperrors"
	"github.com/famfin/homeledger/internal/core/domain"
	portssvc "github.com/famfin/homeledger/internal/core/ports/services"
)

// AggregationService sums mixed-currency batches into a single target
// currency. Values are grouped by currency and each group is summed with
// exact decimal addition, so the provider is asked for at most one rate per
// distinct pair per call. That single rate snapshot makes aggregation
// associative: sub-batch totals sum to the same grand total as one big call.
type AggregationService struct {
	BaseService
	registry   portssvc.CurrencyRegistrySvc
	conversion portssvc.ConversionSvcFacade
}

// NewAggregationService creates a new AggregationService.
func NewAggregationService(registry portssvc.CurrencyRegistrySvc, conversion portssvc.ConversionSvcFacade) *AggregationService {
	return &AggregationService{registry: registry, conversion: conversion}
}

// Ensure AggregationService implements the aggregation facade
var _ portssvc.AggregationSvcFacade = (*AggregationService)(nil)

// Aggregate sums values into the target currency at current rates.
func (s *AggregationService) Aggregate(ctx context.Context, values []domain.Money, targetCurrency string) (domain.Money, error) {
	summary, err := s.Summarize(ctx, values, targetCurrency)
	if err != nil {
		return domain.Money{}, err
	}
	return summary.Total, nil
}

// AggregateAt sums values into the target currency at rates as of a past
// instant.
func (s *AggregationService) AggregateAt(ctx context.Context, values []domain.Money, targetCurrency string, at time.Time) (domain.Money, error) {
	summary, err := s.SummarizeAt(ctx, values, targetCurrency, at)
	if err != nil {
		return domain.Money{}, err
	}
	return summary.Total, nil
}

// Summarize aggregates at current rates and returns the per-currency
// breakdown alongside the total.
func (s *AggregationService) Summarize(ctx context.Context, values []domain.Money, targetCurrency string) (portssvc.AggregationSummary, error) {
	return s.summarize(ctx, values, targetCurrency, func(subtotal domain.Money) (domain.ConversionResult, error) {
		return s.conversion.Convert(ctx, subtotal, targetCurrency)
	})
}

// SummarizeAt aggregates at rates as of a past instant.
func (s *AggregationService) SummarizeAt(ctx context.Context, values []domain.Money, targetCurrency string, at time.Time) (portssvc.AggregationSummary, error) {
	return s.summarize(ctx, values, targetCurrency, func(subtotal domain.Money) (domain.ConversionResult, error) {
		return s.conversion.ConvertAt(ctx, subtotal, targetCurrency, at)
	})
}

func (s *AggregationService) summarize(ctx context.Context, values []domain.Money, targetCurrency string, convert func(subtotal domain.Money) (domain.ConversionResult, error)) (portssvc.AggregationSummary, error) {
	target, err := s.registry.Lookup(targetCurrency)
	if err != nil {
		return portssvc.AggregationSummary{}, err
	}

	// Group by currency; within a group addition is exact since all members
	// share the group's minor unit.
	subtotals := make(map[domain.CurrencyCode]domain.Money)
	order := make([]domain.CurrencyCode, 0)
	for _, value := range values {
		code := value.CurrencyCode()
		existing, ok := subtotals[code]
		if !ok {
			subtotals[code] = value
			order = append(order, code)
			continue
		}
		sum, err := existing.Add(value)
		if err != nil {
			return portssvc.AggregationSummary{}, err
		}
		subtotals[code] = sum
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	total := domain.ZeroMoney(target)
	converted := make([]portssvc.CurrencySubtotal, 0, len(order))
	for _, code := range order {
		subtotal := subtotals[code]
		result, err := convert(subtotal)
		if err != nil {
			// First failure aborts the whole call; partially aggregated
			// totals with silently dropped currencies are worse than no
			// answer.
			return portssvc.AggregationSummary{}, fmt.Errorf("%w: converting %s subtotal: %w",
				apperrors.ErrAggregationFailed, code, err)
		}

		total, err = total.Add(result.Converted)
		if err != nil {
			return portssvc.AggregationSummary{}, fmt.Errorf("%w: summing %s subtotal: %w",
				apperrors.ErrAggregationFailed, code, err)
		}
		converted = append(converted, portssvc.CurrencySubtotal{
			Subtotal:  subtotal,
			Converted: result.Converted,
			Rate:      result.Rate,
		})
	}

	s.LogDebug(ctx, "Aggregated batch",
		slog.Int("values", len(values)),
		slog.Int("currencies", len(order)),
		slog.String("total", total.String()))

	return portssvc.AggregationSummary{Total: total, Subtotals: converted}, nil
}
