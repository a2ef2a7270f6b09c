package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/famfin/homeledger/internal/apperrors"
	"github.com/famfin/homeledger/internal/core/domain"
	"github.com/famfin/homeledger/internal/core/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRepository implements ports.HistoricalRateStore using
// pgxpool. Every observed rate is kept, so past-dated valuations read the
// most recent observation at or before the requested instant.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// NewPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func NewPgxExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure PgxExchangeRateRepository implements the historical store port
var _ ports.HistoricalRateStore = (*PgxExchangeRateRepository)(nil)

// SaveRate records an observed rate.
func (r *PgxExchangeRateRepository) SaveRate(ctx context.Context, rate domain.ExchangeRate) error {
	if rate.BaseCurrency == rate.QuoteCurrency {
		return fmt.Errorf("%w: base and quote currencies cannot be the same", apperrors.ErrValidation)
	}
	if !rate.Rate.IsPositive() {
		return fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}

	rateID := rate.RateID
	if rateID == "" {
		rateID = uuid.NewString()
	}

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO exchange_rates (
			exchange_rate_id, base_currency_code, quote_currency_code, rate, provider, observed_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (base_currency_code, quote_currency_code, observed_at) DO NOTHING`,
		rateID, string(rate.BaseCurrency), string(rate.QuoteCurrency),
		rate.Rate, rate.Provider, rate.ObservedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate: %w", err)
	}
	return nil
}

// FindRateAsOf retrieves the most recent base -> quote rate observed at or
// before the given instant. Only the exact ordered pair is consulted: the
// inverse direction is a different rate and is never derived by reciprocal.
func (r *PgxExchangeRateRepository) FindRateAsOf(ctx context.Context, base, quote domain.CurrencyCode, at time.Time) (*domain.ExchangeRate, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT exchange_rate_id, base_currency_code, quote_currency_code, rate, provider, observed_at
		FROM exchange_rates
		WHERE base_currency_code = $1 AND quote_currency_code = $2 AND observed_at <= $3
		ORDER BY observed_at DESC
		LIMIT 1`,
		string(base), string(quote), at,
	)

	var rate domain.ExchangeRate
	var baseCode, quoteCode string
	err := row.Scan(&rate.RateID, &baseCode, &quoteCode, &rate.Rate, &rate.Provider, &rate.ObservedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no rate for %s/%s at or before %s",
				apperrors.ErrNotFound, base, quote, at.Format(time.RFC3339))
		}
		return nil, fmt.Errorf("failed to query exchange rate: %w", err)
	}
	rate.BaseCurrency = domain.CurrencyCode(baseCode)
	rate.QuoteCurrency = domain.CurrencyCode(quoteCode)
	return &rate, nil
}
