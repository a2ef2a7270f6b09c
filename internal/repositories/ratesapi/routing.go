package ratesapi

import (
	"context"

	"github.com/famfin/homeledger/internal/core/domain"
	"github.com/famfin/homeledger/internal/core/ports"
	portssvc "github.com/famfin/homeledger/internal/core/ports/services"
)

// RoutingSource dispatches fetches to a fiat or crypto source based on the
// base currency's registry metadata. Crypto assets are quoted crypto-first
// (BTC/USD), so the base side decides.
type RoutingSource struct {
	registry portssvc.CurrencyRegistrySvc
	fiat     ports.RateSource
	crypto   ports.RateSource
}

// NewRoutingSource creates a routing source over the two upstreams.
func NewRoutingSource(registry portssvc.CurrencyRegistrySvc, fiat, crypto ports.RateSource) *RoutingSource {
	return &RoutingSource{registry: registry, fiat: fiat, crypto: crypto}
}

// Ensure RoutingSource implements the rate source port
var _ ports.RateSource = (*RoutingSource)(nil)

// Name identifies the source for logging and rate provenance.
func (s *RoutingSource) Name() string {
	return "router(" + s.fiat.Name() + "," + s.crypto.Name() + ")"
}

// FetchRate returns the current base -> quote rate from the upstream that
// quotes the base currency's asset class.
func (s *RoutingSource) FetchRate(ctx context.Context, base, quote domain.CurrencyCode) (domain.ExchangeRate, error) {
	if currency, err := s.registry.Lookup(string(base)); err == nil && currency.IsCrypto {
		return s.crypto.FetchRate(ctx, base, quote)
	}
	return s.fiat.FetchRate(ctx, base, quote)
}
