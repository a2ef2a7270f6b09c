package ratesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/famfin/homeledger/internal/core/domain"
	"github.com/famfin/homeledger/internal/core/ports"
	"github.com/shopspring/decimal"
)

// CoinGeckoAPIURL is the default base URL of the CoinGecko API.
const CoinGeckoAPIURL = "https://api.coingecko.com/api/v3"

// coinIDs maps asset symbols to CoinGecko coin ids for the assets the
// registry ships with.
var coinIDs = map[domain.CurrencyCode]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"USDT": "tether",
}

// CoinGeckoSource fetches crypto asset prices from a CoinGecko-style
// `/simple/price` endpoint. Only crypto-base pairs are quoted; the fiat side
// must be one of CoinGecko's vs_currencies. The inverse (fiat -> crypto)
// direction is not derived here: rates are directional.
type CoinGeckoSource struct {
	url    string
	client *http.Client
}

// NewCoinGeckoSource creates a source against the given base URL (the public
// API when empty).
func NewCoinGeckoSource(baseURL string) *CoinGeckoSource {
	if baseURL == "" {
		baseURL = CoinGeckoAPIURL
	}
	return &CoinGeckoSource{
		url: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Ensure CoinGeckoSource implements the rate source port
var _ ports.RateSource = (*CoinGeckoSource)(nil)

// Name identifies the source for logging and rate provenance.
func (s *CoinGeckoSource) Name() string {
	return "coingecko"
}

// FetchRate returns the current base -> quote rate.
func (s *CoinGeckoSource) FetchRate(ctx context.Context, base, quote domain.CurrencyCode) (domain.ExchangeRate, error) {
	coinID, ok := coinIDs[base]
	if !ok {
		return domain.ExchangeRate{}, fmt.Errorf("%w: no coin id for %s", ErrUnsupportedPair, base)
	}
	vsCurrency := strings.ToLower(string(quote))

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		s.url, url.QueryEscape(coinID), url.QueryEscape(vsCurrency))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("building request: %w", err)
	}

	httpResponse, err := s.client.Do(request)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("http get: %w", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return domain.ExchangeRate{}, fmt.Errorf("unexpected status %d", httpResponse.StatusCode)
	}

	var body map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(httpResponse.Body).Decode(&body); err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("%w: decoding json: %v", ErrMalformedResponse, err)
	}

	rate, ok := body[coinID][vsCurrency]
	if !ok {
		return domain.ExchangeRate{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPair, base, quote)
	}
	if !rate.IsPositive() {
		return domain.ExchangeRate{}, fmt.Errorf("%w: non-positive rate %s", ErrMalformedResponse, rate.String())
	}

	return domain.ExchangeRate{
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Rate:          rate,
		ObservedAt:    time.Now(),
		Provider:      s.Name(),
	}, nil
}
