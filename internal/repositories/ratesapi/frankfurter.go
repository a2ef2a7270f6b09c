package ratesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/famfin/homeledger/internal/core/domain"
	"github.com/famfin/homeledger/internal/core/ports"
	"github.com/shopspring/decimal"
)

// FrankfurterAPIURL is the default base URL of the Frankfurter fiat rate API.
const FrankfurterAPIURL = "https://api.frankfurter.app"

// FrankfurterSource fetches fiat exchange rates from a Frankfurter-style
// `/latest?from=&to=` endpoint.
type FrankfurterSource struct {
	url    string
	client *http.Client
}

// NewFrankfurterSource creates a source against the given base URL (the
// public API when empty).
func NewFrankfurterSource(baseURL string) *FrankfurterSource {
	if baseURL == "" {
		baseURL = FrankfurterAPIURL
	}
	return &FrankfurterSource{
		url: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Ensure FrankfurterSource implements the rate source port
var _ ports.RateSource = (*FrankfurterSource)(nil)

// Name identifies the source for logging and rate provenance.
func (s *FrankfurterSource) Name() string {
	return "frankfurter"
}

// FetchRate returns the current base -> quote rate.
func (s *FrankfurterSource) FetchRate(ctx context.Context, base, quote domain.CurrencyCode) (domain.ExchangeRate, error) {
	type response struct {
		Base  string                     `json:"base"`
		Date  string                     `json:"date"`
		Rates map[string]decimal.Decimal `json:"rates"`
	}

	endpoint := fmt.Sprintf("%s/latest?from=%s&to=%s",
		s.url, url.QueryEscape(string(base)), url.QueryEscape(string(quote)))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("building request: %w", err)
	}

	httpResponse, err := s.client.Do(request)
	if err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("http get: %w", err)
	}
	defer httpResponse.Body.Close()

	// Frankfurter answers 404 for pairs it does not quote.
	if httpResponse.StatusCode == http.StatusNotFound {
		return domain.ExchangeRate{}, fmt.Errorf("%w: %s/%s", ErrUnsupportedPair, base, quote)
	}
	if httpResponse.StatusCode != http.StatusOK {
		return domain.ExchangeRate{}, fmt.Errorf("unexpected status %d", httpResponse.StatusCode)
	}

	var body response
	if err := json.NewDecoder(httpResponse.Body).Decode(&body); err != nil {
		return domain.ExchangeRate{}, fmt.Errorf("%w: decoding json: %v", ErrMalformedResponse, err)
	}

	rate, ok := body.Rates[string(quote)]
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
