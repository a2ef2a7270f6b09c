package domain

import "strings"

// CurrencyCode identifies a currency: an ISO 4217 alphabetic code for fiat
// currencies (e.g. "USD") or an asset symbol for crypto (e.g. "BTC").
// Codes are stored upper-cased and compared case-insensitively.
type CurrencyCode string

// NormalizeCurrencyCode upper-cases and trims a raw code so that "usd",
// " USD " and "USD" all refer to the same registry entry.
func NormalizeCurrencyCode(code string) CurrencyCode {
	return CurrencyCode(strings.ToUpper(strings.TrimSpace(code)))
}

func (c CurrencyCode) String() string {
	return string(c)
}

// Currency holds the registry metadata for a supported currency.
type Currency struct {
	CurrencyCode  CurrencyCode      `json:"currencyCode"`  // e.g. "USD"
	Symbol        string            `json:"symbol"`        // e.g. "$"
	Name          string            `json:"name"`          // e.g. "US Dollar"
	DisplayNames  map[string]string `json:"displayNames"`  // locale -> localized name
	DecimalPlaces int32             `json:"decimalPlaces"` // minor unit digits (USD 2, JPY 0)
	IsCrypto      bool              `json:"isCrypto"`
}
