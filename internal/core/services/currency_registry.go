package services

import (
	"fmt"
	"sort"

	"github.com/famfin/homeledger/internal/apperrors"
	"github.com/famfin/homeledger/internal/core/domain"
	portssvc "github.com/famfin/homeledger/internal/core/ports/services"
)

// CurrencyRegistry is the process-wide read-only mapping from currency code
// to metadata. It is built once at startup from static configuration and
// injected into every component that validates codes, so tests can substitute
// a minimal registry.
type CurrencyRegistry struct {
	byCode map[domain.CurrencyCode]domain.Currency
	sorted []domain.Currency
}

// Ensure CurrencyRegistry implements the registry facade
var _ portssvc.CurrencyRegistrySvc = (*CurrencyRegistry)(nil)

// NewCurrencyRegistry builds a registry from the given currency set.
func NewCurrencyRegistry(currencies []domain.Currency) (*CurrencyRegistry, error) {
	if len(currencies) == 0 {
		return nil, fmt.Errorf("%w: currency registry cannot be empty", apperrors.ErrValidation)
	}

	byCode := make(map[domain.CurrencyCode]domain.Currency, len(currencies))
	for _, c := range currencies {
		code := domain.NormalizeCurrencyCode(string(c.CurrencyCode))
		if code == "" {
			return nil, fmt.Errorf("%w: currency with empty code", apperrors.ErrValidation)
		}
		if c.DecimalPlaces < 0 {
			return nil, fmt.Errorf("%w: currency %s has negative decimal places", apperrors.ErrValidation, code)
		}
		if _, exists := byCode[code]; exists {
			return nil, fmt.Errorf("%w: duplicate currency code %s", apperrors.ErrValidation, code)
		}
		c.CurrencyCode = code
		byCode[code] = c
	}

	sorted := make([]domain.Currency, 0, len(byCode))
	for _, c := range byCode {
		sorted = append(sorted, c)
	}
	// Fiat first, then alphabetical within each group.
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].IsCrypto != sorted[j].IsCrypto {
			return !sorted[i].IsCrypto
		}
		return sorted[i].CurrencyCode < sorted[j].CurrencyCode
	})

	return &CurrencyRegistry{byCode: byCode, sorted: sorted}, nil
}

// Lookup resolves a raw code to its metadata.
func (r *CurrencyRegistry) Lookup(code string) (domain.Currency, error) {
	currency, ok := r.byCode[domain.NormalizeCurrencyCode(code)]
	if !ok {
		return domain.Currency{}, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedCurrency, code)
	}
	return currency, nil
}

// IsSupported reports whether the code resolves to a registry entry.
func (r *CurrencyRegistry) IsSupported(code string) bool {
	_, ok := r.byCode[domain.NormalizeCurrencyCode(code)]
	return ok
}

// MinorUnitDigits returns the minor unit digit count for a code.
func (r *CurrencyRegistry) MinorUnitDigits(code string) (int32, error) {
	currency, err := r.Lookup(code)
	if err != nil {
		return 0, err
	}
	return currency.DecimalPlaces, nil
}

// ListCurrencies returns every registered currency, fiat first.
func (r *CurrencyRegistry) ListCurrencies() []domain.Currency {
	out := make([]domain.Currency, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// DefaultCurrencies returns the static seed the registry is provisioned with
// at process start.
func DefaultCurrencies() []domain.Currency {
	return []domain.Currency{
		{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", DisplayNames: map[string]string{"en": "US Dollar", "zh": "美元"}, DecimalPlaces: 2},
		{CurrencyCode: "CNY", Symbol: "¥", Name: "Chinese Yuan", DisplayNames: map[string]string{"en": "Chinese Yuan", "zh": "人民币"}, DecimalPlaces: 2},
		{CurrencyCode: "EUR", Symbol: "€", Name: "Euro", DisplayNames: map[string]string{"en": "Euro", "zh": "欧元"}, DecimalPlaces: 2},
		{CurrencyCode: "GBP", Symbol: "£", Name: "British Pound", DisplayNames: map[string]string{"en": "British Pound", "zh": "英镑"}, DecimalPlaces: 2},
		{CurrencyCode: "JPY", Symbol: "¥", Name: "Japanese Yen", DisplayNames: map[string]string{"en": "Japanese Yen", "zh": "日元"}, DecimalPlaces: 0},
		{CurrencyCode: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar", DisplayNames: map[string]string{"en": "Hong Kong Dollar", "zh": "港币"}, DecimalPlaces: 2},
		{CurrencyCode: "SGD", Symbol: "S$", Name: "Singapore Dollar", DisplayNames: map[string]string{"en": "Singapore Dollar", "zh": "新加坡元"}, DecimalPlaces: 2},
		{CurrencyCode: "AUD", Symbol: "A$", Name: "Australian Dollar", DisplayNames: map[string]string{"en": "Australian Dollar", "zh": "澳大利亚元"}, DecimalPlaces: 2},
		{CurrencyCode: "CAD", Symbol: "C$", Name: "Canadian Dollar", DisplayNames: map[string]string{"en": "Canadian Dollar", "zh": "加拿大元"}, DecimalPlaces: 2},
		{CurrencyCode: "CHF", Symbol: "CHF", Name: "Swiss Franc", DisplayNames: map[string]string{"en": "Swiss Franc", "zh": "瑞士法郎"}, DecimalPlaces: 2},
		{CurrencyCode: "BTC", Symbol: "₿", Name: "Bitcoin", DisplayNames: map[string]string{"en": "Bitcoin", "zh": "比特币"}, DecimalPlaces: 8, IsCrypto: true},
		{CurrencyCode: "ETH", Symbol: "Ξ", Name: "Ethereum", DisplayNames: map[string]string{"en": "Ethereum", "zh": "以太坊"}, DecimalPlaces: 18, IsCrypto: true},
		{CurrencyCode: "USDT", Symbol: "₮", Name: "Tether", DisplayNames: map[string]string{"en": "Tether", "zh": "泰达币"}, DecimalPlaces: 6, IsCrypto: true},
	}
}
