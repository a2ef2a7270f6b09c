package dto

import (
	"github.com/famfin/homeledger/internal/core/domain"
)

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode  string            `json:"currencyCode"`
	Symbol        string            `json:"symbol"`
	Name          string            `json:"name"`
	DisplayNames  map[string]string `json:"displayNames,omitempty"`
	DecimalPlaces int32             `json:"decimalPlaces"`
	IsCrypto      bool              `json:"isCrypto"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:  string(curr.CurrencyCode),
		Symbol:        curr.Symbol,
		Name:          curr.Name,
		DisplayNames:  curr.DisplayNames,
		DecimalPlaces: curr.DecimalPlaces,
		IsCrypto:      curr.IsCrypto,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(curr)
	}
	return res
}
