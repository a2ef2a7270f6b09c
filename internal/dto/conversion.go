package dto

import (
	"time"

	"github.com/famfin/homeledger/internal/core/domain"
	portssvc "github.com/famfin/homeledger/internal/core/ports/services"
	"github.com/famfin/homeledger/internal/utils"
	"github.com/shopspring/decimal"
)

// ConvertRequest defines the data needed to convert an amount between
// currencies. AsOf, when set, values the amount at that past instant instead
// of current rates.
type ConvertRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	FromCurrency string          `json:"fromCurrency" binding:"required,currencycode"`
	ToCurrency   string          `json:"toCurrency" binding:"required,currencycode"`
	AsOf         *time.Time      `json:"asOf,omitempty"`
}

// RateResponse defines the rate metadata attached to conversion results.
type RateResponse struct {
	BaseCurrency  string          `json:"baseCurrency"`
	QuoteCurrency string          `json:"quoteCurrency"`
	Rate          decimal.Decimal `json:"rate"`
	ObservedAt    time.Time       `json:"observedAt"`
	Provider      string          `json:"provider"`
	Stale         bool            `json:"stale"`
}

// MoneyResponse defines an (amount, currency) pair in API responses.
type MoneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// ConvertResponse defines the result of a conversion, including the rate
// used so clients can display an audit trail.
type ConvertResponse struct {
	Source    MoneyResponse `json:"source"`
	Converted MoneyResponse `json:"converted"`
	Rate      RateResponse  `json:"rate"`
}

// MoneyItem is one (amount, currency) input of a summary request.
type MoneyItem struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required,currencycode"`
}

// SummaryRequest defines the data needed to aggregate a mixed-currency batch
// into one target currency.
type SummaryRequest struct {
	Items          []MoneyItem `json:"items" binding:"required,dive"`
	TargetCurrency string      `json:"targetCurrency" binding:"required,currencycode"`
	AsOf           *time.Time  `json:"asOf,omitempty"`
}

// SubtotalResponse is one per-currency line of a summary response.
type SubtotalResponse struct {
	Subtotal  MoneyResponse `json:"subtotal"`
	Converted MoneyResponse `json:"converted"`
	Rate      RateResponse  `json:"rate"`
}

// SummaryResponse defines the aggregated total with its per-currency
// breakdown.
type SummaryResponse struct {
	Total     MoneyResponse      `json:"total"`
	Subtotals []SubtotalResponse `json:"subtotals"`
}

// ToMoneyResponse converts a domain.Money to MoneyResponse DTO
func ToMoneyResponse(m domain.Money) MoneyResponse {
	return MoneyResponse{
		Amount:   utils.FormatWithCurrencyPrecision(m.Amount(), m.Currency()),
		Currency: string(m.CurrencyCode()),
	}
}

// ToRateResponse converts a domain.ExchangeRate to RateResponse DTO
func ToRateResponse(rate domain.ExchangeRate) RateResponse {
	return RateResponse{
		BaseCurrency:  string(rate.BaseCurrency),
		QuoteCurrency: string(rate.QuoteCurrency),
		Rate:          rate.Rate,
		ObservedAt:    rate.ObservedAt,
		Provider:      rate.Provider,
		Stale:         rate.Stale,
	}
}

// ToConvertResponse converts a domain.ConversionResult to ConvertResponse DTO
func ToConvertResponse(result domain.ConversionResult) ConvertResponse {
	return ConvertResponse{
		Source:    ToMoneyResponse(result.Source),
		Converted: ToMoneyResponse(result.Converted),
		Rate:      ToRateResponse(result.Rate),
	}
}

// ToSummaryResponse converts an aggregation summary to SummaryResponse DTO
func ToSummaryResponse(summary portssvc.AggregationSummary) SummaryResponse {
	response := SummaryResponse{
		Total:     ToMoneyResponse(summary.Total),
		Subtotals: make([]SubtotalResponse, len(summary.Subtotals)),
	}
	for i, subtotal := range summary.Subtotals {
		response.Subtotals[i] = SubtotalResponse{
			Subtotal:  ToMoneyResponse(subtotal.Subtotal),
			Converted: ToMoneyResponse(subtotal.Converted),
			Rate:      ToRateResponse(subtotal.Rate),
		}
	}
	return response
}
