package utils

import (
	"github.com/famfin/homeledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision formats an amount with the correct precision for a given currency
// Example: amount 12.3456 with USD (2 decimal places) returns "12.35"
// Example: amount 12.3456 with JPY (0 decimal places) returns "12"
// Example: amount 12 with USD returns "12.00"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return FormatWithPrecision(amount, currency.DecimalPlaces)
}

// FormatWithPrecision formats an amount with the given precision
// This is a convenience function when you only have the precision value
func FormatWithPrecision(amount decimal.Decimal, precision int32) string {
	return amount.Round(precision).StringFixed(precision)
}
