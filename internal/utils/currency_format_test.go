package utils_test

import (
	"testing"

	"github.com/famfin/homeledger/internal/core/domain"
	"github.com/famfin/homeledger/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatWithCurrencyPrecision(t *testing.T) {
	usd := domain.Currency{CurrencyCode: "USD", DecimalPlaces: 2}
	jpy := domain.Currency{CurrencyCode: "JPY", DecimalPlaces: 0}

	assert.Equal(t, "12.35", utils.FormatWithCurrencyPrecision(decimal.RequireFromString("12.3456"), usd))
	assert.Equal(t, "12.00", utils.FormatWithCurrencyPrecision(decimal.NewFromInt(12), usd))
	assert.Equal(t, "12", utils.FormatWithCurrencyPrecision(decimal.RequireFromString("12.3456"), jpy))
	// Ties round away from zero.
	assert.Equal(t, "-0.01", utils.FormatWithCurrencyPrecision(decimal.RequireFromString("-0.005"), usd))
}

func TestFormatWithPrecision(t *testing.T) {
	assert.Equal(t, "1.2346", utils.FormatWithPrecision(decimal.RequireFromString("1.23456"), 4))
	assert.Equal(t, "1", utils.FormatWithPrecision(decimal.RequireFromString("1.4"), 0))
}
