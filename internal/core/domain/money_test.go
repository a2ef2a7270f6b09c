package domain_test

import (
	"testing"
	"time"

	"github.com/famfin/homeledger/internal/apperrors"
	"github.com/famfin/homeledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	usd = domain.Currency{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", DecimalPlaces: 2}
	eur = domain.Currency{CurrencyCode: "EUR", Symbol: "€", Name: "Euro", DecimalPlaces: 2}
	jpy = domain.Currency{CurrencyCode: "JPY", Symbol: "¥", Name: "Japanese Yen", DecimalPlaces: 0}
	btc = domain.Currency{CurrencyCode: "BTC", Symbol: "₿", Name: "Bitcoin", DecimalPlaces: 8, IsCrypto: true}
)

func mustMoney(t *testing.T, amount string, currency domain.Currency) domain.Money {
	t.Helper()
	m, err := domain.NewMoneyFromString(amount, currency)
	require.NoError(t, err)
	return m
}

func TestNewMoney_Success(t *testing.T) {
	m, err := domain.NewMoneyFromString("12.34", usd)
	require.NoError(t, err)
	assert.Equal(t, "12.34 USD", m.String())
	assert.Equal(t, domain.CurrencyCode("USD"), m.CurrencyCode())
}

func TestNewMoney_RescalesTrailingZeros(t *testing.T) {
	// "1.2300" carries excess digits, but they are all zero: no value is lost.
	m, err := domain.NewMoneyFromString("1.2300", usd)
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("1.23")))
}

func TestNewMoney_PrecisionOverflow(t *testing.T) {
	_, err := domain.NewMoneyFromString("1.234", usd)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPrecisionOverflow)

	_, err = domain.NewMoneyFromString("100.5", jpy)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPrecisionOverflow)
}

func TestNewMoney_HighPrecisionCrypto(t *testing.T) {
	m, err := domain.NewMoneyFromString("0.00000001", btc)
	require.NoError(t, err)
	assert.Equal(t, "0.00000001 BTC", m.String())
}

func TestNewMoneyFromString_InvalidDecimal(t *testing.T) {
	_, err := domain.NewMoneyFromString("not-a-number", usd)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNewMoneyRounded_TiesAwayFromZero(t *testing.T) {
	positive := domain.NewMoneyRounded(decimal.RequireFromString("0.005"), usd)
	assert.Equal(t, "0.01 USD", positive.String())

	negative := domain.NewMoneyRounded(decimal.RequireFromString("-0.005"), usd)
	assert.Equal(t, "-0.01 USD", negative.String())

	// Half a yen rounds away from zero to a whole yen.
	yen := domain.NewMoneyRounded(decimal.RequireFromString("100.5"), jpy)
	assert.Equal(t, "101 JPY", yen.String())
}

func TestAdd_SameCurrency(t *testing.T) {
	a := mustMoney(t, "10.10", usd)
	b := mustMoney(t, "0.02", usd)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "10.12 USD", sum.String())

	// Operands are untouched.
	assert.Equal(t, "10.10 USD", a.String())
	assert.Equal(t, "0.02 USD", b.String())
}

func TestAdd_Commutative(t *testing.T) {
	a := mustMoney(t, "1.23", usd)
	b := mustMoney(t, "4.56", usd)

	ab, err := a.Add(b)
	require.NoError(t, err)
	ba, err := b.Add(a)
	require.NoError(t, err)
	assert.True(t, ab.Equal(ba))
}

func TestAdd_CurrencyMismatch(t *testing.T) {
	a := mustMoney(t, "10.00", usd)
	b := mustMoney(t, "10.00", eur)

	_, err := a.Add(b)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)

	_, err = a.Sub(b)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)

	_, err = a.Cmp(b)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)
}

func TestSub_InverseOfAdd(t *testing.T) {
	a := mustMoney(t, "10.00", usd)
	b := mustMoney(t, "3.33", usd)

	sum, err := a.Add(b)
	require.NoError(t, err)
	back, err := sum.Sub(b)
	require.NoError(t, err)
	assert.True(t, back.Equal(a))
}

func TestScale_RoundsToMinorUnit(t *testing.T) {
	m := mustMoney(t, "10.00", usd)

	// 10.00 * 0.0825 = 0.825 -> 0.83 with ties away from zero.
	scaled := m.Scale(decimal.RequireFromString("0.0825"))
	assert.Equal(t, "0.83 USD", scaled.String())
}

func TestNegateAbsAndSigns(t *testing.T) {
	m := mustMoney(t, "5.00", usd)

	neg := m.Negate()
	assert.Equal(t, "-5.00 USD", neg.String())
	assert.True(t, neg.IsNegative())
	assert.False(t, neg.IsPositive())
	assert.True(t, neg.Abs().Equal(m))

	zero := domain.ZeroMoney(usd)
	assert.True(t, zero.IsZero())
	assert.Equal(t, "0.00 USD", zero.String())
}

func TestCmp_SameCurrency(t *testing.T) {
	small := mustMoney(t, "1.00", usd)
	large := mustMoney(t, "2.00", usd)

	c, err := small.Cmp(large)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = large.Cmp(small)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = small.Cmp(small)
	require.NoError(t, err)
	assert.Equal(t, 0, c)
}

func TestIdentityRate(t *testing.T) {
	at := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	rate := domain.IdentityRate("USD", at)

	assert.Equal(t, domain.CurrencyCode("USD"), rate.BaseCurrency)
	assert.Equal(t, domain.CurrencyCode("USD"), rate.QuoteCurrency)
	assert.True(t, rate.Rate.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, domain.ProviderIdentity, rate.Provider)
	assert.Equal(t, at, rate.ObservedAt)
}
