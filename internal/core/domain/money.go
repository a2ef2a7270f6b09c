package domain

import (
	"fmt"

	"github.com/famfin/homeledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Money is an immutable (amount, currency) pair. The amount's scale never
// exceeds the currency's minor unit, and every operation returns a new value.
// Amounts in differing currencies never combine; arithmetic across currencies
// fails with apperrors.ErrCurrencyMismatch.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney builds a Money after validating the amount against the currency's
// minor unit. An amount whose excess fractional digits are all zero (e.g.
// "1.2300" for USD) is accepted and rescaled; digits that would be lost make
// the construction fail with apperrors.ErrPrecisionOverflow. Rounding is the
// caller's decision, never an implicit side effect of construction.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	truncated := amount.Truncate(currency.DecimalPlaces)
	if !amount.Equal(truncated) {
		return Money{}, fmt.Errorf("%w: amount %s has more than %d decimal places for %s",
			apperrors.ErrPrecisionOverflow, amount.String(), currency.DecimalPlaces, currency.CurrencyCode)
	}
	return Money{amount: amount.Round(currency.DecimalPlaces), currency: currency}, nil
}

// NewMoneyFromString parses a decimal string and builds a Money from it.
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid amount %q: %v", apperrors.ErrValidation, amount, err)
	}
	return NewMoney(d, currency)
}

// NewMoneyRounded builds a Money from an arbitrary-precision amount, rounding
// it to the currency's minor unit. Ties round away from zero, symmetrically
// for negative amounts (0.005 -> 0.01, -0.005 -> -0.01). This is the only
// rounding policy in the money core.
func NewMoneyRounded(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount.Round(currency.DecimalPlaces), currency: currency}
}

// ZeroMoney returns the zero amount in the given currency.
func ZeroMoney(currency Currency) Money {
	return Money{amount: decimal.Zero.Round(currency.DecimalPlaces), currency: currency}
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency metadata this amount is denominated in.
func (m Money) Currency() Currency {
	return m.currency
}

// CurrencyCode returns the currency code this amount is denominated in.
func (m Money) CurrencyCode() CurrencyCode {
	return m.currency.CurrencyCode
}

// Add returns m + other. Fails when the currencies differ; the addition
// itself is exact since both operands already respect the minor unit.
func (m Money) Add(other Money) (Money, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns m - other. Fails when the currencies differ.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Scale multiplies the amount by an arbitrary-precision factor (a tax rate, a
// share) and rounds the product to the currency's minor unit, ties away from
// zero.
func (m Money) Scale(factor decimal.Decimal) Money {
	return NewMoneyRounded(m.amount.Mul(factor), m.currency)
}

// Negate flips the sign. Always permitted; a sign flip has no precision
// effect.
func (m Money) Negate() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs(), currency: m.currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Cmp compares two amounts of the same currency: -1 if m < other, 0 if equal,
// 1 if m > other. Cross-currency comparison fails with
// apperrors.ErrCurrencyMismatch.
func (m Money) Cmp(other Money) (int, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

// Equal reports whether both the currency and the amount match.
func (m Money) Equal(other Money) bool {
	return m.currency.CurrencyCode == other.currency.CurrencyCode && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(m.currency.DecimalPlaces) + " " + string(m.currency.CurrencyCode)
}

func (m Money) requireSameCurrency(other Money) error {
	if m.currency.CurrencyCode != other.currency.CurrencyCode {
		return fmt.Errorf("%w: %s vs %s",
			apperrors.ErrCurrencyMismatch, m.currency.CurrencyCode, other.currency.CurrencyCode)
	}
	return nil
}
