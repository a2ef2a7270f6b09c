package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrUnsupportedCurrency indicates a currency code that is not present in the
// currency registry. It is raised at the boundary, before any Money is built
// with the offending code.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ErrCurrencyMismatch indicates arithmetic or comparison attempted between
// monetary values of differing currencies.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrPrecisionOverflow indicates an amount with more fractional digits than
// the currency's minor unit allows. Callers must round explicitly; nothing in
// the money core truncates silently.
var ErrPrecisionOverflow = errors.New("amount exceeds currency precision")

// ErrRateUnavailable indicates a live exchange rate could not be obtained and
// no cached value was within the grace window.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrHistoricalRateUnavailable indicates a past-dated exchange rate could not
// be obtained. A current rate is never substituted for it.
var ErrHistoricalRateUnavailable = errors.New("historical exchange rate unavailable")

// ErrAggregationFailed wraps the first conversion failure encountered while
// summing a mixed-currency batch.
var ErrAggregationFailed = errors.New("aggregation failed")
