package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/famfin/homeledger/internal/apperrors"
	"github.com/famfin/homeledger/internal/core/domain"
	"github.com/famfin/homeledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateProviderSvc ---
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) Rate(ctx context.Context, base, quote domain.CurrencyCode) (domain.ExchangeRate, error) {
	args := m.Called(ctx, base, quote)
	return args.Get(0).(domain.ExchangeRate), args.Error(1)
}

func (m *MockRateProvider) HistoricalRate(ctx context.Context, base, quote domain.CurrencyCode, at time.Time) (domain.ExchangeRate, error) {
	args := m.Called(ctx, base, quote, at)
	return args.Get(0).(domain.ExchangeRate), args.Error(1)
}

// --- Test Suite ---
type ConversionServiceTestSuite struct {
	suite.Suite
	mockRates *MockRateProvider
	registry  *services.CurrencyRegistry
	service   *services.ConversionService
}

func (suite *ConversionServiceTestSuite) SetupTest() {
	suite.mockRates = new(MockRateProvider)
	registry, err := services.NewCurrencyRegistry(services.DefaultCurrencies())
	suite.Require().NoError(err)
	suite.registry = registry
	suite.service = services.NewConversionService(suite.registry, suite.mockRates)
}

func (suite *ConversionServiceTestSuite) money(amount, code string) domain.Money {
	currency, err := suite.registry.Lookup(code)
	suite.Require().NoError(err)
	m, err := domain.NewMoneyFromString(amount, currency)
	suite.Require().NoError(err)
	return m
}

func (suite *ConversionServiceTestSuite) rate(base, quote domain.CurrencyCode, rate string) domain.ExchangeRate {
	return domain.ExchangeRate{
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Rate:          decimal.RequireFromString(rate),
		ObservedAt:    time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
		Provider:      "mock",
	}
}

// --- Test Cases ---

func (suite *ConversionServiceTestSuite) TestConvert_Success() {
	ctx := context.Background()
	source := suite.money("100.00", "EUR")

	suite.mockRates.On("Rate", ctx, domain.CurrencyCode("EUR"), domain.CurrencyCode("USD")).
		Return(suite.rate("EUR", "USD", "1.10"), nil).Once()

	result, err := suite.service.Convert(ctx, source, "USD")

	suite.Require().NoError(err)
	suite.Equal("110.00 USD", result.Converted.String())
	suite.True(result.Source.Equal(source))
	suite.Equal("mock", result.Rate.Provider)
	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestConvert_SameCurrencyIdentity() {
	ctx := context.Background()
	source := suite.money("42.00", "USD")

	result, err := suite.service.Convert(ctx, source, "usd")

	suite.Require().NoError(err)
	suite.True(result.Converted.Equal(source))
	suite.Equal(domain.ProviderIdentity, result.Rate.Provider)
	suite.mockRates.AssertNotCalled(suite.T(), "Rate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ConversionServiceTestSuite) TestConvert_RoundsToTargetMinorUnit() {
	ctx := context.Background()
	source := suite.money("100.00", "USD")

	// 100.00 * 147.555 = 14755.5 JPY -> 14756 with ties away from zero.
	suite.mockRates.On("Rate", ctx, domain.CurrencyCode("USD"), domain.CurrencyCode("JPY")).
		Return(suite.rate("USD", "JPY", "147.555"), nil).Once()

	result, err := suite.service.Convert(ctx, source, "JPY")

	suite.Require().NoError(err)
	suite.Equal("14756 JPY", result.Converted.String())
}

func (suite *ConversionServiceTestSuite) TestConvert_NegativeAmountRoundsAwayFromZero() {
	ctx := context.Background()
	source := suite.money("-0.01", "USD")

	suite.mockRates.On("Rate", ctx, domain.CurrencyCode("USD"), domain.CurrencyCode("EUR")).
		Return(suite.rate("USD", "EUR", "0.5"), nil).Once()

	// -0.01 * 0.5 = -0.005 -> -0.01
	result, err := suite.service.Convert(ctx, source, "EUR")

	suite.Require().NoError(err)
	suite.Equal("-0.01 EUR", result.Converted.String())
}

func (suite *ConversionServiceTestSuite) TestConvertAt_SameCurrencyIdentityDatedAtInstant() {
	ctx := context.Background()
	source := suite.money("42.00", "USD")
	at := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	result, err := suite.service.ConvertAt(ctx, source, "USD", at)

	suite.Require().NoError(err)
	suite.True(result.Converted.Equal(source))
	suite.Equal(domain.ProviderIdentity, result.Rate.Provider)
	// The audit metadata carries the requested valuation instant.
	suite.Equal(at, result.Rate.ObservedAt)
	suite.mockRates.AssertNotCalled(suite.T(), "HistoricalRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ConversionServiceTestSuite) TestConvert_RoundTripWithinOneMinorUnit() {
	ctx := context.Background()
	source := suite.money("123.45", "EUR")
	forward := decimal.RequireFromString("1.1037")

	suite.mockRates.On("Rate", ctx, domain.CurrencyCode("EUR"), domain.CurrencyCode("USD")).
		Return(suite.rate("EUR", "USD", "1.1037"), nil).Once()
	suite.mockRates.On("Rate", ctx, domain.CurrencyCode("USD"), domain.CurrencyCode("EUR")).
		Return(suite.rate("USD", "EUR", decimal.NewFromInt(1).DivRound(forward, 15).String()), nil).Once()

	there, err := suite.service.Convert(ctx, source, "USD")
	suite.Require().NoError(err)
	back, err := suite.service.Convert(ctx, there.Converted, "EUR")
	suite.Require().NoError(err)

	// Converting there and back with reciprocal rates lands within one
	// minor-unit rounding step of the original.
	diff, err := back.Converted.Sub(source)
	suite.Require().NoError(err)
	suite.True(diff.Abs().Amount().LessThanOrEqual(decimal.RequireFromString("0.01")),
		"round trip drifted by %s", diff)
}

func (suite *ConversionServiceTestSuite) TestConvert_UnsupportedTarget() {
	ctx := context.Background()
	source := suite.money("100.00", "EUR")

	_, err := suite.service.Convert(ctx, source, "XXX")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
	// Fail fast: no rate is requested for an unknown target.
	suite.mockRates.AssertNotCalled(suite.T(), "Rate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ConversionServiceTestSuite) TestConvert_RateErrorPropagatesUntranslated() {
	ctx := context.Background()
	source := suite.money("100.00", "EUR")

	suite.mockRates.On("Rate", ctx, domain.CurrencyCode("EUR"), domain.CurrencyCode("USD")).
		Return(domain.ExchangeRate{}, apperrors.ErrRateUnavailable).Once()

	_, err := suite.service.Convert(ctx, source, "USD")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
}

func (suite *ConversionServiceTestSuite) TestConvertAt_UsesHistoricalRate() {
	ctx := context.Background()
	source := suite.money("100.00", "EUR")
	at := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	suite.mockRates.On("HistoricalRate", ctx, domain.CurrencyCode("EUR"), domain.CurrencyCode("USD"), at).
		Return(suite.rate("EUR", "USD", "1.05"), nil).Once()

	result, err := suite.service.ConvertAt(ctx, source, "USD", at)

	suite.Require().NoError(err)
	suite.Equal("105.00 USD", result.Converted.String())
	suite.mockRates.AssertNotCalled(suite.T(), "Rate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ConversionServiceTestSuite) TestConvertAt_HistoricalUnavailable() {
	ctx := context.Background()
	source := suite.money("100.00", "EUR")
	at := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	suite.mockRates.On("HistoricalRate", ctx, domain.CurrencyCode("EUR"), domain.CurrencyCode("USD"), at).
		Return(domain.ExchangeRate{}, apperrors.ErrHistoricalRateUnavailable).Once()

	_, err := suite.service.ConvertAt(ctx, source, "USD", at)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrHistoricalRateUnavailable)
}

func TestFormatConversion(t *testing.T) {
	registry, err := services.NewCurrencyRegistry(services.DefaultCurrencies())
	if err != nil {
		t.Fatal(err)
	}
	eur, _ := registry.Lookup("EUR")
	usd, _ := registry.Lookup("USD")
	source, _ := domain.NewMoneyFromString("100.00", eur)
	converted, _ := domain.NewMoneyFromString("110.00", usd)

	result := domain.ConversionResult{
		Source:    source,
		Converted: converted,
		Rate: domain.ExchangeRate{
			BaseCurrency:  "EUR",
			QuoteCurrency: "USD",
			Rate:          decimal.RequireFromString("1.1"),
			ObservedAt:    time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
			Provider:      "frankfurter",
		},
	}

	formatted := services.FormatConversion(result)
	if formatted != "100.00 EUR -> 110.00 USD @ 1.1 (frankfurter, 2026-08-28T10:00:00Z)" {
		t.Fatalf("unexpected format: %s", formatted)
	}
}

func TestConversionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConversionServiceTestSuite))
}
