package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
	"github.com/monetaflow/wallet_backend/internal/core/services"
	"github.com/monetaflow/wallet_backend/internal/dto"
)

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockExchangeRateRepository
	service      portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.service = services.NewExchangeRateService(suite.mockRateRepo, services.NewCurrencyService())
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_DirectHit() {
	ctx := context.Background()
	stored := &domain.ExchangeRate{
		FromCurrencyCode: domain.XUS,
		ToCurrencyCode:   domain.USD,
		Rate:             decimal.RequireFromString("1.02"),
	}
	suite.mockRateRepo.On("FindExchangeRate", ctx, domain.XUS, domain.USD).Return(stored, nil).Once()

	rate, err := suite.service.GetExchangeRate(ctx, "XUS", "USD")

	suite.Require().NoError(err)
	suite.True(rate.Rate.Equal(decimal.RequireFromString("1.02")))
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_LowercaseCodesAccepted() {
	ctx := context.Background()
	stored := &domain.ExchangeRate{
		FromCurrencyCode: domain.XUS,
		ToCurrencyCode:   domain.USD,
		Rate:             decimal.RequireFromString("1.02"),
	}
	suite.mockRateRepo.On("FindExchangeRate", ctx, domain.XUS, domain.USD).Return(stored, nil).Once()

	_, err := suite.service.GetExchangeRate(ctx, "xus", "usd")

	suite.NoError(err)
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_DerivesInverse() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindExchangeRate", ctx, domain.USD, domain.XUS).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateRepo.On("FindExchangeRate", ctx, domain.XUS, domain.USD).
		Return(&domain.ExchangeRate{
			FromCurrencyCode: domain.XUS,
			ToCurrencyCode:   domain.USD,
			Rate:             decimal.RequireFromString("1.25"),
		}, nil).Once()

	rate, err := suite.service.GetExchangeRate(ctx, "USD", "XUS")

	suite.Require().NoError(err)
	suite.Equal(domain.USD, rate.FromCurrencyCode)
	suite.Equal(domain.XUS, rate.ToCurrencyCode)
	suite.True(rate.Rate.Equal(decimal.RequireFromString("0.8")))
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_InverseRoundsTo12Places() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindExchangeRate", ctx, domain.USD, domain.XUS).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateRepo.On("FindExchangeRate", ctx, domain.XUS, domain.USD).
		Return(&domain.ExchangeRate{
			FromCurrencyCode: domain.XUS,
			ToCurrencyCode:   domain.USD,
			Rate:             decimal.NewFromInt(3),
		}, nil).Once()

	rate, err := suite.service.GetExchangeRate(ctx, "USD", "XUS")

	suite.Require().NoError(err)
	suite.True(rate.Rate.Equal(decimal.RequireFromString("0.333333333333")))
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_NoPairEitherWay() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindExchangeRate", ctx, domain.GBP, domain.JPY).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateRepo.On("FindExchangeRate", ctx, domain.JPY, domain.GBP).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetExchangeRate(ctx, "GBP", "JPY")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_RejectsBadPairs() {
	ctx := context.Background()

	_, err := suite.service.GetExchangeRate(ctx, "DOGE", "USD")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.GetExchangeRate(ctx, "USD", "USD")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindExchangeRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestQuote_RoundsToTargetFractionDigits() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindExchangeRate", ctx, domain.USD, domain.JPY).
		Return(&domain.ExchangeRate{
			FromCurrencyCode: domain.USD,
			ToCurrencyCode:   domain.JPY,
			Rate:             decimal.RequireFromString("147.335"),
		}, nil).Once()

	quote, err := suite.service.Quote(ctx, "USD", "JPY", decimal.RequireFromString("10.50"))

	suite.Require().NoError(err)
	// JPY carries zero fraction digits, so 1547.0175 rounds to 1547.
	suite.True(quote.ConvertedAmount.Equal(decimal.NewFromInt(1547)))
	suite.Equal("USD", quote.FromCurrencyCode)
	suite.Equal("JPY", quote.ToCurrencyCode)
}

func (suite *ExchangeRateServiceTestSuite) TestQuote_RejectsNonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.Quote(ctx, "USD", "JPY", decimal.Zero)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindExchangeRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "XUS",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.RequireFromString("0.93"),
		DateEffective:    time.Now(),
	}

	suite.mockRateRepo.On("SaveExchangeRate", ctx, mock.MatchedBy(func(rate domain.ExchangeRate) bool {
		return rate.FromCurrencyCode == domain.XUS &&
			rate.ToCurrencyCode == domain.EUR &&
			rate.Rate.Equal(req.Rate) &&
			rate.ExchangeRateID != ""
	})).Return(nil).Once()

	rate, err := suite.service.CreateExchangeRate(ctx, req, "admin-user")

	suite.Require().NoError(err)
	suite.Equal("admin-user", rate.CreatedBy)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_RejectsNonPositiveRate() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "XUS",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.Zero,
		DateEffective:    time.Now(),
	}

	_, err := suite.service.CreateExchangeRate(ctx, req, "admin-user")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestRefreshRates_DropsInvalidEntries() {
	ctx := context.Background()
	good := domain.ExchangeRate{
		FromCurrencyCode: domain.XUS,
		ToCurrencyCode:   domain.USD,
		Rate:             decimal.RequireFromString("1.01"),
	}
	unsupported := domain.ExchangeRate{
		FromCurrencyCode: domain.Currency("DOGE"),
		ToCurrencyCode:   domain.USD,
		Rate:             decimal.NewFromInt(1),
	}
	negative := domain.ExchangeRate{
		FromCurrencyCode: domain.XUS,
		ToCurrencyCode:   domain.EUR,
		Rate:             decimal.NewFromInt(-1),
	}

	suite.mockRateRepo.On("SaveExchangeRates", ctx, mock.MatchedBy(func(rates []domain.ExchangeRate) bool {
		return len(rates) == 1 && rates[0].FromCurrencyCode == domain.XUS && rates[0].ToCurrencyCode == domain.USD
	})).Return(nil).Once()

	err := suite.service.RefreshRates(ctx, []domain.ExchangeRate{good, unsupported, negative})

	suite.Require().NoError(err)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestRefreshRates_AllInvalidSkipsSave() {
	ctx := context.Background()

	err := suite.service.RefreshRates(ctx, []domain.ExchangeRate{
		{FromCurrencyCode: domain.Currency("DOGE"), ToCurrencyCode: domain.USD, Rate: decimal.NewFromInt(1)},
	})

	suite.Require().NoError(err)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRates", mock.Anything, mock.Anything)
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
