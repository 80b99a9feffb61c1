package services

import (
	"context"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/monetaflow/wallet_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencySvcFacade exposes the closed currency set. There is no writer: the
// set of valid codes changes only with a release.
type CurrencySvcFacade interface {
	// GetCurrencyByCode retrieves metadata for a specific currency code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.CurrencyInfo, error)

	// ListCurrencies retrieves the full closed currency set.
	ListCurrencies(ctx context.Context) ([]domain.CurrencyInfo, error)
}

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetExchangeRate retrieves the latest rate between two currencies.
	GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves the latest rate for every known pair.
	ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error)

	// Quote converts an amount between two currencies at the latest rate.
	Quote(ctx context.Context, fromCode, toCode string, amount decimal.Decimal) (*dto.QuoteResponse, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate persists a new exchange rate.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)

	// RefreshRates persists a batch of rates fetched from the upstream provider.
	RefreshRates(ctx context.Context, rates []domain.ExchangeRate) error
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
