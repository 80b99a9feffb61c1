package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsrepo "github.com/monetaflow/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
	"github.com/monetaflow/wallet_backend/internal/dto"
	"github.com/monetaflow/wallet_backend/internal/middleware"
)

// exchangeRateService provides business logic for exchange rates and quotes.
type exchangeRateService struct {
	rateRepo    portsrepo.ExchangeRateRepositoryFacade
	currencySvc portssvc.CurrencySvcFacade
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencySvc portssvc.CurrencySvcFacade) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo:    rateRepo,
		currencySvc: currencySvc,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateExchangeRate handles the creation of a new exchange rate.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	now := time.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: domain.Currency(req.FromCurrencyCode),
		ToCurrencyCode:   domain.Currency(req.ToCurrencyCode),
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}
	return &rate, nil
}

// GetExchangeRate retrieves the latest rate for a currency pair. When only the
// inverse pair is stored, the rate is derived by inversion.
func (s *exchangeRateService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	from, to, err := s.validatePair(ctx, fromCode, toCode)
	if err != nil {
		return nil, err
	}

	rate, err := s.rateRepo.FindExchangeRate(ctx, from, to)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}

	inverse, invErr := s.rateRepo.FindExchangeRate(ctx, to, from)
	if invErr != nil {
		if errors.Is(invErr, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no rate for %s/%s", apperrors.ErrNotFound, from, to)
		}
		return nil, fmt.Errorf("failed to get inverse exchange rate: %w", invErr)
	}
	if inverse.Rate.IsZero() {
		return nil, fmt.Errorf("%w: stored inverse rate for %s/%s is zero", apperrors.ErrInternal, to, from)
	}

	derived := *inverse
	derived.FromCurrencyCode = from
	derived.ToCurrencyCode = to
	derived.Rate = decimal.NewFromInt(1).DivRound(inverse.Rate, 12)
	return &derived, nil
}

// ListExchangeRates retrieves the latest rate for every known pair.
func (s *exchangeRateService) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	rates, err := s.rateRepo.ListExchangeRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	if rates == nil {
		return []domain.ExchangeRate{}, nil
	}
	return rates, nil
}

// Quote converts an amount between two currencies at the latest rate, rounded
// to the target currency's fraction digits.
func (s *exchangeRateService) Quote(ctx context.Context, fromCode, toCode string, amount decimal.Decimal) (*dto.QuoteResponse, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	rate, err := s.GetExchangeRate(ctx, fromCode, toCode)
	if err != nil {
		return nil, err
	}

	toInfo, err := s.currencySvc.GetCurrencyByCode(ctx, rate.ToCurrencyCode.String())
	if err != nil {
		return nil, err
	}

	converted := amount.Mul(rate.Rate).Round(toInfo.FractionDigits)
	return &dto.QuoteResponse{
		FromCurrencyCode: rate.FromCurrencyCode.String(),
		ToCurrencyCode:   rate.ToCurrencyCode.String(),
		Amount:           amount,
		ConvertedAmount:  converted,
		Rate:             rate.Rate,
	}, nil
}

// RefreshRates persists a batch of rates fetched from the upstream provider.
// Rates for codes outside the closed currency set are dropped with a warning.
func (s *exchangeRateService) RefreshRates(ctx context.Context, rates []domain.ExchangeRate) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	valid := make([]domain.ExchangeRate, 0, len(rates))
	for _, r := range rates {
		if !r.FromCurrencyCode.Valid() || !r.ToCurrencyCode.Valid() {
			logger.Warn("Dropping rate for unsupported pair",
				slog.String("from", r.FromCurrencyCode.String()),
				slog.String("to", r.ToCurrencyCode.String()))
			continue
		}
		if r.Rate.LessThanOrEqual(decimal.Zero) {
			logger.Warn("Dropping non-positive rate",
				slog.String("from", r.FromCurrencyCode.String()),
				slog.String("to", r.ToCurrencyCode.String()))
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return nil
	}

	if err := s.rateRepo.SaveExchangeRates(ctx, valid); err != nil {
		return fmt.Errorf("failed to refresh rates: %w", err)
	}
	logger.Info("Exchange rates refreshed", slog.Int("count", len(valid)))
	return nil
}

func (s *exchangeRateService) validatePair(ctx context.Context, fromCode, toCode string) (domain.Currency, domain.Currency, error) {
	from := domain.Currency(strings.ToUpper(fromCode))
	to := domain.Currency(strings.ToUpper(toCode))
	if !from.Valid() {
		return "", "", fmt.Errorf("%w: currency code '%s' is not supported", apperrors.ErrValidation, fromCode)
	}
	if !to.Valid() {
		return "", "", fmt.Errorf("%w: currency code '%s' is not supported", apperrors.ErrValidation, toCode)
	}
	if from == to {
		return "", "", fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	return from, to, nil
}
