package services

import (
	"context"
	"fmt"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
)

// currencyService serves the closed currency set from the in-process registry.
// There is no repository behind it: valid codes change only with a release.
type currencyService struct{}

// NewCurrencyService creates a new currency service.
func NewCurrencyService() portssvc.CurrencySvcFacade {
	return &currencyService{}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.CurrencyInfo, error) {
	info, ok := domain.CurrencyByCode(currencyCode)
	if !ok {
		return nil, fmt.Errorf("%w: currency code '%s' is not supported", apperrors.ErrNotFound, currencyCode)
	}
	return &info, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.CurrencyInfo, error) {
	return domain.Currencies(), nil
}
