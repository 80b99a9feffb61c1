package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsrepo "github.com/monetaflow/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
	"github.com/monetaflow/wallet_backend/internal/middleware"
	"github.com/monetaflow/wallet_backend/internal/utils"
)

// subaddressRetryLimit bounds how often a fresh subaddress is re-derived on
// collision before giving up. Collisions on 8 random bytes are vanishingly rare.
const subaddressRetryLimit = 3

// accountService provides account, balance and receiving address operations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	vaspAddress string // hex, this wallet's on-chain address
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, vaspAddress string) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		vaspAddress: vaspAddress,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccountForUser(ctx context.Context, userID, name string) (*domain.Account, error) {
	now := time.Now()
	account := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    userID,
		Name:      name,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &account, nil
}

func (s *accountService) GetAccountForUser(ctx context.Context, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account for user: %w", err)
	}

	balances, err := s.accountRepo.ListBalances(ctx, account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load balances: %w", err)
	}
	account.Balances = balances
	return account, nil
}

func (s *accountService) ResolveSubaddress(ctx context.Context, subaddress string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountBySubaddress(ctx, subaddress)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subaddress: %w", err)
	}
	return account, nil
}

// GenerateReceivingAddress derives a fresh subaddress, binds it to the user's
// account and returns the full encoded account identifier.
func (s *accountService) GenerateReceivingAddress(ctx context.Context, userID string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get account for receiving address: %w", err)
	}
	if !account.IsActive {
		return "", fmt.Errorf("%w: account is inactive", apperrors.ErrForbidden)
	}

	now := time.Now()
	for attempt := 0; attempt < subaddressRetryLimit; attempt++ {
		subaddressHex, err := utils.GenerateSecureRandomString(domain.SubaddressBytesLen)
		if err != nil {
			return "", fmt.Errorf("failed to derive subaddress: %w", err)
		}

		sub := domain.Subaddress{
			Subaddress: subaddressHex,
			AccountID:  account.AccountID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.accountRepo.SaveSubaddress(ctx, sub); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			return "", fmt.Errorf("failed to save subaddress: %w", err)
		}

		address, err := utils.EncodeAccountIdentifier(s.vaspAddress, subaddressHex)
		if err != nil {
			return "", fmt.Errorf("failed to encode account identifier: %w", err)
		}
		logger.Info("Receiving address generated", slog.String("account_id", account.AccountID))
		return address, nil
	}

	return "", fmt.Errorf("failed to derive a unique subaddress after %d attempts", subaddressRetryLimit)
}
