package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsrepo "github.com/monetaflow/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
	"github.com/monetaflow/wallet_backend/internal/dto"
	"github.com/monetaflow/wallet_backend/internal/middleware"
)

// preApprovalService manages the payer side of funds-pull pre-approvals.
type preApprovalService struct {
	preApprovalRepo portsrepo.PreApprovalRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	accountSvc      portssvc.AccountSvcFacade
}

// NewPreApprovalService creates a new pre-approval service.
func NewPreApprovalService(
	preApprovalRepo portsrepo.PreApprovalRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
) portssvc.PreApprovalSvcFacade {
	return &preApprovalService{
		preApprovalRepo: preApprovalRepo,
		accountRepo:     accountRepo,
		accountSvc:      accountSvc,
	}
}

var _ portssvc.PreApprovalSvcFacade = (*preApprovalService)(nil)

func (s *preApprovalService) ListPreApprovals(ctx context.Context, userID string) ([]domain.FundsPullPreApproval, error) {
	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	pas, err := s.preApprovalRepo.ListPreApprovalsByAccount(ctx, account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pre-approvals: %w", err)
	}
	if pas == nil {
		return []domain.FundsPullPreApproval{}, nil
	}
	return pas, nil
}

// CreatePreApproval creates a payer-side pre-approval for a biller. It starts
// valid and is queued for delivery to the biller's VASP by the worker.
func (s *preApprovalService) CreatePreApproval(ctx context.Context, userID string, req dto.CreatePreApprovalRequest) (*domain.FundsPullPreApproval, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.ExpirationTimestamp <= time.Now().Unix() {
		return nil, fmt.Errorf("%w: expiration_timestamp must be in the future", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account is inactive", apperrors.ErrForbidden)
	}

	// The payer identifies itself to the biller with a fresh address.
	payerAddress, err := s.accountSvc.GenerateReceivingAddress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive payer address: %w", err)
	}

	scope := domain.PreApprovalScope{
		Type:                domain.ScopeTypeConsent,
		ExpirationTimestamp: req.ExpirationTimestamp,
	}
	if ca := req.MaxCumulativeAmount; ca != nil {
		currency := domain.Currency(ca.MaxAmount.Currency)
		if !currency.Valid() {
			return nil, fmt.Errorf("%w: currency code '%s' is not supported", apperrors.ErrValidation, ca.MaxAmount.Currency)
		}
		scope.MaxCumulativeAmount = &domain.CumulativeAmount{
			Unit:      ca.Unit,
			UnitValue: ca.UnitValue,
			MaxAmount: domain.ScopedAmount{Amount: ca.MaxAmount.Amount, Currency: currency},
		}
	}
	if ta := req.MaxTransactionAmount; ta != nil {
		currency := domain.Currency(ta.Currency)
		if !currency.Valid() {
			return nil, fmt.Errorf("%w: currency code '%s' is not supported", apperrors.ErrValidation, ta.Currency)
		}
		scope.MaxTransactionAmount = &domain.ScopedAmount{Amount: ta.Amount, Currency: currency}
	}

	now := time.Now()
	pa := domain.FundsPullPreApproval{
		PreApprovalID: uuid.NewString(),
		AccountID:     account.AccountID,
		Address:       payerAddress,
		BillerAddress: req.BillerAddress,
		Scope:         scope,
		Status:        domain.PreApprovalValid,
		Role:          domain.RolePayer,
		Description:   req.Description,
		Sent:          false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.preApprovalRepo.SavePreApproval(ctx, pa); err != nil {
		return nil, fmt.Errorf("failed to save pre-approval: %w", err)
	}

	logger.Info("Funds-pull pre-approval created",
		slog.String("pre_approval_id", pa.PreApprovalID),
		slog.String("account_id", account.AccountID))
	return &pa, nil
}

// UpdatePreApprovalStatus approves, rejects or closes a pre-approval on the
// caller's account. The new status is queued for delivery to the counterparty.
func (s *preApprovalService) UpdatePreApprovalStatus(ctx context.Context, userID, preApprovalID string, status domain.PreApprovalStatus) (*domain.FundsPullPreApproval, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Only valid, rejected and closed are reachable through the API; asking
	// for anything else is a malformed request, not a state conflict.
	switch status {
	case domain.PreApprovalValid, domain.PreApprovalRejected, domain.PreApprovalClosed:
	default:
		return nil, fmt.Errorf("%w: status '%s' cannot be requested", apperrors.ErrValidation, status)
	}

	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	pa, err := s.preApprovalRepo.FindPreApprovalByID(ctx, preApprovalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find pre-approval: %w", err)
	}
	if pa.AccountID != account.AccountID {
		return nil, fmt.Errorf("%w: pre-approval not found", apperrors.ErrNotFound)
	}
	if !preApprovalTransitionAllowed(pa.Status, status) {
		return nil, fmt.Errorf("%w: illegal status transition %s to %s", apperrors.ErrConflict, pa.Status, status)
	}

	pa.Status = status
	pa.Sent = false // queue the new status for the counterparty
	pa.LastUpdatedAt = time.Now()
	pa.LastUpdatedBy = userID
	if err := s.preApprovalRepo.UpdatePreApproval(ctx, *pa); err != nil {
		return nil, fmt.Errorf("failed to update pre-approval: %w", err)
	}

	logger.Info("Funds-pull pre-approval status updated",
		slog.String("pre_approval_id", pa.PreApprovalID),
		slog.String("status", string(status)))
	return pa, nil
}
