package services

import (
	"context"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/monetaflow/wallet_backend/internal/dto"
)

// PreApprovalReaderSvc defines read operations for funds-pull pre-approvals
type PreApprovalReaderSvc interface {
	// ListPreApprovals retrieves all pre-approvals on the caller's account.
	ListPreApprovals(ctx context.Context, userID string) ([]domain.FundsPullPreApproval, error)
}

// PreApprovalWriterSvc defines write operations for funds-pull pre-approvals
type PreApprovalWriterSvc interface {
	// CreatePreApproval creates a payer-side pre-approval for a biller. The
	// approval is queued for delivery to the biller's VASP.
	CreatePreApproval(ctx context.Context, userID string, req dto.CreatePreApprovalRequest) (*domain.FundsPullPreApproval, error)

	// UpdatePreApprovalStatus approves, rejects or closes a pre-approval.
	// Legal moves are pending to valid or rejected, and valid to closed.
	UpdatePreApprovalStatus(ctx context.Context, userID, preApprovalID string, status domain.PreApprovalStatus) (*domain.FundsPullPreApproval, error)
}

// PreApprovalSvcFacade combines all pre-approval service interfaces
type PreApprovalSvcFacade interface {
	PreApprovalReaderSvc
	PreApprovalWriterSvc
}
