package repositories

import (
	"context"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
)

// PreApprovalReader defines read operations for funds-pull pre-approval data
type PreApprovalReader interface {
	// FindPreApprovalByID retrieves a specific pre-approval by its ID.
	FindPreApprovalByID(ctx context.Context, preApprovalID string) (*domain.FundsPullPreApproval, error)

	// ListPreApprovalsByAccount retrieves all pre-approvals for an account.
	ListPreApprovalsByAccount(ctx context.Context, accountID string) ([]domain.FundsPullPreApproval, error)

	// ListUnsentPreApprovals retrieves pre-approvals not yet pushed to the
	// counterparty. Used by the background worker.
	ListUnsentPreApprovals(ctx context.Context, limit int) ([]domain.FundsPullPreApproval, error)
}

// PreApprovalWriter defines write operations for funds-pull pre-approval data
type PreApprovalWriter interface {
	// SavePreApproval persists a new pre-approval.
	SavePreApproval(ctx context.Context, pa domain.FundsPullPreApproval) error

	// UpdatePreApproval rewrites a pre-approval's mutable fields (status, sent).
	UpdatePreApproval(ctx context.Context, pa domain.FundsPullPreApproval) error
}

// PreApprovalRepositoryFacade combines all pre-approval repository interfaces
type PreApprovalRepositoryFacade interface {
	PreApprovalReader
	PreApprovalWriter
}

// PreApprovalRepositoryWithTx extends PreApprovalRepositoryFacade with transaction capabilities
type PreApprovalRepositoryWithTx interface {
	PreApprovalRepositoryFacade
	TransactionManager
}
