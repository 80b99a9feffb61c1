package services

import (
	"context"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountForUser retrieves the caller's account with balances populated.
	GetAccountForUser(ctx context.Context, userID string) (*domain.Account, error)

	// ResolveSubaddress maps a subaddress to its owning account.
	ResolveSubaddress(ctx context.Context, subaddress string) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccountForUser provisions the account a registered user owns.
	CreateAccountForUser(ctx context.Context, userID, name string) (*domain.Account, error)

	// GenerateReceivingAddress derives a fresh subaddress for the user's account
	// and returns the full encoded account identifier.
	GenerateReceivingAddress(ctx context.Context, userID string) (string, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
