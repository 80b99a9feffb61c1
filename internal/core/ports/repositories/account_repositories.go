package repositories

import (
	"context"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its ID.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByUserID retrieves the account owned by a user.
	FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)

	// FindAccountBySubaddress resolves a subaddress to its owning account.
	FindAccountBySubaddress(ctx context.Context, subaddress string) (*domain.Account, error)

	// ListBalances retrieves the per-currency balances of an account.
	ListBalances(ctx context.Context, accountID string) ([]domain.Balance, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveSubaddress persists a freshly derived subaddress for an account.
	SaveSubaddress(ctx context.Context, sub domain.Subaddress) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
