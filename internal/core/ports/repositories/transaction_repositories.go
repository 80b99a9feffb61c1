package repositories

import (
	"context"
	"time"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceChange is a signed adjustment to one balance row, applied together
// with a transaction write. Negative deltas fail when the row would go below zero.
type BalanceChange struct {
	AccountID string
	Currency  domain.Currency
	Delta     decimal.Decimal
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByReferenceID retrieves the transaction bound to an
	// off-chain payment command reference.
	FindTransactionByReferenceID(ctx context.Context, referenceID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves a keyset-paginated page of transactions
	// touching an account, newest first. The cursor is (timestamp, id) of the last
	// row of the previous page; zero values fetch the first page.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, beforeTime time.Time, beforeID string) ([]domain.Transaction, error)

	// ListTransactionsByStatus retrieves transactions in a lifecycle state,
	// oldest first. Used by the settlement worker.
	ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus, limit int) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction and applies the given balance
	// changes in the same database transaction. A negative delta that would
	// overdraw its balance row aborts the whole write with ErrInsufficientFunds.
	SaveTransaction(ctx context.Context, txn domain.Transaction, changes []BalanceChange) error

	// UpdateTransaction rewrites the mutable fields of a transaction (status,
	// command payload, chain settlement details) and applies any balance
	// changes atomically. The row is locked for the duration of the update.
	UpdateTransaction(ctx context.Context, txn domain.Transaction, changes []BalanceChange) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
// This is a facade for clients that need access to all operations
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
