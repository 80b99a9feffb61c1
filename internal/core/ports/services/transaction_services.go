package services

import (
	"context"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/monetaflow/wallet_backend/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	// GetTransaction retrieves a transaction visible to the caller.
	GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a keyset-paginated page of the caller's
	// transactions, newest first.
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for transaction data
type TransactionWriterSvc interface {
	// SendPayment moves funds to a receiving address. Identifiers under this
	// wallet's VASP address settle internally and complete immediately; all
	// others create an off-chain transfer for the background worker.
	SendPayment(ctx context.Context, userID string, req dto.SendPaymentRequest) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
