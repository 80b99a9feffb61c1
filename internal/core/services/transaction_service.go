package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsrepo "github.com/monetaflow/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
	"github.com/monetaflow/wallet_backend/internal/dto"
	"github.com/monetaflow/wallet_backend/internal/middleware"
	"github.com/monetaflow/wallet_backend/internal/utils"
	"github.com/monetaflow/wallet_backend/internal/utils/pagination"
)

const defaultTransactionPageSize = 20

// transactionService routes payments and serves transaction history.
type transactionService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	userSvc     portssvc.UserReaderSvc
	vaspAddress string // hex, this wallet's on-chain address
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	userSvc portssvc.UserReaderSvc,
	vaspAddress string,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		accountSvc:  accountSvc,
		userSvc:     userSvc,
		vaspAddress: vaspAddress,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// SendPayment moves funds to a receiving address. The sender's balance is
// debited up front for both routes; off-chain transfers hold the funds until
// settlement or cancellation.
func (s *transactionService) SendPayment(ctx context.Context, userID string, req dto.SendPaymentRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	currency := domain.Currency(req.Currency)
	if !currency.Valid() {
		return nil, fmt.Errorf("%w: currency code '%s' is not supported", apperrors.ErrValidation, req.Currency)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	sourceAccount, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sender account: %w", err)
	}
	if !sourceAccount.IsActive {
		return nil, fmt.Errorf("%w: account is inactive", apperrors.ErrForbidden)
	}

	destVASP, destSubaddress, err := utils.DecodeAccountIdentifier(req.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if destVASP == s.vaspAddress {
		return s.sendInternal(ctx, logger, sourceAccount, destSubaddress, req.Amount, currency)
	}
	return s.sendOffchain(ctx, logger, userID, sourceAccount, req.Address, req.Amount, currency)
}

// sendInternal settles a transfer between two accounts of this wallet in one
// database transaction. No chain or counterparty interaction is involved.
func (s *transactionService) sendInternal(ctx context.Context, logger *slog.Logger, source *domain.Account, destSubaddress string, amount decimal.Decimal, currency domain.Currency) (*domain.Transaction, error) {
	dest, err := s.accountRepo.FindAccountBySubaddress(ctx, destSubaddress)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination subaddress: %w", err)
	}
	if dest.AccountID == source.AccountID {
		return nil, fmt.Errorf("%w: cannot send to own account", apperrors.ErrValidation)
	}

	now := time.Now()
	sourceID := source.AccountID
	destID := dest.AccountID
	txn := domain.Transaction{
		TransactionID:         uuid.NewString(),
		ReferenceID:           uuid.NewString(),
		Type:                  domain.Internal,
		Status:                domain.TxCompleted,
		Amount:                amount,
		Currency:              currency,
		SourceID:              &sourceID,
		DestinationID:         &destID,
		DestinationSubaddress: destSubaddress,
		Timestamp:             now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     source.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: source.UserID,
		},
	}

	changes := []portsrepo.BalanceChange{
		{AccountID: source.AccountID, Currency: currency, Delta: amount.Neg()},
		{AccountID: dest.AccountID, Currency: currency, Delta: amount},
	}
	if err := s.txnRepo.SaveTransaction(ctx, txn, changes); err != nil {
		return nil, fmt.Errorf("failed to save internal transfer: %w", err)
	}

	logger.Info("Internal transfer completed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("currency", currency.String()))
	return &txn, nil
}

// sendOffchain opens an off-chain transfer to a counterparty VASP. The payment
// command starts the KYC exchange; the background worker pushes it out.
func (s *transactionService) sendOffchain(ctx context.Context, logger *slog.Logger, userID string, source *domain.Account, destAddress string, amount decimal.Decimal, currency domain.Currency) (*domain.Transaction, error) {
	if currency != domain.XUS {
		return nil, fmt.Errorf("%w: off-chain transfers settle in %s only", apperrors.ErrValidation, domain.XUS)
	}

	kycData, err := s.userSvc.GetKycData(ctx, userID)
	if err != nil {
		return nil, err
	}

	senderAddress, err := s.accountSvc.GenerateReceivingAddress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive sender address: %w", err)
	}
	_, senderSubaddress, err := utils.DecodeAccountIdentifier(senderAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to decode derived sender address: %w", err)
	}
	_, destSubaddress, err := utils.DecodeAccountIdentifier(destAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	now := time.Now()
	referenceID := uuid.NewString()
	sourceID := source.AccountID
	txn := domain.Transaction{
		TransactionID:         uuid.NewString(),
		ReferenceID:           referenceID,
		Type:                  domain.Offchain,
		Status:                domain.TxOffChainOutbound,
		Amount:                amount,
		Currency:              currency,
		SourceID:              &sourceID,
		SourceAddress:         senderAddress,
		SourceSubaddress:      senderSubaddress,
		DestinationAddress:    destAddress,
		DestinationSubaddress: destSubaddress,
		Timestamp:             now,
		Command: &domain.PaymentCommand{
			ReferenceID: referenceID,
			Sender: domain.PaymentActor{
				Address: senderAddress,
				Status:  domain.StatusNeedsKycData,
				KycData: kycData,
			},
			Receiver: domain.PaymentActor{
				Address: destAddress,
				Status:  domain.StatusNone,
			},
			Action: domain.PaymentAction{
				Amount:   amount,
				Currency: currency,
				Action:   "charge",
			},
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// Funds are held as soon as the transfer is opened.
	changes := []portsrepo.BalanceChange{
		{AccountID: source.AccountID, Currency: currency, Delta: amount.Neg()},
	}
	if err := s.txnRepo.SaveTransaction(ctx, txn, changes); err != nil {
		return nil, fmt.Errorf("failed to open off-chain transfer: %w", err)
	}

	logger.Info("Off-chain transfer opened",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("reference_id", referenceID))
	return &txn, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if !touchesAccount(txn, account.AccountID) {
		// Indistinguishable from a missing transaction for outsiders.
		return nil, fmt.Errorf("%w: transaction not found", apperrors.ErrNotFound)
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}

	var beforeTime time.Time
	var beforeID string
	if params.NextToken != "" {
		beforeTime, beforeID, err = pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
	}

	// Fetch one extra row to decide whether another page exists.
	txns, err := s.txnRepo.ListTransactionsByAccount(ctx, account.AccountID, limit+1, beforeTime, beforeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	nextToken := ""
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		nextToken = pagination.EncodeToken(last.Timestamp, last.TransactionID)
	}

	resp := dto.ToListTransactionsResponse(txns, nextToken)
	return &resp, nil
}

// touchesAccount reports whether the account is on either side of the transaction.
func touchesAccount(txn *domain.Transaction, accountID string) bool {
	if txn.SourceID != nil && *txn.SourceID == accountID {
		return true
	}
	if txn.DestinationID != nil && *txn.DestinationID == accountID {
		return true
	}
	return false
}
