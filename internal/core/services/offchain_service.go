package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsclients "github.com/monetaflow/wallet_backend/internal/core/ports/clients"
	portsrepo "github.com/monetaflow/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
	"github.com/monetaflow/wallet_backend/internal/middleware"
	"github.com/monetaflow/wallet_backend/internal/platform/config"
	"github.com/monetaflow/wallet_backend/internal/utils"
)

// workerBatchSize bounds how many items one tick pulls per lifecycle state.
const workerBatchSize = 50

// Command error codes returned to counterparty VASPs.
const (
	codeUnknownAddress      = "unknown_address"
	codeInvalidCommand      = "invalid_command"
	codeImmutableField      = "invalid_overwrite"
	codeUnsupportedCurrency = "unsupported_currency"
)

// offchainService implements the VASP-to-VASP payment negotiation: inbound
// command processing on the API path and outbound progress on the worker path.
type offchainService struct {
	txnRepo         portsrepo.TransactionRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	preApprovalRepo portsrepo.PreApprovalRepositoryFacade
	userSvc         portssvc.UserReaderSvc
	vaspClient      portsclients.VASPClient
	chainClient     portsclients.ChainClient
	cfg             *config.Config
}

// NewOffchainService creates a new off-chain service.
func NewOffchainService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	preApprovalRepo portsrepo.PreApprovalRepositoryFacade,
	userSvc portssvc.UserReaderSvc,
	vaspClient portsclients.VASPClient,
	chainClient portsclients.ChainClient,
	cfg *config.Config,
) portssvc.OffchainSvcFacade {
	return &offchainService{
		txnRepo:         txnRepo,
		accountRepo:     accountRepo,
		preApprovalRepo: preApprovalRepo,
		userSvc:         userSvc,
		vaspClient:      vaspClient,
		chainClient:     chainClient,
		cfg:             cfg,
	}
}

var _ portssvc.OffchainSvcFacade = (*offchainService)(nil)

// isMine reports whether an encoded account identifier belongs to this VASP.
func (s *offchainService) isMine(address string) bool {
	vasp, _, err := utils.DecodeAccountIdentifier(address)
	return err == nil && vasp == s.cfg.VASPAddress
}

// senderAuthorized reports whether the transport-level sender address matches
// the VASP behind one of the command's non-local actor addresses.
func (s *offchainService) senderAuthorized(senderAddress string, actorAddresses ...string) bool {
	for _, addr := range actorAddresses {
		if s.isMine(addr) {
			continue
		}
		vasp, _, err := utils.DecodeAccountIdentifier(addr)
		if err == nil && vasp == senderAddress {
			return true
		}
	}
	return false
}

func failure(cid, code, message string) domain.CommandResponse {
	return domain.CommandResponse{
		Status: domain.CommandStatusFailure,
		CID:    cid,
		Error:  &domain.CommandError{Type: "command_error", Code: code, Message: message},
	}
}

func success(cid string) domain.CommandResponse {
	return domain.CommandResponse{Status: domain.CommandStatusSuccess, CID: cid}
}

// ProcessInboundPaymentCommand validates and applies a payment command
// received from a counterparty VASP.
func (s *offchainService) ProcessInboundPaymentCommand(ctx context.Context, senderAddress, cid string, cmd domain.PaymentCommand) (domain.CommandResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if cmd.ReferenceID == "" {
		return failure(cid, codeInvalidCommand, "missing reference_id"), nil
	}
	if senderAddress == "" {
		return failure(cid, codeInvalidCommand, "missing X-Request-Sender-Address"), nil
	}
	if !s.senderAuthorized(senderAddress, cmd.Sender.Address, cmd.Receiver.Address) {
		return failure(cid, codeUnknownAddress, "sender address does not match the command's counterparty"), nil
	}
	if !cmd.Action.Currency.Valid() {
		return failure(cid, codeUnsupportedCurrency, fmt.Sprintf("currency %q is not supported", cmd.Action.Currency)), nil
	}
	if cmd.Action.Amount.LessThanOrEqual(decimal.Zero) {
		return failure(cid, codeInvalidCommand, "amount must be positive"), nil
	}

	existing, err := s.txnRepo.FindTransactionByReferenceID(ctx, cmd.ReferenceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.openInboundTransfer(ctx, logger, cid, cmd)
		}
		return domain.CommandResponse{}, fmt.Errorf("failed to look up payment command: %w", err)
	}
	return s.applyCounterpartyUpdate(ctx, logger, cid, existing, cmd)
}

// openInboundTransfer handles the first command of a transfer where this
// wallet is the receiver.
func (s *offchainService) openInboundTransfer(ctx context.Context, logger *slog.Logger, cid string, cmd domain.PaymentCommand) (domain.CommandResponse, error) {
	if !s.isMine(cmd.Receiver.Address) {
		return failure(cid, codeUnknownAddress, "receiver address does not belong to this VASP"), nil
	}
	_, subaddress, err := utils.DecodeAccountIdentifier(cmd.Receiver.Address)
	if err != nil {
		return failure(cid, codeUnknownAddress, "malformed receiver address"), nil
	}
	account, err := s.accountRepo.FindAccountBySubaddress(ctx, subaddress)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return failure(cid, codeUnknownAddress, "receiver subaddress is not known"), nil
		}
		return domain.CommandResponse{}, fmt.Errorf("failed to resolve receiver subaddress: %w", err)
	}

	now := time.Now()
	destID := account.AccountID
	inbound := cmd
	inbound.Inbound = true
	txn := domain.Transaction{
		TransactionID:         uuid.NewString(),
		ReferenceID:           cmd.ReferenceID,
		Type:                  domain.Offchain,
		Status:                domain.TxOffChainInbound,
		Amount:                cmd.Action.Amount,
		Currency:              cmd.Action.Currency,
		SourceAddress:         cmd.Sender.Address,
		DestinationID:         &destID,
		DestinationAddress:    cmd.Receiver.Address,
		DestinationSubaddress: subaddress,
		Timestamp:             now,
		Command:               &inbound,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "offchain",
			LastUpdatedAt: now,
			LastUpdatedBy: "offchain",
		},
	}
	if err := s.txnRepo.SaveTransaction(ctx, txn, nil); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// The counterparty retried; the first write won.
			return success(cid), nil
		}
		return domain.CommandResponse{}, fmt.Errorf("failed to open inbound transfer: %w", err)
	}

	logger.Info("Inbound off-chain transfer opened",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("reference_id", cmd.ReferenceID))
	return success(cid), nil
}

// applyCounterpartyUpdate merges the counterparty's actor state into an
// existing transfer and moves its lifecycle forward.
func (s *offchainService) applyCounterpartyUpdate(ctx context.Context, logger *slog.Logger, cid string, txn *domain.Transaction, cmd domain.PaymentCommand) (domain.CommandResponse, error) {
	if txn.Command == nil {
		return failure(cid, codeInvalidCommand, "reference_id does not belong to an off-chain transfer"), nil
	}
	stored := *txn.Command

	// Immutable fields must survive every update.
	if !cmd.Action.Amount.Equal(stored.Action.Amount) || cmd.Action.Currency != stored.Action.Currency {
		return failure(cid, codeImmutableField, "payment action cannot change"), nil
	}
	if cmd.Sender.Address != stored.Sender.Address || cmd.Receiver.Address != stored.Receiver.Address {
		return failure(cid, codeImmutableField, "actor addresses cannot change"), nil
	}

	weAreSender := s.isMine(stored.Sender.Address)
	if weAreSender {
		// Only the receiver side may move under the counterparty's pen.
		stored.Receiver = cmd.Receiver
		if cmd.RecipientSignature != "" {
			stored.RecipientSignature = cmd.RecipientSignature
		}
	} else {
		stored.Sender = cmd.Sender
	}
	stored.Inbound = true
	txn.Command = &stored
	txn.LastUpdatedAt = time.Now()
	txn.LastUpdatedBy = "offchain"

	var changes []portsrepo.BalanceChange
	switch {
	case stored.IsAbort():
		txn.Status = domain.TxCanceled
		if weAreSender && txn.SourceID != nil {
			// Release the held funds back to the sender.
			changes = []portsrepo.BalanceChange{
				{AccountID: *txn.SourceID, Currency: txn.Currency, Delta: txn.Amount},
			}
		}
	case stored.BothReady() && weAreSender:
		txn.Status = domain.TxOffChainReady
	case weAreSender && stored.Receiver.Status == domain.StatusReadyForSettlement:
		// Receiver answered with its KYC payload; the worker evaluates it
		// and signals our readiness.
		txn.Status = domain.TxOffChainInbound
	case !weAreSender && stored.Sender.Status == domain.StatusNeedsKycData:
		// Worker answers with our KYC payload and recipient signature.
		txn.Status = domain.TxOffChainInbound
	default:
		txn.Status = domain.TxOffChainWait
	}

	if err := s.txnRepo.UpdateTransaction(ctx, *txn, changes); err != nil {
		return domain.CommandResponse{}, fmt.Errorf("failed to apply counterparty update: %w", err)
	}

	logger.Info("Counterparty payment command applied",
		slog.String("reference_id", stored.ReferenceID),
		slog.String("status", string(txn.Status)))
	return success(cid), nil
}

// ProcessInboundPreApprovalCommand validates and applies a funds-pull
// pre-approval command received from a counterparty VASP. The command's
// status decides our role: a pending request makes us the payer, an
// established answer (valid/rejected) makes us the payee.
func (s *offchainService) ProcessInboundPreApprovalCommand(ctx context.Context, senderAddress, cid string, pa domain.FundsPullPreApproval) (domain.CommandResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if pa.PreApprovalID == "" {
		return failure(cid, codeInvalidCommand, "missing funds_pull_pre_approval_id"), nil
	}
	if senderAddress == "" {
		return failure(cid, codeInvalidCommand, "missing X-Request-Sender-Address"), nil
	}
	if !s.senderAuthorized(senderAddress, pa.Address, pa.BillerAddress) {
		return failure(cid, codeUnknownAddress, "sender address does not match the command's counterparty"), nil
	}

	existing, err := s.preApprovalRepo.FindPreApprovalByID(ctx, pa.PreApprovalID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return domain.CommandResponse{}, fmt.Errorf("failed to look up pre-approval: %w", err)
	}

	if existing == nil {
		var (
			role      domain.PreApprovalRole
			localAddr string
		)
		switch pa.Status {
		case domain.PreApprovalPending:
			// A biller asking one of our users for approval: we are the payer.
			role = domain.RolePayer
			localAddr = pa.Address
		case domain.PreApprovalValid, domain.PreApprovalRejected:
			// A payer answering one of our billers: we are the payee.
			role = domain.RolePayee
			localAddr = pa.BillerAddress
		default:
			return failure(cid, codeInvalidCommand,
				fmt.Sprintf("cannot open a pre-approval in status %q", pa.Status)), nil
		}

		if !s.isMine(localAddr) {
			return failure(cid, codeUnknownAddress, "pre-approval does not involve this VASP"), nil
		}
		_, subaddress, decErr := utils.DecodeAccountIdentifier(localAddr)
		if decErr != nil {
			return failure(cid, codeUnknownAddress, "malformed account address"), nil
		}
		account, accErr := s.accountRepo.FindAccountBySubaddress(ctx, subaddress)
		if accErr != nil {
			if errors.Is(accErr, apperrors.ErrNotFound) {
				return failure(cid, codeUnknownAddress, "subaddress is not known"), nil
			}
			return domain.CommandResponse{}, fmt.Errorf("failed to resolve subaddress: %w", accErr)
		}

		now := time.Now()
		pa.AccountID = account.AccountID
		pa.Role = role
		pa.Sent = true // came from the counterparty, nothing to push back yet
		pa.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "offchain",
			LastUpdatedAt: now,
			LastUpdatedBy: "offchain",
		}
		if err := s.preApprovalRepo.SavePreApproval(ctx, pa); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return success(cid), nil
			}
			return domain.CommandResponse{}, fmt.Errorf("failed to store inbound pre-approval: %w", err)
		}
		logger.Info("Inbound funds-pull pre-approval stored",
			slog.String("pre_approval_id", pa.PreApprovalID),
			slog.String("role", string(role)))
		return success(cid), nil
	}

	// Updates may not move the approval between accounts.
	if pa.Address != existing.Address || pa.BillerAddress != existing.BillerAddress {
		return failure(cid, codeImmutableField, "address and biller_address cannot change"), nil
	}
	if !preApprovalTransitionAllowed(existing.Status, pa.Status) {
		return failure(cid, codeInvalidCommand,
			fmt.Sprintf("illegal status transition %s to %s", existing.Status, pa.Status)), nil
	}

	existing.Status = pa.Status
	existing.Sent = true
	existing.LastUpdatedAt = time.Now()
	existing.LastUpdatedBy = "offchain"
	if err := s.preApprovalRepo.UpdatePreApproval(ctx, *existing); err != nil {
		return domain.CommandResponse{}, fmt.Errorf("failed to update pre-approval: %w", err)
	}

	logger.Info("Funds-pull pre-approval updated by counterparty",
		slog.String("pre_approval_id", existing.PreApprovalID),
		slog.String("status", string(existing.Status)))
	return success(cid), nil
}

// preApprovalTransitionAllowed encodes the legal status moves: a pending
// approval resolves to valid or rejected, a valid one can only be closed.
func preApprovalTransitionAllowed(from, to domain.PreApprovalStatus) bool {
	switch from {
	case domain.PreApprovalPending:
		return to == domain.PreApprovalValid || to == domain.PreApprovalRejected
	case domain.PreApprovalValid:
		return to == domain.PreApprovalClosed
	default:
		return false
	}
}

// Tick processes one round of pending off-chain work.
func (s *offchainService) Tick(ctx context.Context) (int, error) {
	advanced := 0

	n, err := s.pushOutbound(ctx)
	advanced += n
	if err != nil {
		return advanced, err
	}

	n, err = s.answerInbound(ctx)
	advanced += n
	if err != nil {
		return advanced, err
	}

	n, err = s.settleReady(ctx)
	advanced += n
	if err != nil {
		return advanced, err
	}

	n, err = s.pushPreApprovals(ctx)
	advanced += n
	return advanced, err
}

// pushOutbound delivers freshly opened transfers to the counterparty VASP.
func (s *offchainService) pushOutbound(ctx context.Context) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txns, err := s.txnRepo.ListTransactionsByStatus(ctx, domain.TxOffChainOutbound, workerBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list outbound transfers: %w", err)
	}

	advanced := 0
	for i := range txns {
		txn := txns[i]
		if txn.Command == nil {
			logger.Error("Outbound transfer has no payment command", slog.String("transaction_id", txn.TransactionID))
			continue
		}

		resp, err := s.vaspClient.SendPaymentCommand(ctx, txn.DestinationAddress, *txn.Command)
		if err != nil {
			logger.Warn("Failed to push payment command, will retry",
				slog.String("transaction_id", txn.TransactionID),
				slog.String("error", err.Error()))
			continue
		}
		if resp.Status != domain.CommandStatusSuccess {
			logger.Error("Counterparty rejected payment command",
				slog.String("transaction_id", txn.TransactionID),
				slog.Any("error", resp.Error))
			txn.Status = domain.TxCanceled
			var changes []portsrepo.BalanceChange
			if txn.SourceID != nil {
				changes = []portsrepo.BalanceChange{
					{AccountID: *txn.SourceID, Currency: txn.Currency, Delta: txn.Amount},
				}
			}
			if err := s.txnRepo.UpdateTransaction(ctx, txn, changes); err != nil {
				return advanced, fmt.Errorf("failed to cancel rejected transfer: %w", err)
			}
			advanced++
			continue
		}

		txn.Status = domain.TxOffChainWait
		txn.LastUpdatedAt = time.Now()
		txn.LastUpdatedBy = "worker"
		if err := s.txnRepo.UpdateTransaction(ctx, txn, nil); err != nil {
			return advanced, fmt.Errorf("failed to mark transfer as waiting: %w", err)
		}
		advanced++
	}
	return advanced, nil
}

// answerInbound completes the KYC exchange for transfers the counterparty
// moved forward. On the receiver side it attaches our user's KYC payload and
// recipient signature; on the sender side it evaluates the receiver's answer
// and signals our readiness.
func (s *offchainService) answerInbound(ctx context.Context) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txns, err := s.txnRepo.ListTransactionsByStatus(ctx, domain.TxOffChainInbound, workerBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list inbound transfers: %w", err)
	}

	advanced := 0
	for i := range txns {
		txn := txns[i]
		if txn.Command == nil {
			logger.Error("Inbound transfer is missing its command", slog.String("transaction_id", txn.TransactionID))
			continue
		}

		if txn.SourceID != nil {
			if err := s.evaluateReceiverAnswer(ctx, logger, txn); err != nil {
				return advanced, err
			}
			advanced++
			continue
		}
		if txn.DestinationID == nil {
			logger.Error("Inbound transfer has no destination", slog.String("transaction_id", txn.TransactionID))
			continue
		}

		account, err := s.accountRepo.FindAccountByID(ctx, *txn.DestinationID)
		if err != nil {
			logger.Error("Failed to load receiver account", slog.String("transaction_id", txn.TransactionID), slog.String("error", err.Error()))
			continue
		}

		cmd := *txn.Command
		kycData, err := s.userSvc.GetKycData(ctx, account.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrValidation) {
				// Receiver has no KYC on file; abort the transfer.
				cmd.Receiver.Status = domain.StatusAbort
				txn.Status = domain.TxCanceled
				txn.Command = &cmd
				if pushErr := s.pushAndUpdate(ctx, logger, txn, cmd, nil); pushErr != nil {
					return advanced, pushErr
				}
				advanced++
				continue
			}
			return advanced, fmt.Errorf("failed to build receiver KYC payload: %w", err)
		}

		signature, err := utils.SignRecipientSignature(s.cfg.CompliancePrivateKey, cmd.ReferenceID)
		if err != nil {
			return advanced, fmt.Errorf("failed to sign recipient signature: %w", err)
		}

		cmd.Receiver.KycData = kycData
		cmd.Receiver.Status = domain.StatusReadyForSettlement
		cmd.RecipientSignature = signature
		cmd.Inbound = false
		txn.Command = &cmd
		txn.Status = domain.TxOffChainWait
		if cmd.BothReady() {
			txn.Status = domain.TxOffChainReady
		}
		if err := s.pushAndUpdate(ctx, logger, txn, cmd, nil); err != nil {
			return advanced, err
		}
		advanced++
	}
	return advanced, nil
}

// evaluateReceiverAnswer handles the sender side of the KYC exchange: the
// receiver signaled ready, so check its answer carries the KYC payload and
// recipient signature, then mark our actor ready for settlement.
func (s *offchainService) evaluateReceiverAnswer(ctx context.Context, logger *slog.Logger, txn domain.Transaction) error {
	cmd := *txn.Command

	if cmd.Receiver.KycData == nil || cmd.RecipientSignature == "" {
		// The answer is unusable; abort and release the held funds.
		cmd.Sender.Status = domain.StatusAbort
		txn.Status = domain.TxCanceled
		txn.Command = &cmd
		changes := []portsrepo.BalanceChange{
			{AccountID: *txn.SourceID, Currency: txn.Currency, Delta: txn.Amount},
		}
		return s.pushAndUpdate(ctx, logger, txn, cmd, changes)
	}

	cmd.Sender.Status = domain.StatusReadyForSettlement
	cmd.Inbound = false
	txn.Command = &cmd
	txn.Status = domain.TxOffChainWait
	if cmd.BothReady() {
		txn.Status = domain.TxOffChainReady
	}
	return s.pushAndUpdate(ctx, logger, txn, cmd, nil)
}

// pushAndUpdate sends the command to the counterparty and persists the new
// transaction state. Delivery failures leave the state untouched for retry.
func (s *offchainService) pushAndUpdate(ctx context.Context, logger *slog.Logger, txn domain.Transaction, cmd domain.PaymentCommand, changes []portsrepo.BalanceChange) error {
	counterparty := txn.SourceAddress
	if txn.SourceID != nil {
		counterparty = txn.DestinationAddress
	}

	resp, err := s.vaspClient.SendPaymentCommand(ctx, counterparty, cmd)
	if err != nil {
		logger.Warn("Failed to push payment command, will retry",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("error", err.Error()))
		return nil
	}
	if resp.Status != domain.CommandStatusSuccess {
		logger.Error("Counterparty rejected payment command",
			slog.String("transaction_id", txn.TransactionID),
			slog.Any("error", resp.Error))
		return nil
	}

	txn.LastUpdatedAt = time.Now()
	txn.LastUpdatedBy = "worker"
	if err := s.txnRepo.UpdateTransaction(ctx, txn, changes); err != nil {
		return fmt.Errorf("failed to persist pushed command state: %w", err)
	}
	return nil
}

// settleReady finishes transfers where both actors are ready. Outbound
// transfers settle on chain; inbound transfers credit the receiver.
func (s *offchainService) settleReady(ctx context.Context) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txns, err := s.txnRepo.ListTransactionsByStatus(ctx, domain.TxOffChainReady, workerBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list ready transfers: %w", err)
	}

	advanced := 0
	for i := range txns {
		txn := txns[i]

		if txn.SourceID != nil {
			// We are the sender: submit the settlement transaction on chain.
			settlement, err := s.chainClient.SubmitTransfer(ctx, txn)
			if err != nil {
				logger.Warn("Chain settlement failed, will retry",
					slog.String("transaction_id", txn.TransactionID),
					slog.String("error", err.Error()))
				continue
			}
			txn.Sequence = &settlement.Sequence
			txn.ChainVersion = &settlement.Version
			txn.Status = domain.TxCompleted
			txn.LastUpdatedAt = time.Now()
			txn.LastUpdatedBy = "worker"
			if err := s.txnRepo.UpdateTransaction(ctx, txn, nil); err != nil {
				return advanced, fmt.Errorf("failed to complete settled transfer: %w", err)
			}
			logger.Info("Off-chain transfer settled on chain",
				slog.String("transaction_id", txn.TransactionID),
				slog.Int64("version", settlement.Version))
			advanced++
			continue
		}

		if txn.DestinationID != nil {
			// We are the receiver: credit the destination balance.
			txn.Status = domain.TxCompleted
			txn.LastUpdatedAt = time.Now()
			txn.LastUpdatedBy = "worker"
			changes := []portsrepo.BalanceChange{
				{AccountID: *txn.DestinationID, Currency: txn.Currency, Delta: txn.Amount},
			}
			if err := s.txnRepo.UpdateTransaction(ctx, txn, changes); err != nil {
				return advanced, fmt.Errorf("failed to credit inbound transfer: %w", err)
			}
			logger.Info("Inbound off-chain transfer credited",
				slog.String("transaction_id", txn.TransactionID))
			advanced++
		}
	}
	return advanced, nil
}

// pushPreApprovals delivers pre-approvals and status updates to the biller's VASP.
func (s *offchainService) pushPreApprovals(ctx context.Context) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	pending, err := s.preApprovalRepo.ListUnsentPreApprovals(ctx, workerBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list unsent pre-approvals: %w", err)
	}

	advanced := 0
	for i := range pending {
		pa := pending[i]
		counterparty := pa.BillerAddress
		if pa.Role == domain.RolePayee {
			counterparty = pa.Address
		}

		resp, err := s.vaspClient.SendPreApprovalCommand(ctx, counterparty, pa)
		if err != nil {
			logger.Warn("Failed to push pre-approval, will retry",
				slog.String("pre_approval_id", pa.PreApprovalID),
				slog.String("error", err.Error()))
			continue
		}
		if resp.Status != domain.CommandStatusSuccess {
			logger.Error("Counterparty rejected pre-approval",
				slog.String("pre_approval_id", pa.PreApprovalID),
				slog.Any("error", resp.Error))
		}

		pa.Sent = true
		pa.LastUpdatedAt = time.Now()
		pa.LastUpdatedBy = "worker"
		if err := s.preApprovalRepo.UpdatePreApproval(ctx, pa); err != nil {
			return advanced, fmt.Errorf("failed to mark pre-approval as sent: %w", err)
		}
		advanced++
	}
	return advanced, nil
}
