package services_test

import (
	"context"
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portsclients "github.com/monetaflow/wallet_backend/internal/core/ports/clients"
	portsrepo "github.com/monetaflow/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
	"github.com/monetaflow/wallet_backend/internal/core/services"
	"github.com/monetaflow/wallet_backend/internal/platform/config"
)

type OffchainServiceTestSuite struct {
	suite.Suite
	mockTxnRepo         *MockTransactionRepository
	mockAccountRepo     *MockAccountRepository
	mockPreApprovalRepo *MockPreApprovalRepository
	mockUserSvc         *MockUserReaderService
	mockVASPClient      *MockVASPClient
	mockChainClient     *MockChainClient
	service             portssvc.OffchainSvcFacade
}

func (suite *OffchainServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPreApprovalRepo = new(MockPreApprovalRepository)
	suite.mockUserSvc = new(MockUserReaderService)
	suite.mockVASPClient = new(MockVASPClient)
	suite.mockChainClient = new(MockChainClient)
	suite.service = services.NewOffchainService(
		suite.mockTxnRepo,
		suite.mockAccountRepo,
		suite.mockPreApprovalRepo,
		suite.mockUserSvc,
		suite.mockVASPClient,
		suite.mockChainClient,
		&config.Config{
			VASPAddress:          ourVASPAddress,
			CompliancePrivateKey: strings.Repeat("ab", ed25519.SeedSize),
		},
	)
}

func (suite *OffchainServiceTestSuite) newInboundCommand() domain.PaymentCommand {
	return domain.PaymentCommand{
		ReferenceID: uuid.NewString(),
		Sender: domain.PaymentActor{
			Address: mustEncodeAddress(suite.T(), otherVASPAddress, "1122334455667788"),
			Status:  domain.StatusNeedsKycData,
			KycData: &domain.KycData{Type: "individual", GivenName: "Grace"},
		},
		Receiver: domain.PaymentActor{
			Address: mustEncodeAddress(suite.T(), ourVASPAddress, "cf64428bdeb62af2"),
			Status:  domain.StatusNone,
		},
		Action: domain.PaymentAction{
			Amount:   decimal.NewFromInt(42),
			Currency: domain.XUS,
			Action:   "charge",
		},
	}
}

func (suite *OffchainServiceTestSuite) TestProcessInboundPaymentCommand_OpensInboundTransfer() {
	ctx := context.Background()
	cid := uuid.NewString()
	cmd := suite.newInboundCommand()
	account := &domain.Account{AccountID: uuid.NewString(), UserID: uuid.NewString(), IsActive: true}

	suite.mockTxnRepo.On("FindTransactionByReferenceID", ctx, cmd.ReferenceID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountBySubaddress", ctx, "cf64428bdeb62af2").Return(account, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.TxOffChainInbound &&
			txn.ReferenceID == cmd.ReferenceID &&
			txn.DestinationID != nil && *txn.DestinationID == account.AccountID &&
			txn.Command != nil && txn.Command.Inbound
	}), mock.Anything).Return(nil).Once()

	resp, err := suite.service.ProcessInboundPaymentCommand(ctx, otherVASPAddress, cid, cmd)

	suite.Require().NoError(err)
	suite.Equal(domain.CommandStatusSuccess, resp.Status)
	suite.Equal(cid, resp.CID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *OffchainServiceTestSuite) TestProcessInboundPaymentCommand_UnknownReceiver() {
	ctx := context.Background()
	cmd := suite.newInboundCommand()
	// Receiver belongs to some other VASP, not us.
	cmd.Receiver.Address = mustEncodeAddress(suite.T(), otherVASPAddress, "cf64428bdeb62af2")

	suite.mockTxnRepo.On("FindTransactionByReferenceID", ctx, cmd.ReferenceID).
		Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.ProcessInboundPaymentCommand(ctx, otherVASPAddress, "cid-1", cmd)

	suite.Require().NoError(err)
	suite.Equal(domain.CommandStatusFailure, resp.Status)
	suite.Require().NotNil(resp.Error)
	suite.Equal("unknown_address", resp.Error.Code)
}

func (suite *OffchainServiceTestSuite) TestProcessInboundPaymentCommand_MissingSenderHeader() {
	ctx := context.Background()
	cmd := suite.newInboundCommand()

	resp, err := suite.service.ProcessInboundPaymentCommand(ctx, "", "cid-8", cmd)

	suite.Require().NoError(err)
	suite.Equal(domain.CommandStatusFailure, resp.Status)
	suite.Require().NotNil(resp.Error)
	suite.Equal("invalid_command", resp.Error.Code)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionByReferenceID", mock.Anything, mock.Anything)
}

func (suite *OffchainServiceTestSuite) TestProcessInboundPaymentCommand_SenderHeaderMismatch() {
	ctx := context.Background()
	cmd := suite.newInboundCommand()

	// The transport-level sender is not the VASP behind the command's
	// counterparty actor, so the command is rejected before any lookup.
	resp, err := suite.service.ProcessInboundPaymentCommand(ctx, "4c0ff33b4dc0ff33b4dc0ff33b4dc0ff", "cid-9", cmd)

	suite.Require().NoError(err)
	suite.Equal(domain.CommandStatusFailure, resp.Status)
	suite.Require().NotNil(resp.Error)
	suite.Equal("unknown_address", resp.Error.Code)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionByReferenceID", mock.Anything, mock.Anything)
}

func (suite *OffchainServiceTestSuite) TestProcessInboundPaymentCommand_DuplicateIsIdempotent() {
	ctx := context.Background()
	cmd := suite.newInboundCommand()
	account := &domain.Account{AccountID: uuid.NewString(), IsActive: true}

	suite.mockTxnRepo.On("FindTransactionByReferenceID", ctx, cmd.ReferenceID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountBySubaddress", ctx, "cf64428bdeb62af2").Return(account, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()

	resp, err := suite.service.ProcessInboundPaymentCommand(ctx, otherVASPAddress, "cid-2", cmd)

	suite.Require().NoError(err)
	suite.Equal(domain.CommandStatusSuccess, resp.Status)
}

func (suite *OffchainServiceTestSuite) TestProcessInboundPaymentCommand_ImmutableActionRejected() {
	ctx := context.Background()
	cmd := suite.newInboundCommand()
	sourceID := uuid.NewString()
	stored := cmd
	existing := &domain.Transaction{
		TransactionID: uuid.NewString(),
		ReferenceID:   cmd.ReferenceID,
		Status:        domain.TxOffChainWait,
		Amount:        stored.Action.Amount,
		Currency:      stored.Action.Currency,
		SourceID:      &sourceID,
		Command:       &stored,
	}

	update := cmd
	update.Action.Amount = decimal.NewFromInt(9999)

	suite.mockTxnRepo.On("FindTransactionByReferenceID", ctx, cmd.ReferenceID).Return(existing, nil).Once()

	resp, err := suite.service.ProcessInboundPaymentCommand(ctx, otherVASPAddress, "cid-3", update)

	suite.Require().NoError(err)
	suite.Equal(domain.CommandStatusFailure, resp.Status)
	suite.Equal("invalid_overwrite", resp.Error.Code)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OffchainServiceTestSuite) TestProcessInboundPaymentCommand_AbortRefundsSender() {
	ctx := context.Background()
	sourceID := uuid.NewString()
	// We are the sender on this transfer.
	stored := domain.PaymentCommand{
		ReferenceID: uuid.NewString(),
		Sender: domain.PaymentActor{
			Address: mustEncodeAddress(suite.T(), ourVASPAddress, "aabbccdd00112233"),
			Status:  domain.StatusNeedsKycData,
		},
		Receiver: domain.PaymentActor{
			Address: mustEncodeAddress(suite.T(), otherVASPAddress, "1122334455667788"),
			Status:  domain.StatusNone,
		},
		Action: domain.PaymentAction{Amount: decimal.NewFromInt(7), Currency: domain.XUS, Action: "charge"},
	}
	existing := &domain.Transaction{
		TransactionID: uuid.NewString(),
		ReferenceID:   stored.ReferenceID,
		Status:        domain.TxOffChainWait,
		Amount:        stored.Action.Amount,
		Currency:      domain.XUS,
		SourceID:      &sourceID,
		Command:       &stored,
	}

	update := stored
	update.Receiver.Status = domain.StatusAbort

	suite.mockTxnRepo.On("FindTransactionByReferenceID", ctx, stored.ReferenceID).Return(existing, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.TxCanceled
	}), mock.MatchedBy(func(changes []portsrepo.BalanceChange) bool {
		// The held funds go back to the sender.
		return len(changes) == 1 &&
			changes[0].AccountID == sourceID &&
			changes[0].Delta.Equal(decimal.NewFromInt(7))
	})).Return(nil).Once()

	resp, err := suite.service.ProcessInboundPaymentCommand(ctx, otherVASPAddress, "cid-4", update)

	suite.Require().NoError(err)
	suite.Equal(domain.CommandStatusSuccess, resp.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *OffchainServiceTestSuite) TestProcessInboundPaymentCommand_BothReadyMarksReady() {
	ctx := context.Background()
	sourceID := uuid.NewString()
	stored := domain.PaymentCommand{
		ReferenceID: uuid.NewString(),
		Sender: domain.PaymentActor{
			Address: mustEncodeAddress(suite.T(), ourVASPAddress, "aabbccdd00112233"),
			Status:  domain.StatusReadyForSettlement,
		},
		Receiver: domain.PaymentActor{
			Address: mustEncodeAddress(suite.T(), otherVASPAddress, "1122334455667788"),
			Status:  domain.StatusNone,
		},
		Action: domain.PaymentAction{Amount: decimal.NewFromInt(7), Currency: domain.XUS, Action: "charge"},
	}
	existing := &domain.Transaction{
		TransactionID: uuid.NewString(),
		ReferenceID:   stored.ReferenceID,
		Status:        domain.TxOffChainWait,
		Amount:        stored.Action.Amount,
		Currency:      domain.XUS,
		SourceID:      &sourceID,
		Command:       &stored,
	}

	update := stored
	update.Receiver.Status = domain.StatusReadyForSettlement
	update.RecipientSignature = "deadbeef"

	suite.mockTxnRepo.On("FindTransactionByReferenceID", ctx, stored.ReferenceID).Return(existing, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.TxOffChainReady &&
			txn.Command.RecipientSignature == "deadbeef"
	}), mock.Anything).Return(nil).Once()

	resp, err := suite.service.ProcessInboundPaymentCommand(ctx, otherVASPAddress, "cid-5", update)

	suite.Require().NoError(err)
	suite.Equal(domain.CommandStatusSuccess, resp.Status)
}

func (suite *OffchainServiceTestSuite) TestProcessInboundPaymentCommand_ReceiverAnswerQueuesSenderEvaluation() {
	ctx := context.Background()
	sourceID := uuid.NewString()
	// We are the sender, still waiting on the receiver's KYC answer.
	stored := domain.PaymentCommand{
		ReferenceID: uuid.NewString(),
		Sender: domain.PaymentActor{
			Address: mustEncodeAddress(suite.T(), ourVASPAddress, "aabbccdd00112233"),
			Status:  domain.StatusNeedsKycData,
		},
		Receiver: domain.PaymentActor{
			Address: mustEncodeAddress(suite.T(), otherVASPAddress, "1122334455667788"),
			Status:  domain.StatusNone,
		},
		Action: domain.PaymentAction{Amount: decimal.NewFromInt(7), Currency: domain.XUS, Action: "charge"},
	}
	existing := &domain.Transaction{
		TransactionID: uuid.NewString(),
		ReferenceID:   stored.ReferenceID,
		Status:        domain.TxOffChainWait,
		Amount:        stored.Action.Amount,
		Currency:      domain.XUS,
		SourceID:      &sourceID,
		Command:       &stored,
	}

	update := stored
	update.Receiver.Status = domain.StatusReadyForSettlement
	update.Receiver.KycData = &domain.KycData{Type: "individual", GivenName: "Ada"}
	update.RecipientSignature = "deadbeef"

	suite.mockTxnRepo.On("FindTransactionByReferenceID", ctx, stored.ReferenceID).Return(existing, nil).Once()
	// The transfer must not park in the waiting state; the worker picks it
	// up from the inbound queue to evaluate the answer and mark us ready.
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Status == domain.TxOffChainInbound &&
			txn.Command.Receiver.KycData != nil &&
			txn.Command.RecipientSignature == "deadbeef"
	}), mock.Anything).Return(nil).Once()

	resp, err := suite.service.ProcessInboundPaymentCommand(ctx, otherVASPAddress, "cid-10", update)

	suite.Require().NoError(err)
	suite.Equal(domain.CommandStatusSuccess, resp.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *OffchainServiceTestSuite) TestProcessInboundPreApprovalCommand_StoresPayerSide() {
	ctx := context.Background()
	account := &domain.Account{AccountID: uuid.NewString(), IsActive: true}
	pa := domain.FundsPullPreApproval{
		PreApprovalID: uuid.NewString(),
		Address:       mustEncodeAddress(suite.T(), ourVASPAddress, "cf64428bdeb62af2"),
		BillerAddress: mustEncodeAddress(suite.T(), otherVASPAddress, "1122334455667788"),
		Scope: domain.PreApprovalScope{
			Type:                domain.ScopeTypeConsent,
			ExpirationTimestamp: 9999999999,
		},
		Status: domain.PreApprovalPending,
	}

	suite.mockPreApprovalRepo.On("FindPreApprovalByID", ctx, pa.PreApprovalID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountBySubaddress", ctx, "cf64428bdeb62af2").Return(account, nil).Once()
	suite.mockPreApprovalRepo.On("SavePreApproval", ctx, mock.MatchedBy(func(got domain.FundsPullPreApproval) bool {
		return got.AccountID == account.AccountID &&
			got.Role == domain.RolePayer &&
			got.Status == domain.PreApprovalPending &&
			got.Sent
	})).Return(nil).Once()

	resp, err := suite.service.ProcessInboundPreApprovalCommand(ctx, otherVASPAddress, "cid-6", pa)

	suite.Require().NoError(err)
	suite.Equal(domain.CommandStatusSuccess, resp.Status)
	suite.mockPreApprovalRepo.AssertExpectations(suite.T())
}

func (suite *OffchainServiceTestSuite) TestProcessInboundPreApprovalCommand_StoresPayeeSide() {
	ctx := context.Background()
	account := &domain.Account{AccountID: uuid.NewString(), IsActive: true}
	// A payer approved one of our billers, so the approval lands on the
	// biller's account and keeps the status the payer established.
	pa := domain.FundsPullPreApproval{
		PreApprovalID: uuid.NewString(),
		Address:       mustEncodeAddress(suite.T(), otherVASPAddress, "1122334455667788"),
		BillerAddress: mustEncodeAddress(suite.T(), ourVASPAddress, "cf64428bdeb62af2"),
		Scope: domain.PreApprovalScope{
			Type:                domain.ScopeTypeConsent,
			ExpirationTimestamp: 9999999999,
		},
		Status: domain.PreApprovalValid,
	}

	suite.mockPreApprovalRepo.On("FindPreApprovalByID", ctx, pa.PreApprovalID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountBySubaddress", ctx, "cf64428bdeb62af2").Return(account, nil).Once()
	suite.mockPreApprovalRepo.On("SavePreApproval", ctx, mock.MatchedBy(func(got domain.FundsPullPreApproval) bool {
		return got.AccountID == account.AccountID &&
			got.Role == domain.RolePayee &&
			got.Status == domain.PreApprovalValid &&
			got.Sent
	})).Return(nil).Once()

	resp, err := suite.service.ProcessInboundPreApprovalCommand(ctx, otherVASPAddress, "cid-11", pa)

	suite.Require().NoError(err)
	suite.Equal(domain.CommandStatusSuccess, resp.Status)
	suite.mockPreApprovalRepo.AssertExpectations(suite.T())
}

func (suite *OffchainServiceTestSuite) TestProcessInboundPreApprovalCommand_IllegalTransition() {
	ctx := context.Background()
	existing := &domain.FundsPullPreApproval{
		PreApprovalID: uuid.NewString(),
		Address:       mustEncodeAddress(suite.T(), ourVASPAddress, "cf64428bdeb62af2"),
		BillerAddress: mustEncodeAddress(suite.T(), otherVASPAddress, "1122334455667788"),
		Status:        domain.PreApprovalRejected,
	}

	update := *existing
	update.Status = domain.PreApprovalValid

	suite.mockPreApprovalRepo.On("FindPreApprovalByID", ctx, existing.PreApprovalID).Return(existing, nil).Once()

	resp, err := suite.service.ProcessInboundPreApprovalCommand(ctx, otherVASPAddress, "cid-7", update)

	suite.Require().NoError(err)
	suite.Equal(domain.CommandStatusFailure, resp.Status)
	suite.Equal("invalid_command", resp.Error.Code)
}

func (suite *OffchainServiceTestSuite) TestTick_PushesOutboundTransfer() {
	ctx := context.Background()
	sourceID := uuid.NewString()
	cmd := domain.PaymentCommand{
		ReferenceID: uuid.NewString(),
		Sender:      domain.PaymentActor{Address: mustEncodeAddress(suite.T(), ourVASPAddress, "aabbccdd00112233"), Status: domain.StatusNeedsKycData},
		Receiver:    domain.PaymentActor{Address: mustEncodeAddress(suite.T(), otherVASPAddress, "1122334455667788"), Status: domain.StatusNone},
		Action:      domain.PaymentAction{Amount: decimal.NewFromInt(3), Currency: domain.XUS, Action: "charge"},
	}
	outbound := domain.Transaction{
		TransactionID:      uuid.NewString(),
		ReferenceID:        cmd.ReferenceID,
		Status:             domain.TxOffChainOutbound,
		Amount:             cmd.Action.Amount,
		Currency:           domain.XUS,
		SourceID:           &sourceID,
		DestinationAddress: cmd.Receiver.Address,
		Command:            &cmd,
	}

	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainOutbound, 50).
		Return([]domain.Transaction{outbound}, nil).Once()
	suite.mockVASPClient.On("SendPaymentCommand", ctx, outbound.DestinationAddress, cmd).
		Return(domain.CommandResponse{Status: domain.CommandStatusSuccess}, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.TransactionID == outbound.TransactionID && txn.Status == domain.TxOffChainWait
	}), mock.Anything).Return(nil).Once()

	// The remaining worker phases have nothing to do.
	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainInbound, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainReady, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockPreApprovalRepo.On("ListUnsentPreApprovals", ctx, 50).
		Return([]domain.FundsPullPreApproval{}, nil).Once()

	advanced, err := suite.service.Tick(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, advanced)
	suite.mockVASPClient.AssertExpectations(suite.T())
}

func (suite *OffchainServiceTestSuite) TestTick_AnswersInboundWithKycAndSignature() {
	ctx := context.Background()
	destID := uuid.NewString()
	account := &domain.Account{AccountID: destID, UserID: uuid.NewString(), IsActive: true}
	kyc := &domain.KycData{Type: "individual", GivenName: "Grace", Surname: "Hopper"}
	cmd := domain.PaymentCommand{
		ReferenceID: uuid.NewString(),
		Sender:      domain.PaymentActor{Address: mustEncodeAddress(suite.T(), otherVASPAddress, "1122334455667788"), Status: domain.StatusReadyForSettlement},
		Receiver:    domain.PaymentActor{Address: mustEncodeAddress(suite.T(), ourVASPAddress, "cf64428bdeb62af2"), Status: domain.StatusNone},
		Action:      domain.PaymentAction{Amount: decimal.NewFromInt(3), Currency: domain.XUS, Action: "charge"},
		Inbound:     true,
	}
	inbound := domain.Transaction{
		TransactionID: uuid.NewString(),
		ReferenceID:   cmd.ReferenceID,
		Status:        domain.TxOffChainInbound,
		Amount:        cmd.Action.Amount,
		Currency:      domain.XUS,
		SourceAddress: cmd.Sender.Address,
		DestinationID: &destID,
		Command:       &cmd,
	}

	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainOutbound, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainInbound, 50).
		Return([]domain.Transaction{inbound}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, destID).Return(account, nil).Once()
	suite.mockUserSvc.On("GetKycData", ctx, account.UserID).Return(kyc, nil).Once()
	suite.mockVASPClient.On("SendPaymentCommand", ctx, cmd.Sender.Address, mock.MatchedBy(func(got domain.PaymentCommand) bool {
		return got.Receiver.Status == domain.StatusReadyForSettlement &&
			got.Receiver.KycData == kyc &&
			got.RecipientSignature != ""
	})).Return(domain.CommandResponse{Status: domain.CommandStatusSuccess}, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		// Both sides are ready once we answer, so the transfer is ready to settle.
		return txn.Status == domain.TxOffChainReady
	}), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainReady, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockPreApprovalRepo.On("ListUnsentPreApprovals", ctx, 50).
		Return([]domain.FundsPullPreApproval{}, nil).Once()

	advanced, err := suite.service.Tick(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, advanced)
	suite.mockVASPClient.AssertExpectations(suite.T())
}

func (suite *OffchainServiceTestSuite) TestTick_MarksSenderReadyAfterReceiverAnswer() {
	ctx := context.Background()
	sourceID := uuid.NewString()
	cmd := domain.PaymentCommand{
		ReferenceID: uuid.NewString(),
		Sender: domain.PaymentActor{
			Address: mustEncodeAddress(suite.T(), ourVASPAddress, "aabbccdd00112233"),
			Status:  domain.StatusNeedsKycData,
		},
		Receiver: domain.PaymentActor{
			Address: mustEncodeAddress(suite.T(), otherVASPAddress, "1122334455667788"),
			Status:  domain.StatusReadyForSettlement,
			KycData: &domain.KycData{Type: "individual", GivenName: "Ada"},
		},
		Action:             domain.PaymentAction{Amount: decimal.NewFromInt(7), Currency: domain.XUS, Action: "charge"},
		RecipientSignature: "deadbeef",
		Inbound:            true,
	}
	txn := domain.Transaction{
		TransactionID:      uuid.NewString(),
		ReferenceID:        cmd.ReferenceID,
		Status:             domain.TxOffChainInbound,
		Amount:             cmd.Action.Amount,
		Currency:           domain.XUS,
		SourceID:           &sourceID,
		DestinationAddress: cmd.Receiver.Address,
		Command:            &cmd,
	}

	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainOutbound, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainInbound, 50).
		Return([]domain.Transaction{txn}, nil).Once()
	suite.mockVASPClient.On("SendPaymentCommand", ctx, txn.DestinationAddress, mock.MatchedBy(func(got domain.PaymentCommand) bool {
		return got.Sender.Status == domain.StatusReadyForSettlement && got.BothReady()
	})).Return(domain.CommandResponse{Status: domain.CommandStatusSuccess}, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(got domain.Transaction) bool {
		return got.TransactionID == txn.TransactionID && got.Status == domain.TxOffChainReady
	}), mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainReady, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockPreApprovalRepo.On("ListUnsentPreApprovals", ctx, 50).
		Return([]domain.FundsPullPreApproval{}, nil).Once()

	advanced, err := suite.service.Tick(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, advanced)
	suite.mockVASPClient.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *OffchainServiceTestSuite) TestTick_AbortsWhenReceiverAnswerIsUnusable() {
	ctx := context.Background()
	sourceID := uuid.NewString()
	// The receiver claims ready but sent neither KYC data nor a signature.
	cmd := domain.PaymentCommand{
		ReferenceID: uuid.NewString(),
		Sender: domain.PaymentActor{
			Address: mustEncodeAddress(suite.T(), ourVASPAddress, "aabbccdd00112233"),
			Status:  domain.StatusNeedsKycData,
		},
		Receiver: domain.PaymentActor{
			Address: mustEncodeAddress(suite.T(), otherVASPAddress, "1122334455667788"),
			Status:  domain.StatusReadyForSettlement,
		},
		Action:  domain.PaymentAction{Amount: decimal.NewFromInt(7), Currency: domain.XUS, Action: "charge"},
		Inbound: true,
	}
	txn := domain.Transaction{
		TransactionID:      uuid.NewString(),
		ReferenceID:        cmd.ReferenceID,
		Status:             domain.TxOffChainInbound,
		Amount:             cmd.Action.Amount,
		Currency:           domain.XUS,
		SourceID:           &sourceID,
		DestinationAddress: cmd.Receiver.Address,
		Command:            &cmd,
	}

	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainOutbound, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainInbound, 50).
		Return([]domain.Transaction{txn}, nil).Once()
	suite.mockVASPClient.On("SendPaymentCommand", ctx, txn.DestinationAddress, mock.MatchedBy(func(got domain.PaymentCommand) bool {
		return got.Sender.Status == domain.StatusAbort
	})).Return(domain.CommandResponse{Status: domain.CommandStatusSuccess}, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(got domain.Transaction) bool {
		return got.TransactionID == txn.TransactionID && got.Status == domain.TxCanceled
	}), mock.MatchedBy(func(changes []portsrepo.BalanceChange) bool {
		// The held funds go back to the sender.
		return len(changes) == 1 &&
			changes[0].AccountID == sourceID &&
			changes[0].Delta.Equal(decimal.NewFromInt(7))
	})).Return(nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainReady, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockPreApprovalRepo.On("ListUnsentPreApprovals", ctx, 50).
		Return([]domain.FundsPullPreApproval{}, nil).Once()

	advanced, err := suite.service.Tick(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, advanced)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *OffchainServiceTestSuite) TestTick_SettlesReadyTransfers() {
	ctx := context.Background()
	sourceID := uuid.NewString()
	destID := uuid.NewString()

	outboundReady := domain.Transaction{
		TransactionID: uuid.NewString(),
		Status:        domain.TxOffChainReady,
		Amount:        decimal.NewFromInt(5),
		Currency:      domain.XUS,
		SourceID:      &sourceID,
	}
	inboundReady := domain.Transaction{
		TransactionID: uuid.NewString(),
		Status:        domain.TxOffChainReady,
		Amount:        decimal.NewFromInt(8),
		Currency:      domain.XUS,
		DestinationID: &destID,
	}

	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainOutbound, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainInbound, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainReady, 50).
		Return([]domain.Transaction{outboundReady, inboundReady}, nil).Once()

	settlement := portsclients.ChainSettlement{Sequence: 12, Version: 3456}
	suite.mockChainClient.On("SubmitTransfer", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.TransactionID == outboundReady.TransactionID
	})).Return(settlement, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.TransactionID == outboundReady.TransactionID &&
			txn.Status == domain.TxCompleted &&
			txn.Sequence != nil && *txn.Sequence == settlement.Sequence &&
			txn.ChainVersion != nil && *txn.ChainVersion == settlement.Version
	}), mock.Anything).Return(nil).Once()

	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.TransactionID == inboundReady.TransactionID && txn.Status == domain.TxCompleted
	}), mock.MatchedBy(func(changes []portsrepo.BalanceChange) bool {
		// The receiver balance is credited on settlement.
		return len(changes) == 1 &&
			changes[0].AccountID == destID &&
			changes[0].Delta.Equal(decimal.NewFromInt(8))
	})).Return(nil).Once()

	suite.mockPreApprovalRepo.On("ListUnsentPreApprovals", ctx, 50).
		Return([]domain.FundsPullPreApproval{}, nil).Once()

	advanced, err := suite.service.Tick(ctx)

	suite.Require().NoError(err)
	suite.Equal(2, advanced)
	suite.mockChainClient.AssertExpectations(suite.T())
}

func (suite *OffchainServiceTestSuite) TestTick_PushesUnsentPreApprovals() {
	ctx := context.Background()
	pa := domain.FundsPullPreApproval{
		PreApprovalID: uuid.NewString(),
		Address:       mustEncodeAddress(suite.T(), ourVASPAddress, "cf64428bdeb62af2"),
		BillerAddress: mustEncodeAddress(suite.T(), otherVASPAddress, "1122334455667788"),
		Status:        domain.PreApprovalValid,
		Role:          domain.RolePayer,
	}

	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainOutbound, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainInbound, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByStatus", ctx, domain.TxOffChainReady, 50).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockPreApprovalRepo.On("ListUnsentPreApprovals", ctx, 50).
		Return([]domain.FundsPullPreApproval{pa}, nil).Once()
	suite.mockVASPClient.On("SendPreApprovalCommand", ctx, pa.BillerAddress, pa).
		Return(domain.CommandResponse{Status: domain.CommandStatusSuccess}, nil).Once()
	suite.mockPreApprovalRepo.On("UpdatePreApproval", ctx, mock.MatchedBy(func(got domain.FundsPullPreApproval) bool {
		return got.PreApprovalID == pa.PreApprovalID && got.Sent
	})).Return(nil).Once()

	advanced, err := suite.service.Tick(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, advanced)
	suite.mockPreApprovalRepo.AssertExpectations(suite.T())
}

func TestOffchainServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OffchainServiceTestSuite))
}
