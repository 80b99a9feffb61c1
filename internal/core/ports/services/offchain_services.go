package services

import (
	"context"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
)

// OffchainCommandSvc handles inbound VASP-to-VASP commands. senderAddress is
// the counterparty VASP address from the X-Request-Sender-Address header; it
// must match the command's counterparty actor.
type OffchainCommandSvc interface {
	// ProcessInboundPaymentCommand validates and applies a payment command
	// received from a counterparty VASP. The returned response is the wire
	// reply; a nil error with a failure response means the command was
	// rejected at the protocol level.
	ProcessInboundPaymentCommand(ctx context.Context, senderAddress, cid string, cmd domain.PaymentCommand) (domain.CommandResponse, error)

	// ProcessInboundPreApprovalCommand validates and applies a funds-pull
	// pre-approval command received from a counterparty VASP.
	ProcessInboundPreApprovalCommand(ctx context.Context, senderAddress, cid string, pa domain.FundsPullPreApproval) (domain.CommandResponse, error)
}

// OffchainWorkerSvc drives outbound off-chain state forward. The background
// worker calls Tick on an interval; each tick advances every transaction and
// pre-approval that has pending outbound work.
type OffchainWorkerSvc interface {
	// Tick processes one round of pending off-chain work: pushes outbound
	// commands, answers inbound KYC exchanges, and settles ready transfers
	// on chain. It returns the number of items it advanced.
	Tick(ctx context.Context) (int, error)
}

// OffchainSvcFacade combines the inbound and worker-facing off-chain interfaces
type OffchainSvcFacade interface {
	OffchainCommandSvc
	OffchainWorkerSvc
}
