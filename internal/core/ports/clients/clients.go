// Package clients declares the outbound adapters the core services depend on:
// the counterparty VASP endpoint, the settlement chain and the FX rate feed.
package clients

import (
	"context"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
)

// VASPClient delivers off-chain commands to a counterparty VASP.
type VASPClient interface {
	// SendPaymentCommand pushes the latest payment command state to the VASP
	// that owns the counterparty address.
	SendPaymentCommand(ctx context.Context, counterpartyAddress string, cmd domain.PaymentCommand) (domain.CommandResponse, error)

	// SendPreApprovalCommand pushes a funds-pull pre-approval to the biller's VASP.
	SendPreApprovalCommand(ctx context.Context, counterpartyAddress string, pa domain.FundsPullPreApproval) (domain.CommandResponse, error)
}

// ChainSettlement is the on-chain receipt for a settled transfer.
type ChainSettlement struct {
	Sequence int64
	Version  int64
}

// ChainClient submits settlement transactions to the chain once both sides of
// an off-chain transfer reach ready_for_settlement.
type ChainClient interface {
	// SubmitTransfer settles a ready transfer on chain and returns the
	// sequence number and ledger version of the settlement transaction.
	SubmitTransfer(ctx context.Context, txn domain.Transaction) (ChainSettlement, error)

	// ResolveVASPBaseURL returns the off-chain endpoint base URL a VASP
	// published on chain for its address (hex).
	ResolveVASPBaseURL(ctx context.Context, vaspAddressHex string) (string, error)
}

// RatesProvider fetches the latest FX rates from the upstream feed.
type RatesProvider interface {
	// FetchRates returns the current rates for every pair the feed publishes.
	FetchRates(ctx context.Context) ([]domain.ExchangeRate, error)
}
