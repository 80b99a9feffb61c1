package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes transfers settled inside this wallet from
// transfers that involve a counterparty VASP.
type TransactionType string

const (
	Internal TransactionType = "INTERNAL"
	Offchain TransactionType = "OFFCHAIN"
)

// TransactionStatus is the lifecycle state of a transaction.
//
// Internal transfers go straight to COMPLETED. Off-chain transfers walk the
// OFF_CHAIN_* states under the control of the background worker.
type TransactionStatus string

const (
	TxPending          TransactionStatus = "PENDING"
	TxCompleted        TransactionStatus = "COMPLETED"
	TxCanceled         TransactionStatus = "CANCELED"
	TxOffChainOutbound TransactionStatus = "OFF_CHAIN_OUTBOUND"
	TxOffChainInbound  TransactionStatus = "OFF_CHAIN_INBOUND"
	TxOffChainWait     TransactionStatus = "OFF_CHAIN_WAIT"
	TxOffChainReady    TransactionStatus = "OFF_CHAIN_READY"
)

// Transaction represents a single transfer of value, internal or off-chain.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	ReferenceID   string            `json:"referenceID"`   // Shared with the payment command for OFFCHAIN
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Amount        decimal.Decimal   `json:"amount"`   // Positive value
	Currency      Currency          `json:"currency"` // Member of the closed set

	// Source side. SourceID is nil for inbound off-chain transactions.
	SourceID         *string `json:"sourceID,omitempty"`
	SourceAddress    string  `json:"sourceAddress"`
	SourceSubaddress string  `json:"sourceSubaddress"`

	// Destination side. DestinationID is nil for outbound off-chain transactions.
	DestinationID         *string `json:"destinationID,omitempty"`
	DestinationAddress    string  `json:"destinationAddress"`
	DestinationSubaddress string  `json:"destinationSubaddress"`

	Timestamp time.Time `json:"timestamp"` // When the transfer occurred

	// Chain settlement details, populated once an off-chain transfer completes.
	Sequence     *int64 `json:"sequence,omitempty"`
	ChainVersion *int64 `json:"chainVersion,omitempty"`

	// Command is the latest payment command state, OFFCHAIN only.
	Command *PaymentCommand `json:"-"`

	AuditFields
}

// IsOffchain reports whether the transaction settles through the off-chain protocol.
func (t Transaction) IsOffchain() bool {
	return t.Type == Offchain
}
