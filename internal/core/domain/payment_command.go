package domain

import "github.com/shopspring/decimal"

// ActorStatus is a single actor's view of a payment command.
type ActorStatus string

const (
	StatusNone               ActorStatus = "none"
	StatusNeedsKycData       ActorStatus = "needs_kyc_data"
	StatusReadyForSettlement ActorStatus = "ready_for_settlement"
	StatusAbort              ActorStatus = "abort"
)

// PaymentActor is one side of a payment command: an account identifier plus
// that actor's status and optional KYC payload.
type PaymentActor struct {
	Address string      `json:"address"` // base58 account identifier (VASP address + subaddress)
	Status  ActorStatus `json:"status"`
	KycData *KycData    `json:"kyc_data,omitempty"`
}

// PaymentAction is the value being moved by a payment command.
type PaymentAction struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
	Action   string          `json:"action"` // always "charge"
}

// PaymentCommand is a single off-chain payment negotiation between two VASPs.
// The command is exchanged back and forth until both actors reach
// ready_for_settlement, or either aborts.
type PaymentCommand struct {
	ReferenceID        string        `json:"reference_id"` // UUID, shared by both VASPs
	Sender             PaymentActor  `json:"sender"`
	Receiver           PaymentActor  `json:"receiver"`
	Action             PaymentAction `json:"action"`
	RecipientSignature string        `json:"recipient_signature,omitempty"` // hex, set by the receiver
	Inbound            bool          `json:"-"`                             // true when the latest version came from the counterparty
}

// BothReady reports whether both actors have signaled ready_for_settlement.
func (p PaymentCommand) BothReady() bool {
	return p.Sender.Status == StatusReadyForSettlement && p.Receiver.Status == StatusReadyForSettlement
}

// IsAbort reports whether either actor aborted the command.
func (p PaymentCommand) IsAbort() bool {
	return p.Sender.Status == StatusAbort || p.Receiver.Status == StatusAbort
}

// MyActor returns the actor whose address belongs to the given VASP address,
// matched by decoded on-chain address. The bool is false when neither side matches.
func (p PaymentCommand) MyActor(isMine func(address string) bool) (PaymentActor, bool) {
	if isMine(p.Sender.Address) {
		return p.Sender, true
	}
	if isMine(p.Receiver.Address) {
		return p.Receiver, true
	}
	return PaymentActor{}, false
}

// Reply statuses for the off-chain command endpoint.
const (
	CommandStatusSuccess = "success"
	CommandStatusFailure = "failure"
)

// CommandResponse is the reply envelope returned to a counterparty VASP after
// an inbound command has been processed.
type CommandResponse struct {
	Status string        `json:"status"` // CommandStatusSuccess or CommandStatusFailure
	CID    string        `json:"cid,omitempty"`
	Error  *CommandError `json:"error,omitempty"`
}

// CommandError describes why an inbound command was rejected.
type CommandError struct {
	Type    string `json:"type"`  // "command_error" or "protocol_error"
	Code    string `json:"code"`  // machine-readable reason
	Message string `json:"message,omitempty"`
}
