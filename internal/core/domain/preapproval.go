package domain

import "github.com/shopspring/decimal"

// PreApprovalStatus is the lifecycle state of a funds-pull pre-approval.
type PreApprovalStatus string

const (
	PreApprovalPending  PreApprovalStatus = "pending"
	PreApprovalValid    PreApprovalStatus = "valid"
	PreApprovalRejected PreApprovalStatus = "rejected"
	PreApprovalClosed   PreApprovalStatus = "closed"
)

// PreApprovalRole records which side of the pull this wallet plays.
type PreApprovalRole string

const (
	RolePayer PreApprovalRole = "payer"
	RolePayee PreApprovalRole = "payee"
)

// ScopeTypeConsent is the only scope type the funds-pull protocol defines.
const ScopeTypeConsent = "consent"

// ScopedAmount is a bounded amount in a specific currency.
type ScopedAmount struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// CumulativeAmount bounds the total pulled over a recurring unit window.
type CumulativeAmount struct {
	Unit      string       `json:"unit"` // "day", "week", "month" or "year"
	UnitValue int64        `json:"value"`
	MaxAmount ScopedAmount `json:"max_amount"`
}

// PreApprovalScope bounds what the biller may pull under a pre-approval.
type PreApprovalScope struct {
	Type                 string            `json:"type"` // always "consent"
	ExpirationTimestamp  int64             `json:"expiration_timestamp"`
	MaxCumulativeAmount  *CumulativeAmount `json:"max_cumulative_amount,omitempty"`
	MaxTransactionAmount *ScopedAmount     `json:"max_transaction_amount,omitempty"`
}

// FundsPullPreApproval authorizes a biller VASP to pull funds from an account.
//
// Address and BillerAddress are immutable for the lifetime of the approval;
// inbound updates that try to change either are rejected.
type FundsPullPreApproval struct {
	PreApprovalID string            `json:"funds_pull_pre_approval_id"` // agreed with the biller
	AccountID     string            `json:"-"`
	Address       string            `json:"address"`        // payer account identifier
	BillerAddress string            `json:"biller_address"` // payee account identifier
	Scope         PreApprovalScope  `json:"scope"`
	Status        PreApprovalStatus `json:"status"`
	Role          PreApprovalRole   `json:"-"`
	Description   string            `json:"description,omitempty"`
	Sent          bool              `json:"-"` // true once pushed to the counterparty
	AuditFields
}
