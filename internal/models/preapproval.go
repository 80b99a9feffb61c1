package models

import "github.com/shopspring/decimal"

// FundsPullPreApproval mirrors the funds_pull_pre_approvals table. The scope
// is flattened into columns the way the biller protocol transmits it.
type FundsPullPreApproval struct {
	PreApprovalID               string           `db:"pre_approval_id"`
	AccountID                   string           `db:"account_id"`
	Address                     string           `db:"address"`
	BillerAddress               string           `db:"biller_address"`
	ScopeType                   string           `db:"scope_type"`
	ExpirationTimestamp         int64            `db:"expiration_timestamp"`
	MaxCumulativeUnit           *string          `db:"max_cumulative_unit"`
	MaxCumulativeUnitValue      *int64           `db:"max_cumulative_unit_value"`
	MaxCumulativeAmount         *decimal.Decimal `db:"max_cumulative_amount"`
	MaxCumulativeAmountCurrency *string          `db:"max_cumulative_amount_currency"`
	MaxTransactionAmount        *decimal.Decimal `db:"max_transaction_amount"`
	MaxTransactionCurrency      *string          `db:"max_transaction_amount_currency"`
	Status                      string           `db:"status"`
	Role                        string           `db:"role"`
	Description                 string           `db:"description"`
	Sent                        bool             `db:"sent"`
	AuditFields
}
