package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a user's custodial account within the core domain.
// Every registered user owns exactly one account; funds in multiple currencies
// live on the same account as separate balance rows.
type Account struct {
	AccountID string `json:"accountID"` // Primary Key (UUID)
	UserID    string `json:"userID"`    // FK -> users.user_id (NON-NULL)
	Name      string `json:"name"`      // Display name, defaults to the username
	IsActive  bool   `json:"isActive"`
	AuditFields
	Balances []Balance `json:"balances"` // Populated on read paths that need it
}

// Balance is the amount an account holds in a single currency.
type Balance struct {
	Currency Currency        `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// Subaddress is a receiving identifier owned by an account. Each external
// payment should use a fresh subaddress so deposits can be attributed without
// revealing the account.
type Subaddress struct {
	Subaddress string `json:"subaddress"` // 8 bytes, hex encoded
	AccountID  string `json:"accountID"`
	AuditFields
}

// SubaddressBytesLen is the raw length of a subaddress before hex encoding.
const SubaddressBytesLen = 8
