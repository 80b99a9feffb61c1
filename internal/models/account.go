package models

import "github.com/shopspring/decimal"

// Account mirrors the accounts table.
type Account struct {
	AccountID string `db:"account_id"`
	UserID    string `db:"user_id"`
	Name      string `db:"name"`
	IsActive  bool   `db:"is_active"`
	AuditFields
}

// Balance mirrors the account_balances table.
type Balance struct {
	AccountID    string          `db:"account_id"`
	CurrencyCode string          `db:"currency_code"`
	Amount       decimal.Decimal `db:"amount"`
	AuditFields
}

// Subaddress mirrors the subaddresses table.
type Subaddress struct {
	Subaddress string `db:"subaddress"`
	AccountID  string `db:"account_id"`
	AuditFields
}
