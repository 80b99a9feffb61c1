package dto

import (
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a wallet account.
type CreateAccountRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// BalanceResponse is a single per-currency balance on an account.
type BalanceResponse struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID string            `json:"accountID"`
	UserID    string            `json:"userID"`
	Name      string            `json:"name"`
	IsActive  bool              `json:"isActive"`
	Balances  []BalanceResponse `json:"balances"`
}

// ReceivingAddressResponse carries a freshly derived deposit identifier.
type ReceivingAddressResponse struct {
	Address string `json:"address"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acct *domain.Account) AccountResponse {
	balances := make([]BalanceResponse, len(acct.Balances))
	for i, b := range acct.Balances {
		balances[i] = BalanceResponse{Currency: b.Currency.String(), Amount: b.Amount}
	}
	return AccountResponse{
		AccountID: acct.AccountID,
		UserID:    acct.UserID,
		Name:      acct.Name,
		IsActive:  acct.IsActive,
		Balances:  balances,
	}
}
