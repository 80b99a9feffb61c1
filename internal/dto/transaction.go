package dto

import (
	"time"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SendPaymentRequest defines the data needed to send funds to a receiving
// address. The address decides the route: identifiers under this wallet's
// VASP address settle internally, anything else goes through the off-chain
// protocol.
type SendPaymentRequest struct {
	Address  string          `json:"address" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required,currency"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID      string          `json:"transactionID"`
	ReferenceID        string          `json:"referenceID"`
	Type               string          `json:"type"`
	Status             string          `json:"status"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	SourceAddress      string          `json:"sourceAddress,omitempty"`
	DestinationAddress string          `json:"destinationAddress,omitempty"`
	Timestamp          time.Time       `json:"timestamp"`
	ChainVersion       *int64          `json:"chainVersion,omitempty"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    string                `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:      txn.TransactionID,
		ReferenceID:        txn.ReferenceID,
		Type:               string(txn.Type),
		Status:             string(txn.Status),
		Amount:             txn.Amount,
		Currency:           txn.Currency.String(),
		SourceAddress:      txn.SourceAddress,
		DestinationAddress: txn.DestinationAddress,
		Timestamp:          txn.Timestamp,
		ChainVersion:       txn.ChainVersion,
	}
}

// ToListTransactionsResponse converts a page of domain transactions plus the
// follow-up token into the response DTO.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken string) ListTransactionsResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{
		Transactions: responses,
		NextToken:    nextToken,
	}
}
