package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction mirrors the transactions table. The off-chain payment command
// negotiated for OFFCHAIN transactions is stored alongside as JSON.
type Transaction struct {
	TransactionID         string          `db:"transaction_id"`
	ReferenceID           string          `db:"reference_id"`
	Type                  string          `db:"type"`
	Status                string          `db:"status"`
	Amount                decimal.Decimal `db:"amount"`
	CurrencyCode          string          `db:"currency_code"`
	SourceID              *string         `db:"source_id"`
	SourceAddress         string          `db:"source_address"`
	SourceSubaddress      string          `db:"source_subaddress"`
	DestinationID         *string         `db:"destination_id"`
	DestinationAddress    string          `db:"destination_address"`
	DestinationSubaddress string          `db:"destination_subaddress"`
	Timestamp             time.Time       `db:"timestamp"`
	Sequence              *int64          `db:"sequence"`
	ChainVersion          *int64          `db:"chain_version"`
	CommandJSON           []byte          `db:"command_json"` // nil for INTERNAL transactions
	AuditFields
}
