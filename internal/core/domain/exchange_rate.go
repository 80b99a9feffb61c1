package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the conversion rate between two currencies at a point in time.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"` // Primary Key (UUID)
	FromCurrencyCode Currency        `json:"fromCurrencyCode"`
	ToCurrencyCode   Currency        `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"` // Positive
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}
