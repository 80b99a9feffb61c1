package dto

import "github.com/monetaflow/wallet_backend/internal/core/domain"

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	Code           string `json:"code"`
	Symbol         string `json:"symbol"`
	Name           string `json:"name"`
	FractionDigits int32  `json:"fractionDigits"`
	IsFiat         bool   `json:"isFiat"`
}

// ToCurrencyResponse converts a domain.CurrencyInfo to CurrencyResponse DTO
func ToCurrencyResponse(info domain.CurrencyInfo) CurrencyResponse {
	return CurrencyResponse{
		Code:           info.Code.String(),
		Symbol:         info.Symbol,
		Name:           info.Name,
		FractionDigits: info.FractionDigits,
		IsFiat:         info.IsFiat,
	}
}

// ToListCurrencyResponse converts the currency registry to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(infos []domain.CurrencyInfo) []CurrencyResponse {
	res := make([]CurrencyResponse, len(infos))
	for i, info := range infos {
		res[i] = ToCurrencyResponse(info)
	}
	return res
}
