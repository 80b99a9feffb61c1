package dto

import (
	"time"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ScopedAmountDTO bounds an amount in a specific currency.
type ScopedAmountDTO struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required,currency"`
}

// CumulativeAmountDTO bounds the total pulled over a recurring window.
type CumulativeAmountDTO struct {
	Unit      string          `json:"unit" binding:"required,oneof=day week month year"`
	UnitValue int64           `json:"value" binding:"required,min=1"`
	MaxAmount ScopedAmountDTO `json:"maxAmount" binding:"required"`
}

// CreatePreApprovalRequest defines the data a payer submits to approve a biller.
type CreatePreApprovalRequest struct {
	BillerAddress        string               `json:"billerAddress" binding:"required"`
	ExpirationTimestamp  int64                `json:"expirationTimestamp" binding:"required"`
	MaxCumulativeAmount  *CumulativeAmountDTO `json:"maxCumulativeAmount"`
	MaxTransactionAmount *ScopedAmountDTO     `json:"maxTransactionAmount"`
	Description          string               `json:"description"`
}

// UpdatePreApprovalStatusRequest moves a pending approval to valid or rejected,
// or closes a valid one.
type UpdatePreApprovalStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=valid rejected closed"`
}

// PreApprovalResponse defines the data returned for a funds-pull pre-approval.
type PreApprovalResponse struct {
	PreApprovalID        string               `json:"preApprovalID"`
	Address              string               `json:"address"`
	BillerAddress        string               `json:"billerAddress"`
	ExpirationTimestamp  int64                `json:"expirationTimestamp"`
	MaxCumulativeAmount  *CumulativeAmountDTO `json:"maxCumulativeAmount,omitempty"`
	MaxTransactionAmount *ScopedAmountDTO     `json:"maxTransactionAmount,omitempty"`
	Status               string               `json:"status"`
	Role                 string               `json:"role"`
	Description          string               `json:"description,omitempty"`
	CreatedAt            time.Time            `json:"createdAt"`
}

// ToPreApprovalResponse converts a domain.FundsPullPreApproval to PreApprovalResponse DTO
func ToPreApprovalResponse(pa *domain.FundsPullPreApproval) PreApprovalResponse {
	resp := PreApprovalResponse{
		PreApprovalID:       pa.PreApprovalID,
		Address:             pa.Address,
		BillerAddress:       pa.BillerAddress,
		ExpirationTimestamp: pa.Scope.ExpirationTimestamp,
		Status:              string(pa.Status),
		Role:                string(pa.Role),
		Description:         pa.Description,
		CreatedAt:           pa.CreatedAt,
	}
	if ca := pa.Scope.MaxCumulativeAmount; ca != nil {
		resp.MaxCumulativeAmount = &CumulativeAmountDTO{
			Unit:      ca.Unit,
			UnitValue: ca.UnitValue,
			MaxAmount: ScopedAmountDTO{Amount: ca.MaxAmount.Amount, Currency: ca.MaxAmount.Currency.String()},
		}
	}
	if ta := pa.Scope.MaxTransactionAmount; ta != nil {
		resp.MaxTransactionAmount = &ScopedAmountDTO{Amount: ta.Amount, Currency: ta.Currency.String()}
	}
	return resp
}

// ToListPreApprovalResponse converts a slice of domain pre-approvals to DTOs.
func ToListPreApprovalResponse(pas []domain.FundsPullPreApproval) []PreApprovalResponse {
	responses := make([]PreApprovalResponse, len(pas))
	for i := range pas {
		responses[i] = ToPreApprovalResponse(&pas[i])
	}
	return responses
}
