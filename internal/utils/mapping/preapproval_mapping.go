package mapping

import (
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/monetaflow/wallet_backend/internal/models"
)

func ToDomainPreApproval(m models.FundsPullPreApproval) domain.FundsPullPreApproval {
	d := domain.FundsPullPreApproval{
		PreApprovalID: m.PreApprovalID,
		AccountID:     m.AccountID,
		Address:       m.Address,
		BillerAddress: m.BillerAddress,
		Scope: domain.PreApprovalScope{
			Type:                domain.ScopeTypeConsent,
			ExpirationTimestamp: m.ExpirationTimestamp,
		},
		Status:      domain.PreApprovalStatus(m.Status),
		Role:        domain.PreApprovalRole(m.Role),
		Description: m.Description,
		Sent:        m.Sent,
		AuditFields: toDomainAudit(m.AuditFields),
	}
	if m.ScopeType != "" {
		d.Scope.Type = m.ScopeType
	}
	if m.MaxCumulativeUnit != nil && m.MaxCumulativeUnitValue != nil &&
		m.MaxCumulativeAmount != nil && m.MaxCumulativeAmountCurrency != nil {
		d.Scope.MaxCumulativeAmount = &domain.CumulativeAmount{
			Unit:      *m.MaxCumulativeUnit,
			UnitValue: *m.MaxCumulativeUnitValue,
			MaxAmount: domain.ScopedAmount{Amount: *m.MaxCumulativeAmount, Currency: domain.Currency(*m.MaxCumulativeAmountCurrency)},
		}
	}
	if m.MaxTransactionAmount != nil && m.MaxTransactionCurrency != nil {
		d.Scope.MaxTransactionAmount = &domain.ScopedAmount{
			Amount:   *m.MaxTransactionAmount,
			Currency: domain.Currency(*m.MaxTransactionCurrency),
		}
	}
	return d
}

func ToModelPreApproval(d domain.FundsPullPreApproval) models.FundsPullPreApproval {
	m := models.FundsPullPreApproval{
		PreApprovalID:       d.PreApprovalID,
		AccountID:           d.AccountID,
		Address:             d.Address,
		BillerAddress:       d.BillerAddress,
		ScopeType:           d.Scope.Type,
		ExpirationTimestamp: d.Scope.ExpirationTimestamp,
		Status:              string(d.Status),
		Role:                string(d.Role),
		Description:         d.Description,
		Sent:                d.Sent,
		AuditFields:         toModelAudit(d.AuditFields),
	}
	if ca := d.Scope.MaxCumulativeAmount; ca != nil {
		unit := ca.Unit
		value := ca.UnitValue
		amount := ca.MaxAmount.Amount
		currency := ca.MaxAmount.Currency.String()
		m.MaxCumulativeUnit = &unit
		m.MaxCumulativeUnitValue = &value
		m.MaxCumulativeAmount = &amount
		m.MaxCumulativeAmountCurrency = &currency
	}
	if ta := d.Scope.MaxTransactionAmount; ta != nil {
		amount := ta.Amount
		currency := ta.Currency.String()
		m.MaxTransactionAmount = &amount
		m.MaxTransactionCurrency = &currency
	}
	return m
}
