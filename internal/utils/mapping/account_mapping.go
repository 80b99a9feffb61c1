package mapping

import (
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/monetaflow/wallet_backend/internal/models"
)

func ToDomainAccount(m models.Account, balances []models.Balance) domain.Account {
	acct := domain.Account{
		AccountID:   m.AccountID,
		UserID:      m.UserID,
		Name:        m.Name,
		IsActive:    m.IsActive,
		AuditFields: toDomainAudit(m.AuditFields),
	}
	for _, b := range balances {
		acct.Balances = append(acct.Balances, domain.Balance{
			Currency: domain.Currency(b.CurrencyCode),
			Amount:   b.Amount,
		})
	}
	return acct
}

func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		UserID:      d.UserID,
		Name:        d.Name,
		IsActive:    d.IsActive,
		AuditFields: toModelAudit(d.AuditFields),
	}
}

func ToDomainSubaddress(m models.Subaddress) domain.Subaddress {
	return domain.Subaddress{
		Subaddress:  m.Subaddress,
		AccountID:   m.AccountID,
		AuditFields: toDomainAudit(m.AuditFields),
	}
}

func ToModelSubaddress(d domain.Subaddress) models.Subaddress {
	return models.Subaddress{
		Subaddress:  d.Subaddress,
		AccountID:   d.AccountID,
		AuditFields: toModelAudit(d.AuditFields),
	}
}
