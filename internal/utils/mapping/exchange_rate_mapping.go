package mapping

import (
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/monetaflow/wallet_backend/internal/models"
)

func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID:   m.ExchangeRateID,
		FromCurrencyCode: domain.Currency(m.FromCurrencyCode),
		ToCurrencyCode:   domain.Currency(m.ToCurrencyCode),
		Rate:             m.Rate,
		DateEffective:    m.DateEffective,
		AuditFields:      toDomainAudit(m.AuditFields),
	}
}

func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID:   d.ExchangeRateID,
		FromCurrencyCode: d.FromCurrencyCode.String(),
		ToCurrencyCode:   d.ToCurrencyCode.String(),
		Rate:             d.Rate,
		DateEffective:    d.DateEffective,
		AuditFields:      toModelAudit(d.AuditFields),
	}
}
