package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	"github.com/monetaflow/wallet_backend/internal/models"
)

func ToDomainTransaction(m models.Transaction) (domain.Transaction, error) {
	tx := domain.Transaction{
		TransactionID:         m.TransactionID,
		ReferenceID:           m.ReferenceID,
		Type:                  domain.TransactionType(m.Type),
		Status:                domain.TransactionStatus(m.Status),
		Amount:                m.Amount,
		Currency:              domain.Currency(m.CurrencyCode),
		SourceID:              m.SourceID,
		SourceAddress:         m.SourceAddress,
		SourceSubaddress:      m.SourceSubaddress,
		DestinationID:         m.DestinationID,
		DestinationAddress:    m.DestinationAddress,
		DestinationSubaddress: m.DestinationSubaddress,
		Timestamp:             m.Timestamp,
		Sequence:              m.Sequence,
		ChainVersion:          m.ChainVersion,
		AuditFields:           toDomainAudit(m.AuditFields),
	}
	if len(m.CommandJSON) > 0 {
		var cmd domain.PaymentCommand
		if err := json.Unmarshal(m.CommandJSON, &cmd); err != nil {
			return domain.Transaction{}, fmt.Errorf("unmarshal payment command for transaction %s: %w", m.TransactionID, err)
		}
		tx.Command = &cmd
	}
	return tx, nil
}

func ToModelTransaction(d domain.Transaction) (models.Transaction, error) {
	m := models.Transaction{
		TransactionID:         d.TransactionID,
		ReferenceID:           d.ReferenceID,
		Type:                  string(d.Type),
		Status:                string(d.Status),
		Amount:                d.Amount,
		CurrencyCode:          d.Currency.String(),
		SourceID:              d.SourceID,
		SourceAddress:         d.SourceAddress,
		SourceSubaddress:      d.SourceSubaddress,
		DestinationID:         d.DestinationID,
		DestinationAddress:    d.DestinationAddress,
		DestinationSubaddress: d.DestinationSubaddress,
		Timestamp:             d.Timestamp,
		Sequence:              d.Sequence,
		ChainVersion:          d.ChainVersion,
		AuditFields:           toModelAudit(d.AuditFields),
	}
	if d.Command != nil {
		raw, err := json.Marshal(d.Command)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("marshal payment command for transaction %s: %w", d.TransactionID, err)
		}
		m.CommandJSON = raw
	}
	return m, nil
}
