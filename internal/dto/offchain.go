package dto

import (
	"encoding/json"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
)

// Off-chain command types accepted on the VASP-to-VASP endpoint.
const (
	CommandTypePayment     = "PaymentCommand"
	CommandTypePreApproval = "FundPullPreApprovalCommand"
)

// OffchainCommandRequest is the wire envelope a counterparty VASP posts to
// /offchain/v2/command. The command payload is decoded according to CommandType.
type OffchainCommandRequest struct {
	CID         string          `json:"cid" binding:"required"`
	CommandType string          `json:"command_type" binding:"required"`
	Command     json.RawMessage `json:"command" binding:"required"`
}

// PaymentCommandPayload is the command body for CommandTypePayment.
type PaymentCommandPayload struct {
	Payment domain.PaymentCommand `json:"payment"`
}

// PreApprovalCommandPayload is the command body for CommandTypePreApproval.
type PreApprovalCommandPayload struct {
	FundsPullPreApproval domain.FundsPullPreApproval `json:"fund_pull_pre_approval"`
}

// OffchainCommandResponse is the reply envelope for the command endpoint.
type OffchainCommandResponse struct {
	Status string               `json:"status"`
	CID    string               `json:"cid,omitempty"`
	Error  *domain.CommandError `json:"error,omitempty"`
}

// ToOffchainCommandResponse converts a domain.CommandResponse to the wire DTO.
func ToOffchainCommandResponse(resp domain.CommandResponse) OffchainCommandResponse {
	return OffchainCommandResponse{
		Status: resp.Status,
		CID:    resp.CID,
		Error:  resp.Error,
	}
}
