package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
	"github.com/monetaflow/wallet_backend/internal/dto"
	"github.com/monetaflow/wallet_backend/internal/middleware"
)

// offchainHandler serves the VASP-to-VASP command endpoint.
type offchainHandler struct {
	offchainService portssvc.OffchainSvcFacade
}

func newOffchainHandler(os portssvc.OffchainSvcFacade) *offchainHandler {
	return &offchainHandler{offchainService: os}
}

// registerOffchainRoutes registers the off-chain protocol endpoint. It sits
// outside the /api/v1 group because counterparty VASPs call it directly.
func registerOffchainRoutes(rg *gin.Engine, offchainService portssvc.OffchainSvcFacade) {
	h := newOffchainHandler(offchainService)

	rg.POST("/offchain/v2/command", h.processCommand)
}

// processCommand godoc
// @Summary Process an off-chain command
// @Description Accepts a payment or funds-pull pre-approval command from a counterparty VASP and replies with the protocol envelope.
// @Tags offchain
// @Accept json
// @Produce json
// @Param X-Request-Sender-Address header string true "Counterparty VASP address"
// @Param command body dto.OffchainCommandRequest true "Command envelope"
// @Success 200 {object} dto.OffchainCommandResponse
// @Failure 400 {object} dto.OffchainCommandResponse
// @Router /offchain/v2/command [post]
func (h *offchainHandler) processCommand(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	senderAddress := c.GetHeader("X-Request-Sender-Address")

	var req dto.OffchainCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OffchainCommandResponse{
			Status: domain.CommandStatusFailure,
			Error:  &domain.CommandError{Type: "command_error", Code: "missing_field", Message: err.Error()},
		})
		return
	}

	var (
		resp domain.CommandResponse
		err  error
	)
	switch req.CommandType {
	case dto.CommandTypePayment:
		var payload dto.PaymentCommandPayload
		if err := json.Unmarshal(req.Command, &payload); err != nil {
			h.replyMalformed(c, req.CID, err)
			return
		}
		resp, err = h.offchainService.ProcessInboundPaymentCommand(c.Request.Context(), senderAddress, req.CID, payload.Payment)
	case dto.CommandTypePreApproval:
		var payload dto.PreApprovalCommandPayload
		if err := json.Unmarshal(req.Command, &payload); err != nil {
			h.replyMalformed(c, req.CID, err)
			return
		}
		resp, err = h.offchainService.ProcessInboundPreApprovalCommand(c.Request.Context(), senderAddress, req.CID, payload.FundsPullPreApproval)
	default:
		c.JSON(http.StatusBadRequest, dto.OffchainCommandResponse{
			Status: domain.CommandStatusFailure,
			CID:    req.CID,
			Error:  &domain.CommandError{Type: "command_error", Code: "unknown_command_type", Message: "unsupported command type: " + req.CommandType},
		})
		return
	}

	if err != nil {
		logger.Error("Failed to process off-chain command",
			slog.String("cid", req.CID),
			slog.String("commandType", req.CommandType),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.OffchainCommandResponse{
			Status: domain.CommandStatusFailure,
			CID:    req.CID,
			Error:  &domain.CommandError{Type: "command_error", Code: "internal_error", Message: "internal error"},
		})
		return
	}

	// Protocol-level rejections still answer 400 with the failure envelope.
	status := http.StatusOK
	if resp.Status == domain.CommandStatusFailure {
		status = http.StatusBadRequest
	}
	c.JSON(status, dto.ToOffchainCommandResponse(resp))
}

func (h *offchainHandler) replyMalformed(c *gin.Context, cid string, err error) {
	c.JSON(http.StatusBadRequest, dto.OffchainCommandResponse{
		Status: domain.CommandStatusFailure,
		CID:    cid,
		Error:  &domain.CommandError{Type: "command_error", Code: "invalid_command", Message: err.Error()},
	})
}
