package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/monetaflow/wallet_backend/internal/apperrors"
	"github.com/monetaflow/wallet_backend/internal/core/domain"
	portssvc "github.com/monetaflow/wallet_backend/internal/core/ports/services"
	"github.com/monetaflow/wallet_backend/internal/dto"
	"github.com/monetaflow/wallet_backend/internal/middleware"
)

// preApprovalHandler handles HTTP requests for funds-pull pre-approvals.
type preApprovalHandler struct {
	preApprovalService portssvc.PreApprovalSvcFacade
}

func newPreApprovalHandler(ps portssvc.PreApprovalSvcFacade) *preApprovalHandler {
	return &preApprovalHandler{preApprovalService: ps}
}

// registerPreApprovalRoutes registers routes related to funds-pull pre-approvals.
func registerPreApprovalRoutes(rg *gin.RouterGroup, preApprovalService portssvc.PreApprovalSvcFacade) {
	h := newPreApprovalHandler(preApprovalService)

	preApprovals := rg.Group("/funds-pull-pre-approvals")
	{
		preApprovals.GET("", h.listPreApprovals)
		preApprovals.POST("", h.createPreApproval)
		preApprovals.PUT("/:preApprovalID/status", h.updatePreApprovalStatus)
	}
}

// listPreApprovals godoc
// @Summary List pre-approvals
// @Description Returns every funds-pull pre-approval on the caller's account.
// @Tags pre-approvals
// @Produce json
// @Success 200 {array} dto.PreApprovalResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /funds-pull-pre-approvals [get]
func (h *preApprovalHandler) listPreApprovals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	preApprovals, err := h.preApprovalService.ListPreApprovals(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list pre-approvals", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list pre-approvals"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPreApprovalResponse(preApprovals))
}

// createPreApproval godoc
// @Summary Create a pre-approval
// @Description Approves a biller to pull funds from the caller's account. The approval is delivered to the biller's VASP in the background.
// @Tags pre-approvals
// @Accept json
// @Produce json
// @Param preApproval body dto.CreatePreApprovalRequest true "Pre-approval details"
// @Success 201 {object} dto.PreApprovalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /funds-pull-pre-approvals [post]
func (h *preApprovalHandler) createPreApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreatePreApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	preApproval, err := h.preApprovalService.CreatePreApproval(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create pre-approval", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create pre-approval"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToPreApprovalResponse(preApproval))
}

// updatePreApprovalStatus godoc
// @Summary Update pre-approval status
// @Description Moves a pending pre-approval to valid or rejected, or closes a valid one.
// @Tags pre-approvals
// @Accept json
// @Produce json
// @Param preApprovalID path string true "Pre-approval ID"
// @Param status body dto.UpdatePreApprovalStatusRequest true "Target status"
// @Success 200 {object} dto.PreApprovalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /funds-pull-pre-approvals/{preApprovalID}/status [put]
func (h *preApprovalHandler) updatePreApprovalStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdatePreApprovalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	preApproval, err := h.preApprovalService.UpdatePreApprovalStatus(
		c.Request.Context(), userID, c.Param("preApprovalID"), domain.PreApprovalStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Pre-approval not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Status change not allowed from the current status"})
		default:
			logger.Error("Failed to update pre-approval status", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update pre-approval"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPreApprovalResponse(preApproval))
}
