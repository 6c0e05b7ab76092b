package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/lifecycle"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
)

// WithdrawHandler handles withdraw lifecycle requests.
type WithdrawHandler struct {
	withdrawService services.WithdrawServicer
	auditService    services.AuditServicer
}

// NewWithdrawHandler creates a new WithdrawHandler.
func NewWithdrawHandler(withdrawService services.WithdrawServicer, auditService services.AuditServicer) *WithdrawHandler {
	return &WithdrawHandler{withdrawService: withdrawService, auditService: auditService}
}

// WithdrawRequest represents the request payload for selling holding units.
type WithdrawRequest struct {
	AccessCode string          `json:"access_code" binding:"required,access_code"`
	AssetID    string          `json:"asset_id" binding:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity" swaggertype:"string" example:"5"`
}

// RequestWithdraw handles a client selling holding units. The net value is
// credited to the wallet immediately.
// @Summary     Request withdraw
// @Tags        withdraws
// @Accept      json
// @Produce     json
// @Param       id      path string          true "Client ID"
// @Param       request body WithdrawRequest true "Withdraw details"
// @Success     201 {object} models.Withdraw "Withdraw requested"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid access code"
// @Failure     404 {object} ErrorResponse "Client, asset or holding not found"
// @Failure     422 {object} ErrorResponse "Insufficient holding"
// @Router      /clients/{id}/withdraws [post]
func (h *WithdrawHandler) RequestWithdraw(c *gin.Context) {
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	withdraw, err := h.withdrawService.RequestWithdraw(clientID, req.AccessCode, req.AssetID, req.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.ClientActor(clientID), models.AuditRequestWithdraw, withdraw.ID,
		map[string]any{
			"asset_id": withdraw.AssetID,
			"quantity": withdraw.Quantity.String(),
			"tax":      withdraw.Tax.String(),
			"net":      withdraw.WithdrawValue.String(),
		})
	c.JSON(http.StatusCreated, withdraw)
}

// ListWithdraws handles the admin queue of withdraws.
// @Summary     List withdraws
// @Tags        admin
// @Produce     json
// @Security    AdminEmail
// @Security    AdminCode
// @Param       state     query string false "REQUESTED, CONFIRMED or IN_ACCOUNT"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Withdraw] "Paginated withdraws"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Router      /admin/withdraws [get]
func (h *WithdrawHandler) ListWithdraws(c *gin.Context) {
	var q StateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var state *models.WithdrawState
	if q.State != "" {
		s := models.WithdrawState(q.State)
		if !lo.Contains(lifecycle.WithdrawStates, s) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid state "+q.State))
			return
		}
		state = &s
	}

	result, err := h.withdrawService.ListWithdraws(adminCredentials(c), state, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ConfirmWithdraw handles the admin approving a withdraw through IN_ACCOUNT.
// @Summary     Confirm withdraw
// @Tags        admin
// @Produce     json
// @Security    AdminEmail
// @Security    AdminCode
// @Param       id path string true "Withdraw ID"
// @Success     200 {object} models.Withdraw "Withdraw settled"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Failure     404 {object} ErrorResponse "Withdraw not found"
// @Router      /admin/withdraws/{id}/confirmation [post]
func (h *WithdrawHandler) ConfirmWithdraw(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	admin := adminCredentials(c)
	withdraw, err := h.withdrawService.ConfirmWithdraw(admin, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.AdminActor(admin), models.AuditConfirmWithdraw, withdraw.ID,
		map[string]any{"state": string(withdraw.State)})
	c.JSON(http.StatusOK, withdraw)
}
