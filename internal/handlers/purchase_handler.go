package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/lifecycle"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
)

// PurchaseHandler handles purchase lifecycle requests.
type PurchaseHandler struct {
	purchaseService services.PurchaseServicer
	auditService    services.AuditServicer
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseService services.PurchaseServicer, auditService services.AuditServicer) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService, auditService: auditService}
}

// AccessCodeRequest carries the client's access code for client-authorized mutations.
type AccessCodeRequest struct {
	AccessCode string `json:"access_code" binding:"required,access_code"`
}

// PurchaseRequest represents the request payload for requesting a purchase.
type PurchaseRequest struct {
	AccessCode string          `json:"access_code" binding:"required,access_code"`
	AssetID    string          `json:"asset_id" binding:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity" swaggertype:"string" example:"10"`
}

// StateQuery filters admin listings by lifecycle state.
type StateQuery struct {
	pagination.PageRequest
	State string `form:"state"`
}

// RequestPurchase handles a client requesting a purchase at the current quotation.
// @Summary     Request purchase
// @Tags        purchases
// @Accept      json
// @Produce     json
// @Param       id      path string          true "Client ID"
// @Param       request body PurchaseRequest true "Purchase details"
// @Success     201 {object} models.Purchase "Purchase requested"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid access code"
// @Failure     404 {object} ErrorResponse "Client or asset not found"
// @Failure     422 {object} ErrorResponse "Inactive asset or insufficient budget"
// @Router      /clients/{id}/purchases [post]
func (h *PurchaseHandler) RequestPurchase(c *gin.Context) {
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	purchase, err := h.purchaseService.RequestPurchase(clientID, req.AccessCode, req.AssetID, req.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.ClientActor(clientID), models.AuditRequestPurchase, purchase.ID,
		map[string]any{"asset_id": purchase.AssetID, "quantity": purchase.Quantity.String()})
	c.JSON(http.StatusCreated, purchase)
}

// ConfirmPurchase handles a client accepting an AVAILABLE purchase, which
// moves it into the wallet.
// @Summary     Confirm purchase
// @Tags        purchases
// @Accept      json
// @Produce     json
// @Param       id         path string            true "Client ID"
// @Param       purchaseId path string            true "Purchase ID"
// @Param       request    body AccessCodeRequest true "Access code"
// @Success     200 {object} models.Purchase "Purchase in wallet"
// @Failure     401 {object} ErrorResponse "Invalid access code"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Failure     409 {object} ErrorResponse "Purchase not available yet"
// @Router      /clients/{id}/purchases/{purchaseId}/confirmation [post]
func (h *PurchaseHandler) ConfirmPurchase(c *gin.Context) {
	clientID, purchaseID, req, ok := h.bindClientPurchase(c)
	if !ok {
		return
	}

	purchase, err := h.purchaseService.ConfirmPurchase(clientID, req.AccessCode, purchaseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.ClientActor(clientID), models.AuditConfirmPurchase, purchase.ID,
		map[string]any{"state": string(purchase.State)})
	c.JSON(http.StatusOK, purchase)
}

// CancelPurchase handles a client withdrawing a REQUESTED purchase.
// @Summary     Cancel purchase
// @Tags        purchases
// @Accept      json
// @Param       id         path string            true "Client ID"
// @Param       purchaseId path string            true "Purchase ID"
// @Param       request    body AccessCodeRequest true "Access code"
// @Success     204 "Purchase cancelled"
// @Failure     401 {object} ErrorResponse "Invalid access code"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Failure     409 {object} ErrorResponse "Purchase past REQUESTED"
// @Router      /clients/{id}/purchases/{purchaseId} [delete]
func (h *PurchaseHandler) CancelPurchase(c *gin.Context) {
	clientID, purchaseID, req, ok := h.bindClientPurchase(c)
	if !ok {
		return
	}

	if err := h.purchaseService.CancelPurchase(clientID, req.AccessCode, purchaseID); err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.ClientActor(clientID), models.AuditCancelPurchase, purchaseID, nil)
	c.Status(http.StatusNoContent)
}

func (h *PurchaseHandler) bindClientPurchase(c *gin.Context) (string, string, AccessCodeRequest, bool) {
	var req AccessCodeRequest
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return "", "", req, false
	}
	purchaseID, err := parsePathID(c, "purchaseId")
	if err != nil {
		respondWithError(c, err)
		return "", "", req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return "", "", req, false
	}
	return clientID, purchaseID, req, true
}

// ListPurchases handles the admin queue of purchases.
// @Summary     List purchases
// @Tags        admin
// @Produce     json
// @Security    AdminEmail
// @Security    AdminCode
// @Param       state     query string false "REQUESTED, AVAILABLE, PURCHASED or IN_WALLET"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Purchase] "Paginated purchases"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Router      /admin/purchases [get]
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	var q StateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var state *models.PurchaseState
	if q.State != "" {
		s := models.PurchaseState(q.State)
		if !lo.Contains(lifecycle.PurchaseStates, s) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid state "+q.State))
			return
		}
		state = &s
	}

	result, err := h.purchaseService.ListPurchases(adminCredentials(c), state, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MarkAvailable handles the admin confirming a purchase can be served. The
// asset quota is reserved and the owner notified.
// @Summary     Confirm purchase availability
// @Tags        admin
// @Produce     json
// @Security    AdminEmail
// @Security    AdminCode
// @Param       id path string true "Purchase ID"
// @Success     200 {object} models.Purchase "Purchase available"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Failure     422 {object} ErrorResponse "Inactive asset or insufficient quantity"
// @Router      /admin/purchases/{id}/availability [post]
func (h *PurchaseHandler) MarkAvailable(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	admin := adminCredentials(c)
	purchase, err := h.purchaseService.MarkAvailable(admin, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.AdminActor(admin), models.AuditMarkPurchaseAvailable, purchase.ID,
		map[string]any{"state": string(purchase.State)})
	c.JSON(http.StatusOK, purchase)
}
