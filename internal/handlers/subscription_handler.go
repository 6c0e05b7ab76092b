package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
)

// SubscriptionHandler handles notification subscription requests.
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionServicer
	auditService        services.AuditServicer
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService services.SubscriptionServicer, auditService services.AuditServicer) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, auditService: auditService}
}

// SubscribeRequest represents the request payload for subscribing to an asset event.
type SubscribeRequest struct {
	AccessCode string                  `json:"access_code" binding:"required,access_code"`
	AssetID    string                  `json:"asset_id" binding:"required,uuid"`
	Type       models.NotificationType `json:"type" binding:"required,notification_type"`
}

// Subscribe handles registering for the next availability or price variation
// event of an asset.
// @Summary     Subscribe
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Param       id      path string           true "Client ID"
// @Param       request body SubscribeRequest true "Subscription details"
// @Success     201 {object} models.Subscription "Subscribed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid access code"
// @Failure     404 {object} ErrorResponse "Client or asset not found"
// @Failure     409 {object} ErrorResponse "Already subscribed"
// @Failure     422 {object} ErrorResponse "Premium plan required"
// @Router      /clients/{id}/subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	sub, err := h.subscriptionService.Subscribe(clientID, req.AccessCode, req.AssetID, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.ClientActor(clientID), models.AuditSubscribe, sub.ID,
		map[string]any{"asset_id": sub.AssetID, "type": string(sub.Type)})
	c.JSON(http.StatusCreated, sub)
}

// ListSubscriptions handles listing a client's pending subscriptions. The
// access code travels in the body, so this is a POST.
// @Summary     List subscriptions
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Param       id      path string            true "Client ID"
// @Param       request body AccessCodeRequest true "Access code"
// @Success     200 {array}  models.Subscription "Pending subscriptions"
// @Failure     401 {object} ErrorResponse "Invalid access code"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{id}/subscriptions/list [post]
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccessCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	subs, err := h.subscriptionService.ListClientSubscriptions(clientID, req.AccessCode)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	c.JSON(http.StatusOK, subs)
}

// Unsubscribe handles removing a pending subscription.
// @Summary     Unsubscribe
// @Tags        subscriptions
// @Accept      json
// @Param       id             path string            true "Client ID"
// @Param       subscriptionId path string            true "Subscription ID"
// @Param       request        body AccessCodeRequest true "Access code"
// @Success     204 "Unsubscribed"
// @Failure     401 {object} ErrorResponse "Invalid access code"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Router      /clients/{id}/subscriptions/{subscriptionId} [delete]
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	subscriptionID, err := parsePathID(c, "subscriptionId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccessCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	if err := h.subscriptionService.Unsubscribe(clientID, req.AccessCode, subscriptionID); err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.ClientActor(clientID), models.AuditUnsubscribe, subscriptionID, nil)
	c.Status(http.StatusNoContent)
}
