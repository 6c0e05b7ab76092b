package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
)

// ClientHandler handles client registry requests.
type ClientHandler struct {
	clientService services.ClientServicer
	auditService  services.AuditServicer
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService services.ClientServicer, auditService services.AuditServicer) *ClientHandler {
	return &ClientHandler{clientService: clientService, auditService: auditService}
}

// CreateClientRequest represents the request payload for registering a client.
type CreateClientRequest struct {
	FullName      string          `json:"full_name" binding:"required,min=1,max=200"`
	Email         string          `json:"email" binding:"required,email,max=255"`
	Address       string          `json:"address" binding:"max=500"`
	AccessCode    string          `json:"access_code" binding:"required,access_code"`
	Plan          models.PlanType `json:"plan" binding:"omitempty,plan_type"`
	InitialBudget decimal.Decimal `json:"budget" swaggertype:"string" example:"10000"`
}

// UpdateClientRequest represents the request payload for editing a client.
type UpdateClientRequest struct {
	AccessCode string           `json:"access_code" binding:"required,access_code"`
	FullName   *string          `json:"full_name" binding:"omitempty,min=1,max=200"`
	Address    *string          `json:"address" binding:"omitempty,max=500"`
	Plan       *models.PlanType `json:"plan" binding:"omitempty,plan_type"`
}

// CreateClient handles client registration. The client's wallet is opened
// with the given budget.
// @Summary     Register client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Param       request body CreateClientRequest true "Client details"
// @Success     201 {object} models.Client "Client created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	client, err := h.clientService.CreateClient(services.CreateClientInput{
		FullName:      req.FullName,
		Email:         req.Email,
		Address:       req.Address,
		AccessCode:    req.AccessCode,
		Plan:          req.Plan,
		InitialBudget: req.InitialBudget,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.ClientActor(client.ID), models.AuditCreateClient, client.ID,
		map[string]any{"plan": string(client.Plan)})
	c.JSON(http.StatusCreated, client)
}

// ListClients handles listing every client.
// @Summary     List clients
// @Tags        clients
// @Produce     json
// @Security    AdminEmail
// @Security    AdminCode
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Client] "Paginated clients"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Router      /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.clientService.ListClients(adminCredentials(c), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetClient handles fetching the authenticated client's profile.
// @Summary     Get client
// @Tags        clients
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Client ID"
// @Success     200 {object} models.Client "Client"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if id != clientID {
		respondWithError(c, apperrors.ErrClientNotFound)
		return
	}

	client, err := h.clientService.GetClient(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles editing a client's profile and plan.
// @Summary     Update client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Param       id      path string              true "Client ID"
// @Param       request body UpdateClientRequest true "Fields to change"
// @Success     200 {object} models.Client "Client updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid access code"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	client, err := h.clientService.UpdateClient(id, req.AccessCode, services.UpdateClientInput{
		FullName: req.FullName,
		Address:  req.Address,
		Plan:     req.Plan,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.ClientActor(client.ID), models.AuditUpdateClient, client.ID,
		map[string]any{"plan": string(client.Plan)})
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles removing a client without history.
// @Summary     Delete client
// @Tags        clients
// @Security    AdminEmail
// @Security    AdminCode
// @Param       id path string true "Client ID"
// @Success     204 "Client deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Failure     409 {object} ErrorResponse "Client has history"
// @Router      /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	admin := adminCredentials(c)
	if err := h.clientService.DeleteClient(admin, id); err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.AdminActor(admin), models.AuditDeleteClient, id, nil)
	c.Status(http.StatusNoContent)
}
