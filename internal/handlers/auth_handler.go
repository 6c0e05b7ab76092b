package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/middleware"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
)

// AuthHandler issues client session tokens.
type AuthHandler struct {
	credentials  services.CredentialServicer
	auditService services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(credentials services.CredentialServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{credentials: credentials, auditService: auditService}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	ClientID   string `json:"client_id" binding:"required,uuid"`
	AccessCode string `json:"access_code" binding:"required,access_code"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ClientID  string    `json:"client_id"`
	WalletID  string    `json:"wallet_id"`
}

// Login exchanges a client id and access code for a bearer token.
// @Summary     Client login
// @Description Validate a client's access code and issue a bearer token for read-model endpoints
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Client credentials"
// @Success     200 {object} AuthResponse "Token issued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	client, err := h.credentials.ValidateClientAccess(req.ClientID, req.AccessCode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, expiresAt, err := middleware.GenerateAccessToken(client)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	recordAudit(c, h.auditService, services.ClientActor(client.ID), models.AuditLogin, client.ID, nil)

	c.JSON(http.StatusOK, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		ClientID:  client.ID,
		WalletID:  client.WalletID,
	})
}
