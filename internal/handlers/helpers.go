package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/logger"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/middleware"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/uuid"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// getClientID extracts the authenticated client ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getClientID(c *gin.Context) (string, error) {
	clientID := c.GetString(middleware.ClientIDKey)
	if clientID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return clientID, nil
}

// adminCredentials returns the credentials validated by middleware.AdminAuth,
// falling back to the raw headers. Services validate them either way.
func adminCredentials(c *gin.Context) services.AdminCredentials {
	if v, ok := c.Get(middleware.AdminKey); ok {
		if admin, ok := v.(services.AdminCredentials); ok {
			return admin
		}
	}
	return services.AdminCredentials{
		Email:      c.GetHeader(middleware.AdminEmailHeader),
		AccessCode: c.GetHeader(middleware.AdminCodeHeader),
	}
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// bindError turns a binding failure into an INVALID_INPUT error.
func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}

// recordAudit stores a mutation performed by actor during this request.
func recordAudit(c *gin.Context, svc services.AuditServicer, actor services.AuditActor, action models.AuditAction, resourceID string, changes map[string]any) {
	svc.Record(services.AuditEvent{
		Actor:      actor,
		Action:     action,
		ResourceID: resourceID,
		IPAddress:  c.ClientIP(),
		Changes:    changes,
	})
}
