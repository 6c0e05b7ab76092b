package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/logger"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into consistent JSON error responses. AppErrors are returned with
// their code and message; unexpected errors are logged and return a generic
// internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		abortWithAppError(c, c.Errors.Last().Err)
	}
}

// Recovery turns a panic into an INTERNAL_ERROR response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Get().Errorw("panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
		)
		abortWithAppError(c, apperrors.ErrInternalServer)
	})
}

func abortWithAppError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"code", appErr.Code,
			"message", appErr.Message,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
		)
	}

	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
