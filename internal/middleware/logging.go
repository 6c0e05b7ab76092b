package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/logger"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/uuid"
)

const requestIDKey = "requestID"

// RequestIDHeader carries the request id back to the caller. An incoming
// value is reused when it is a valid UUID.
const RequestIDHeader = "X-Request-ID"

// RequestLogging returns a Gin middleware that logs each request with a unique
// request ID, method, path, status code, latency, and client IP using Zap.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if !uuid.IsValid(requestID) {
			requestID = uuid.New()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()

		log := logger.Get()
		fields := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if clientID := c.GetString(ClientIDKey); clientID != "" {
			fields = append(fields, "client_id", clientID)
		}
		if c.Writer.Status() >= 500 {
			log.Errorw("request", fields...)
			return
		}
		log.Infow("request", fields...)
	}
}
