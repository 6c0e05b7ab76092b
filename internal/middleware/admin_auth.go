package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
)

// Admin credential headers.
const (
	AdminEmailHeader = "X-Admin-Email"
	AdminCodeHeader  = "X-Admin-Code"
)

// AdminKey is the gin context key holding the validated admin credentials.
const AdminKey = "admin"

// AdminAuth rejects requests whose admin headers do not match the configured
// admin. Services validate the credentials again, so this only fails fast.
func AdminAuth(credentials services.CredentialServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := services.AdminCredentials{
			Email:      c.GetHeader(AdminEmailHeader),
			AccessCode: c.GetHeader(AdminCodeHeader),
		}
		if err := credentials.ValidateAdmin(admin); err != nil {
			abortWithAppError(c, err)
			return
		}
		c.Set(AdminKey, admin)
		c.Next()
	}
}
