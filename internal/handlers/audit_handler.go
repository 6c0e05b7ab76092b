package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
)

// AuditHandler serves the audit trail to the admin.
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// AuditQuery holds the audit trail filters.
type AuditQuery struct {
	ActorKind  string `form:"actor_kind" binding:"omitempty,oneof=ADMIN CLIENT"`
	ActorID    string `form:"actor_id"`
	Action     string `form:"action"`
	ResourceID string `form:"resource_id"`
	pagination.PageRequest
	pagination.DateRange
}

// ListAuditLogs handles the admin reading the audit trail.
// @Summary     List audit entries
// @Tags        admin
// @Produce     json
// @Security    AdminEmail
// @Security    AdminCode
// @Param       actor_kind  query string false "ADMIN or CLIENT"
// @Param       actor_id    query string false "Admin email or client ID"
// @Param       action      query string false "Audited action, e.g. UPDATE_QUOTATION"
// @Param       resource_id query string false "ID of the touched record"
// @Param       from        query string false "From date (YYYY-MM-DD)"
// @Param       to          query string false "To date (YYYY-MM-DD)"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AuditLog] "Paginated audit entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Router      /admin/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	var q AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	filter := services.AuditFilter{
		ActorKind:  models.ActorKind(q.ActorKind),
		ActorID:    q.ActorID,
		Action:     models.AuditAction(q.Action),
		ResourceID: q.ResourceID,
		DateRange:  q.DateRange,
	}
	result, err := h.auditService.List(adminCredentials(c), filter, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
