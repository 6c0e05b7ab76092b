package services

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/logger"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
)

// AdminActor attributes an action to the admin identity that performed it.
func AdminActor(creds AdminCredentials) AuditActor {
	return AuditActor{Kind: models.ActorAdmin, ID: strings.ToLower(strings.TrimSpace(creds.Email))}
}

// ClientActor attributes an action to a client.
func ClientActor(clientID string) AuditActor {
	return AuditActor{Kind: models.ActorClient, ID: clientID}
}

// auditService writes the audit trail and serves it back to the admin.
type auditService struct {
	db          *gorm.DB
	credentials CredentialServicer
	log         *zap.SugaredLogger
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB, credentials CredentialServicer) AuditServicer {
	return &auditService{db: db, credentials: credentials, log: logger.Named("audit")}
}

// Record stores one audit entry. A failed write is logged and never fails
// the operation being audited.
func (s *auditService) Record(event AuditEvent) {
	entry := &models.AuditLog{
		ActorKind:    event.Actor.Kind,
		ActorID:      event.Actor.ID,
		Action:       event.Action,
		ResourceType: event.Action.Resource(),
		ResourceID:   event.ResourceID,
		IPAddress:    event.IPAddress,
	}
	if len(event.Changes) > 0 {
		data, err := json.Marshal(event.Changes)
		if err != nil {
			s.log.Errorw("unencodable audit changes", "error", err, "action", event.Action)
			data = []byte("{}")
		}
		entry.Changes = string(data)
	}

	fields := []any{
		"actor_kind", entry.ActorKind,
		"actor_id", entry.ActorID,
		"action", entry.Action,
		"resource_type", entry.ResourceType,
		"resource_id", entry.ResourceID,
	}
	if err := s.db.Create(entry).Error; err != nil {
		s.log.Errorw("failed to store audit entry", append(fields, "error", err)...)
		return
	}
	s.log.Debugw("audit", fields...)
}

// List returns audit entries, newest first, narrowed by filter.
func (s *auditService) List(admin AdminCredentials, filter AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	if err := s.credentials.ValidateAdmin(admin); err != nil {
		return nil, err
	}
	page.Defaults()

	query := s.db.Model(&models.AuditLog{})
	if filter.ActorKind != "" {
		query = query.Where("actor_kind = ?", filter.ActorKind)
	}
	if filter.ActorID != "" {
		query = query.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ResourceID != "" {
		query = query.Where("resource_id = ?", filter.ResourceID)
	}
	query = query.Scopes(filter.DateRange.Scope("created_at")).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.AuditLog
	if err := query.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, total)
	return &result, nil
}
