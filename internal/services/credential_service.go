package services

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/config"
	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
)

// credentialService validates admin and client identities. The admin identity
// is fixed at construction.
type credentialService struct {
	db    *gorm.DB
	admin config.Admin
}

// NewCredentialService creates a new CredentialServicer.
func NewCredentialService(db *gorm.DB, admin config.Admin) CredentialServicer {
	return &credentialService{db: db, admin: admin}
}

// ValidateAdmin checks creds against the configured admin using constant-time
// comparison. An unconfigured admin rejects everyone.
func (s *credentialService) ValidateAdmin(creds AdminCredentials) error {
	if !s.admin.Configured() {
		return apperrors.ErrUnauthorizedAdmin
	}
	emailOK := subtle.ConstantTimeCompare([]byte(creds.Email), []byte(s.admin.Email))
	codeOK := subtle.ConstantTimeCompare([]byte(creds.AccessCode), []byte(s.admin.AccessCode))
	if emailOK&codeOK != 1 {
		return apperrors.ErrUnauthorizedAdmin
	}
	return nil
}

// ValidateClientAccess loads the client and checks its access code. It returns
// the client with its wallet preloaded.
func (s *credentialService) ValidateClientAccess(clientID, accessCode string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Preload("Wallet").First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(client.AccessCodeHash), []byte(accessCode)) != nil {
		return nil, apperrors.ErrUnauthorizedClient
	}
	return &client, nil
}
