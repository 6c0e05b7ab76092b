package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/keylock"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
)

var accessCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// ValidAccessCode reports whether code is exactly six digits.
func ValidAccessCode(code string) bool {
	return accessCodePattern.MatchString(code)
}

// clientService is the client registry. Every client is created together
// with its wallet.
type clientService struct {
	db          *gorm.DB
	credentials CredentialServicer
	locks       *keylock.Locker
}

// NewClientService creates a new ClientServicer.
func NewClientService(db *gorm.DB, credentials CredentialServicer, locks *keylock.Locker) ClientServicer {
	return &clientService{db: db, credentials: credentials, locks: locks}
}

// CreateClient registers a client and opens its wallet in one transaction.
func (s *clientService) CreateClient(in CreateClientInput) (*models.Client, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.FullName) == "" || email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "full name and email are required")
	}
	if !ValidAccessCode(in.AccessCode) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "access code must be exactly 6 digits")
	}
	if in.InitialBudget.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial budget cannot be negative")
	}
	if err := checkAmount("initial budget", in.InitialBudget); err != nil {
		return nil, err
	}
	plan := in.Plan
	if plan == "" {
		plan = models.PlanNormal
	}
	if plan != models.PlanNormal && plan != models.PlanPremium {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "plan must be NORMAL or PREMIUM")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.AccessCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	client := &models.Client{
		FullName:       strings.TrimSpace(in.FullName),
		Email:          email,
		Address:        in.Address,
		AccessCodeHash: string(hash),
		Plan:           plan,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Client{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateEmail
		}

		wallet := &models.Wallet{Budget: in.InitialBudget, Reserved: decimal.Zero}
		if err := tx.Create(wallet).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		client.WalletID = wallet.ID
		if err := tx.Omit("Wallet").Create(client).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateEmail
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		client.Wallet = *wallet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient retrieves a client with its wallet.
func (s *clientService) GetClient(id string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Preload("Wallet").First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &client, nil
}

// UpdateClient edits a client's profile and plan after checking its access code.
func (s *clientService) UpdateClient(id, accessCode string, in UpdateClientInput) (*models.Client, error) {
	client, err := s.credentials.ValidateClientAccess(id, accessCode)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "full name cannot be empty")
		}
		updates["full_name"] = name
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.Plan != nil {
		if *in.Plan != models.PlanNormal && *in.Plan != models.PlanPremium {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "plan must be NORMAL or PREMIUM")
		}
		updates["plan"] = *in.Plan
	}
	if len(updates) == 0 {
		return client, nil
	}

	if err := s.db.Model(client).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetClient(id)
}

// DeleteClient removes a client, its wallet and holdings, and its pending
// subscriptions. Clients whose wallet has any purchase or withdraw are kept.
func (s *clientService) DeleteClient(admin AdminCredentials, id string) error {
	if err := s.credentials.ValidateAdmin(admin); err != nil {
		return err
	}

	client, err := s.GetClient(id)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(keylock.WalletKey(client.WalletID))
	defer unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var purchases, withdraws int64
		if err := tx.Unscoped().Model(&models.Purchase{}).Where("wallet_id = ?", client.WalletID).Count(&purchases).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Model(&models.Withdraw{}).Where("wallet_id = ?", client.WalletID).Count(&withdraws).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if purchases > 0 || withdraws > 0 {
			return apperrors.ErrClientHasHistory
		}

		if err := tx.Where("client_id = ?", client.ID).Delete(&models.Subscription{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("wallet_id = ?", client.WalletID).Delete(&models.Holding{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Delete(&models.Client{}, "id = ?", client.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Delete(&models.Wallet{}, "id = ?", client.WalletID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ListClients returns a paginated list of clients ordered by name.
func (s *clientService) ListClients(admin AdminCredentials, page pagination.PageRequest) (*pagination.PageResponse[models.Client], error) {
	if err := s.credentials.ValidateAdmin(admin); err != nil {
		return nil, err
	}
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Client{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var clients []models.Client
	if err := s.db.Preload("Wallet").Order("full_name").
		Scopes(pagination.Paginate(page)).Find(&clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(clients, page.Page, page.PageSize, totalItems)
	return &result, nil
}
