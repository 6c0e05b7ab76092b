package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/keylock"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/notification"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
)

// minQuotationVariation is the smallest relative quotation move accepted.
var minQuotationVariation = decimal.RequireFromString("0.01")

// findAsset loads an asset with its type.
func findAsset(db *gorm.DB, id string) (*models.Asset, error) {
	var asset models.Asset
	if err := db.Preload("AssetType").First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// meetsVariation reports whether next differs from current by at least 1%.
func meetsVariation(current, next decimal.Decimal) bool {
	return next.Sub(current).Abs().GreaterThanOrEqual(current.Mul(minQuotationVariation))
}

// assetService is the asset ledger.
type assetService struct {
	db            *gorm.DB
	credentials   CredentialServicer
	subscriptions SubscriptionServicer
	format        notification.Formatter
	locks         *keylock.Locker
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(
	db *gorm.DB,
	credentials CredentialServicer,
	subscriptions SubscriptionServicer,
	format notification.Formatter,
	locks *keylock.Locker,
) AssetServicer {
	return &assetService{
		db:            db,
		credentials:   credentials,
		subscriptions: subscriptions,
		format:        format,
		locks:         locks,
	}
}

// EnsureAssetTypes seeds one row per supported kind. Safe to call repeatedly.
func (s *assetService) EnsureAssetTypes() error {
	for _, kind := range models.AssetKinds {
		var assetType models.AssetType
		if err := s.db.Where(models.AssetType{Name: kind}).FirstOrCreate(&assetType).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// ListAssetTypes returns all asset types ordered by name.
func (s *assetService) ListAssetTypes() ([]models.AssetType, error) {
	var types []models.AssetType
	if err := s.db.Order("name").Find(&types).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return types, nil
}

// GetAssetTypeByName looks an asset type up by its kind.
func (s *assetService) GetAssetTypeByName(kind models.AssetKind) (*models.AssetType, error) {
	var assetType models.AssetType
	if err := s.db.Where("name = ?", kind).First(&assetType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrAssetTypeNotFound, fmt.Sprintf("Asset type %s not found", kind))
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &assetType, nil
}

// CreateAsset registers a new asset.
func (s *assetService) CreateAsset(admin AdminCredentials, in CreateAssetInput) (*models.Asset, error) {
	if err := s.credentials.ValidateAdmin(admin); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name is required")
	}
	if !in.Quotation.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quotation must be positive")
	}
	if in.QuotaQuantity.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quota quantity cannot be negative")
	}
	if err := checkAmount("quotation", in.Quotation); err != nil {
		return nil, err
	}
	if err := checkAmount("quota quantity", in.QuotaQuantity); err != nil {
		return nil, err
	}

	assetType, err := s.GetAssetTypeByName(in.Kind)
	if err != nil {
		return nil, err
	}

	asset := &models.Asset{
		Name:          name,
		Description:   in.Description,
		AssetTypeID:   assetType.ID,
		IsActive:      in.IsActive,
		Quotation:     in.Quotation,
		QuotaQuantity: in.QuotaQuantity,
	}
	if err := s.db.Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	asset.AssetType = *assetType
	return asset, nil
}

// GetAsset retrieves an asset by id.
func (s *assetService) GetAsset(id string) (*models.Asset, error) {
	return findAsset(s.db, id)
}

// ListAssets returns a paginated list of assets ordered by name.
func (s *assetService) ListAssets(filter AssetFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()

	query := s.db.Model(&models.Asset{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if len(filter.Kinds) > 0 {
		query = query.Where("asset_type_id IN (?)",
			s.db.Model(&models.AssetType{}).Select("id").Where("name IN ?", filter.Kinds))
	}
	query = query.Session(&gorm.Session{})

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := query.Preload("AssetType").Order("name").
		Scopes(pagination.Paginate(page)).Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(assets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateAsset edits the descriptive fields and the quota of an asset.
func (s *assetService) UpdateAsset(admin AdminCredentials, id string, in UpdateAssetInput) (*models.Asset, error) {
	if err := s.credentials.ValidateAdmin(admin); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.QuotaQuantity != nil {
		if in.QuotaQuantity.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quota quantity cannot be negative")
		}
		if err := checkAmount("quota quantity", *in.QuotaQuantity); err != nil {
			return nil, err
		}
		updates["quota_quantity"] = *in.QuotaQuantity
	}

	unlock := s.locks.Lock(keylock.AssetKey(id))
	defer unlock()

	var asset *models.Asset
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if asset, err = findAsset(tx, id); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(asset).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		asset, err = findAsset(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// SetActive activates or deactivates an asset. Activating an inactive asset
// fires its AVAILABILITY subscriptions.
func (s *assetService) SetActive(admin AdminCredentials, id string, active bool) (*models.Asset, error) {
	if err := s.credentials.ValidateAdmin(admin); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(keylock.AssetKey(id))
	defer unlock()

	var asset *models.Asset
	var claimed []Subscriber
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if asset, err = findAsset(tx, id); err != nil {
			return err
		}
		if asset.IsActive == active {
			return nil
		}
		if err := tx.Model(asset).Update("is_active", active).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		asset.IsActive = active
		if active {
			claimed, err = s.subscriptions.Claim(tx, asset.ID, models.NotificationAvailability)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.subscriptions.Deliver(claimed, models.NotificationAvailability, s.format.Availability(asset))
	return asset, nil
}

// UpdateQuotation replaces the quotation of a stock or crypto asset. The new
// value must differ from the current one by at least 1% in either direction.
// PRICE_VARIATION subscriptions fire on success.
func (s *assetService) UpdateQuotation(admin AdminCredentials, id string, quotation decimal.Decimal) (*models.Asset, error) {
	if err := s.credentials.ValidateAdmin(admin); err != nil {
		return nil, err
	}
	if !quotation.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quotation must be positive")
	}
	if err := checkAmount("quotation", quotation); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(keylock.AssetKey(id))
	defer unlock()

	var asset *models.Asset
	var previous decimal.Decimal
	var claimed []Subscriber
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if asset, err = findAsset(tx, id); err != nil {
			return err
		}
		if !asset.Kind().QuotationUpdatable() {
			return apperrors.WithMessage(apperrors.ErrInvalidAssetType,
				fmt.Sprintf("Quotation of %s assets cannot be updated", asset.Kind()))
		}
		if !meetsVariation(asset.Quotation, quotation) {
			return apperrors.WithMessage(apperrors.ErrInvalidQuotationVariation,
				fmt.Sprintf("Quotation of %s must vary by at least 1%% from %s", asset.Name, asset.Quotation.String()))
		}

		previous = asset.Quotation
		if err := tx.Model(asset).Update("quotation", quotation).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		asset.Quotation = quotation

		claimed, err = s.subscriptions.Claim(tx, asset.ID, models.NotificationPriceVariation)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.subscriptions.Deliver(claimed, models.NotificationPriceVariation, s.format.PriceVariation(asset, previous))
	return asset, nil
}

// DeleteAsset removes an asset that no purchase or withdraw references. Its
// pending subscriptions are dropped with it.
func (s *assetService) DeleteAsset(admin AdminCredentials, id string) error {
	if err := s.credentials.ValidateAdmin(admin); err != nil {
		return err
	}

	unlock := s.locks.Lock(keylock.AssetKey(id))
	defer unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := findAsset(tx, id)
		if err != nil {
			return err
		}

		var purchases, withdraws int64
		if err := tx.Unscoped().Model(&models.Purchase{}).Where("asset_id = ?", id).Count(&purchases).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Model(&models.Withdraw{}).Where("asset_id = ?", id).Count(&withdraws).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if purchases > 0 || withdraws > 0 {
			return apperrors.WithMessage(apperrors.ErrAssetReferenced,
				fmt.Sprintf("Asset %s is referenced by %d purchases and %d withdraws", asset.Name, purchases, withdraws))
		}

		if err := tx.Where("asset_id = ?", id).Delete(&models.Subscription{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(asset).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
