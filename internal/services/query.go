package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
)

// checkAmount rejects quantities and prices a numeric(20,8) column would
// round or overflow.
func checkAmount(field string, v decimal.Decimal) error {
	if models.FitsColumn(v) {
		return nil
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput,
		fmt.Sprintf("%s must have at most %d decimal places and 12 integer digits", field, models.AmountScale))
}

// clientWalletID resolves the wallet owned by clientID.
func clientWalletID(db *gorm.DB, clientID string) (string, error) {
	var client models.Client
	if err := db.Select("id", "wallet_id").First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrClientNotFound
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return client.WalletID, nil
}

// historyScope filters purchases or withdraws by asset kind, state and date.
func historyScope(db *gorm.DB, filter HistoryFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if len(filter.Kinds) > 0 {
			kindTypes := db.Model(&models.AssetType{}).Select("id").Where("name IN ?", filter.Kinds)
			q = q.Where("asset_id IN (?)",
				db.Unscoped().Model(&models.Asset{}).Select("id").Where("asset_type_id IN (?)", kindTypes))
		}
		if filter.State != "" {
			q = q.Where("state = ?", filter.State)
		}
		return q.Scopes(filter.DateRange.Scope("date"))
	}
}

// listPaged counts and pages purchases or withdraws matching query, newest first.
func listPaged[T models.Purchase | models.Withdraw](query *gorm.DB, page pagination.PageRequest) (*pagination.PageResponse[T], error) {
	page.Defaults()
	query = query.Session(&gorm.Session{})

	var totalItems int64
	if err := query.Model(new(T)).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []T
	if err := query.Preload("Asset.AssetType").Order("date DESC").
		Scopes(pagination.Paginate(page)).Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems)
	return &result, nil
}
