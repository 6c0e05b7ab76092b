package models

import "github.com/shopspring/decimal"

// Asset is a tradable instrument offered by the platform.
type Asset struct {
	Base
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description"`
	AssetTypeID   string          `gorm:"type:uuid;not null;index" json:"asset_type_id"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
	Quotation     decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"quotation"`
	QuotaQuantity decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"quota_quantity"`

	AssetType AssetType `gorm:"foreignKey:AssetTypeID" json:"asset_type"`
}

// Kind returns the asset class. AssetType must be preloaded.
func (a *Asset) Kind() AssetKind {
	return a.AssetType.Name
}

// PriceFor returns the current market price of quantity units.
func (a *Asset) PriceFor(quantity decimal.Decimal) decimal.Decimal {
	return RoundAmount(a.Quotation.Mul(quantity))
}
