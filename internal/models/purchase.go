package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseState is a step of the purchase lifecycle.
type PurchaseState string

const (
	PurchaseRequested PurchaseState = "REQUESTED"
	PurchaseAvailable PurchaseState = "AVAILABLE"
	PurchasePurchased PurchaseState = "PURCHASED"
	PurchaseInWallet  PurchaseState = "IN_WALLET"
)

// Purchase is a client's request to buy units of an asset. The unit price is
// locked when the purchase is requested.
type Purchase struct {
	Base
	WalletID         string          `gorm:"type:uuid;not null;index" json:"wallet_id"`
	AssetID          string          `gorm:"type:uuid;not null;index" json:"asset_id"`
	Quantity         decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"quantity"`
	AcquisitionPrice decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"acquisition_price"`
	State            PurchaseState   `gorm:"not null;index" json:"state"`
	Date             time.Time       `gorm:"not null" json:"date"`

	Asset Asset `gorm:"foreignKey:AssetID" json:"asset"`
}

// TotalPrice returns quantity times the locked unit price.
func (p *Purchase) TotalPrice() decimal.Decimal {
	return RoundAmount(p.Quantity.Mul(p.AcquisitionPrice))
}
