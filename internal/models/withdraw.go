package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawState is a step of the withdraw lifecycle.
type WithdrawState string

const (
	WithdrawRequested WithdrawState = "REQUESTED"
	WithdrawConfirmed WithdrawState = "CONFIRMED"
	WithdrawInAccount WithdrawState = "IN_ACCOUNT"
)

// Withdraw records the sale of holding units back to the platform. Gross,
// tax and net values are computed once, at request time.
type Withdraw struct {
	Base
	WalletID      string          `gorm:"type:uuid;not null;index" json:"wallet_id"`
	AssetID       string          `gorm:"type:uuid;not null;index" json:"asset_id"`
	Quantity      decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"quantity"`
	SellingPrice  decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"selling_price"`
	GrossValue    decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"gross_value"`
	Tax           decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"tax"`
	WithdrawValue decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"withdraw_value"`
	State         WithdrawState   `gorm:"not null;index" json:"state"`
	Date          time.Time       `gorm:"not null" json:"date"`

	Asset Asset `gorm:"foreignKey:AssetID" json:"asset"`
}
