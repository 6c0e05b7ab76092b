package models

import "github.com/shopspring/decimal"

// Wallet holds a client's cash budget and holdings.
//
// Reserved is the escrowed part of Budget committed to purchases that have
// been requested but not yet completed. Budget never drops below zero and
// Reserved never exceeds Budget.
type Wallet struct {
	Base
	Budget   decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"budget"`
	Reserved decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"reserved"`

	Holdings []Holding `gorm:"foreignKey:WalletID" json:"holdings,omitempty"`
}

// Available returns the budget not yet committed to pending purchases.
func (w *Wallet) Available() decimal.Decimal {
	return w.Budget.Sub(w.Reserved)
}
