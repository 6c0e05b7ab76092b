package models

import "github.com/shopspring/decimal"

// Holding is a wallet's accumulated position in one asset. A holding whose
// quantity reaches zero is deleted, so persisted holdings are always positive.
type Holding struct {
	Entity
	WalletID         string          `gorm:"type:uuid;not null;uniqueIndex:uq_holdings_wallet_asset" json:"wallet_id"`
	AssetID          string          `gorm:"type:uuid;not null;uniqueIndex:uq_holdings_wallet_asset" json:"asset_id"`
	Quantity         decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"quantity"`
	AccumulatedPrice decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"accumulated_price"`

	Asset Asset `gorm:"foreignKey:AssetID" json:"asset"`
}

// Acquire adds quantity units bought at unitPrice to the position.
func (h *Holding) Acquire(quantity, unitPrice decimal.Decimal) {
	h.Quantity = h.Quantity.Add(quantity)
	h.AccumulatedPrice = h.AccumulatedPrice.Add(RoundAmount(quantity.Mul(unitPrice)))
}

// Release removes quantity units and the proportional share of the
// accumulated cost, returning the cost removed.
func (h *Holding) Release(quantity decimal.Decimal) decimal.Decimal {
	if quantity.GreaterThanOrEqual(h.Quantity) {
		cost := h.AccumulatedPrice
		h.Quantity = decimal.Zero
		h.AccumulatedPrice = decimal.Zero
		return cost
	}
	cost := RoundAmount(h.AccumulatedPrice.Mul(quantity).Div(h.Quantity))
	h.Quantity = h.Quantity.Sub(quantity)
	h.AccumulatedPrice = h.AccumulatedPrice.Sub(cost)
	return cost
}
