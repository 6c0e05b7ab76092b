package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryEntryType distinguishes purchase and withdraw rows in the unified history.
type HistoryEntryType string

const (
	HistoryPurchase HistoryEntryType = "PURCHASE"
	HistoryWithdraw HistoryEntryType = "WITHDRAW"
)

// HistoryEntry is a read-only row of a wallet's transaction history. Tax and
// net values are copied from the persisted withdraw, never recomputed.
type HistoryEntry struct {
	ID         string           `json:"id"`
	Type       HistoryEntryType `json:"type"`
	AssetID    string           `json:"asset_id"`
	AssetName  string           `json:"asset_name"`
	AssetKind  AssetKind        `json:"asset_kind"`
	Quantity   decimal.Decimal  `json:"quantity"`
	UnitPrice  decimal.Decimal  `json:"unit_price"`
	Gross      decimal.Decimal  `json:"gross"`
	Tax        decimal.Decimal  `json:"tax"`
	Net        decimal.Decimal  `json:"net"`
	State      string           `json:"state"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewPurchaseEntry builds a history row from a purchase with its asset type preloaded.
func NewPurchaseEntry(p Purchase) HistoryEntry {
	total := p.TotalPrice()
	return HistoryEntry{
		ID:         p.ID,
		Type:       HistoryPurchase,
		AssetID:    p.AssetID,
		AssetName:  p.Asset.Name,
		AssetKind:  p.Asset.Kind(),
		Quantity:   p.Quantity,
		UnitPrice:  p.AcquisitionPrice,
		Gross:      total,
		Tax:        decimal.Zero,
		Net:        total,
		State:      string(p.State),
		OccurredAt: p.Date,
	}
}

// NewWithdrawEntry builds a history row from a withdraw with its asset type preloaded.
func NewWithdrawEntry(w Withdraw) HistoryEntry {
	return HistoryEntry{
		ID:         w.ID,
		Type:       HistoryWithdraw,
		AssetID:    w.AssetID,
		AssetName:  w.Asset.Name,
		AssetKind:  w.Asset.Kind(),
		Quantity:   w.Quantity,
		UnitPrice:  w.SellingPrice,
		Gross:      w.GrossValue,
		Tax:        w.Tax,
		Net:        w.WithdrawValue,
		State:      string(w.State),
		OccurredAt: w.Date,
	}
}
