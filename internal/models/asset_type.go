package models

import "github.com/shopspring/decimal"

// AssetKind identifies an asset class. Each kind carries its own tax rule.
type AssetKind string

const (
	AssetKindStock         AssetKind = "STOCK"
	AssetKindCrypto        AssetKind = "CRYPTO"
	AssetKindTreasuryBonds AssetKind = "TREASURY_BONDS"
)

// AssetKinds lists every supported kind in seeding order.
var AssetKinds = []AssetKind{AssetKindStock, AssetKindCrypto, AssetKindTreasuryBonds}

var (
	stockTaxRate        = decimal.RequireFromString("0.15")
	cryptoLowerTaxRate  = decimal.RequireFromString("0.15")
	cryptoUpperTaxRate  = decimal.RequireFromString("0.225")
	cryptoTierThreshold = decimal.NewFromInt(5000)
	treasuryTaxRate     = decimal.RequireFromString("0.10")
)

// Valid reports whether k is one of the supported kinds.
func (k AssetKind) Valid() bool {
	switch k {
	case AssetKindStock, AssetKindCrypto, AssetKindTreasuryBonds:
		return true
	}
	return false
}

// QuotationUpdatable reports whether the quotation of assets of this kind may
// be changed after creation. Treasury bonds keep a fixed quotation.
func (k AssetKind) QuotationUpdatable() bool {
	return k == AssetKindStock || k == AssetKindCrypto
}

// Tax returns the tax owed on a withdrawal profit. Losses are not taxed.
func (k AssetKind) Tax(profit decimal.Decimal) decimal.Decimal {
	return RoundAmount(k.rawTax(profit))
}

func (k AssetKind) rawTax(profit decimal.Decimal) decimal.Decimal {
	if !profit.IsPositive() {
		return decimal.Zero
	}
	switch k {
	case AssetKindStock:
		return profit.Mul(stockTaxRate)
	case AssetKindCrypto:
		if profit.LessThanOrEqual(cryptoTierThreshold) {
			return profit.Mul(cryptoLowerTaxRate)
		}
		return profit.Mul(cryptoUpperTaxRate)
	case AssetKindTreasuryBonds:
		return profit.Mul(treasuryTaxRate)
	}
	return decimal.Zero
}

// AssetType is the persisted reference row for an AssetKind. Rows are seeded
// once and never modified.
type AssetType struct {
	Base
	Name AssetKind `gorm:"uniqueIndex;not null" json:"name"`
}
