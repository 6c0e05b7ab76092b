package services

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
)

// findWallet loads a wallet row.
func findWallet(db *gorm.DB, id string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := db.First(&wallet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &wallet, nil
}

// saveBalances writes budget and reserved back in one statement.
func saveBalances(tx *gorm.DB, wallet *models.Wallet) error {
	if err := tx.Model(wallet).Updates(map[string]any{
		"budget":   wallet.Budget,
		"reserved": wallet.Reserved,
	}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// walletService is the wallet/holding ledger.
type walletService struct {
	db *gorm.DB
}

// NewWalletService creates a new WalletServicer.
func NewWalletService(db *gorm.DB) WalletServicer {
	return &walletService{db: db}
}

// ReserveForPurchase escrows quantity*quotation of the wallet's available
// budget and returns the quotation as the locked unit price. The budget
// itself is only deducted by CompletePurchase.
func (s *walletService) ReserveForPurchase(tx *gorm.DB, walletID string, asset *models.Asset, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
	}

	wallet, err := findWallet(tx, walletID)
	if err != nil {
		return decimal.Zero, err
	}

	price := asset.PriceFor(quantity)
	if wallet.Available().LessThan(price) {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInsufficientBudget,
			fmt.Sprintf("Purchase of %s units of %s costs %s but only %s is available",
				quantity.String(), asset.Name, price.String(), wallet.Available().String()))
	}

	wallet.Reserved = wallet.Reserved.Add(price)
	if err := saveBalances(tx, wallet); err != nil {
		return decimal.Zero, err
	}
	return asset.Quotation, nil
}

// ReleaseReservation returns amount from escrow to the available budget.
func (s *walletService) ReleaseReservation(tx *gorm.DB, walletID string, amount decimal.Decimal) error {
	wallet, err := findWallet(tx, walletID)
	if err != nil {
		return err
	}
	wallet.Reserved = decimal.Max(wallet.Reserved.Sub(amount), decimal.Zero)
	return saveBalances(tx, wallet)
}

// CompletePurchase deducts the purchase cost from the budget, releases the
// matching escrow and credits the units to the holding, creating it on first buy.
func (s *walletService) CompletePurchase(tx *gorm.DB, walletID, assetID string, quantity, unitPrice decimal.Decimal) (*models.Holding, error) {
	wallet, err := findWallet(tx, walletID)
	if err != nil {
		return nil, err
	}

	cost := models.RoundAmount(quantity.Mul(unitPrice))
	if wallet.Budget.LessThan(cost) {
		return nil, apperrors.WithMessage(apperrors.ErrInsufficientBudget,
			fmt.Sprintf("Purchase costs %s but the wallet budget is %s", cost.String(), wallet.Budget.String()))
	}
	wallet.Budget = wallet.Budget.Sub(cost)
	wallet.Reserved = decimal.Max(wallet.Reserved.Sub(cost), decimal.Zero)
	if err := saveBalances(tx, wallet); err != nil {
		return nil, err
	}

	var holding models.Holding
	err = tx.Where("wallet_id = ? AND asset_id = ?", walletID, assetID).First(&holding).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		holding = models.Holding{WalletID: walletID, AssetID: assetID}
		holding.Acquire(quantity, unitPrice)
		if err := tx.Create(&holding).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	default:
		holding.Acquire(quantity, unitPrice)
		if err := tx.Model(&holding).Updates(map[string]any{
			"quantity":          holding.Quantity,
			"accumulated_price": holding.AccumulatedPrice,
		}).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return &holding, nil
}

// Withdraw sells quantity units of the holding at the asset's quotation. The
// proportional acquisition cost leaves the holding, the profit is taxed by
// asset kind and the net value is credited to the budget. A holding that
// reaches zero is deleted.
func (s *walletService) Withdraw(tx *gorm.DB, walletID string, asset *models.Asset, quantity decimal.Decimal) (*WithdrawOutcome, error) {
	if !quantity.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
	}

	var holding models.Holding
	if err := tx.Where("wallet_id = ? AND asset_id = ?", walletID, asset.ID).First(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrHoldingNotFound,
				fmt.Sprintf("Wallet holds no units of %s", asset.Name))
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if holding.Quantity.LessThan(quantity) {
		return nil, apperrors.WithMessage(apperrors.ErrInsufficientHolding,
			fmt.Sprintf("Cannot withdraw %s units of %s, only %s held",
				quantity.String(), asset.Name, holding.Quantity.String()))
	}

	wallet, err := findWallet(tx, walletID)
	if err != nil {
		return nil, err
	}

	gross := asset.PriceFor(quantity)
	cost := holding.Release(quantity)
	profit := gross.Sub(cost)
	tax := asset.Kind().Tax(profit)
	net := gross.Sub(tax)

	if holding.Quantity.IsZero() {
		if err := tx.Delete(&holding).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	} else if err := tx.Model(&holding).Updates(map[string]any{
		"quantity":          holding.Quantity,
		"accumulated_price": holding.AccumulatedPrice,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	wallet.Budget = wallet.Budget.Add(net)
	if err := saveBalances(tx, wallet); err != nil {
		return nil, err
	}

	return &WithdrawOutcome{
		SellingPrice: asset.Quotation,
		Gross:        gross,
		CostRemoved:  cost,
		Profit:       profit,
		Tax:          tax,
		Net:          net,
	}, nil
}

// GetWallet returns the client's wallet with holdings valued at current quotations.
func (s *walletService) GetWallet(clientID string) (*WalletView, error) {
	var client models.Client
	if err := s.db.First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	wallet, err := findWallet(s.db, client.WalletID)
	if err != nil {
		return nil, err
	}

	var holdings []models.Holding
	if err := s.db.Preload("Asset.AssetType").Where("wallet_id = ?", wallet.ID).
		Order("created_at, id").Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := lo.Map(holdings, func(h models.Holding, _ int) HoldingView {
		value := h.Asset.PriceFor(h.Quantity)
		return HoldingView{Holding: h, CurrentValue: value, Performance: value.Sub(h.AccumulatedPrice)}
	})

	invested := lo.Reduce(views, func(acc decimal.Decimal, v HoldingView, _ int) decimal.Decimal {
		return acc.Add(v.AccumulatedPrice)
	}, decimal.Zero)
	current := lo.Reduce(views, func(acc decimal.Decimal, v HoldingView, _ int) decimal.Decimal {
		return acc.Add(v.CurrentValue)
	}, decimal.Zero)

	return &WalletView{
		WalletID: wallet.ID,
		ClientID: client.ID,
		Summary: WalletSummary{
			Budget:            wallet.Budget,
			Reserved:          wallet.Reserved,
			Available:         wallet.Available(),
			TotalInvested:     invested,
			TotalCurrentValue: current,
			TotalPerformance:  current.Sub(invested),
		},
		Holdings: views,
	}, nil
}
