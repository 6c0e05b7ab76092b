package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/keylock"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/lifecycle"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/logger"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/notification"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
)

// findPurchase loads a purchase with its asset and asset type.
func findPurchase(db *gorm.DB, id string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := db.Preload("Asset.AssetType").First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPurchaseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &purchase, nil
}

// purchaseService drives purchases through REQUESTED, AVAILABLE, PURCHASED
// and IN_WALLET.
type purchaseService struct {
	db          *gorm.DB
	credentials CredentialServicer
	wallets     WalletServicer
	notifier    notification.Notifier
	format      notification.Formatter
	locks       *keylock.Locker
}

// NewPurchaseService creates a new PurchaseServicer.
func NewPurchaseService(
	db *gorm.DB,
	credentials CredentialServicer,
	wallets WalletServicer,
	notifier notification.Notifier,
	format notification.Formatter,
	locks *keylock.Locker,
) PurchaseServicer {
	return &purchaseService{
		db:          db,
		credentials: credentials,
		wallets:     wallets,
		notifier:    notifier,
		format:      format,
		locks:       locks,
	}
}

// RequestPurchase escrows the purchase cost and records a REQUESTED purchase
// priced at the current quotation.
func (s *purchaseService) RequestPurchase(clientID, accessCode, assetID string, quantity decimal.Decimal) (*models.Purchase, error) {
	client, err := s.credentials.ValidateClientAccess(clientID, accessCode)
	if err != nil {
		return nil, err
	}
	if !quantity.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
	}
	if err := checkAmount("quantity", quantity); err != nil {
		return nil, err
	}

	// The asset lock keeps a concurrent delete, deactivation or requote from
	// landing between the asset read and the insert.
	unlock := s.locks.LockAll(keylock.WalletKey(client.WalletID), keylock.AssetKey(assetID))
	defer unlock()

	var purchase *models.Purchase
	err = s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := findAsset(tx, assetID)
		if err != nil {
			return err
		}
		if !asset.IsActive {
			return apperrors.WithMessage(apperrors.ErrAssetInactive, fmt.Sprintf("Asset %s is not available for purchase", asset.Name))
		}

		unitPrice, err := s.wallets.ReserveForPurchase(tx, client.WalletID, asset, quantity)
		if err != nil {
			return err
		}

		purchase = &models.Purchase{
			WalletID:         client.WalletID,
			AssetID:          asset.ID,
			Quantity:         quantity,
			AcquisitionPrice: unitPrice,
			State:            models.PurchaseRequested,
			Date:             time.Now(),
		}
		if err := tx.Create(purchase).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		purchase.Asset = *asset
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// MarkAvailable is the admin confirming a REQUESTED purchase can be served.
// The asset's quota is checked and decremented under the asset lock and the
// owner is notified after commit.
func (s *purchaseService) MarkAvailable(admin AdminCredentials, purchaseID string) (*models.Purchase, error) {
	if err := s.credentials.ValidateAdmin(admin); err != nil {
		return nil, err
	}

	current, err := findPurchase(s.db, purchaseID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(keylock.AssetKey(current.AssetID))
	defer unlock()

	var purchase *models.Purchase
	var transition lifecycle.Transition[models.PurchaseState]
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if purchase, err = findPurchase(tx, purchaseID); err != nil {
			return err
		}
		if transition, err = lifecycle.Purchase(purchase.State, lifecycle.PurchaseMarkAvailable); err != nil || !transition.Changed {
			return err
		}

		asset, err := findAsset(tx, purchase.AssetID)
		if err != nil {
			return err
		}
		if !asset.IsActive {
			return apperrors.WithMessage(apperrors.ErrAssetInactive, fmt.Sprintf("Asset %s is inactive", asset.Name))
		}
		if asset.QuotaQuantity.LessThan(purchase.Quantity) {
			return apperrors.WithMessage(apperrors.ErrInsufficientAssetQuantity,
				fmt.Sprintf("Insufficient quantity of %s: requested %s, available %s",
					asset.Name, purchase.Quantity.String(), asset.QuotaQuantity.String()))
		}

		if transition.Has(lifecycle.EffectDecrementQuota) {
			asset.QuotaQuantity = asset.QuotaQuantity.Sub(purchase.Quantity)
			if err := tx.Model(asset).Update("quota_quantity", asset.QuotaQuantity).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if err := tx.Model(purchase).Update("state", transition.To).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		purchase.State = transition.To
		purchase.Asset = *asset
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transition.Has(lifecycle.EffectNotifyOwner) {
		s.notifyOwner(purchase)
	}
	return purchase, nil
}

// notifyOwner tells the purchase owner it can confirm. Delivery problems are
// logged and never fail the transition.
func (s *purchaseService) notifyOwner(purchase *models.Purchase) {
	var client models.Client
	if err := s.db.Where("wallet_id = ?", purchase.WalletID).First(&client).Error; err != nil {
		logger.Get().Warnw("purchase owner not found for notification",
			"purchase_id", purchase.ID, "wallet_id", purchase.WalletID, "error", err)
		return
	}
	s.notifier.Deliver(notification.Message{
		ClientID:    client.ID,
		ClientEmail: client.Email,
		AssetID:     purchase.AssetID,
		Kind:        notification.KindPurchaseAvailable,
		Text:        s.format.PurchaseAvailable(&purchase.Asset, purchase),
	})
}

// ConfirmPurchase is the owning client accepting an AVAILABLE purchase. The
// purchase is then completed into the wallet in the same transaction.
func (s *purchaseService) ConfirmPurchase(clientID, accessCode, purchaseID string) (*models.Purchase, error) {
	client, err := s.credentials.ValidateClientAccess(clientID, accessCode)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(keylock.WalletKey(client.WalletID))
	defer unlock()

	var purchase *models.Purchase
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if purchase, err = findPurchase(tx, purchaseID); err != nil {
			return err
		}
		if purchase.WalletID != client.WalletID {
			return apperrors.ErrPurchaseNotFound
		}

		transition, err := lifecycle.Purchase(purchase.State, lifecycle.PurchaseConfirm)
		if err != nil {
			return err
		}
		if transition.Changed {
			if err := tx.Model(purchase).Update("state", transition.To).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			purchase.State = transition.To
		}
		return s.complete(tx, purchase)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// complete moves a PURCHASED purchase into the wallet. Completing an
// IN_WALLET purchase again is a no-op.
func (s *purchaseService) complete(tx *gorm.DB, purchase *models.Purchase) error {
	transition, err := lifecycle.Purchase(purchase.State, lifecycle.PurchaseAddToWallet)
	if err != nil || !transition.Changed {
		return err
	}

	if transition.Has(lifecycle.EffectCreditHolding) {
		if _, err := s.wallets.CompletePurchase(tx, purchase.WalletID, purchase.AssetID,
			purchase.Quantity, purchase.AcquisitionPrice); err != nil {
			return err
		}
	}
	if err := tx.Model(purchase).Update("state", transition.To).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	purchase.State = transition.To
	return nil
}

// CancelPurchase deletes a REQUESTED purchase and releases its escrow.
func (s *purchaseService) CancelPurchase(clientID, accessCode, purchaseID string) error {
	client, err := s.credentials.ValidateClientAccess(clientID, accessCode)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(keylock.WalletKey(client.WalletID))
	defer unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		purchase, err := findPurchase(tx, purchaseID)
		if err != nil {
			return err
		}
		if purchase.WalletID != client.WalletID {
			return apperrors.ErrPurchaseNotFound
		}
		if purchase.State != models.PurchaseRequested {
			return apperrors.WithMessage(apperrors.ErrInvalidState,
				fmt.Sprintf("Cannot cancel a purchase in state %s", purchase.State))
		}

		if err := s.wallets.ReleaseReservation(tx, purchase.WalletID, purchase.TotalPrice()); err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&models.Purchase{}, "id = ?", purchase.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// ListClientPurchases returns the client's purchases, newest first.
func (s *purchaseService) ListClientPurchases(clientID string, filter HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error) {
	walletID, err := clientWalletID(s.db, clientID)
	if err != nil {
		return nil, err
	}
	return listPaged[models.Purchase](s.db.Where("wallet_id = ?", walletID).Scopes(historyScope(s.db, filter)), page)
}

// ListPurchases returns purchases across all wallets, optionally in one state.
func (s *purchaseService) ListPurchases(admin AdminCredentials, state *models.PurchaseState, page pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error) {
	if err := s.credentials.ValidateAdmin(admin); err != nil {
		return nil, err
	}
	query := s.db
	if state != nil {
		query = query.Where("state = ?", *state)
	}
	return listPaged[models.Purchase](query, page)
}
