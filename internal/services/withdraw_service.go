package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/keylock"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/lifecycle"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
)

func findWithdraw(db *gorm.DB, id string) (*models.Withdraw, error) {
	var withdraw models.Withdraw
	if err := db.Preload("Asset.AssetType").First(&withdraw, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWithdrawNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &withdraw, nil
}

// withdrawService records sales of holdings. The ledger effect is applied at
// request time; the admin lifecycle only records approval.
type withdrawService struct {
	db          *gorm.DB
	credentials CredentialServicer
	wallets     WalletServicer
	locks       *keylock.Locker
}

// NewWithdrawService creates a new WithdrawServicer.
func NewWithdrawService(db *gorm.DB, credentials CredentialServicer, wallets WalletServicer, locks *keylock.Locker) WithdrawServicer {
	return &withdrawService{db: db, credentials: credentials, wallets: wallets, locks: locks}
}

// RequestWithdraw debits the holding, credits the net value to the budget and
// records a REQUESTED withdraw carrying gross, tax and net values.
func (s *withdrawService) RequestWithdraw(clientID, accessCode, assetID string, quantity decimal.Decimal) (*models.Withdraw, error) {
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

	unlock := s.locks.Lock(keylock.WalletKey(client.WalletID))
	defer unlock()

	var withdraw *models.Withdraw
	err = s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := findAsset(tx, assetID)
		if err != nil {
			return err
		}

		outcome, err := s.wallets.Withdraw(tx, client.WalletID, asset, quantity)
		if err != nil {
			return err
		}

		withdraw = &models.Withdraw{
			WalletID:      client.WalletID,
			AssetID:       asset.ID,
			Quantity:      quantity,
			SellingPrice:  outcome.SellingPrice,
			GrossValue:    outcome.Gross,
			Tax:           outcome.Tax,
			WithdrawValue: outcome.Net,
			State:         models.WithdrawRequested,
			Date:          time.Now(),
		}
		if err := tx.Create(withdraw).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		withdraw.Asset = *asset
		return nil
	})
	if err != nil {
		return nil, err
	}
	return withdraw, nil
}

// ConfirmWithdraw walks a withdraw through CONFIRMED and IN_ACCOUNT in one
// admin step. Confirming a settled withdraw is a no-op.
func (s *withdrawService) ConfirmWithdraw(admin AdminCredentials, withdrawID string) (*models.Withdraw, error) {
	if err := s.credentials.ValidateAdmin(admin); err != nil {
		return nil, err
	}

	current, err := findWithdraw(s.db, withdrawID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(keylock.WalletKey(current.WalletID))
	defer unlock()

	var withdraw *models.Withdraw
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if withdraw, err = findWithdraw(tx, withdrawID); err != nil {
			return err
		}

		for _, action := range lifecycle.WithdrawActions {
			transition, err := lifecycle.Withdraw(withdraw.State, action)
			if err != nil {
				return err
			}
			if !transition.Changed {
				continue
			}
			if err := tx.Model(withdraw).Update("state", transition.To).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			withdraw.State = transition.To
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return withdraw, nil
}

// ListClientWithdraws returns the client's withdraws, newest first.
func (s *withdrawService) ListClientWithdraws(clientID string, filter HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Withdraw], error) {
	walletID, err := clientWalletID(s.db, clientID)
	if err != nil {
		return nil, err
	}
	return listPaged[models.Withdraw](s.db.Where("wallet_id = ?", walletID).Scopes(historyScope(s.db, filter)), page)
}

// ListWithdraws returns withdraws across all wallets, optionally in one state.
func (s *withdrawService) ListWithdraws(admin AdminCredentials, state *models.WithdrawState, page pagination.PageRequest) (*pagination.PageResponse[models.Withdraw], error) {
	if err := s.credentials.ValidateAdmin(admin); err != nil {
		return nil, err
	}
	query := s.db
	if state != nil {
		query = query.Where("state = ?", *state)
	}
	return listPaged[models.Withdraw](query, page)
}
