package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
)

// TestAccessCode is the plain access code of every fixture client.
const TestAccessCode = "123456"

// TestAdminEmail and TestAdminCode are the admin identity used across tests.
const (
	TestAdminEmail = "admin@test.com"
	TestAdminCode  = "999999"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestClient creates a client on the given plan with a wallet holding budget.
func CreateTestClient(t *testing.T, db *gorm.DB, plan models.PlanType, budget int64) *models.Client {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestAccessCode), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash access code: %v", err)
	}

	wallet := &models.Wallet{Budget: decimal.NewFromInt(budget), Reserved: decimal.Zero}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}

	n := nextID()
	client := &models.Client{
		FullName:       fmt.Sprintf("Test Client %d", n),
		Email:          fmt.Sprintf("client%d@test.com", n),
		Address:        "1 Test Street",
		AccessCodeHash: string(hash),
		Plan:           plan,
		WalletID:       wallet.ID,
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	client.Wallet = *wallet
	return client
}

// GetAssetType returns the seeded asset type row for kind.
func GetAssetType(t *testing.T, db *gorm.DB, kind models.AssetKind) *models.AssetType {
	t.Helper()

	var assetType models.AssetType
	if err := db.Where("name = ?", kind).First(&assetType).Error; err != nil {
		t.Fatalf("failed to load asset type %s: %v", kind, err)
	}
	return &assetType
}

// CreateTestAsset creates an asset of kind with the given quotation and quota.
func CreateTestAsset(t *testing.T, db *gorm.DB, kind models.AssetKind, quotation, quota int64, active bool) *models.Asset {
	t.Helper()

	assetType := GetAssetType(t, db, kind)
	asset := &models.Asset{
		Name:          fmt.Sprintf("Test Asset %d", nextID()),
		Description:   "fixture",
		AssetTypeID:   assetType.ID,
		IsActive:      active,
		Quotation:     decimal.NewFromInt(quotation),
		QuotaQuantity: decimal.NewFromInt(quota),
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	asset.AssetType = *assetType
	return asset
}

// CreateTestHolding creates a holding of quantity units bought for accumulated in total.
func CreateTestHolding(t *testing.T, db *gorm.DB, walletID, assetID string, quantity, accumulated int64) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		WalletID:         walletID,
		AssetID:          assetID,
		Quantity:         decimal.NewFromInt(quantity),
		AccumulatedPrice: decimal.NewFromInt(accumulated),
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestPurchase creates a purchase in the given state. The wallet's
// escrow is not touched.
func CreateTestPurchase(t *testing.T, db *gorm.DB, walletID string, asset *models.Asset, quantity int64, state models.PurchaseState) *models.Purchase {
	t.Helper()

	purchase := &models.Purchase{
		WalletID:         walletID,
		AssetID:          asset.ID,
		Quantity:         decimal.NewFromInt(quantity),
		AcquisitionPrice: asset.Quotation,
		State:            state,
		Date:             time.Now(),
	}
	if err := db.Create(purchase).Error; err != nil {
		t.Fatalf("failed to create test purchase: %v", err)
	}
	return purchase
}

// CreateTestWithdraw creates a withdraw in the given state with no tax.
func CreateTestWithdraw(t *testing.T, db *gorm.DB, walletID string, asset *models.Asset, quantity int64, state models.WithdrawState) *models.Withdraw {
	t.Helper()

	qty := decimal.NewFromInt(quantity)
	gross := asset.Quotation.Mul(qty)
	withdraw := &models.Withdraw{
		WalletID:      walletID,
		AssetID:       asset.ID,
		Quantity:      qty,
		SellingPrice:  asset.Quotation,
		GrossValue:    gross,
		Tax:           decimal.Zero,
		WithdrawValue: gross,
		State:         state,
		Date:          time.Now(),
	}
	if err := db.Create(withdraw).Error; err != nil {
		t.Fatalf("failed to create test withdraw: %v", err)
	}
	return withdraw
}

// CreateTestSubscription registers client for kind notifications on asset.
func CreateTestSubscription(t *testing.T, db *gorm.DB, clientID, assetID string, kind models.NotificationType) *models.Subscription {
	t.Helper()

	sub := &models.Subscription{ClientID: clientID, AssetID: assetID, Type: kind}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test subscription: %v", err)
	}
	return sub
}

// ReloadWallet reads the wallet row back from the database.
func ReloadWallet(t *testing.T, db *gorm.DB, walletID string) *models.Wallet {
	t.Helper()

	var wallet models.Wallet
	if err := db.First(&wallet, "id = ?", walletID).Error; err != nil {
		t.Fatalf("failed to reload wallet: %v", err)
	}
	return &wallet
}
