package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/config"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/keylock"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/notification"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/testutil"
)

// testEnv wires every service against one isolated database.
type testEnv struct {
	db            *gorm.DB
	locks         *keylock.Locker
	notifier      *notification.Recorder
	credentials   CredentialServicer
	wallets       WalletServicer
	subscriptions SubscriptionServicer
	assets        AssetServicer
	clients       ClientServicer
	purchases     PurchaseServicer
	withdraws     WithdrawServicer
	reports       ReportServicer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	locks := keylock.New()
	recorder := &notification.Recorder{}
	format := notification.NewFormatter("USD")
	credentials := NewCredentialService(db, config.Admin{Email: testutil.TestAdminEmail, AccessCode: testutil.TestAdminCode})
	wallets := NewWalletService(db)
	subscriptions := NewSubscriptionService(db, credentials, recorder)

	return &testEnv{
		db:            db,
		locks:         locks,
		notifier:      recorder,
		credentials:   credentials,
		wallets:       wallets,
		subscriptions: subscriptions,
		assets:        NewAssetService(db, credentials, subscriptions, format, locks),
		clients:       NewClientService(db, credentials, locks),
		purchases:     NewPurchaseService(db, credentials, wallets, recorder, format, locks),
		withdraws:     NewWithdrawService(db, credentials, wallets, locks),
		reports:       NewReportService(db),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func reloadAsset(t *testing.T, db *gorm.DB, id string) *models.Asset {
	t.Helper()
	asset, err := findAsset(db, id)
	testutil.AssertNoError(t, err)
	return asset
}

func countHoldings(t *testing.T, db *gorm.DB, walletID string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Holding{}).Where("wallet_id = ?", walletID).Count(&n).Error; err != nil {
		t.Fatalf("count holdings: %v", err)
	}
	return n
}

// beforeInsert runs fn once, inside the inserting transaction, right before
// the first row is created in table. It stands in for a concurrent writer
// committing between a service's checks and its insert.
func beforeInsert(t *testing.T, db *gorm.DB, table string, fn func(tx *gorm.DB)) {
	t.Helper()
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test:before_insert_"+table, func(tx *gorm.DB) {
		if fired || tx.Statement.Schema == nil || tx.Statement.Schema.Table != table {
			return
		}
		fired = true
		fn(tx.Session(&gorm.Session{NewDB: true}))
	})
	require.NoError(t, err)
}
