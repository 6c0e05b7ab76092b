package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/export"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
)

// AdminCredentials is the identity an admin presents on every admin operation.
type AdminCredentials struct {
	Email      string
	AccessCode string
}

// CredentialServicer validates admin and client identities.
type CredentialServicer interface {
	ValidateAdmin(creds AdminCredentials) error
	ValidateClientAccess(clientID, accessCode string) (*models.Client, error)
}

// AssetFilter narrows asset listings. Clients only ever see active assets.
type AssetFilter struct {
	ActiveOnly bool
	Kinds      []models.AssetKind
}

// CreateAssetInput carries the fields of a new asset.
type CreateAssetInput struct {
	Name          string
	Description   string
	Kind          models.AssetKind
	Quotation     decimal.Decimal
	QuotaQuantity decimal.Decimal
	IsActive      bool
}

// UpdateAssetInput carries the editable descriptive fields of an asset. Nil
// fields are left untouched.
type UpdateAssetInput struct {
	Name          *string
	Description   *string
	QuotaQuantity *decimal.Decimal
}

// AssetServicer is the asset ledger.
type AssetServicer interface {
	EnsureAssetTypes() error
	ListAssetTypes() ([]models.AssetType, error)
	GetAssetTypeByName(kind models.AssetKind) (*models.AssetType, error)
	CreateAsset(admin AdminCredentials, in CreateAssetInput) (*models.Asset, error)
	GetAsset(id string) (*models.Asset, error)
	ListAssets(filter AssetFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	UpdateAsset(admin AdminCredentials, id string, in UpdateAssetInput) (*models.Asset, error)
	SetActive(admin AdminCredentials, id string, active bool) (*models.Asset, error)
	UpdateQuotation(admin AdminCredentials, id string, quotation decimal.Decimal) (*models.Asset, error)
	DeleteAsset(admin AdminCredentials, id string) error
}

// CreateClientInput carries the fields of a new client and its wallet.
type CreateClientInput struct {
	FullName      string
	Email         string
	Address       string
	AccessCode    string
	Plan          models.PlanType
	InitialBudget decimal.Decimal
}

// UpdateClientInput carries the editable client fields. Nil fields are left untouched.
type UpdateClientInput struct {
	FullName *string
	Address  *string
	Plan     *models.PlanType
}

// ClientServicer is the client registry.
type ClientServicer interface {
	CreateClient(in CreateClientInput) (*models.Client, error)
	GetClient(id string) (*models.Client, error)
	UpdateClient(id, accessCode string, in UpdateClientInput) (*models.Client, error)
	DeleteClient(admin AdminCredentials, id string) error
	ListClients(admin AdminCredentials, page pagination.PageRequest) (*pagination.PageResponse[models.Client], error)
}

// WithdrawOutcome is the economic result of debiting a holding.
type WithdrawOutcome struct {
	SellingPrice decimal.Decimal
	Gross        decimal.Decimal
	CostRemoved  decimal.Decimal
	Profit       decimal.Decimal
	Tax          decimal.Decimal
	Net          decimal.Decimal
}

// HoldingView is a holding enriched with its current market value.
type HoldingView struct {
	models.Holding
	CurrentValue decimal.Decimal `json:"current_value"`
	Performance  decimal.Decimal `json:"performance"`
}

// WalletSummary aggregates a wallet's cash and holdings.
type WalletSummary struct {
	Budget            decimal.Decimal `json:"budget"`
	Reserved          decimal.Decimal `json:"reserved"`
	Available         decimal.Decimal `json:"available"`
	TotalInvested     decimal.Decimal `json:"total_invested"`
	TotalCurrentValue decimal.Decimal `json:"total_current_value"`
	TotalPerformance  decimal.Decimal `json:"total_performance"`
}

// WalletView is the client-facing wallet read model.
type WalletView struct {
	WalletID string        `json:"wallet_id"`
	ClientID string        `json:"client_id"`
	Summary  WalletSummary `json:"summary"`
	Holdings []HoldingView `json:"holdings"`
}

// WalletServicer is the wallet/holding ledger. Mutating methods run inside the
// caller's transaction; the caller holds the wallet lock.
type WalletServicer interface {
	ReserveForPurchase(tx *gorm.DB, walletID string, asset *models.Asset, quantity decimal.Decimal) (decimal.Decimal, error)
	ReleaseReservation(tx *gorm.DB, walletID string, amount decimal.Decimal) error
	CompletePurchase(tx *gorm.DB, walletID, assetID string, quantity, unitPrice decimal.Decimal) (*models.Holding, error)
	Withdraw(tx *gorm.DB, walletID string, asset *models.Asset, quantity decimal.Decimal) (*WithdrawOutcome, error)
	GetWallet(clientID string) (*WalletView, error)
}

// HistoryFilter narrows purchase, withdraw and history listings.
type HistoryFilter struct {
	Kinds []models.AssetKind
	State string
	pagination.DateRange
}

// PurchaseServicer drives the purchase lifecycle.
type PurchaseServicer interface {
	RequestPurchase(clientID, accessCode, assetID string, quantity decimal.Decimal) (*models.Purchase, error)
	MarkAvailable(admin AdminCredentials, purchaseID string) (*models.Purchase, error)
	ConfirmPurchase(clientID, accessCode, purchaseID string) (*models.Purchase, error)
	CancelPurchase(clientID, accessCode, purchaseID string) error
	ListClientPurchases(clientID string, filter HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error)
	ListPurchases(admin AdminCredentials, state *models.PurchaseState, page pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error)
}

// WithdrawServicer drives the withdraw lifecycle.
type WithdrawServicer interface {
	RequestWithdraw(clientID, accessCode, assetID string, quantity decimal.Decimal) (*models.Withdraw, error)
	ConfirmWithdraw(admin AdminCredentials, withdrawID string) (*models.Withdraw, error)
	ListClientWithdraws(clientID string, filter HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Withdraw], error)
	ListWithdraws(admin AdminCredentials, state *models.WithdrawState, page pagination.PageRequest) (*pagination.PageResponse[models.Withdraw], error)
}

// Subscriber is a claimed subscription together with its client.
type Subscriber struct {
	Subscription models.Subscription
	Client       models.Client
}

// SubscriptionServicer is the one-shot notification registry.
type SubscriptionServicer interface {
	Subscribe(clientID, accessCode, assetID string, kind models.NotificationType) (*models.Subscription, error)
	Claim(tx *gorm.DB, assetID string, kind models.NotificationType) ([]Subscriber, error)
	Deliver(subscribers []Subscriber, kind models.NotificationType, text string)
	ListClientSubscriptions(clientID, accessCode string) ([]models.Subscription, error)
	Unsubscribe(clientID, accessCode, subscriptionID string) error
}

// ReportServicer serves the unified transaction history read model.
type ReportServicer interface {
	History(clientID string, filter HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.HistoryEntry], error)
	Export(clientID string, filter HistoryFilter, format export.Format) (*export.File, error)
}

// AuditActor is who performed an audited action.
type AuditActor struct {
	Kind models.ActorKind
	ID   string
}

// AuditEvent is one audited mutation.
type AuditEvent struct {
	Actor      AuditActor
	Action     models.AuditAction
	ResourceID string
	IPAddress  string
	Changes    map[string]any
}

// AuditFilter narrows the audit trail listing. Empty fields match everything.
type AuditFilter struct {
	ActorKind  models.ActorKind
	ActorID    string
	Action     models.AuditAction
	ResourceID string
	pagination.DateRange
}

// AuditServicer records and lists the audit trail.
type AuditServicer interface {
	Record(event AuditEvent)
	List(admin AdminCredentials, filter AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
