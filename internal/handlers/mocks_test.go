package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/export"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/logger"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/middleware"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/validator"
)

const (
	clientUUID   = "0192a7c4-0000-7000-8000-000000000001"
	assetUUID    = "0192a7c4-0000-7000-8000-000000000002"
	purchaseUUID = "0192a7c4-0000-7000-8000-000000000003"
	withdrawUUID = "0192a7c4-0000-7000-8000-000000000004"
	subUUID      = "0192a7c4-0000-7000-8000-000000000005"

	adminEmail = "admin@test.com"
	adminCode  = "999999"
)

var testAdmin = services.AdminCredentials{Email: adminEmail, AccessCode: adminCode}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// --- mock credential service ---

type mockCredentialService struct {
	validateClientAccessFn func(clientID, accessCode string) (*models.Client, error)
}

func (m *mockCredentialService) ValidateAdmin(creds services.AdminCredentials) error {
	if creds != testAdmin {
		return apperrors.ErrUnauthorizedAdmin
	}
	return nil
}

func (m *mockCredentialService) ValidateClientAccess(clientID, accessCode string) (*models.Client, error) {
	if m.validateClientAccessFn != nil {
		return m.validateClientAccessFn(clientID, accessCode)
	}
	return &models.Client{Base: models.Base{ID: clientID}}, nil
}

var _ services.CredentialServicer = (*mockCredentialService)(nil)

// --- mock asset service ---

type mockAssetService struct {
	listAssetTypesFn  func() ([]models.AssetType, error)
	createAssetFn     func(admin services.AdminCredentials, in services.CreateAssetInput) (*models.Asset, error)
	getAssetFn        func(id string) (*models.Asset, error)
	listAssetsFn      func(filter services.AssetFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	updateAssetFn     func(admin services.AdminCredentials, id string, in services.UpdateAssetInput) (*models.Asset, error)
	setActiveFn       func(admin services.AdminCredentials, id string, active bool) (*models.Asset, error)
	updateQuotationFn func(admin services.AdminCredentials, id string, quotation decimal.Decimal) (*models.Asset, error)
	deleteAssetFn     func(admin services.AdminCredentials, id string) error
}

func (m *mockAssetService) EnsureAssetTypes() error { return nil }

func (m *mockAssetService) ListAssetTypes() ([]models.AssetType, error) {
	if m.listAssetTypesFn != nil {
		return m.listAssetTypesFn()
	}
	return []models.AssetType{}, nil
}

func (m *mockAssetService) GetAssetTypeByName(kind models.AssetKind) (*models.AssetType, error) {
	return &models.AssetType{Name: kind}, nil
}

func (m *mockAssetService) CreateAsset(admin services.AdminCredentials, in services.CreateAssetInput) (*models.Asset, error) {
	if m.createAssetFn != nil {
		return m.createAssetFn(admin, in)
	}
	return &models.Asset{}, nil
}

func (m *mockAssetService) GetAsset(id string) (*models.Asset, error) {
	if m.getAssetFn != nil {
		return m.getAssetFn(id)
	}
	return &models.Asset{Base: models.Base{ID: id}}, nil
}

func (m *mockAssetService) ListAssets(filter services.AssetFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	if m.listAssetsFn != nil {
		return m.listAssetsFn(filter, page)
	}
	resp := pagination.NewPageResponse([]models.Asset{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockAssetService) UpdateAsset(admin services.AdminCredentials, id string, in services.UpdateAssetInput) (*models.Asset, error) {
	if m.updateAssetFn != nil {
		return m.updateAssetFn(admin, id, in)
	}
	return &models.Asset{Base: models.Base{ID: id}}, nil
}

func (m *mockAssetService) SetActive(admin services.AdminCredentials, id string, active bool) (*models.Asset, error) {
	if m.setActiveFn != nil {
		return m.setActiveFn(admin, id, active)
	}
	return &models.Asset{Base: models.Base{ID: id}, IsActive: active}, nil
}

func (m *mockAssetService) UpdateQuotation(admin services.AdminCredentials, id string, quotation decimal.Decimal) (*models.Asset, error) {
	if m.updateQuotationFn != nil {
		return m.updateQuotationFn(admin, id, quotation)
	}
	return &models.Asset{Base: models.Base{ID: id}, Quotation: quotation}, nil
}

func (m *mockAssetService) DeleteAsset(admin services.AdminCredentials, id string) error {
	if m.deleteAssetFn != nil {
		return m.deleteAssetFn(admin, id)
	}
	return nil
}

var _ services.AssetServicer = (*mockAssetService)(nil)

// --- mock client service ---

type mockClientService struct {
	createClientFn func(in services.CreateClientInput) (*models.Client, error)
	getClientFn    func(id string) (*models.Client, error)
	updateClientFn func(id, accessCode string, in services.UpdateClientInput) (*models.Client, error)
	deleteClientFn func(admin services.AdminCredentials, id string) error
	listClientsFn  func(admin services.AdminCredentials, page pagination.PageRequest) (*pagination.PageResponse[models.Client], error)
}

func (m *mockClientService) CreateClient(in services.CreateClientInput) (*models.Client, error) {
	if m.createClientFn != nil {
		return m.createClientFn(in)
	}
	return &models.Client{Base: models.Base{ID: clientUUID}}, nil
}

func (m *mockClientService) GetClient(id string) (*models.Client, error) {
	if m.getClientFn != nil {
		return m.getClientFn(id)
	}
	return &models.Client{Base: models.Base{ID: id}}, nil
}

func (m *mockClientService) UpdateClient(id, accessCode string, in services.UpdateClientInput) (*models.Client, error) {
	if m.updateClientFn != nil {
		return m.updateClientFn(id, accessCode, in)
	}
	return &models.Client{Base: models.Base{ID: id}}, nil
}

func (m *mockClientService) DeleteClient(admin services.AdminCredentials, id string) error {
	if m.deleteClientFn != nil {
		return m.deleteClientFn(admin, id)
	}
	return nil
}

func (m *mockClientService) ListClients(admin services.AdminCredentials, page pagination.PageRequest) (*pagination.PageResponse[models.Client], error) {
	if m.listClientsFn != nil {
		return m.listClientsFn(admin, page)
	}
	resp := pagination.NewPageResponse([]models.Client{}, 1, 20, 0)
	return &resp, nil
}

var _ services.ClientServicer = (*mockClientService)(nil)

// --- mock wallet service ---

type mockWalletService struct {
	getWalletFn func(clientID string) (*services.WalletView, error)
}

func (m *mockWalletService) ReserveForPurchase(*gorm.DB, string, *models.Asset, decimal.Decimal) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (m *mockWalletService) ReleaseReservation(*gorm.DB, string, decimal.Decimal) error { return nil }

func (m *mockWalletService) CompletePurchase(*gorm.DB, string, string, decimal.Decimal, decimal.Decimal) (*models.Holding, error) {
	return &models.Holding{}, nil
}

func (m *mockWalletService) Withdraw(*gorm.DB, string, *models.Asset, decimal.Decimal) (*services.WithdrawOutcome, error) {
	return &services.WithdrawOutcome{}, nil
}

func (m *mockWalletService) GetWallet(clientID string) (*services.WalletView, error) {
	if m.getWalletFn != nil {
		return m.getWalletFn(clientID)
	}
	return &services.WalletView{ClientID: clientID, Holdings: []services.HoldingView{}}, nil
}

var _ services.WalletServicer = (*mockWalletService)(nil)

// --- mock purchase service ---

type mockPurchaseService struct {
	requestPurchaseFn     func(clientID, accessCode, assetID string, quantity decimal.Decimal) (*models.Purchase, error)
	markAvailableFn       func(admin services.AdminCredentials, purchaseID string) (*models.Purchase, error)
	confirmPurchaseFn     func(clientID, accessCode, purchaseID string) (*models.Purchase, error)
	cancelPurchaseFn      func(clientID, accessCode, purchaseID string) error
	listClientPurchasesFn func(clientID string, filter services.HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error)
	listPurchasesFn       func(admin services.AdminCredentials, state *models.PurchaseState, page pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error)
}

func (m *mockPurchaseService) RequestPurchase(clientID, accessCode, assetID string, quantity decimal.Decimal) (*models.Purchase, error) {
	if m.requestPurchaseFn != nil {
		return m.requestPurchaseFn(clientID, accessCode, assetID, quantity)
	}
	return &models.Purchase{}, nil
}

func (m *mockPurchaseService) MarkAvailable(admin services.AdminCredentials, purchaseID string) (*models.Purchase, error) {
	if m.markAvailableFn != nil {
		return m.markAvailableFn(admin, purchaseID)
	}
	return &models.Purchase{Base: models.Base{ID: purchaseID}, State: models.PurchaseAvailable}, nil
}

func (m *mockPurchaseService) ConfirmPurchase(clientID, accessCode, purchaseID string) (*models.Purchase, error) {
	if m.confirmPurchaseFn != nil {
		return m.confirmPurchaseFn(clientID, accessCode, purchaseID)
	}
	return &models.Purchase{Base: models.Base{ID: purchaseID}, State: models.PurchaseInWallet}, nil
}

func (m *mockPurchaseService) CancelPurchase(clientID, accessCode, purchaseID string) error {
	if m.cancelPurchaseFn != nil {
		return m.cancelPurchaseFn(clientID, accessCode, purchaseID)
	}
	return nil
}

func (m *mockPurchaseService) ListClientPurchases(clientID string, filter services.HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error) {
	if m.listClientPurchasesFn != nil {
		return m.listClientPurchasesFn(clientID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Purchase{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockPurchaseService) ListPurchases(admin services.AdminCredentials, state *models.PurchaseState, page pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error) {
	if m.listPurchasesFn != nil {
		return m.listPurchasesFn(admin, state, page)
	}
	resp := pagination.NewPageResponse([]models.Purchase{}, 1, 20, 0)
	return &resp, nil
}

var _ services.PurchaseServicer = (*mockPurchaseService)(nil)

// --- mock withdraw service ---

type mockWithdrawService struct {
	requestWithdrawFn     func(clientID, accessCode, assetID string, quantity decimal.Decimal) (*models.Withdraw, error)
	confirmWithdrawFn     func(admin services.AdminCredentials, withdrawID string) (*models.Withdraw, error)
	listClientWithdrawsFn func(clientID string, filter services.HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Withdraw], error)
	listWithdrawsFn       func(admin services.AdminCredentials, state *models.WithdrawState, page pagination.PageRequest) (*pagination.PageResponse[models.Withdraw], error)
}

func (m *mockWithdrawService) RequestWithdraw(clientID, accessCode, assetID string, quantity decimal.Decimal) (*models.Withdraw, error) {
	if m.requestWithdrawFn != nil {
		return m.requestWithdrawFn(clientID, accessCode, assetID, quantity)
	}
	return &models.Withdraw{}, nil
}

func (m *mockWithdrawService) ConfirmWithdraw(admin services.AdminCredentials, withdrawID string) (*models.Withdraw, error) {
	if m.confirmWithdrawFn != nil {
		return m.confirmWithdrawFn(admin, withdrawID)
	}
	return &models.Withdraw{Base: models.Base{ID: withdrawID}, State: models.WithdrawInAccount}, nil
}

func (m *mockWithdrawService) ListClientWithdraws(clientID string, filter services.HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Withdraw], error) {
	if m.listClientWithdrawsFn != nil {
		return m.listClientWithdrawsFn(clientID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Withdraw{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockWithdrawService) ListWithdraws(admin services.AdminCredentials, state *models.WithdrawState, page pagination.PageRequest) (*pagination.PageResponse[models.Withdraw], error) {
	if m.listWithdrawsFn != nil {
		return m.listWithdrawsFn(admin, state, page)
	}
	resp := pagination.NewPageResponse([]models.Withdraw{}, 1, 20, 0)
	return &resp, nil
}

var _ services.WithdrawServicer = (*mockWithdrawService)(nil)

// --- mock subscription service ---

type mockSubscriptionService struct {
	subscribeFn   func(clientID, accessCode, assetID string, kind models.NotificationType) (*models.Subscription, error)
	listFn        func(clientID, accessCode string) ([]models.Subscription, error)
	unsubscribeFn func(clientID, accessCode, subscriptionID string) error
}

func (m *mockSubscriptionService) Subscribe(clientID, accessCode, assetID string, kind models.NotificationType) (*models.Subscription, error) {
	if m.subscribeFn != nil {
		return m.subscribeFn(clientID, accessCode, assetID, kind)
	}
	return &models.Subscription{}, nil
}

func (m *mockSubscriptionService) Claim(*gorm.DB, string, models.NotificationType) ([]services.Subscriber, error) {
	return nil, nil
}

func (m *mockSubscriptionService) Deliver([]services.Subscriber, models.NotificationType, string) {}

func (m *mockSubscriptionService) ListClientSubscriptions(clientID, accessCode string) ([]models.Subscription, error) {
	if m.listFn != nil {
		return m.listFn(clientID, accessCode)
	}
	return nil, nil
}

func (m *mockSubscriptionService) Unsubscribe(clientID, accessCode, subscriptionID string) error {
	if m.unsubscribeFn != nil {
		return m.unsubscribeFn(clientID, accessCode, subscriptionID)
	}
	return nil
}

var _ services.SubscriptionServicer = (*mockSubscriptionService)(nil)

// --- mock report service ---

type mockReportService struct {
	historyFn func(clientID string, filter services.HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.HistoryEntry], error)
	exportFn  func(clientID string, filter services.HistoryFilter, format export.Format) (*export.File, error)
}

func (m *mockReportService) History(clientID string, filter services.HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.HistoryEntry], error) {
	if m.historyFn != nil {
		return m.historyFn(clientID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.HistoryEntry{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockReportService) Export(clientID string, filter services.HistoryFilter, format export.Format) (*export.File, error) {
	if m.exportFn != nil {
		return m.exportFn(clientID, filter, format)
	}
	return &export.File{Name: "history.csv", ContentType: "text/csv", Data: []byte("type\n")}, nil
}

var _ services.ReportServicer = (*mockReportService)(nil)

// --- mock audit service ---

type mockAuditService struct {
	mu     sync.Mutex
	events []services.AuditEvent
	listFn func(admin services.AdminCredentials, filter services.AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}

func (m *mockAuditService) Record(event services.AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockAuditService) List(admin services.AdminCredentials, filter services.AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	if m.listFn != nil {
		return m.listFn(admin, filter, page)
	}
	page.Defaults()
	result := pagination.NewPageResponse([]models.AuditLog{}, page.Page, page.PageSize, 0)
	return &result, nil
}

func (m *mockAuditService) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, string(e.Action))
	}
	return out
}

func (m *mockAuditService) last() services.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return services.AuditEvent{}
	}
	return m.events[len(m.events)-1]
}

// --- test helpers ---

// mocks bundles every service double so a test can override only what it needs.
type mocks struct {
	credentials   *mockCredentialService
	assets        *mockAssetService
	clients       *mockClientService
	wallets       *mockWalletService
	purchases     *mockPurchaseService
	withdraws     *mockWithdrawService
	subscriptions *mockSubscriptionService
	reports       *mockReportService
	audit         *mockAuditService
}

func newMocks() *mocks {
	return &mocks{
		credentials:   &mockCredentialService{},
		assets:        &mockAssetService{},
		clients:       &mockClientService{},
		wallets:       &mockWalletService{},
		purchases:     &mockPurchaseService{},
		withdraws:     &mockWithdrawService{},
		subscriptions: &mockSubscriptionService{},
		reports:       &mockReportService{},
		audit:         &mockAuditService{},
	}
}

// router mounts the real route table over the mocks.
func (m *mocks) router() *gin.Engine {
	r := gin.New()
	set := NewSet(m.credentials, m.assets, m.clients, m.wallets, m.purchases,
		m.withdraws, m.subscriptions, m.reports, m.audit)
	RegisterRoutes(r, set, m.credentials)
	return r
}

func bearerFor(t *testing.T, clientID string) string {
	t.Helper()
	client := &models.Client{Base: models.Base{ID: clientID}, WalletID: "wallet"}
	token, _, err := middleware.GenerateAccessToken(client)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + token
}

func doRequest(r *gin.Engine, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// adminHeaders are the header pairs of the test admin.
func adminHeaders() []string {
	return []string{middleware.AdminEmailHeader, adminEmail, middleware.AdminCodeHeader, adminCode}
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

