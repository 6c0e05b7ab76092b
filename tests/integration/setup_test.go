package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/config"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/handlers"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/keylock"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/logger"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/middleware"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/notification"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/testutil"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Notifier *notification.Recorder
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	locks := keylock.New()
	recorder := &notification.Recorder{}
	format := notification.NewFormatter("BRL")

	credentials := services.NewCredentialService(db, config.Admin{
		Email:      testutil.TestAdminEmail,
		AccessCode: testutil.TestAdminCode,
	})
	wallets := services.NewWalletService(db)
	subscriptions := services.NewSubscriptionService(db, credentials, recorder)

	set := handlers.NewSet(
		credentials,
		services.NewAssetService(db, credentials, subscriptions, format, locks),
		services.NewClientService(db, credentials, locks),
		wallets,
		services.NewPurchaseService(db, credentials, wallets, recorder, format, locks),
		services.NewWithdrawService(db, credentials, wallets, locks),
		subscriptions,
		services.NewReportService(db),
		services.NewAuditService(db, credentials),
	)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	handlers.RegisterRoutes(router, set, credentials)

	return &testApp{DB: db, Router: router, Notifier: recorder}
}

// request makes an HTTP request to the test router. headers are key/value pairs.
func (app *testApp) request(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// admin makes a request carrying the admin headers.
func (app *testApp) admin(method, path, body string) *httptest.ResponseRecorder {
	return app.request(method, path, body,
		middleware.AdminEmailHeader, testutil.TestAdminEmail,
		middleware.AdminCodeHeader, testutil.TestAdminCode)
}

// bearer makes a request carrying a client token.
func (app *testApp) bearer(method, path, token string) *httptest.ResponseRecorder {
	return app.request(method, path, "", "Authorization", "Bearer "+token)
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok || errObj["code"] != code {
		t.Errorf("expected error code %s, got %s", code, rec.Body.String())
	}
}

// expectDecimal compares a decimal JSON field numerically.
func expectDecimal(t *testing.T, obj map[string]interface{}, key, want string) {
	t.Helper()
	raw := fmt.Sprint(obj[key])
	got, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("field %s is not a decimal: %v", key, obj[key])
	}
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s = %s, got %s", key, want, got)
	}
}

// createClient registers a client and logs it in.
func (app *testApp) createClient(t *testing.T, email, plan, budget string) (clientID, token string) {
	t.Helper()
	body := fmt.Sprintf(`{"full_name":"Test Client","email":%q,"address":"Rua A, 1","access_code":%q,"plan":%q,"budget":%q}`,
		email, testutil.TestAccessCode, plan, budget)
	rec := app.request("POST", "/api/v1/clients", body)
	expectStatus(t, rec, http.StatusCreated)
	clientID = parseJSON(t, rec)["id"].(string)

	rec = app.request("POST", "/api/v1/auth/login",
		fmt.Sprintf(`{"client_id":%q,"access_code":%q}`, clientID, testutil.TestAccessCode))
	expectStatus(t, rec, http.StatusOK)
	return clientID, parseJSON(t, rec)["token"].(string)
}

// createAsset registers an asset through the admin API.
func (app *testApp) createAsset(t *testing.T, name, kind, quotation, quota string, active bool) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"asset_type":%q,"quotation":%q,"quota_quantity":%s,"is_active":%t}`,
		name, kind, quotation, quota, active)
	rec := app.admin("POST", "/api/v1/assets", body)
	expectStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["id"].(string)
}

// walletSummary returns the summary object of the client's wallet.
func (app *testApp) walletSummary(t *testing.T, token string) map[string]interface{} {
	t.Helper()
	rec := app.bearer("GET", "/api/v1/wallet", token)
	expectStatus(t, rec, http.StatusOK)
	return parseJSON(t, rec)["summary"].(map[string]interface{})
}

// buy runs a purchase through request, availability and confirmation.
func (app *testApp) buy(t *testing.T, clientID, assetID, quantity string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/clients/"+clientID+"/purchases",
		fmt.Sprintf(`{"access_code":%q,"asset_id":%q,"quantity":%q}`, testutil.TestAccessCode, assetID, quantity))
	expectStatus(t, rec, http.StatusCreated)
	purchaseID := parseJSON(t, rec)["id"].(string)

	expectStatus(t, app.admin("POST", "/api/v1/admin/purchases/"+purchaseID+"/availability", ""), http.StatusOK)
	rec = app.request("POST", "/api/v1/clients/"+clientID+"/purchases/"+purchaseID+"/confirmation",
		fmt.Sprintf(`{"access_code":%q}`, testutil.TestAccessCode))
	expectStatus(t, rec, http.StatusOK)
	return purchaseID
}
