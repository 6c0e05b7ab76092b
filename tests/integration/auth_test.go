package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/testutil"
)

func TestAuthFlow_LoginAndProfile(t *testing.T) {
	app := setupApp(t)
	clientID, token := app.createClient(t, "Auth@Test.com", "NORMAL", "100")

	rec := app.bearer("GET", "/api/v1/clients/"+clientID, token)
	expectStatus(t, rec, http.StatusOK)
	profile := parseJSON(t, rec)
	if profile["email"] != "auth@test.com" {
		t.Errorf("expected normalized email, got %v", profile["email"])
	}
	if _, leaked := profile["access_code_hash"]; leaked {
		t.Error("access code hash must not be serialized")
	}

	rec = app.request("POST", "/api/v1/auth/login", fmt.Sprintf(`{"client_id":%q,"access_code":"000000"}`, clientID))
	expectStatus(t, rec, http.StatusUnauthorized)
	expectErrorCode(t, rec, "UNAUTHORIZED_CLIENT")
}

func TestAuthFlow_DuplicateEmail(t *testing.T) {
	app := setupApp(t)
	app.createClient(t, "dup@test.com", "NORMAL", "0")

	rec := app.request("POST", "/api/v1/clients",
		`{"full_name":"Dup","email":"DUP@test.com","access_code":"123456"}`)
	expectStatus(t, rec, http.StatusConflict)
	expectErrorCode(t, rec, "DUPLICATE_EMAIL")
}

func TestAuthFlow_AdminGuards(t *testing.T) {
	app := setupApp(t)

	rec := app.request("POST", "/api/v1/assets", `{"name":"X","asset_type":"STOCK","quotation":"1","quota_quantity":"1"}`)
	expectStatus(t, rec, http.StatusUnauthorized)
	expectErrorCode(t, rec, "UNAUTHORIZED_ADMIN")

	rec = app.admin("GET", "/api/v1/clients", "")
	expectStatus(t, rec, http.StatusOK)

	rec = app.request("GET", "/api/v1/wallet", "")
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestAuthFlow_DeleteClientWithHistory(t *testing.T) {
	app := setupApp(t)
	clientID, _ := app.createClient(t, "history@test.com", "NORMAL", "1000")
	assetID := app.createAsset(t, "WEGE3", "STOCK", "10", "100", true)
	app.buy(t, clientID, assetID, "1")

	rec := app.admin("DELETE", "/api/v1/clients/"+clientID, "")
	expectStatus(t, rec, http.StatusConflict)
	expectErrorCode(t, rec, "CLIENT_HAS_HISTORY")

	emptyID, _ := app.createClient(t, "empty@test.com", "NORMAL", "0")
	expectStatus(t, app.admin("DELETE", "/api/v1/clients/"+emptyID, ""), http.StatusNoContent)
}

func TestAuthFlow_AuditTrail(t *testing.T) {
	app := setupApp(t)
	clientID, _ := app.createClient(t, "audited@test.com", "NORMAL", "1000")
	assetID := app.createAsset(t, "ITSA4", "STOCK", "10", "100", true)
	app.buy(t, clientID, assetID, "1")

	rec := app.admin("GET", "/api/v1/admin/audit-logs?actor_kind=ADMIN&action=CREATE_ASSET", "")
	expectStatus(t, rec, http.StatusOK)
	data, _ := parseJSON(t, rec)["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected one CREATE_ASSET entry, got %d", len(data))
	}
	entry := data[0].(map[string]interface{})
	if entry["actor_id"] != testutil.TestAdminEmail || entry["resource_id"] != assetID {
		t.Errorf("unexpected admin entry %v", entry)
	}

	rec = app.admin("GET", "/api/v1/admin/audit-logs?actor_id="+clientID, "")
	expectStatus(t, rec, http.StatusOK)
	actions := map[string]bool{}
	for _, raw := range parseJSON(t, rec)["data"].([]interface{}) {
		e := raw.(map[string]interface{})
		if e["actor_kind"] != "CLIENT" {
			t.Errorf("client entry attributed to %v", e["actor_kind"])
		}
		actions[fmt.Sprint(e["action"])] = true
	}
	for _, want := range []string{"CREATE_CLIENT", "LOGIN", "REQUEST_PURCHASE", "CONFIRM_PURCHASE"} {
		if !actions[want] {
			t.Errorf("missing %s in client audit trail %v", want, actions)
		}
	}

	expectStatus(t, app.request("GET", "/api/v1/admin/audit-logs", ""), http.StatusUnauthorized)
}
