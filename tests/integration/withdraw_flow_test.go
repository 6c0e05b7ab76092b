package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/testutil"
)

func TestWithdrawFlow_TaxedProceedsAndConfirmation(t *testing.T) {
	app := setupApp(t)
	clientID, token := app.createClient(t, "seller@test.com", "NORMAL", "1000")
	assetID := app.createAsset(t, "ITUB4", "STOCK", "100", "100", true)
	app.buy(t, clientID, assetID, "10")

	// Quotation rises 20%
	rec := app.admin("PATCH", "/api/v1/assets/"+assetID+"/quotation", `{"quotation":"120"}`)
	expectStatus(t, rec, http.StatusOK)

	// Sell half: gross 600, cost 500, profit 100, stock tax 15
	rec = app.request("POST", "/api/v1/clients/"+clientID+"/withdraws",
		fmt.Sprintf(`{"access_code":%q,"asset_id":%q,"quantity":"5"}`, testutil.TestAccessCode, assetID))
	expectStatus(t, rec, http.StatusCreated)
	withdraw := parseJSON(t, rec)
	withdrawID := withdraw["id"].(string)
	expectDecimal(t, withdraw, "gross_value", "600")
	expectDecimal(t, withdraw, "tax", "15")
	expectDecimal(t, withdraw, "withdraw_value", "585")

	rec = app.bearer("GET", "/api/v1/wallet", token)
	expectStatus(t, rec, http.StatusOK)
	wallet := parseJSON(t, rec)
	expectDecimal(t, wallet["summary"].(map[string]interface{}), "budget", "585")
	holding := wallet["holdings"].([]interface{})[0].(map[string]interface{})
	expectDecimal(t, holding, "quantity", "5")
	expectDecimal(t, holding, "accumulated_price", "500")

	// Admin confirms; replays are no-ops
	for range 2 {
		rec = app.admin("POST", "/api/v1/admin/withdraws/"+withdrawID+"/confirmation", "")
		expectStatus(t, rec, http.StatusOK)
		if parseJSON(t, rec)["state"] != "IN_ACCOUNT" {
			t.Fatalf("expected IN_ACCOUNT, got %s", rec.Body.String())
		}
	}
	expectDecimal(t, app.walletSummary(t, token), "budget", "585")

	rec = app.bearer("GET", "/api/v1/wallet/history?state=IN_ACCOUNT", token)
	expectStatus(t, rec, http.StatusOK)
	if total := parseJSON(t, rec)["total_items"].(float64); total != 1 {
		t.Errorf("expected 1 IN_ACCOUNT entry, got %v", total)
	}
}

func TestWithdrawFlow_SellingEverythingRemovesHolding(t *testing.T) {
	app := setupApp(t)
	clientID, token := app.createClient(t, "all@test.com", "NORMAL", "1000")
	assetID := app.createAsset(t, "ETH", "CRYPTO", "50", "100", true)
	app.buy(t, clientID, assetID, "4")

	rec := app.request("POST", "/api/v1/clients/"+clientID+"/withdraws",
		fmt.Sprintf(`{"access_code":%q,"asset_id":%q,"quantity":"4"}`, testutil.TestAccessCode, assetID))
	expectStatus(t, rec, http.StatusCreated)
	expectDecimal(t, parseJSON(t, rec), "tax", "0")

	rec = app.bearer("GET", "/api/v1/wallet", token)
	expectStatus(t, rec, http.StatusOK)
	wallet := parseJSON(t, rec)
	if holdings := wallet["holdings"].([]interface{}); len(holdings) != 0 {
		t.Errorf("expected no holdings, got %d", len(holdings))
	}
	expectDecimal(t, wallet["summary"].(map[string]interface{}), "budget", "1000")

	rec = app.request("POST", "/api/v1/clients/"+clientID+"/withdraws",
		fmt.Sprintf(`{"access_code":%q,"asset_id":%q,"quantity":"1"}`, testutil.TestAccessCode, assetID))
	expectStatus(t, rec, http.StatusNotFound)
	expectErrorCode(t, rec, "HOLDING_NOT_FOUND")
}

func TestWithdrawFlow_ExportHistory(t *testing.T) {
	app := setupApp(t)
	clientID, token := app.createClient(t, "export@test.com", "NORMAL", "1000")
	assetID := app.createAsset(t, "BBAS3", "STOCK", "10", "100", true)
	app.buy(t, clientID, assetID, "3")

	rec := app.request("POST", "/api/v1/clients/"+clientID+"/withdraws",
		fmt.Sprintf(`{"access_code":%q,"asset_id":%q,"quantity":"1"}`, testutil.TestAccessCode, assetID))
	expectStatus(t, rec, http.StatusCreated)

	rec = app.bearer("GET", "/api/v1/wallet/history/export?format=csv", token)
	expectStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get("Content-Disposition"); got == "" {
		t.Error("expected an attachment header")
	}
	lines := 0
	for _, b := range rec.Body.Bytes() {
		if b == '\n' {
			lines++
		}
	}
	if lines != 3 {
		t.Errorf("expected header plus 2 rows, got %d lines:\n%s", lines, rec.Body.String())
	}

	rec = app.bearer("GET", "/api/v1/wallet/history/export?format=xlsx", token)
	expectStatus(t, rec, http.StatusOK)
	if rec.Body.Len() == 0 {
		t.Error("expected a non-empty workbook")
	}
}
