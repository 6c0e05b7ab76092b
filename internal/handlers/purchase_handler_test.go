package handlers

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
)

func TestPurchaseHandler_RequestPurchase(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		m := newMocks()
		var gotQty decimal.Decimal
		m.purchases.requestPurchaseFn = func(clientID, code, assetID string, qty decimal.Decimal) (*models.Purchase, error) {
			gotQty = qty
			return &models.Purchase{Base: models.Base{ID: purchaseUUID}, AssetID: assetID, Quantity: qty,
				State: models.PurchaseRequested}, nil
		}

		rec := doRequest(m.router(), "POST", "/api/v1/clients/"+clientUUID+"/purchases",
			`{"access_code":"123456","asset_id":"`+assetUUID+`","quantity":"2.5"}`)
		assertStatus(t, rec, http.StatusCreated)

		assert.Equal(t, "2.5", gotQty.String())
		assert.Equal(t, "REQUESTED", parseJSON(t, rec)["state"])
		assert.Equal(t, []string{"REQUEST_PURCHASE"}, m.audit.actions())
	})

	t.Run("returns 422 on insufficient budget", func(t *testing.T) {
		m := newMocks()
		m.purchases.requestPurchaseFn = func(string, string, string, decimal.Decimal) (*models.Purchase, error) {
			return nil, apperrors.ErrInsufficientBudget
		}

		rec := doRequest(m.router(), "POST", "/api/v1/clients/"+clientUUID+"/purchases",
			`{"access_code":"123456","asset_id":"`+assetUUID+`","quantity":"1000"}`)
		assertStatus(t, rec, http.StatusUnprocessableEntity)
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_BUDGET")
		assert.Empty(t, m.audit.actions())
	})

	t.Run("returns 400 on non-uuid asset", func(t *testing.T) {
		rec := doRequest(newMocks().router(), "POST", "/api/v1/clients/"+clientUUID+"/purchases",
			`{"access_code":"123456","asset_id":"petr4","quantity":"1"}`)
		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestPurchaseHandler_ConfirmPurchase(t *testing.T) {
	t.Run("returns 200 with IN_WALLET", func(t *testing.T) {
		m := newMocks()
		rec := doRequest(m.router(), "POST",
			"/api/v1/clients/"+clientUUID+"/purchases/"+purchaseUUID+"/confirmation",
			`{"access_code":"123456"}`)
		assertStatus(t, rec, http.StatusOK)
		assert.Equal(t, "IN_WALLET", parseJSON(t, rec)["state"])
		assert.Equal(t, []string{"CONFIRM_PURCHASE"}, m.audit.actions())
	})

	t.Run("returns 409 before availability", func(t *testing.T) {
		m := newMocks()
		m.purchases.confirmPurchaseFn = func(string, string, string) (*models.Purchase, error) {
			return nil, apperrors.ErrInvalidState
		}

		rec := doRequest(m.router(), "POST",
			"/api/v1/clients/"+clientUUID+"/purchases/"+purchaseUUID+"/confirmation",
			`{"access_code":"123456"}`)
		assertStatus(t, rec, http.StatusConflict)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_STATE")
	})

	t.Run("returns 400 on bad purchase id", func(t *testing.T) {
		rec := doRequest(newMocks().router(), "POST",
			"/api/v1/clients/"+clientUUID+"/purchases/abc/confirmation", `{"access_code":"123456"}`)
		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestPurchaseHandler_CancelPurchase(t *testing.T) {
	m := newMocks()
	var gotID string
	m.purchases.cancelPurchaseFn = func(_, _, purchaseID string) error {
		gotID = purchaseID
		return nil
	}

	rec := doRequest(m.router(), "DELETE", "/api/v1/clients/"+clientUUID+"/purchases/"+purchaseUUID,
		`{"access_code":"123456"}`)
	assertStatus(t, rec, http.StatusNoContent)
	assert.Equal(t, purchaseUUID, gotID)
	assert.Equal(t, []string{"CANCEL_PURCHASE"}, m.audit.actions())
}

func TestPurchaseHandler_AdminQueue(t *testing.T) {
	t.Run("filters by state", func(t *testing.T) {
		m := newMocks()
		var got *models.PurchaseState
		m.purchases.listPurchasesFn = func(_ services.AdminCredentials, state *models.PurchaseState, _ pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error) {
			got = state
			resp := pagination.NewPageResponse([]models.Purchase{}, 1, 20, 0)
			return &resp, nil
		}

		rec := doRequest(m.router(), "GET", "/api/v1/admin/purchases?state=REQUESTED", "", adminHeaders()...)
		assertStatus(t, rec, http.StatusOK)
		if assert.NotNil(t, got) {
			assert.Equal(t, models.PurchaseRequested, *got)
		}
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		rec := doRequest(newMocks().router(), "GET", "/api/v1/admin/purchases?state=SHIPPED", "", adminHeaders()...)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("rejects wrong admin code", func(t *testing.T) {
		rec := doRequest(newMocks().router(), "GET", "/api/v1/admin/purchases", "",
			"X-Admin-Email", adminEmail, "X-Admin-Code", "000000")
		assertStatus(t, rec, http.StatusUnauthorized)
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED_ADMIN")
	})

	t.Run("marks a purchase available", func(t *testing.T) {
		m := newMocks()
		rec := doRequest(m.router(), "POST", "/api/v1/admin/purchases/"+purchaseUUID+"/availability", "",
			adminHeaders()...)
		assertStatus(t, rec, http.StatusOK)
		assert.Equal(t, "AVAILABLE", parseJSON(t, rec)["state"])
		assert.Equal(t, []string{"MARK_PURCHASE_AVAILABLE"}, m.audit.actions())
	})

	t.Run("mark available surfaces quota shortage", func(t *testing.T) {
		m := newMocks()
		m.purchases.markAvailableFn = func(services.AdminCredentials, string) (*models.Purchase, error) {
			return nil, apperrors.ErrInsufficientAssetQuantity
		}

		rec := doRequest(m.router(), "POST", "/api/v1/admin/purchases/"+purchaseUUID+"/availability", "",
			adminHeaders()...)
		assertStatus(t, rec, http.StatusUnprocessableEntity)
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_ASSET_QUANTITY")
	})
}
