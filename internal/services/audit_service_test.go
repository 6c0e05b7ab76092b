package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/config"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/testutil"
)

func newAuditService(t *testing.T) (AuditServicer, func() []models.AuditLog) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	credentials := NewCredentialService(db, config.Admin{Email: testutil.TestAdminEmail, AccessCode: testutil.TestAdminCode})
	stored := func() []models.AuditLog {
		var entries []models.AuditLog
		require.NoError(t, db.Order("created_at, id").Find(&entries).Error)
		return entries
	}
	return NewAuditService(db, credentials), stored
}

func TestAuditRecord(t *testing.T) {
	svc, stored := newAuditService(t)

	svc.Record(AuditEvent{
		Actor:      AdminActor(AdminCredentials{Email: "  " + testutil.TestAdminEmail + " "}),
		Action:     models.AuditUpdateQuotation,
		ResourceID: "asset-1",
		IPAddress:  "127.0.0.1",
		Changes:    map[string]any{"quotation": "101"},
	})
	svc.Record(AuditEvent{
		Actor:      ClientActor("client-1"),
		Action:     models.AuditRequestPurchase,
		ResourceID: "purchase-1",
	})

	entries := stored()
	require.Len(t, entries, 2)
	byAction := map[models.AuditAction]models.AuditLog{}
	for _, e := range entries {
		byAction[e.Action] = e
	}

	quotation := byAction[models.AuditUpdateQuotation]
	assert.Equal(t, models.ActorAdmin, quotation.ActorKind)
	assert.Equal(t, testutil.TestAdminEmail, quotation.ActorID)
	assert.Equal(t, "asset", quotation.ResourceType)
	assert.JSONEq(t, `{"quotation":"101"}`, quotation.Changes)

	purchase := byAction[models.AuditRequestPurchase]
	assert.Equal(t, models.ActorClient, purchase.ActorKind)
	assert.Equal(t, "client-1", purchase.ActorID)
	assert.Equal(t, "purchase", purchase.ResourceType)
	assert.Empty(t, purchase.Changes)
}

func TestAuditList(t *testing.T) {
	svc, _ := newAuditService(t)
	admin := AdminActor(testAdmin)
	svc.Record(AuditEvent{Actor: admin, Action: models.AuditCreateAsset, ResourceID: "asset-1"})
	svc.Record(AuditEvent{Actor: admin, Action: models.AuditDeleteAsset, ResourceID: "asset-1"})
	svc.Record(AuditEvent{Actor: ClientActor("client-1"), Action: models.AuditSubscribe, ResourceID: "sub-1"})

	t.Run("requires_admin", func(t *testing.T) {
		_, err := svc.List(AdminCredentials{}, AuditFilter{}, pagination.PageRequest{})
		testutil.AssertAppError(t, err, "UNAUTHORIZED_ADMIN")
	})

	t.Run("everything", func(t *testing.T) {
		page, err := svc.List(testAdmin, AuditFilter{}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		assert.EqualValues(t, 3, page.TotalItems)
	})

	t.Run("by_actor_kind", func(t *testing.T) {
		page, err := svc.List(testAdmin, AuditFilter{ActorKind: models.ActorAdmin}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		assert.EqualValues(t, 2, page.TotalItems)
	})

	t.Run("by_resource_and_action", func(t *testing.T) {
		page, err := svc.List(testAdmin, AuditFilter{ResourceID: "asset-1", Action: models.AuditDeleteAsset}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, models.AuditDeleteAsset, page.Data[0].Action)
	})

	t.Run("paged", func(t *testing.T) {
		page, err := svc.List(testAdmin, AuditFilter{}, pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)
		assert.Len(t, page.Data, 1)
		assert.Equal(t, 2, page.TotalPages)
	})
}

func TestAuditAction_Resource(t *testing.T) {
	assert.Equal(t, "withdraw", models.AuditConfirmWithdraw.Resource())
	assert.Equal(t, "subscription", models.AuditUnsubscribe.Resource())
	assert.Equal(t, "unknown", models.AuditAction("NOPE").Resource())
}
