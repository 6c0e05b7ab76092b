package models

// ActorKind tells the admin apart from clients in the audit trail.
type ActorKind string

const (
	ActorAdmin  ActorKind = "ADMIN"
	ActorClient ActorKind = "CLIENT"
)

// AuditAction names an audited mutation.
type AuditAction string

const (
	AuditLogin                 AuditAction = "LOGIN"
	AuditCreateAsset           AuditAction = "CREATE_ASSET"
	AuditUpdateAsset           AuditAction = "UPDATE_ASSET"
	AuditSetAssetActive        AuditAction = "SET_ASSET_ACTIVE"
	AuditUpdateQuotation       AuditAction = "UPDATE_QUOTATION"
	AuditDeleteAsset           AuditAction = "DELETE_ASSET"
	AuditCreateClient          AuditAction = "CREATE_CLIENT"
	AuditUpdateClient          AuditAction = "UPDATE_CLIENT"
	AuditDeleteClient          AuditAction = "DELETE_CLIENT"
	AuditRequestPurchase       AuditAction = "REQUEST_PURCHASE"
	AuditConfirmPurchase       AuditAction = "CONFIRM_PURCHASE"
	AuditCancelPurchase        AuditAction = "CANCEL_PURCHASE"
	AuditMarkPurchaseAvailable AuditAction = "MARK_PURCHASE_AVAILABLE"
	AuditRequestWithdraw       AuditAction = "REQUEST_WITHDRAW"
	AuditConfirmWithdraw       AuditAction = "CONFIRM_WITHDRAW"
	AuditSubscribe             AuditAction = "SUBSCRIBE"
	AuditUnsubscribe           AuditAction = "UNSUBSCRIBE"
)

var auditResources = map[AuditAction]string{
	AuditLogin:                 "client",
	AuditCreateAsset:           "asset",
	AuditUpdateAsset:           "asset",
	AuditSetAssetActive:        "asset",
	AuditUpdateQuotation:       "asset",
	AuditDeleteAsset:           "asset",
	AuditCreateClient:          "client",
	AuditUpdateClient:          "client",
	AuditDeleteClient:          "client",
	AuditRequestPurchase:       "purchase",
	AuditConfirmPurchase:       "purchase",
	AuditCancelPurchase:        "purchase",
	AuditMarkPurchaseAvailable: "purchase",
	AuditRequestWithdraw:       "withdraw",
	AuditConfirmWithdraw:       "withdraw",
	AuditSubscribe:             "subscription",
	AuditUnsubscribe:           "subscription",
}

// Resource returns the kind of record the action touches.
func (a AuditAction) Resource() string {
	if r, ok := auditResources[a]; ok {
		return r
	}
	return "unknown"
}

// AuditLog records administrative and client mutations for later review.
type AuditLog struct {
	Base
	ActorKind    ActorKind   `gorm:"not null;index:idx_audit_logs_actor" json:"actor_kind"`
	ActorID      string      `gorm:"not null;index:idx_audit_logs_actor" json:"actor_id"`
	Action       AuditAction `gorm:"not null" json:"action"`
	ResourceType string      `gorm:"not null" json:"resource_type"`
	ResourceID   string      `gorm:"index" json:"resource_id"`
	IPAddress    string      `json:"ip_address"`
	Changes      string      `json:"changes,omitempty"`
}
