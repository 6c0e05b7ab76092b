package models

// NotificationType is the asset event a subscription waits for.
type NotificationType string

const (
	NotificationAvailability   NotificationType = "AVAILABILITY"
	NotificationPriceVariation NotificationType = "PRICE_VARIATION"
)

// Subscription is a one-shot registration: it is deleted when delivered.
type Subscription struct {
	Entity
	ClientID string           `gorm:"type:uuid;not null;uniqueIndex:uq_subscriptions_client_asset_type" json:"client_id"`
	AssetID  string           `gorm:"type:uuid;not null;uniqueIndex:uq_subscriptions_client_asset_type;index:idx_subscriptions_asset_type" json:"asset_id"`
	Type     NotificationType `gorm:"not null;uniqueIndex:uq_subscriptions_client_asset_type;index:idx_subscriptions_asset_type" json:"type"`

	Asset Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
