package models

// PlanType is the commercial plan of a client.
type PlanType string

const (
	PlanNormal  PlanType = "NORMAL"
	PlanPremium PlanType = "PREMIUM"
)

// Client is a platform customer. Every client owns exactly one wallet,
// created in the same transaction as the client.
type Client struct {
	Base
	FullName       string   `gorm:"not null" json:"full_name"`
	Email          string   `gorm:"uniqueIndex;not null" json:"email"`
	Address        string   `json:"address"`
	AccessCodeHash string   `gorm:"not null" json:"-"`
	Plan           PlanType `gorm:"not null" json:"plan"`
	WalletID       string   `gorm:"type:uuid;uniqueIndex;not null" json:"wallet_id"`

	Wallet Wallet `gorm:"foreignKey:WalletID" json:"wallet,omitempty"`
}

// IsPremium reports whether the client is on the premium plan.
func (c *Client) IsPremium() bool {
	return c.Plan == PlanPremium
}
