// Package notification builds and delivers client notifications. Delivery is
// at-most-once: a message is handed to the Notifier exactly once and never retried.
package notification

import (
	"fmt"
	"sync"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
)

// Kind tells which event produced a message.
type Kind string

const (
	KindAvailability      Kind = Kind(models.NotificationAvailability)
	KindPriceVariation    Kind = Kind(models.NotificationPriceVariation)
	KindPurchaseAvailable Kind = "PURCHASE_AVAILABLE"
)

// Message is a single notification addressed to one client.
type Message struct {
	ClientID    string
	ClientEmail string
	AssetID     string
	Kind        Kind
	Text        string
}

// Notifier delivers messages. Implementations must not block for long; the
// caller has already committed the state change the message describes.
type Notifier interface {
	Deliver(msg Message)
}

// LogNotifier delivers messages as structured log entries.
type LogNotifier struct {
	log *zap.SugaredLogger
}

// NewLogNotifier creates a Notifier that writes to log.
func NewLogNotifier(log *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Deliver implements Notifier.
func (n *LogNotifier) Deliver(msg Message) {
	n.log.Infow("notification delivered",
		"client_id", msg.ClientID,
		"client_email", msg.ClientEmail,
		"asset_id", msg.AssetID,
		"kind", msg.Kind,
		"message", msg.Text,
	)
}

// Recorder keeps delivered messages in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Deliver implements Notifier.
func (r *Recorder) Deliver(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of everything delivered so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Formatter renders message texts with amounts in a fixed display currency.
type Formatter struct {
	currency string
	fraction int32
}

// NewFormatter returns a Formatter for the ISO 4217 code. Unknown codes fall
// back to BRL.
func NewFormatter(code string) Formatter {
	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(money.BRL)
	}
	return Formatter{currency: cur.Code, fraction: int32(cur.Fraction)}
}

// Amount renders a decimal amount, e.g. "R$100.00".
func (f Formatter) Amount(amount decimal.Decimal) string {
	minor := amount.Shift(f.fraction).Round(0)
	return money.New(minor.IntPart(), f.currency).Display()
}

// Availability is sent when an inactive asset becomes active.
func (f Formatter) Availability(asset *models.Asset) string {
	return fmt.Sprintf("Asset %s is now available with %s units at %s",
		asset.Name, asset.QuotaQuantity.String(), f.Amount(asset.Quotation))
}

// PriceVariation is sent when an asset's quotation moves by at least 1%.
func (f Formatter) PriceVariation(asset *models.Asset, previous decimal.Decimal) string {
	return fmt.Sprintf("Asset %s quotation changed from %s to %s",
		asset.Name, f.Amount(previous), f.Amount(asset.Quotation))
}

// PurchaseAvailable is sent to the purchase owner once an admin confirms availability.
func (f Formatter) PurchaseAvailable(asset *models.Asset, purchase *models.Purchase) string {
	return fmt.Sprintf("Your purchase of %s units of %s (%s) is available for confirmation",
		purchase.Quantity.String(), asset.Name, f.Amount(purchase.TotalPrice()))
}
