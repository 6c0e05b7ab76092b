package notification

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
)

func TestFormatter_Amount(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		amount   string
		want     string
	}{
		{"usd", "USD", "1234.5", "$1,234.50"},
		{"rounds_to_cents", "USD", "10.005", "$10.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFormatter(tt.currency)
			assert.Equal(t, tt.want, f.Amount(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFormatter_UnknownCurrencyFallsBackToBRL(t *testing.T) {
	f := NewFormatter("NOPE")
	assert.Contains(t, f.Amount(decimal.NewFromInt(1)), "R$")
}

func TestFormatter_Messages(t *testing.T) {
	f := NewFormatter("USD")
	asset := &models.Asset{
		Name:          "ACME",
		Quotation:     decimal.NewFromInt(110),
		QuotaQuantity: decimal.NewFromInt(50),
	}

	assert.Equal(t, "Asset ACME is now available with 50 units at $110.00", f.Availability(asset))
	assert.Equal(t, "Asset ACME quotation changed from $100.00 to $110.00",
		f.PriceVariation(asset, decimal.NewFromInt(100)))

	purchase := &models.Purchase{Quantity: decimal.NewFromInt(3), AcquisitionPrice: decimal.NewFromInt(110)}
	assert.Contains(t, f.PurchaseAvailable(asset, purchase), "$330.00")
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Deliver(Message{ClientID: "c1", Kind: KindAvailability})
	r.Deliver(Message{ClientID: "c2", Kind: KindPriceVariation})

	msgs := r.Messages()
	assert.Len(t, msgs, 2)
	msgs[0].ClientID = "mutated"
	assert.Equal(t, "c1", r.Messages()[0].ClientID)
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(zap.NewNop().Sugar())
	n.Deliver(Message{ClientID: "c1", Text: "hello"})
}
