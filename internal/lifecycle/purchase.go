package lifecycle

import "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"

// PurchaseAction drives a purchase forward.
type PurchaseAction string

const (
	// PurchaseMarkAvailable is the admin confirming the asset can be delivered.
	PurchaseMarkAvailable PurchaseAction = "MARK_AVAILABLE"
	// PurchaseConfirm is the owning client accepting the purchase.
	PurchaseConfirm PurchaseAction = "CONFIRM"
	// PurchaseAddToWallet is the system moving the units into the wallet.
	PurchaseAddToWallet PurchaseAction = "ADD_TO_WALLET"
)

// PurchaseStates lists purchase states in lifecycle order.
var PurchaseStates = []models.PurchaseState{
	models.PurchaseRequested,
	models.PurchaseAvailable,
	models.PurchasePurchased,
	models.PurchaseInWallet,
}

// PurchaseActions lists every purchase action.
var PurchaseActions = []PurchaseAction{PurchaseMarkAvailable, PurchaseConfirm, PurchaseAddToWallet}

var purchaseMachine = newMachine[models.PurchaseState, PurchaseAction]("purchase", PurchaseStates).
	on(models.PurchaseRequested, PurchaseMarkAvailable, models.PurchaseAvailable, EffectDecrementQuota, EffectNotifyOwner).
	on(models.PurchaseAvailable, PurchaseConfirm, models.PurchasePurchased).
	on(models.PurchasePurchased, PurchaseAddToWallet, models.PurchaseInWallet, EffectCreditHolding, EffectDebitBudget)

// Purchase applies action to a purchase in state current.
func Purchase(current models.PurchaseState, action PurchaseAction) (Transition[models.PurchaseState], error) {
	return purchaseMachine.apply(current, action)
}
