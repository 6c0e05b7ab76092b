package lifecycle

import "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"

// WithdrawAction drives a withdraw forward. Both actions are admin-only.
type WithdrawAction string

const (
	WithdrawConfirm WithdrawAction = "CONFIRM"
	WithdrawSettle  WithdrawAction = "SETTLE"
)

// WithdrawStates lists withdraw states in lifecycle order.
var WithdrawStates = []models.WithdrawState{
	models.WithdrawRequested,
	models.WithdrawConfirmed,
	models.WithdrawInAccount,
}

// WithdrawActions lists every withdraw action.
var WithdrawActions = []WithdrawAction{WithdrawConfirm, WithdrawSettle}

var withdrawMachine = newMachine[models.WithdrawState, WithdrawAction]("withdraw", WithdrawStates).
	on(models.WithdrawRequested, WithdrawConfirm, models.WithdrawConfirmed).
	on(models.WithdrawConfirmed, WithdrawSettle, models.WithdrawInAccount)

// Withdraw applies action to a withdraw in state current.
func Withdraw(current models.WithdrawState, action WithdrawAction) (Transition[models.WithdrawState], error) {
	return withdrawMachine.apply(current, action)
}
