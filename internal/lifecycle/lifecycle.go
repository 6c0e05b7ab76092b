// Package lifecycle holds the purchase and withdraw state machines as plain
// transition tables. A transition is looked up by (state, action); the result
// names the next state and the side effects the caller must apply.
//
// Replaying an action whose target state has already been reached or passed
// yields a no-op transition. An action attempted before its source state has
// been reached fails with INVALID_STATE.
package lifecycle

import (
	"fmt"

	"github.com/samber/lo"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
)

// Effect is a side effect the caller applies when a transition changes state.
type Effect string

const (
	EffectDecrementQuota Effect = "DECREMENT_QUOTA"
	EffectNotifyOwner    Effect = "NOTIFY_OWNER"
	EffectCreditHolding  Effect = "CREDIT_HOLDING"
	EffectDebitBudget    Effect = "DEBIT_BUDGET"
)

// Transition is the outcome of applying an action to a state.
type Transition[S ~string] struct {
	From    S
	To      S
	Changed bool
	Effects []Effect
}

// Has reports whether the transition carries the given effect.
func (t Transition[S]) Has(effect Effect) bool {
	return lo.Contains(t.Effects, effect)
}

type key[S ~string, A ~string] struct {
	state  S
	action A
}

type edge[S ~string] struct {
	to      S
	effects []Effect
}

// machine is a forward-only state machine over an ordered list of states.
type machine[S ~string, A ~string] struct {
	name    string
	order   map[S]int
	targets map[A]S
	edges   map[key[S, A]]edge[S]
}

func newMachine[S ~string, A ~string](name string, states []S) *machine[S, A] {
	return &machine[S, A]{
		name:    name,
		order:   lo.SliceToMap(states, func(s S) (S, int) { return s, lo.IndexOf(states, s) }),
		targets: map[A]S{},
		edges:   map[key[S, A]]edge[S]{},
	}
}

func (m *machine[S, A]) on(from S, action A, to S, effects ...Effect) *machine[S, A] {
	m.edges[key[S, A]{from, action}] = edge[S]{to: to, effects: effects}
	m.targets[action] = to
	return m
}

func (m *machine[S, A]) apply(current S, action A) (Transition[S], error) {
	if e, ok := m.edges[key[S, A]{current, action}]; ok {
		return Transition[S]{From: current, To: e.to, Changed: true, Effects: e.effects}, nil
	}

	pos, known := m.order[current]
	target, handled := m.targets[action]
	if !known || !handled {
		return Transition[S]{}, apperrors.WithMessage(apperrors.ErrInvalidState,
			fmt.Sprintf("Unknown %s transition %s from %s", m.name, action, current))
	}
	if pos >= m.order[target] {
		return Transition[S]{From: current, To: current}, nil
	}
	return Transition[S]{}, apperrors.WithMessage(apperrors.ErrInvalidState,
		fmt.Sprintf("Cannot %s a %s in state %s", lo.SnakeCase(string(action)), m.name, current))
}
