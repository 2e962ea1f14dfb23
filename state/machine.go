package state

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidTransition is returned when a state change is not allowed
var ErrInvalidTransition = errors.New("invalid state transition")

// Allowable maps where a from state is allowed to transition to
type Allowable[S ~string] struct {
	from S
	to   []S
}

// Machine tracks the current state and guards transitions out of it
type Machine[S ~string] struct {
	current     S
	transitions []Allowable[S]
}

// TransitionBuilder helps in creating a from-to relationship for state transitions
type TransitionBuilder[S ~string] struct {
	transition Allowable[S]
}

// NewMachine creates a machine starting in current
func NewMachine[S ~string](current S, transitions ...Allowable[S]) *Machine[S] {
	return &Machine[S]{current: current, transitions: transitions}
}

// From initializes a transition from a specific state
func From[S ~string](from S) *TransitionBuilder[S] {
	return &TransitionBuilder[S]{transition: Allowable[S]{from: from}}
}

// To sets the possible destination states and returns the configured transition
func (tb *TransitionBuilder[S]) To(to ...S) Allowable[S] {
	tb.transition.to = to
	return tb.transition
}

// Current returns the state the machine is in
func (m *Machine[S]) Current() S {
	return m.current
}

// CanTransition reports whether the machine may move to s
func (m *Machine[S]) CanTransition(s S) bool {
	for _, transition := range m.transitions {
		if transition.from != m.current {
			continue
		}
		if slices.Contains(transition.to, s) {
			return true
		}
	}
	return false
}

// Transition moves the machine to s if the move is allowed
func (m *Machine[S]) Transition(s S) error {
	if !m.CanTransition(s) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.current, s)
	}
	m.current = s
	return nil
}

// newUIMachine returns the guard shared by the stores. Loading may repeat so
// a superseding load is accepted; Success may repeat for category changes.
func newUIMachine() *Machine[Kind] {
	return NewMachine(KindLoading,
		From(KindLoading).To(KindLoading, KindSuccess, KindFailure),
		From(KindSuccess).To(KindLoading, KindSuccess),
		From(KindFailure).To(KindLoading),
	)
}
