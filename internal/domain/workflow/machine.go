package workflow

import "fmt"

// Machine validates and applies transitions of the payment review lifecycle.
// Transitions are forward-only: once a request leaves a state it can never
// return to it, and terminal states permit no triggers at all.
type Machine struct {
	transitions map[State]map[Trigger]State
}

// Builder configures a Machine one state at a time
type Builder struct {
	transitions map[State]map[Trigger]State
}

// NewBuilder creates an empty machine builder
func NewBuilder() *Builder {
	return &Builder{transitions: make(map[State]map[Trigger]State)}
}

// Permit allows trigger to move the machine from state to target.
// It panics on states outside the lifecycle; machine wiring is static
// and a bad state is a programming error, not runtime input.
func (b *Builder) Permit(from State, trigger Trigger, to State) *Builder {
	if !from.IsValid() {
		panic(fmt.Sprintf("invalid source state: %s", from))
	}
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", to))
	}
	if from.IsTerminal() {
		panic(fmt.Sprintf("terminal state cannot permit transitions: %s", from))
	}
	m, ok := b.transitions[from]
	if !ok {
		m = make(map[Trigger]State)
		b.transitions[from] = m
	}
	m[trigger] = to
	return b
}

// Build returns the configured machine
func (b *Builder) Build() *Machine {
	// Copy so later builder use cannot mutate a built machine
	copied := make(map[State]map[Trigger]State, len(b.transitions))
	for from, byTrigger := range b.transitions {
		inner := make(map[Trigger]State, len(byTrigger))
		for trig, to := range byTrigger {
			inner[trig] = to
		}
		copied[from] = inner
	}
	return &Machine{transitions: copied}
}

// NewReviewMachine returns the machine for the payment request lifecycle:
//
//	PENDING  --APPROVE-->  APPROVED  --SCHEDULE-->  SCHEDULED  --PAY-->  PAID
//	PENDING  --REJECT--->  REJECTED
func NewReviewMachine() *Machine {
	return NewBuilder().
		Permit(StatePending, TriggerApprove, StateApproved).
		Permit(StatePending, TriggerReject, StateRejected).
		Permit(StateApproved, TriggerSchedule, StateScheduled).
		Permit(StateScheduled, TriggerPay, StatePaid).
		Build()
}

// CanFire returns true if the trigger is permitted in the given state
func (m *Machine) CanFire(from State, trigger Trigger) bool {
	byTrigger, ok := m.transitions[from]
	if !ok {
		return false
	}
	_, ok = byTrigger[trigger]
	return ok
}

// Fire resolves the state reached by firing trigger from the given state.
// It returns ErrInvalidTransition when the trigger is not permitted,
// including any attempt to leave a terminal state or to repeat a
// transition that already happened.
func (m *Machine) Fire(from State, trigger Trigger) (State, error) {
	if !from.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidState, from)
	}
	byTrigger, ok := m.transitions[from]
	if !ok {
		return "", fmt.Errorf("%w: cannot fire %s from terminal state %s", ErrInvalidTransition, trigger, from)
	}
	to, ok := byTrigger[trigger]
	if !ok {
		return "", fmt.Errorf("%w: cannot fire %s from state %s", ErrInvalidTransition, trigger, from)
	}
	return to, nil
}

// PermittedTriggers returns all triggers that can fire from the given state
func (m *Machine) PermittedTriggers(from State) []Trigger {
	byTrigger, ok := m.transitions[from]
	if !ok {
		return []Trigger{}
	}
	triggers := make([]Trigger, 0, len(byTrigger))
	for trig := range byTrigger {
		triggers = append(triggers, trig)
	}
	return triggers
}
