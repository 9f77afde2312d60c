package workflow

import (
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateApproved, false},
		{StateScheduled, false},
		{StateRejected, true},
		{StatePaid, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"pending", StatePending, true},
		{"paid", StatePaid, true},
		{"unknown", State("INVALID"), false},
		{"empty", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMachine_ForwardPath(t *testing.T) {
	m := NewReviewMachine()

	steps := []struct {
		from    State
		trigger Trigger
		want    State
	}{
		{StatePending, TriggerApprove, StateApproved},
		{StateApproved, TriggerSchedule, StateScheduled},
		{StateScheduled, TriggerPay, StatePaid},
	}

	for _, step := range steps {
		got, err := m.Fire(step.from, step.trigger)
		if err != nil {
			t.Fatalf("Fire(%s, %s) unexpected error: %v", step.from, step.trigger, err)
		}
		if got != step.want {
			t.Errorf("Fire(%s, %s) = %s, want %s", step.from, step.trigger, got, step.want)
		}
	}
}

func TestMachine_Reject(t *testing.T) {
	m := NewReviewMachine()

	got, err := m.Fire(StatePending, TriggerReject)
	if err != nil {
		t.Fatalf("Fire(PENDING, REJECT) unexpected error: %v", err)
	}
	if got != StateRejected {
		t.Errorf("Fire(PENDING, REJECT) = %s, want %s", got, StateRejected)
	}
}

func TestMachine_InvalidTransitions(t *testing.T) {
	m := NewReviewMachine()

	tests := []struct {
		name    string
		from    State
		trigger Trigger
	}{
		{"skip approved straight to pay", StatePending, TriggerPay},
		{"schedule while pending", StatePending, TriggerSchedule},
		{"duplicate approve", StateApproved, TriggerApprove},
		{"reject after approval", StateApproved, TriggerReject},
		{"regress from paid", StatePaid, TriggerApprove},
		{"regress from rejected", StateRejected, TriggerApprove},
		{"pay twice", StatePaid, TriggerPay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Fire(tt.from, tt.trigger)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Fire(%s, %s) error = %v, want ErrInvalidTransition", tt.from, tt.trigger, err)
			}
		})
	}
}

func TestMachine_InvalidState(t *testing.T) {
	m := NewReviewMachine()

	_, err := m.Fire(State("BOGUS"), TriggerApprove)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Fire(BOGUS, APPROVE) error = %v, want ErrInvalidState", err)
	}
}

func TestMachine_CanFire(t *testing.T) {
	m := NewReviewMachine()

	if !m.CanFire(StatePending, TriggerReject) {
		t.Error("CanFire(PENDING, REJECT) = false, want true")
	}
	if m.CanFire(StateRejected, TriggerApprove) {
		t.Error("CanFire(REJECTED, APPROVE) = true, want false")
	}
}

func TestMachine_PermittedTriggers(t *testing.T) {
	m := NewReviewMachine()

	triggers := m.PermittedTriggers(StatePending)
	if len(triggers) != 2 {
		t.Fatalf("PermittedTriggers(PENDING) returned %d triggers, want 2", len(triggers))
	}

	if got := m.PermittedTriggers(StatePaid); len(got) != 0 {
		t.Errorf("PermittedTriggers(PAID) returned %d triggers, want 0", len(got))
	}
}

func TestBuilder_PanicsOnTerminalSource(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit from terminal state should panic")
		}
	}()

	NewBuilder().Permit(StatePaid, TriggerApprove, StatePending)
}

func TestBuilder_PanicsOnInvalidState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit with invalid state should panic")
		}
	}()

	NewBuilder().Permit(State("NOPE"), TriggerApprove, StateApproved)
}
