package tts

import (
	"testing"
)

// TestStateTypeString tests the String() method for StateType.
func TestStateTypeString(t *testing.T) {
	tests := []struct {
		state    StateType
		expected string
	}{
		{StateIdle, "idle"},
		{StateSpeaking, "speaking"},
		{StatePaused, "paused"},
		{StateType(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if result := tt.state.String(); result != tt.expected {
				t.Errorf("StateType.String() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// TestStatePredicates tests the State helper methods.
func TestStatePredicates(t *testing.T) {
	tests := []struct {
		state     StateType
		active    bool
		canPause  bool
		canResume bool
		canStop   bool
	}{
		{StateIdle, false, false, false, false},
		{StateSpeaking, true, true, false, true},
		{StatePaused, true, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			s := State{CurrentState: tt.state}
			if got := s.IsActive(); got != tt.active {
				t.Errorf("IsActive() = %v, want %v", got, tt.active)
			}
			if got := s.CanPause(); got != tt.canPause {
				t.Errorf("CanPause() = %v, want %v", got, tt.canPause)
			}
			if got := s.CanResume(); got != tt.canResume {
				t.Errorf("CanResume() = %v, want %v", got, tt.canResume)
			}
			if got := s.CanStop(); got != tt.canStop {
				t.Errorf("CanStop() = %v, want %v", got, tt.canStop)
			}
		})
	}
}

// TestStateMachineTransitions tests valid and invalid transitions.
func TestStateMachineTransitions(t *testing.T) {
	tests := []struct {
		name  string
		path  []StateType
		valid []bool
	}{
		{
			name:  "speak to completion",
			path:  []StateType{StateSpeaking, StateIdle},
			valid: []bool{true, true},
		},
		{
			name:  "pause and resume",
			path:  []StateType{StateSpeaking, StatePaused, StateSpeaking, StateIdle},
			valid: []bool{true, true, true, true},
		},
		{
			name:  "stop while paused",
			path:  []StateType{StateSpeaking, StatePaused, StateIdle},
			valid: []bool{true, true, true},
		},
		{
			name:  "cannot pause from idle",
			path:  []StateType{StatePaused},
			valid: []bool{false},
		},
		{
			name:  "cannot re-enter idle",
			path:  []StateType{StateIdle},
			valid: []bool{false},
		},
		{
			name:  "cannot speak twice",
			path:  []StateType{StateSpeaking, StateSpeaking},
			valid: []bool{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewStateMachine()
			for i, to := range tt.path {
				from := sm.Current()
				ok := sm.Transition(to)
				if ok != tt.valid[i] {
					t.Fatalf("Transition(%s -> %s) = %v, want %v", from, to, ok, tt.valid[i])
				}
				if !ok && sm.Current() != from {
					t.Fatalf("Failed transition changed state to %s", sm.Current())
				}
			}
		})
	}
}

// TestStateMachineCallbacks tests enter and exit callbacks.
func TestStateMachineCallbacks(t *testing.T) {
	sm := NewStateMachine()

	var events []string
	sm.OnExit(StateIdle, func() { events = append(events, "exit-idle") })
	sm.OnEnter(StateSpeaking, func() { events = append(events, "enter-speaking") })
	sm.OnEnter(StateIdle, func() { events = append(events, "enter-idle") })

	sm.Transition(StateSpeaking)
	sm.Transition(StatePaused) // no callbacks registered
	sm.Transition(StateIdle)

	expected := []string{"exit-idle", "enter-speaking", "enter-idle"}
	if len(events) != len(expected) {
		t.Fatalf("events = %v, want %v", events, expected)
	}
	for i := range expected {
		if events[i] != expected[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], expected[i])
		}
	}
}
