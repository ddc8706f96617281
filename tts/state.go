package tts

// StateType represents the aggregate playback state.
type StateType int

const (
	// StateIdle indicates nothing is queued. It is both initial and terminal.
	StateIdle StateType = iota
	// StateSpeaking indicates a session is queued at the engine.
	StateSpeaking
	// StatePaused indicates the engine has been paused mid-session.
	StatePaused
)

// String returns the string representation of the state.
func (s StateType) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpeaking:
		return "speaking"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// State is a snapshot of the controller.
type State struct {
	CurrentState  StateType // Current state of the system
	Segment       int       // Index of the segment being spoken, -1 if none
	TotalSegments int       // Number of segments in the session
	Generation    uint64    // Generation of the live session, 0 if none
	LastError     error     // Last error encountered
}

// IsActive returns true if a session exists.
func (s *State) IsActive() bool {
	return s.CurrentState == StateSpeaking || s.CurrentState == StatePaused
}

// CanPause returns true if playback can be paused.
func (s *State) CanPause() bool {
	return s.CurrentState == StateSpeaking
}

// CanResume returns true if playback can be resumed.
func (s *State) CanResume() bool {
	return s.CurrentState == StatePaused
}

// CanStop returns true if there is anything to stop.
func (s *State) CanStop() bool {
	return s.CurrentState != StateIdle
}

// StateMachine manages state transitions for playback.
type StateMachine struct {
	current     StateType
	transitions map[StateType][]StateType
	onEnter     map[StateType]func()
	onExit      map[StateType]func()
}

// NewStateMachine creates a new state machine with valid transitions.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[StateType][]StateType{
			StateIdle:     {StateSpeaking},
			StateSpeaking: {StatePaused, StateIdle},
			StatePaused:   {StateSpeaking, StateIdle},
		},
		onEnter: make(map[StateType]func()),
		onExit:  make(map[StateType]func()),
	}
}

// CanTransition reports whether moving to the given state is allowed.
func (sm *StateMachine) CanTransition(to StateType) bool {
	for _, state := range sm.transitions[sm.current] {
		if state == to {
			return true
		}
	}
	return false
}

// Transition attempts to transition to the specified state.
func (sm *StateMachine) Transition(to StateType) bool {
	if !sm.CanTransition(to) {
		return false
	}

	if exitFn, ok := sm.onExit[sm.current]; ok && exitFn != nil {
		exitFn()
	}

	sm.current = to

	if enterFn, ok := sm.onEnter[to]; ok && enterFn != nil {
		enterFn()
	}

	return true
}

// Current returns the current state.
func (sm *StateMachine) Current() StateType {
	return sm.current
}

// OnEnter registers a callback for entering a state.
func (sm *StateMachine) OnEnter(state StateType, fn func()) {
	sm.onEnter[state] = fn
}

// OnExit registers a callback for exiting a state.
func (sm *StateMachine) OnExit(state StateType, fn func()) {
	sm.onExit[state] = fn
}
