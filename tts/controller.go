// Package tts provides bilingual text-to-speech playback for hanspeak.
package tts

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Controller queues segmented text at a speech engine and tracks the
// aggregate playback state from the engine's per-utterance callbacks.
type Controller struct {
	// Core components
	engine    SpeechEngine
	segmenter Segmenter
	logger    *log.Logger

	// State management
	machine    *StateMachine
	session    *PlaybackSession
	generation uint64
	lastError  error
	mu         sync.Mutex

	// Callbacks
	onStateChange  func(StateType)
	onSegmentStart func(index int, segment Segment)
	onError        func(error)
}

// NewController creates a new controller speaking through engine.
func NewController(engine SpeechEngine, segmenter Segmenter) *Controller {
	c := &Controller{
		engine:    engine,
		segmenter: segmenter,
		logger:    log.Default().WithPrefix("tts"),
		machine:   NewStateMachine(),
	}

	c.setupStateMachine()

	return c
}

// SetLogger replaces the controller's logger.
func (c *Controller) SetLogger(logger *log.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// Start segments text and queues every segment at the engine, binding each
// one to the voice for its language. It returns as soon as the segments are
// queued. Starting while a session is active is rejected with
// ErrAlreadySpeaking and leaves the session untouched; text without any
// speakable segment leaves the controller idle.
func (c *Controller) Start(text string, korean, latin Voice, rate, pitch float64) error {
	c.mu.Lock()

	if current := c.machine.Current(); current != StateIdle {
		c.mu.Unlock()
		c.logger.Warn("Start ignored", "state", current)
		return ErrAlreadySpeaking
	}

	segments := c.segmenter.Segment(text)
	if len(segments) == 0 {
		c.mu.Unlock()
		c.logger.Debug("Nothing to speak", "reason", ErrEmptyInput)
		return nil
	}

	c.generation++
	session := newPlaybackSession(c.generation, segments, VoiceSelection{Korean: korean, Latin: latin}, rate, pitch)

	if err := c.engine.Speak(session.utterances(c)); err != nil {
		err = NewTTSError(err, "controller", "speak")
		c.lastError = err
		c.mu.Unlock()
		return fmt.Errorf("unable to queue %d segments: %w", len(segments), err)
	}

	c.session = session
	c.machine.Transition(StateSpeaking)
	notify := c.onStateChange
	c.mu.Unlock()

	c.logger.Debug("Session started", "generation", session.generation, "segments", len(segments))
	if notify != nil {
		notify(StateSpeaking)
	}
	return nil
}

// Pause suspends playback. It does nothing unless the controller is speaking.
func (c *Controller) Pause() error {
	c.mu.Lock()

	if c.machine.Current() != StateSpeaking {
		c.mu.Unlock()
		return nil
	}

	if err := c.engine.Pause(); err != nil {
		c.lastError = err
		c.mu.Unlock()
		return fmt.Errorf("unable to pause engine: %w", err)
	}

	c.machine.Transition(StatePaused)
	notify := c.onStateChange
	c.mu.Unlock()

	if notify != nil {
		notify(StatePaused)
	}
	return nil
}

// Resume continues paused playback. It does nothing without a paused session.
func (c *Controller) Resume() error {
	c.mu.Lock()

	if c.machine.Current() != StatePaused {
		c.mu.Unlock()
		return nil
	}

	if err := c.engine.Resume(); err != nil {
		c.lastError = err
		c.mu.Unlock()
		return fmt.Errorf("unable to resume engine: %w", err)
	}

	c.machine.Transition(StateSpeaking)
	notify := c.onStateChange
	c.mu.Unlock()

	if notify != nil {
		notify(StateSpeaking)
	}
	return nil
}

// Stop cancels every queued segment and returns to idle. Callbacks that the
// engine still delivers for the cancelled session are ignored. Stop is
// idempotent.
func (c *Controller) Stop() error {
	c.mu.Lock()

	if c.machine.Current() == StateIdle {
		c.mu.Unlock()
		return nil
	}

	gen := c.session.generation
	c.machine.Transition(StateIdle)

	err := c.engine.Cancel()
	if err != nil {
		c.lastError = err
	}
	notify := c.onStateChange
	c.mu.Unlock()

	c.logger.Debug("Session stopped", "generation", gen)
	if notify != nil {
		notify(StateIdle)
	}
	if err != nil {
		return fmt.Errorf("unable to cancel engine queue: %w", err)
	}
	return nil
}

// State returns the current aggregate state.
func (c *Controller) State() StateType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// GetState returns a snapshot of the controller.
func (c *Controller) GetState() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		CurrentState: c.machine.Current(),
		Segment:      -1,
		LastError:    c.lastError,
	}
	if c.session != nil {
		st.Segment = c.session.active
		st.TotalSegments = len(c.session.segments)
		st.Generation = c.session.generation
	}
	return st
}

// Session returns a copy of the live session, or nil when idle.
func (c *Controller) Session() *PlaybackSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	return c.session.clone()
}

// OnStateChange registers a callback for state changes.
func (c *Controller) OnStateChange(fn func(StateType)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStateChange = fn
}

// OnSegmentStart registers a callback fired when the engine starts speaking
// a segment of the live session.
func (c *Controller) OnSegmentStart(fn func(index int, segment Segment)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSegmentStart = fn
}

// OnError registers a callback for non-fatal errors such as
// *SegmentEngineError.
func (c *Controller) OnError(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

// Private helper methods

func (c *Controller) setupStateMachine() {
	c.machine.OnEnter(StateIdle, func() {
		c.session = nil
	})
}

// live returns the session owning gen, if it is still the live one.
func (c *Controller) live(gen uint64) (*PlaybackSession, bool) {
	if c.session == nil || c.session.generation != gen {
		return nil, false
	}
	return c.session, true
}

func (c *Controller) segmentStarted(gen uint64, index int) {
	c.mu.Lock()

	s, ok := c.live(gen)
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("Ignoring stale start callback", "generation", gen, "segment", index)
		return
	}

	s.active = index
	segment := s.segments[index]
	notify := c.onSegmentStart
	c.mu.Unlock()

	if notify != nil {
		notify(index, segment)
	}
}

// segmentResolved handles both end and error callbacks. Only the final
// segment of a session changes the aggregate state.
func (c *Controller) segmentResolved(gen uint64, index int, engineErr error) {
	c.mu.Lock()

	s, ok := c.live(gen)
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("Ignoring stale end callback", "generation", gen, "segment", index)
		return
	}

	s.active = -1
	s.resolved++

	var segErr error
	if engineErr != nil {
		segErr = &SegmentEngineError{Index: index, Segment: s.segments[index], Err: engineErr}
		c.lastError = segErr
	}

	finished := index == len(s.segments)-1
	if finished {
		c.machine.Transition(StateIdle)
	}

	notifyState := c.onStateChange
	notifyErr := c.onError
	c.mu.Unlock()

	if segErr != nil {
		c.logger.Warn("Segment failed", "segment", index, "err", engineErr)
		if notifyErr != nil {
			notifyErr(segErr)
		}
	}
	if finished {
		c.logger.Debug("Session finished", "generation", gen)
		if notifyState != nil {
			notifyState(StateIdle)
		}
	}
}
