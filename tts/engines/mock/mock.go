// Package mock provides a mock speech engine for testing.
package mock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dgnsrekt/hanspeak/tts"
)

// ErrIdle is returned by the step methods when nothing can be advanced.
var ErrIdle = errors.New("mock engine has nothing to advance")

// Engine implements tts.SpeechEngine without producing audio. Tests drive
// it one callback at a time with StartNext, Finish and Step; Run plays the
// queue on its own with a fixed delay per utterance.
type Engine struct {
	mu sync.Mutex

	voices []tts.Voice
	delay  time.Duration

	// queue holds every utterance not yet resolved; the head is in flight
	// once started is true.
	queue   []tts.Utterance
	started bool
	paused  bool
	epoch   uint64
	wake    chan struct{}

	// Control for testing
	speakErr error
	failNext error

	// Recorded calls
	submitted   []tts.Utterance
	pauseCount  int
	resumeCount int
	cancelCount int
}

// New creates a new mock engine.
func New() *Engine {
	return &Engine{
		delay: 300 * time.Millisecond,
		wake:  make(chan struct{}, 1),
		voices: []tts.Voice{
			{ID: "mock-ko-1", Name: "Mock Yuna", Language: "ko-KR"},
			{ID: "mock-en-1", Name: "Mock Samantha", Language: "en-US"},
			{ID: "mock-en-2", Name: "Mock Daniel", Language: "en-GB"},
		},
	}
}

// Voices returns the mock voices.
func (e *Engine) Voices() []tts.Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]tts.Voice, len(e.voices))
	copy(out, e.voices)
	return out
}

// Speak appends utterances to the queue.
func (e *Engine) Speak(utterances []tts.Utterance) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.speakErr != nil {
		return e.speakErr
	}

	e.queue = append(e.queue, utterances...)
	e.submitted = append(e.submitted, utterances...)
	e.signal()
	return nil
}

// Pause marks the engine paused.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
	e.pauseCount++
	return nil
}

// Resume clears the paused flag.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
	e.resumeCount++
	e.signal()
	return nil
}

// Cancel drops the queue. The in-flight utterance gets no callback.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = nil
	e.started = false
	e.paused = false
	e.epoch++
	e.cancelCount++
	e.signal()
	return nil
}

// IsSpeaking reports whether an utterance is in flight.
func (e *Engine) IsSpeaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.started
}

// IsPaused reports whether the engine is paused.
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Run plays queued utterances until ctx is done, holding each one for the
// configured delay. Pausing holds the current utterance open and blocks the
// next one.
func (e *Engine) Run(ctx context.Context) error {
	for {
		u, epoch, ok := e.begin()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-e.wake:
				continue
			}
		}

		u.Start()

		timer := time.NewTimer(e.Delay())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		for {
			done, wait := e.resolve(epoch)
			if !wait {
				if done != nil {
					done()
				}
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-e.wake:
			}
		}
	}
}

// Test control methods

// StartNext fires OnStart for the head of the queue.
func (e *Engine) StartNext() error {
	u, _, ok := e.begin()
	if !ok {
		return ErrIdle
	}
	u.Start()
	return nil
}

// Finish resolves the in-flight utterance with OnEnd, or with OnError when
// a failure was armed through FailNext.
func (e *Engine) Finish() error {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return ErrIdle
	}
	epoch := e.epoch
	e.mu.Unlock()

	done, _ := e.resolveIgnoringPause(epoch)
	if done == nil {
		return ErrIdle
	}
	done()
	return nil
}

// Step starts and finishes the head of the queue.
func (e *Engine) Step() error {
	if err := e.StartNext(); err != nil {
		return err
	}
	return e.Finish()
}

// Drain steps until the queue is empty and returns the number of steps.
func (e *Engine) Drain() int {
	n := 0
	for e.Step() == nil {
		n++
	}
	return n
}

// SetDelay sets the time Run holds each utterance.
func (e *Engine) SetDelay(delay time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delay = delay
}

// Delay returns the time Run holds each utterance.
func (e *Engine) Delay() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.delay
}

// SetVoices replaces the voice list.
func (e *Engine) SetVoices(voices []tts.Voice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voices = voices
}

// SetSpeakError makes every Speak call fail with err. Pass nil to clear.
func (e *Engine) SetSpeakError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speakErr = err
}

// FailNext makes the next resolved utterance fail with err.
func (e *Engine) FailNext(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failNext = err
}

// Pending returns the utterances not yet resolved.
func (e *Engine) Pending() []tts.Utterance {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]tts.Utterance, len(e.queue))
	copy(out, e.queue)
	return out
}

// Submitted returns every utterance passed to Speak.
func (e *Engine) Submitted() []tts.Utterance {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]tts.Utterance, len(e.submitted))
	copy(out, e.submitted)
	return out
}

// Calls returns how often Pause, Resume and Cancel were called.
func (e *Engine) Calls() (pause, resume, cancel int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pauseCount, e.resumeCount, e.cancelCount
}

// Private helper methods

// begin marks the head of the queue as started.
func (e *Engine) begin() (tts.Utterance, uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused || e.started || len(e.queue) == 0 {
		return tts.Utterance{}, 0, false
	}
	e.started = true
	return e.queue[0], e.epoch, true
}

// resolve pops the in-flight utterance and returns its final callback.
// wait is true while the engine is paused.
func (e *Engine) resolve(epoch uint64) (done func(), wait bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.epoch != epoch || !e.started {
		return nil, false
	}
	if e.paused {
		return nil, true
	}
	return e.popLocked(), false
}

func (e *Engine) resolveIgnoringPause(epoch uint64) (func(), bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.epoch != epoch || !e.started {
		return nil, false
	}
	return e.popLocked(), false
}

func (e *Engine) popLocked() func() {
	u := e.queue[0]
	e.queue = e.queue[1:]
	e.started = false

	if err := e.failNext; err != nil {
		e.failNext = nil
		return func() { u.Fail(err) }
	}
	return u.End
}

func (e *Engine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}
