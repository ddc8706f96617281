// Package espeak drives the espeak-ng command line synthesizer. Each
// utterance runs as its own espeak-ng process, which plays the audio itself.
package espeak

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/hanspeak/internal/queue"
	"github.com/dgnsrekt/hanspeak/tts"
)

const (
	minWordsPerMinute = 80
	maxWordsPerMinute = 450
	maxPitch          = 99
)

// Config holds espeak-ng settings.
type Config struct {
	// Binary is the espeak-ng executable name or path.
	Binary string
	// WordsPerMinute is the speed at rate 1.0.
	WordsPerMinute int
	// Logger receives engine diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

// DefaultConfig returns the stock espeak-ng settings.
func DefaultConfig() Config {
	return Config{
		Binary:         "espeak-ng",
		WordsPerMinute: 175,
	}
}

type job struct {
	utterance tts.Utterance
	epoch     uint64
}

// Engine implements tts.SpeechEngine on top of espeak-ng.
type Engine struct {
	binary string
	wpm    int
	logger *log.Logger

	queue  *queue.Queue[job]
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	epoch   uint64
	current *exec.Cmd
	paused  bool
	resumed chan struct{} // closed and replaced on Resume and Cancel
	closed  bool

	voicesOnce sync.Once
	voices     []tts.Voice
}

// New checks that the binary exists and starts the playback worker.
func New(cfg Config) (*Engine, error) {
	if cfg.Binary == "" {
		cfg.Binary = DefaultConfig().Binary
	}
	if cfg.WordsPerMinute == 0 {
		cfg.WordsPerMinute = DefaultConfig().WordsPerMinute
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	path, err := exec.LookPath(cfg.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", tts.ErrEngineUnavailable, cfg.Binary, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		binary:  path,
		wpm:     cfg.WordsPerMinute,
		logger:  cfg.Logger.WithPrefix("espeak"),
		queue:   queue.New[job](),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		resumed: make(chan struct{}),
	}
	go e.run()

	e.logger.Debug("engine ready", "binary", path, "wpm", cfg.WordsPerMinute)
	return e, nil
}

// Voices lists the voices reported by espeak-ng --voices. The list is read
// once and cached.
func (e *Engine) Voices() []tts.Voice {
	e.voicesOnce.Do(func() {
		ctx, cancel := context.WithTimeout(e.ctx, voiceListTimeout)
		defer cancel()

		out, err := exec.CommandContext(ctx, e.binary, "--voices").Output()
		if err != nil {
			e.logger.Warn("unable to list voices", "err", err)
			return
		}
		e.voices = ParseVoices(out)
	})

	out := make([]tts.Voice, len(e.voices))
	copy(out, e.voices)
	return out
}

// Speak queues utterances behind anything already queued.
func (e *Engine) Speak(utterances []tts.Utterance) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return tts.ErrEngineClosed
	}
	jobs := make([]job, len(utterances))
	for i, u := range utterances {
		jobs[i] = job{utterance: u, epoch: e.epoch}
	}
	e.mu.Unlock()

	if err := e.queue.Push(jobs...); err != nil {
		return fmt.Errorf("%w: %v", tts.ErrEngineClosed, err)
	}
	return nil
}

// Pause stops the running espeak-ng process and holds back the queue.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.paused {
		return nil
	}
	if e.current != nil && e.current.Process != nil {
		if err := suspend(e.current.Process); err != nil {
			return err
		}
	}
	e.paused = true
	return nil
}

// Resume continues the stopped process and releases the queue.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.paused {
		return nil
	}
	if e.current != nil && e.current.Process != nil {
		if err := resume(e.current.Process); err != nil {
			return err
		}
	}
	e.paused = false
	e.wakeLocked()
	return nil
}

// Cancel drops the queue and kills the running process.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.epoch++
	dropped := e.queue.Clear()
	e.paused = false
	e.wakeLocked()

	if e.current != nil && e.current.Process != nil {
		if err := e.current.Process.Kill(); err != nil {
			e.logger.Debug("kill failed", "err", err)
		}
	}
	e.logger.Debug("cancelled", "dropped", dropped)
	return nil
}

// IsSpeaking reports whether an espeak-ng process is running.
func (e *Engine) IsSpeaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil
}

// IsPaused reports whether the engine is paused.
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Close cancels playback and stops the worker.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	_ = e.Cancel()
	e.cancel()
	_ = e.queue.Close()
	<-e.done
	return nil
}

// run plays queued utterances one at a time.
func (e *Engine) run() {
	defer close(e.done)

	for {
		j, err := e.queue.Pop(e.ctx)
		if err != nil {
			return
		}

		cmd, stderr, ok, err := e.launch(j)
		if !ok {
			continue
		}
		if err != nil {
			j.utterance.Start()
			j.utterance.Fail(err)
			continue
		}

		j.utterance.Start()
		waitErr := cmd.Wait()

		e.mu.Lock()
		e.current = nil
		stale := j.epoch != e.epoch
		e.mu.Unlock()

		if stale {
			continue
		}
		if waitErr != nil {
			j.utterance.Fail(processError(waitErr, stderr.String()))
			continue
		}
		j.utterance.End()
	}
}

// launch waits out a pause and starts the process for j. ok is false when j
// was cancelled or the engine is shutting down.
func (e *Engine) launch(j job) (cmd *exec.Cmd, stderr *bytes.Buffer, ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for e.paused && j.epoch == e.epoch {
		wait := e.resumed
		e.mu.Unlock()
		select {
		case <-e.ctx.Done():
		case <-wait:
		}
		e.mu.Lock()
		if e.ctx.Err() != nil {
			return nil, nil, false, nil
		}
	}
	if j.epoch != e.epoch || e.ctx.Err() != nil {
		return nil, nil, false, nil
	}

	stderr = &bytes.Buffer{}
	cmd = exec.CommandContext(e.ctx, e.binary, Args(j.utterance, e.wpm)...)
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, nil, true, fmt.Errorf("start %s: %w", e.binary, err)
	}
	e.current = cmd
	return cmd, stderr, true, nil
}

func (e *Engine) wakeLocked() {
	close(e.resumed)
	e.resumed = make(chan struct{})
}

// Args builds the espeak-ng arguments for one utterance.
func Args(u tts.Utterance, wordsPerMinute int) []string {
	args := make([]string, 0, 8)
	if u.Voice.ID != "" {
		args = append(args, "-v", u.Voice.ID)
	}
	args = append(args,
		"-s", strconv.Itoa(Speed(wordsPerMinute, u.Rate)),
		"-p", strconv.Itoa(Pitch(u.Pitch)),
		"--", u.Text,
	)
	return args
}

// Speed scales the base words per minute by rate, clamped to what espeak-ng
// accepts. A zero rate means normal speed.
func Speed(wordsPerMinute int, rate float64) int {
	if rate <= 0 {
		rate = 1.0
	}
	wpm := int(math.Round(float64(wordsPerMinute) * rate))
	return min(max(wpm, minWordsPerMinute), maxWordsPerMinute)
}

// Pitch maps a multiplier (1.0 = normal) onto espeak-ng's 0-99 scale.
func Pitch(pitch float64) int {
	p := int(math.Round(pitch * 50))
	return min(max(p, 0), maxPitch)
}

func processError(err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && stderr != "" {
		return fmt.Errorf("espeak-ng failed: %w: %s", err, stderr)
	}
	return fmt.Errorf("espeak-ng failed: %w", err)
}
