package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/hanspeak/internal/cache"
	"github.com/dgnsrekt/hanspeak/tts"
	"github.com/dgnsrekt/hanspeak/tts/engines/espeak"
	"github.com/dgnsrekt/hanspeak/tts/engines/mock"
	"github.com/dgnsrekt/hanspeak/tts/segment"
	"github.com/dgnsrekt/hanspeak/tts/textprep"
	"github.com/dgnsrekt/hanspeak/tts/translate"
	"github.com/dgnsrekt/hanspeak/tts/voices"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b
)

func execute(cmd *cobra.Command, args []string) error {
	cfg, err := tts.LoadConfigFromViper()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	text, usedStdin, err := readInput(ctx, args)
	if err != nil {
		return err
	}

	segmenter, err := newSegmenter(cfg)
	if err != nil {
		return err
	}
	text = textprep.Prepare(text, cfg.Segment)
	if len(segmenter.Segment(text)) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to speak.")
		return nil
	}

	engine, closeEngine, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeEngine() //nolint:errcheck

	selection, err := voices.Resolve(engine, cfg.Voices.Korean, cfg.Voices.Latin)
	if err != nil {
		return fmt.Errorf("unable to pick voices: %w", err)
	}
	log.Debug("Voices selected", "korean", selection.Korean.ID, "latin", selection.Latin.ID)

	if cfg.Translate.Enabled {
		text = withTranslation(ctx, cfg, text)
	}

	var (
		keys <-chan byte
		eol  = "\n"
	)
	if fd := int(os.Stdin.Fd()); !usedStdin && term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			log.Warn("Could not enable key controls", "err", err)
		} else {
			defer term.Restore(fd, state) //nolint:errcheck
			keys = readKeys(os.Stdin)
			eol = "\r\n"
		}
	}

	var out io.Writer = os.Stdout
	if quiet {
		out = io.Discard
	}

	ctrl := tts.NewController(engine, segmenter)
	return speak(ctx, ctrl, text, selection, cfg, keys, out, eol)
}

// newSegmenter builds the segmenter for the configured policy.
func newSegmenter(cfg tts.Config) (*segment.Segmenter, error) {
	policy, err := segment.ParsePolicy(cfg.Segment.Policy)
	if err != nil {
		return nil, err
	}
	return segment.New(policy), nil
}

// newEngine creates the configured speech engine. The returned function
// releases it.
func newEngine(ctx context.Context, cfg tts.Config) (tts.SpeechEngine, func() error, error) {
	switch cfg.Engine {
	case "mock":
		e := mock.New()
		e.SetDelay(cfg.Mock.Delay)

		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = e.Run(runCtx)
		}()
		return e, func() error {
			cancel()
			<-done
			return nil
		}, nil

	case "espeak":
		e, err := espeak.New(espeak.Config{
			Binary:         cfg.Espeak.Binary,
			WordsPerMinute: cfg.Espeak.WordsPerMinute,
			Logger:         log.Default(),
		})
		if err != nil {
			return nil, nil, err
		}
		return e, e.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown engine %q", tts.ErrInvalidConfig, cfg.Engine)
	}
}

// cacheDir returns the translation cache directory.
func cacheDir(cfg tts.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	dir, err := gap.NewScope(gap.User, "hanspeak").CacheDir()
	if err != nil {
		return "", fmt.Errorf("unable to find cache directory: %w", err)
	}
	return filepath.Join(dir, "translations"), nil
}

// openCache opens the translation cache.
func openCache(cfg tts.Config) (*cache.Manager, error) {
	dir, err := cacheDir(cfg)
	if err != nil {
		return nil, err
	}
	return cache.NewManager(cache.Config{
		MemoryCapacity:   cfg.Cache.MemoryBytes,
		DiskCapacity:     cfg.Cache.DiskBytes,
		DiskPath:         dir,
		CompressionLevel: cfg.Cache.CompressionLevel,
	})
}

// withTranslation appends a translation of text so that the original is
// spoken first. The text is returned unchanged when translation fails.
func withTranslation(ctx context.Context, cfg tts.Config, text string) string {
	tr, err := translate.NewHTTP(translate.ConfigFrom(cfg.Translate))
	if err != nil {
		log.Warn("Translation disabled", "err", err)
		return text
	}

	var translator tts.Translator = tr
	if store, err := openCache(cfg); err != nil {
		log.Warn("Translation cache unavailable", "err", err)
	} else {
		defer store.Close() //nolint:errcheck
		translator = translate.NewCached(tr, store, tr.Target())
	}

	out := translate.SpeakableText(ctx, translator, text)
	if out == text {
		return text
	}
	return text + "\n\n" + out
}

// speak starts a session and blocks until it ends, the context is done or
// the user stops it. keys may be nil. Each segment is written to w as it
// starts, terminated by eol.
func speak(
	ctx context.Context,
	ctrl *tts.Controller,
	text string,
	selection tts.VoiceSelection,
	cfg tts.Config,
	keys <-chan byte,
	w io.Writer,
	eol string,
) error {
	done := make(chan struct{})
	var once sync.Once

	ctrl.OnStateChange(func(s tts.StateType) {
		log.Debug("Playback state changed", "state", s)
		if s == tts.StateIdle {
			once.Do(func() { close(done) })
		}
	})
	ctrl.OnSegmentStart(func(index int, seg tts.Segment) {
		fmt.Fprint(w, renderSegment(index, seg), eol)
	})
	ctrl.OnError(func(err error) {
		var segErr *tts.SegmentEngineError
		if errors.As(err, &segErr) {
			fmt.Fprint(w, indexStyle.Render(fmt.Sprintf("    skipped: %v", segErr.Err)), eol)
		}
	})

	if err := ctrl.Start(text, selection.Korean, selection.Latin, cfg.Rate, cfg.Pitch); err != nil {
		return err
	}
	if ctrl.State() == tts.StateIdle {
		return nil
	}

	for {
		select {
		case <-done:
			return nil

		case <-ctx.Done():
			_ = ctrl.Stop()
			return nil

		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if err := handleKey(ctrl, k); err != nil {
				log.Warn("Key action failed", "key", k, "err", err)
				fmt.Fprint(w, indexStyle.Render(err.Error()), eol)
			}
		}
	}
}

// handleKey applies a key press to the controller.
func handleKey(ctrl *tts.Controller, k byte) error {
	switch k {
	case ' ', 'p':
		if ctrl.State() == tts.StatePaused {
			return ctrl.Resume()
		}
		return ctrl.Pause()
	case 'q', keyCtrlC, keyEsc:
		return ctrl.Stop()
	}
	return nil
}

// readKeys delivers single bytes read from r until it fails.
func readKeys(r io.Reader) <-chan byte {
	ch := make(chan byte)
	go func() {
		defer close(ch)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if err != nil {
				return
			}
			if n == 1 {
				ch <- buf[0]
			}
		}
	}()
	return ch
}
