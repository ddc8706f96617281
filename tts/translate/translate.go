// Package translate turns segment text into another language before it is
// spoken. Translation is best effort: SpeakableText falls back to the source
// text on any failure.
package translate

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/hanspeak/tts"
	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4 << 10

// Config holds settings for a LibreTranslate-compatible endpoint.
type Config struct {
	Endpoint          string
	Source            string
	Target            string
	APIKey            string
	Timeout           time.Duration
	RequestsPerMinute int

	// Client defaults to a client with Timeout.
	Client *http.Client
}

// ConfigFrom converts the application config.
func ConfigFrom(cfg tts.TranslateConfig) Config {
	return Config{
		Endpoint:          cfg.Endpoint,
		Source:            cfg.Source,
		Target:            cfg.Target,
		APIKey:            cfg.APIKey,
		Timeout:           cfg.Timeout,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}
}

// HTTP implements tts.Translator against a LibreTranslate-compatible API.
type HTTP struct {
	endpoint string
	source   string
	target   string
	apiKey   string

	client      *http.Client
	rateLimiter *rate.Limiter
}

type request struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type response struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// NewHTTP creates a translator for cfg.
func NewHTTP(cfg Config) (*HTTP, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: translate endpoint is empty", tts.ErrInvalidConfig)
	}
	if cfg.Source == "" {
		cfg.Source = "auto"
	}
	if cfg.Target == "" {
		cfg.Target = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout}
	}

	return &HTTP{
		endpoint:    cfg.Endpoint,
		source:      cfg.Source,
		target:      cfg.Target,
		apiKey:      cfg.APIKey,
		client:      cfg.Client,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
	}, nil
}

// Target returns the language code translations are produced in.
func (h *HTTP) Target() string {
	return h.target
}

// Translate sends text to the endpoint. Every failure wraps
// tts.ErrTranslationFailed.
func (h *HTTP) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	if err := h.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait cancelled: %v", tts.ErrTranslationFailed, err)
	}

	body, err := json.Marshal(request{
		Q:      text,
		Source: h.source,
		Target: h.target,
		Format: "text",
		APIKey: h.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", tts.ErrTranslationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", tts.ErrTranslationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", tts.ErrTranslationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var r response
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if json.Unmarshal(msg, &r) == nil && r.Error != "" {
			msg = []byte(r.Error)
		}
		return "", fmt.Errorf("%w: %s: %s", tts.ErrTranslationFailed, resp.Status, strings.TrimSpace(string(msg)))
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", tts.ErrTranslationFailed, err)
	}
	if r.TranslatedText == "" {
		return "", fmt.Errorf("%w: empty translation", tts.ErrTranslationFailed)
	}
	return r.TranslatedText, nil
}

// Store is the subset of the cache manager Cached needs.
type Store interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
}

// Cached memoizes another translator's results in a Store.
type Cached struct {
	next   tts.Translator
	store  Store
	target string
}

// NewCached wraps next. target is part of the cache key so switching target
// languages never returns stale results.
func NewCached(next tts.Translator, store Store, target string) *Cached {
	return &Cached{next: next, store: store, target: target}
}

// Translate returns the cached translation or asks the wrapped translator.
// Failures are not cached.
func (c *Cached) Translate(ctx context.Context, text string) (string, error) {
	key := Key(c.target, text)
	if v, ok := c.store.Get(key); ok {
		return string(v), nil
	}

	out, err := c.next.Translate(ctx, text)
	if err != nil {
		return "", err
	}
	if err := c.store.Put(key, []byte(out)); err != nil {
		log.Default().WithPrefix("translate").Debug("cache write failed", "err", err)
	}
	return out, nil
}

// Key derives the cache key for text translated into target.
func Key(target, text string) string {
	sum := sha256.Sum256([]byte(target + "|" + text))
	return hex.EncodeToString(sum[:])
}

// SpeakableText translates text, returning the original on any failure.
// A nil translator returns text unchanged.
func SpeakableText(ctx context.Context, tr tts.Translator, text string) string {
	if tr == nil {
		return text
	}
	out, err := tr.Translate(ctx, text)
	if err != nil {
		log.Default().WithPrefix("translate").Warn("translation failed, speaking original text", "err", err)
		return text
	}
	if strings.TrimSpace(out) == "" {
		return text
	}
	return out
}
