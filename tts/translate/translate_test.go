package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dgnsrekt/hanspeak/tts"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTranslator(t *testing.T, endpoint string) *HTTP {
	t.Helper()
	tr, err := NewHTTP(Config{
		Endpoint:          endpoint,
		Target:            "en",
		APIKey:            "secret",
		Timeout:           2 * time.Second,
		RequestsPerMinute: 6000,
	})
	if err != nil {
		t.Fatalf("NewHTTP failed: %v", err)
	}
	return tr
}

func TestHTTPTranslate(t *testing.T) {
	var got request
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(response{TranslatedText: "Hello"})
	})

	out, err := newTranslator(t, srv.URL).Translate(context.Background(), "안녕하세요")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "Hello" {
		t.Errorf("Translate = %q, want Hello", out)
	}
	if got.Q != "안녕하세요" || got.Source != "auto" || got.Target != "en" || got.Format != "text" || got.APIKey != "secret" {
		t.Errorf("request = %+v", got)
	}
}

func TestHTTPTranslateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "api error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(response{Error: "unsupported language"})
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "empty translation",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(response{})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.handler)
			_, err := newTranslator(t, srv.URL).Translate(context.Background(), "text")
			if !errors.Is(err, tts.ErrTranslationFailed) {
				t.Errorf("Translate error = %v, want ErrTranslationFailed", err)
			}
		})
	}
}

func TestHTTPTranslateBlank(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("blank text should not hit the endpoint")
	})

	out, err := newTranslator(t, srv.URL).Translate(context.Background(), "  ")
	if err != nil || out != "  " {
		t.Errorf("Translate(blank) = %q, %v", out, err)
	}
}

func TestHTTPTranslateCancelled(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(response{TranslatedText: "x"})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTranslator(t, srv.URL).Translate(ctx, "text")
	if !errors.Is(err, tts.ErrTranslationFailed) {
		t.Errorf("Translate error = %v, want ErrTranslationFailed", err)
	}
}

func TestNewHTTPRequiresEndpoint(t *testing.T) {
	if _, err := NewHTTP(Config{}); !errors.Is(err, tts.ErrInvalidConfig) {
		t.Errorf("NewHTTP error = %v, want ErrInvalidConfig", err)
	}
}

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memStore) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

type countingTranslator struct {
	calls int
	out   string
	err   error
}

func (c *countingTranslator) Translate(context.Context, string) (string, error) {
	c.calls++
	return c.out, c.err
}

func TestCached(t *testing.T) {
	store := &memStore{data: make(map[string][]byte)}
	next := &countingTranslator{out: "Hello"}
	cached := NewCached(next, store, "en")

	for i := 0; i < 3; i++ {
		out, err := cached.Translate(context.Background(), "안녕")
		if err != nil || out != "Hello" {
			t.Fatalf("Translate = %q, %v", out, err)
		}
	}
	if next.calls != 1 {
		t.Errorf("wrapped translator called %d times, want 1", next.calls)
	}

	if _, ok := store.Get(Key("en", "안녕")); !ok {
		t.Error("translation not stored under its key")
	}
	if Key("en", "안녕") == Key("ja", "안녕") {
		t.Error("keys must differ by target language")
	}
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	store := &memStore{data: make(map[string][]byte)}
	next := &countingTranslator{err: tts.ErrTranslationFailed}
	cached := NewCached(next, store, "en")

	for i := 0; i < 2; i++ {
		if _, err := cached.Translate(context.Background(), "x"); !errors.Is(err, tts.ErrTranslationFailed) {
			t.Fatalf("Translate error = %v", err)
		}
	}
	if next.calls != 2 || len(store.data) != 0 {
		t.Errorf("calls = %d, stored = %d", next.calls, len(store.data))
	}
}

func TestSpeakableText(t *testing.T) {
	tests := []struct {
		name string
		tr   tts.Translator
		want string
	}{
		{"nil translator", nil, "안녕"},
		{"success", &countingTranslator{out: "Hi"}, "Hi"},
		{"failure", &countingTranslator{err: errors.New("offline")}, "안녕"},
		{"blank result", &countingTranslator{out: " "}, "안녕"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpeakableText(context.Background(), tt.tr, "안녕"); got != tt.want {
				t.Errorf("SpeakableText = %q, want %q", got, tt.want)
			}
		})
	}
}
