package tts

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// TestDefaultConfig tests that defaults come from the env tags.
func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig failed: %v", err)
	}

	if cfg.Engine != "espeak" {
		t.Errorf("Engine = %q, want espeak", cfg.Engine)
	}
	if cfg.Rate != 1.0 || cfg.Pitch != 1.0 {
		t.Errorf("Rate/Pitch = %v/%v, want 1/1", cfg.Rate, cfg.Pitch)
	}
	if cfg.Segment.Policy != "language" {
		t.Errorf("Segment.Policy = %q, want language", cfg.Segment.Policy)
	}
	if !cfg.Segment.Normalize {
		t.Error("Segment.Normalize should default to true")
	}
	if cfg.Voices.Korean.Locale != "ko-KR" || cfg.Voices.Latin.Locale != "en-US" {
		t.Errorf("Voice locales = %q/%q", cfg.Voices.Korean.Locale, cfg.Voices.Latin.Locale)
	}
	if cfg.Translate.Timeout != 10*time.Second {
		t.Errorf("Translate.Timeout = %v, want 10s", cfg.Translate.Timeout)
	}
	if cfg.Mock.Delay != 300*time.Millisecond {
		t.Errorf("Mock.Delay = %v, want 300ms", cfg.Mock.Delay)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// TestDefaultConfigEnvironment tests environment overrides.
func TestDefaultConfigEnvironment(t *testing.T) {
	t.Setenv("HANSPEAK_TTS_ENGINE", "mock")
	t.Setenv("HANSPEAK_TTS_RATE", "1.5")
	t.Setenv("HANSPEAK_TTS_VOICES_KOREAN_NAME", "Yuna")
	t.Setenv("HANSPEAK_TTS_SEGMENT_POLICY", "sentence")

	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig failed: %v", err)
	}
	if cfg.Engine != "mock" || cfg.Rate != 1.5 || cfg.Segment.Policy != "sentence" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.Voices.Korean.Name != "Yuna" || cfg.Voices.Korean.Locale != "ko-KR" {
		t.Errorf("Korean voice = %+v", cfg.Voices.Korean)
	}

	t.Setenv("HANSPEAK_TTS_RATE", "fast")
	if _, err := DefaultConfig(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for bad rate, got %v", err)
	}
}

// TestConfigValidation tests configuration validation.
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"engine case folded", func(c *Config) { c.Engine = "MOCK" }, nil},
		{"unknown engine", func(c *Config) { c.Engine = "piper" }, ErrInvalidConfig},
		{"rate too low", func(c *Config) { c.Rate = 0.4 }, ErrInvalidConfig},
		{"rate too high", func(c *Config) { c.Rate = 2.1 }, ErrInvalidConfig},
		{"pitch negative", func(c *Config) { c.Pitch = -0.1 }, ErrInvalidConfig},
		{"pitch bounds", func(c *Config) { c.Pitch = 0 }, nil},
		{"sentence policy", func(c *Config) { c.Segment.Policy = "Sentence" }, nil},
		{"unknown policy", func(c *Config) { c.Segment.Policy = "word" }, ErrInvalidPolicy},
		{"espeak rate", func(c *Config) { c.Espeak.WordsPerMinute = 10 }, ErrInvalidConfig},
		{"translate endpoint", func(c *Config) {
			c.Translate.Enabled = true
			c.Translate.Endpoint = ""
		}, ErrInvalidConfig},
		{"translate disabled ignores endpoint", func(c *Config) { c.Translate.Endpoint = "" }, nil},
		{"translate timeout", func(c *Config) {
			c.Translate.Enabled = true
			c.Translate.Timeout = time.Millisecond
		}, ErrInvalidConfig},
		{"cache size", func(c *Config) { c.Cache.DiskBytes = -1 }, ErrInvalidConfig},
		{"compression level", func(c *Config) { c.Cache.CompressionLevel = 30 }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := DefaultConfig()
			if err != nil {
				t.Fatal(err)
			}
			tt.modify(&cfg)

			err = cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestLoadConfigFromViper tests loading values set in Viper.
func TestLoadConfigFromViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("tts.engine", "mock")
	viper.Set("tts.rate", 1.75)
	viper.Set("tts.segment.policy", "sentence")
	viper.Set("tts.segment.markdown", true)
	viper.Set("tts.voices.korean.name", "Heami")
	viper.Set("tts.voices.latin.locale", "en-GB")
	viper.Set("tts.mock.delay", "50ms")
	viper.Set("tts.translate.enabled", true)
	viper.Set("tts.translate.target", "ko")
	viper.Set("tts.translate.timeout", "3s")
	viper.Set("tts.cache.dir", "/tmp/hanspeak-cache")

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatalf("LoadConfigFromViper failed: %v", err)
	}

	if cfg.Engine != "mock" || cfg.Rate != 1.75 {
		t.Errorf("engine/rate = %q/%v", cfg.Engine, cfg.Rate)
	}
	if cfg.Segment.Policy != "sentence" || !cfg.Segment.Markdown {
		t.Errorf("segment = %+v", cfg.Segment)
	}
	if cfg.Voices.Korean.Name != "Heami" || cfg.Voices.Korean.Locale != "ko-KR" {
		t.Errorf("korean voice = %+v", cfg.Voices.Korean)
	}
	if cfg.Voices.Latin.Locale != "en-GB" {
		t.Errorf("latin voice = %+v", cfg.Voices.Latin)
	}
	if cfg.Mock.Delay != 50*time.Millisecond {
		t.Errorf("mock delay = %v", cfg.Mock.Delay)
	}
	if !cfg.Translate.Enabled || cfg.Translate.Target != "ko" || cfg.Translate.Timeout != 3*time.Second {
		t.Errorf("translate = %+v", cfg.Translate)
	}
	if cfg.Cache.Dir != "/tmp/hanspeak-cache" {
		t.Errorf("cache dir = %q", cfg.Cache.Dir)
	}
}

// TestLoadConfigFromViperInvalid tests that invalid values are rejected.
func TestLoadConfigFromViperInvalid(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("tts.rate", 5.0)
	if _, err := LoadConfigFromViper(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

// TestSetDefaults tests that defaults are registered with Viper.
func TestSetDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	if err := SetDefaults(); err != nil {
		t.Fatalf("SetDefaults failed: %v", err)
	}

	if got := viper.GetString("tts.engine"); got != "espeak" {
		t.Errorf("tts.engine = %q, want espeak", got)
	}
	if got := viper.GetString("tts.segment.policy"); got != "language" {
		t.Errorf("tts.segment.policy = %q, want language", got)
	}
	if got := viper.GetString("tts.voices.korean.locale"); got != "ko-KR" {
		t.Errorf("tts.voices.korean.locale = %q, want ko-KR", got)
	}
	if got := viper.GetDuration("tts.translate.timeout"); got != 10*time.Second {
		t.Errorf("tts.translate.timeout = %v, want 10s", got)
	}

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatalf("LoadConfigFromViper with defaults failed: %v", err)
	}
	if cfg.Espeak.WordsPerMinute != 175 {
		t.Errorf("espeak words_per_minute = %d, want 175", cfg.Espeak.WordsPerMinute)
	}
}
