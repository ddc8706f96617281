package tts

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/go-homedir"
)

// Config contains all TTS configuration options.
type Config struct {
	// Global TTS settings
	Engine string  `yaml:"engine" env:"HANSPEAK_TTS_ENGINE" envDefault:"espeak"`
	Rate   float64 `yaml:"rate" env:"HANSPEAK_TTS_RATE" envDefault:"1.0"`
	Pitch  float64 `yaml:"pitch" env:"HANSPEAK_TTS_PITCH" envDefault:"1.0"`

	Segment   SegmentConfig   `yaml:"segment"`
	Voices    VoicesConfig    `yaml:"voices"`
	Espeak    EspeakConfig    `yaml:"espeak"`
	Mock      MockConfig      `yaml:"mock"`
	Translate TranslateConfig `yaml:"translate"`
	Cache     CacheConfig     `yaml:"cache"`
}

// SegmentConfig controls how input text becomes segments.
type SegmentConfig struct {
	// Policy is "language" (split on script changes only) or "sentence"
	// (additionally close a segment after every sentence terminator).
	Policy    string `yaml:"policy" env:"HANSPEAK_TTS_SEGMENT_POLICY" envDefault:"language"`
	Markdown  bool   `yaml:"markdown" env:"HANSPEAK_TTS_SEGMENT_MARKDOWN" envDefault:"false"`
	CodeBlock bool   `yaml:"code_blocks" env:"HANSPEAK_TTS_SEGMENT_CODE_BLOCKS" envDefault:"false"`
	Normalize bool   `yaml:"normalize" env:"HANSPEAK_TTS_SEGMENT_NORMALIZE" envDefault:"true"`
}

// VoicePreference names the voice wanted for one language.
type VoicePreference struct {
	Name   string `yaml:"name" env:"NAME"`
	Locale string `yaml:"locale" env:"LOCALE"`
}

// VoicesConfig holds the voice preference for each segment language.
type VoicesConfig struct {
	Korean VoicePreference `yaml:"korean" envPrefix:"HANSPEAK_TTS_VOICES_KOREAN_"`
	Latin  VoicePreference `yaml:"latin" envPrefix:"HANSPEAK_TTS_VOICES_LATIN_"`
}

// EspeakConfig contains espeak-ng engine settings.
type EspeakConfig struct {
	Binary         string `yaml:"binary" env:"HANSPEAK_TTS_ESPEAK_BINARY" envDefault:"espeak-ng"`
	WordsPerMinute int    `yaml:"words_per_minute" env:"HANSPEAK_TTS_ESPEAK_WORDS_PER_MINUTE" envDefault:"175"`
}

// MockConfig contains mock engine settings for testing.
type MockConfig struct {
	Delay time.Duration `yaml:"delay" env:"HANSPEAK_TTS_MOCK_DELAY" envDefault:"300ms"`
}

// TranslateConfig contains settings for the optional translation step.
type TranslateConfig struct {
	Enabled           bool          `yaml:"enabled" env:"HANSPEAK_TTS_TRANSLATE_ENABLED" envDefault:"false"`
	Endpoint          string        `yaml:"endpoint" env:"HANSPEAK_TTS_TRANSLATE_ENDPOINT" envDefault:"http://localhost:5000/translate"`
	Source            string        `yaml:"source" env:"HANSPEAK_TTS_TRANSLATE_SOURCE" envDefault:"auto"`
	Target            string        `yaml:"target" env:"HANSPEAK_TTS_TRANSLATE_TARGET" envDefault:"en"`
	APIKey            string        `yaml:"api_key" env:"HANSPEAK_TTS_TRANSLATE_API_KEY"`
	Timeout           time.Duration `yaml:"timeout" env:"HANSPEAK_TTS_TRANSLATE_TIMEOUT" envDefault:"10s"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"HANSPEAK_TTS_TRANSLATE_REQUESTS_PER_MINUTE" envDefault:"30"`
}

// CacheConfig contains translation cache settings.
type CacheConfig struct {
	Dir              string `yaml:"dir" env:"HANSPEAK_TTS_CACHE_DIR"`
	MemoryBytes      int64  `yaml:"memory_bytes" env:"HANSPEAK_TTS_CACHE_MEMORY_BYTES" envDefault:"1048576"`
	DiskBytes        int64  `yaml:"disk_bytes" env:"HANSPEAK_TTS_CACHE_DISK_BYTES" envDefault:"16777216"`
	CompressionLevel int    `yaml:"compression_level" env:"HANSPEAK_TTS_CACHE_COMPRESSION_LEVEL" envDefault:"3"`
}

// DefaultConfig returns a Config with defaults applied and environment
// overrides read.
func DefaultConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.Voices.Korean = withDefaultPreference(cfg.Voices.Korean, VoicePreference{Locale: "ko-KR"})
	cfg.Voices.Latin = withDefaultPreference(cfg.Voices.Latin, VoicePreference{Locale: "en-US"})
	return cfg, nil
}

func withDefaultPreference(p, def VoicePreference) VoicePreference {
	if p.Locale == "" {
		p.Locale = def.Locale
	}
	if p.Name == "" {
		p.Name = def.Name
	}
	return p
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validEngines := []string{"mock", "espeak"}
	engineValid := false
	for _, e := range validEngines {
		if strings.EqualFold(c.Engine, e) {
			engineValid = true
			c.Engine = strings.ToLower(c.Engine)
			break
		}
	}
	if !engineValid {
		return fmt.Errorf("%w: engine %q must be one of %v", ErrInvalidConfig, c.Engine, validEngines)
	}

	if c.Rate < 0.5 || c.Rate > 2.0 {
		return fmt.Errorf("%w: rate must be between 0.5 and 2.0, got %.2f", ErrInvalidConfig, c.Rate)
	}

	if c.Pitch < 0 || c.Pitch > 2.0 {
		return fmt.Errorf("%w: pitch must be between 0 and 2.0, got %.2f", ErrInvalidConfig, c.Pitch)
	}

	switch strings.ToLower(c.Segment.Policy) {
	case "language", "sentence":
		c.Segment.Policy = strings.ToLower(c.Segment.Policy)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, c.Segment.Policy)
	}

	if c.Espeak.WordsPerMinute < 80 || c.Espeak.WordsPerMinute > 450 {
		return fmt.Errorf("%w: espeak words_per_minute must be between 80 and 450, got %d", ErrInvalidConfig, c.Espeak.WordsPerMinute)
	}

	if c.Translate.Enabled {
		if c.Translate.Endpoint == "" {
			return fmt.Errorf("%w: translate endpoint cannot be empty", ErrInvalidConfig)
		}
		if c.Translate.RequestsPerMinute < 1 {
			return fmt.Errorf("%w: translate requests_per_minute must be positive, got %d", ErrInvalidConfig, c.Translate.RequestsPerMinute)
		}
		if c.Translate.Timeout < time.Second {
			return fmt.Errorf("%w: translate timeout must be at least 1 second, got %v", ErrInvalidConfig, c.Translate.Timeout)
		}
	}

	if c.Cache.MemoryBytes < 0 || c.Cache.DiskBytes < 0 {
		return fmt.Errorf("%w: cache sizes cannot be negative", ErrInvalidConfig)
	}
	if c.Cache.CompressionLevel < 0 || c.Cache.CompressionLevel > 22 {
		return fmt.Errorf("%w: cache compression_level must be between 0 and 22, got %d", ErrInvalidConfig, c.Cache.CompressionLevel)
	}

	if c.Cache.Dir != "" {
		dir, err := homedir.Expand(c.Cache.Dir)
		if err != nil {
			return fmt.Errorf("%w: cache dir: %v", ErrInvalidConfig, err)
		}
		c.Cache.Dir = dir
	}
	if bin, err := homedir.Expand(c.Espeak.Binary); err == nil {
		c.Espeak.Binary = bin
	}

	return nil
}
