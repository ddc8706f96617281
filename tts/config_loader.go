package tts

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LoadConfigFromViper loads TTS configuration from Viper on top of the
// environment-derived defaults.
func LoadConfigFromViper() (Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return cfg, err
	}

	// Global TTS settings
	if viper.IsSet("tts.engine") {
		cfg.Engine = viper.GetString("tts.engine")
	}
	if viper.IsSet("tts.rate") {
		cfg.Rate = viper.GetFloat64("tts.rate")
	}
	if viper.IsSet("tts.pitch") {
		cfg.Pitch = viper.GetFloat64("tts.pitch")
	}

	// Segmentation settings
	if viper.IsSet("tts.segment.policy") {
		cfg.Segment.Policy = viper.GetString("tts.segment.policy")
	}
	if viper.IsSet("tts.segment.markdown") {
		cfg.Segment.Markdown = viper.GetBool("tts.segment.markdown")
	}
	if viper.IsSet("tts.segment.code_blocks") {
		cfg.Segment.CodeBlock = viper.GetBool("tts.segment.code_blocks")
	}
	if viper.IsSet("tts.segment.normalize") {
		cfg.Segment.Normalize = viper.GetBool("tts.segment.normalize")
	}

	cfg.Voices.Korean = loadVoicePreference("tts.voices.korean", cfg.Voices.Korean)
	cfg.Voices.Latin = loadVoicePreference("tts.voices.latin", cfg.Voices.Latin)

	// Espeak settings
	if viper.IsSet("tts.espeak.binary") {
		cfg.Espeak.Binary = viper.GetString("tts.espeak.binary")
	}
	if viper.IsSet("tts.espeak.words_per_minute") {
		cfg.Espeak.WordsPerMinute = viper.GetInt("tts.espeak.words_per_minute")
	}

	// Mock settings
	if viper.IsSet("tts.mock.delay") {
		if d, err := time.ParseDuration(viper.GetString("tts.mock.delay")); err == nil {
			cfg.Mock.Delay = d
		}
	}

	cfg.Translate = loadTranslateConfig(cfg.Translate)
	cfg.Cache = loadCacheConfig(cfg.Cache)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid TTS configuration: %w", err)
	}

	return cfg, nil
}

func loadVoicePreference(key string, cfg VoicePreference) VoicePreference {
	if viper.IsSet(key + ".name") {
		cfg.Name = viper.GetString(key + ".name")
	}
	if viper.IsSet(key + ".locale") {
		cfg.Locale = viper.GetString(key + ".locale")
	}
	return cfg
}

// loadTranslateConfig loads translation settings from Viper.
func loadTranslateConfig(cfg TranslateConfig) TranslateConfig {
	if viper.IsSet("tts.translate.enabled") {
		cfg.Enabled = viper.GetBool("tts.translate.enabled")
	}
	if viper.IsSet("tts.translate.endpoint") {
		cfg.Endpoint = viper.GetString("tts.translate.endpoint")
	}
	if viper.IsSet("tts.translate.source") {
		cfg.Source = viper.GetString("tts.translate.source")
	}
	if viper.IsSet("tts.translate.target") {
		cfg.Target = viper.GetString("tts.translate.target")
	}
	if viper.IsSet("tts.translate.api_key") {
		cfg.APIKey = viper.GetString("tts.translate.api_key")
	}
	if viper.IsSet("tts.translate.timeout") {
		if d, err := time.ParseDuration(viper.GetString("tts.translate.timeout")); err == nil {
			cfg.Timeout = d
		}
	}
	if viper.IsSet("tts.translate.requests_per_minute") {
		cfg.RequestsPerMinute = viper.GetInt("tts.translate.requests_per_minute")
	}
	return cfg
}

// loadCacheConfig loads translation cache settings from Viper.
func loadCacheConfig(cfg CacheConfig) CacheConfig {
	if viper.IsSet("tts.cache.dir") {
		cfg.Dir = viper.GetString("tts.cache.dir")
	}
	if viper.IsSet("tts.cache.memory_bytes") {
		cfg.MemoryBytes = viper.GetInt64("tts.cache.memory_bytes")
	}
	if viper.IsSet("tts.cache.disk_bytes") {
		cfg.DiskBytes = viper.GetInt64("tts.cache.disk_bytes")
	}
	if viper.IsSet("tts.cache.compression_level") {
		cfg.CompressionLevel = viper.GetInt("tts.cache.compression_level")
	}
	return cfg
}

// SetDefaults sets default values in Viper for TTS configuration.
func SetDefaults() error {
	defaults, err := DefaultConfig()
	if err != nil {
		return err
	}

	viper.SetDefault("tts.engine", defaults.Engine)
	viper.SetDefault("tts.rate", defaults.Rate)
	viper.SetDefault("tts.pitch", defaults.Pitch)

	viper.SetDefault("tts.segment.policy", defaults.Segment.Policy)
	viper.SetDefault("tts.segment.markdown", defaults.Segment.Markdown)
	viper.SetDefault("tts.segment.code_blocks", defaults.Segment.CodeBlock)
	viper.SetDefault("tts.segment.normalize", defaults.Segment.Normalize)

	viper.SetDefault("tts.voices.korean.locale", defaults.Voices.Korean.Locale)
	viper.SetDefault("tts.voices.latin.locale", defaults.Voices.Latin.Locale)

	viper.SetDefault("tts.espeak.binary", defaults.Espeak.Binary)
	viper.SetDefault("tts.espeak.words_per_minute", defaults.Espeak.WordsPerMinute)

	viper.SetDefault("tts.mock.delay", defaults.Mock.Delay.String())

	viper.SetDefault("tts.translate.enabled", defaults.Translate.Enabled)
	viper.SetDefault("tts.translate.endpoint", defaults.Translate.Endpoint)
	viper.SetDefault("tts.translate.source", defaults.Translate.Source)
	viper.SetDefault("tts.translate.target", defaults.Translate.Target)
	viper.SetDefault("tts.translate.timeout", defaults.Translate.Timeout.String())
	viper.SetDefault("tts.translate.requests_per_minute", defaults.Translate.RequestsPerMinute)

	viper.SetDefault("tts.cache.memory_bytes", defaults.Cache.MemoryBytes)
	viper.SetDefault("tts.cache.disk_bytes", defaults.Cache.DiskBytes)
	viper.SetDefault("tts.cache.compression_level", defaults.Cache.CompressionLevel)

	return nil
}
