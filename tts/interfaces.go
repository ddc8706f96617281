package tts

import "context"

// SpeechEngine is the external text-to-speech service the controller drives.
//
// Speak enqueues every utterance at once and returns without waiting for
// playback. The engine plays utterances strictly in submission order, one at
// a time, and for each one calls OnStart followed by exactly one of OnEnd or
// OnError. Callbacks must be delivered asynchronously: an engine never
// invokes them from inside Speak, Pause, Resume or Cancel.
type SpeechEngine interface {
	VoiceRegistry

	// Speak appends utterances to the engine's queue.
	Speak(utterances []Utterance) error

	// Pause suspends the utterance currently being spoken.
	Pause() error

	// Resume continues a paused utterance.
	Resume() error

	// Cancel drops every queued and in-flight utterance. Cancelled
	// utterances receive no further callbacks.
	Cancel() error

	// IsSpeaking reports whether an utterance is in flight.
	IsSpeaking() bool

	// IsPaused reports whether the engine is paused.
	IsPaused() bool
}

// VoiceRegistry exposes the voices an engine can speak with.
type VoiceRegistry interface {
	Voices() []Voice
}

// Segmenter splits text into language-tagged segments.
type Segmenter interface {
	Segment(text string) []Segment
}

// Translator turns text into another language. Failures are never fatal to
// playback; see translate.SpeakableText.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Language tags a segment with the voice family that should speak it.
type Language int

const (
	// LanguageLatin covers English and every other non-Korean script.
	LanguageLatin Language = iota
	// LanguageKorean covers Hangul syllables and Jamo.
	LanguageKorean
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageLatin:
		return "latin"
	case LanguageKorean:
		return "korean"
	default:
		return "unknown"
	}
}

// Segment is a maximal run of text spoken with a single voice.
type Segment struct {
	Text     string   `json:"text" yaml:"text"`
	Language Language `json:"language" yaml:"language"`
}

// MarshalText lets encoders write the language by name.
func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Voice represents a voice offered by a speech engine.
type Voice struct {
	ID       string // Voice identifier passed back to the engine
	Name     string // Human-readable name
	Language string // BCP-47 language code (e.g., "ko-KR")
}

// VoiceSelection binds one voice to each segment language.
type VoiceSelection struct {
	Korean Voice
	Latin  Voice
}

// For returns the voice bound to lang.
func (v VoiceSelection) For(lang Language) Voice {
	if lang == LanguageKorean {
		return v.Korean
	}
	return v.Latin
}

// Utterance is a single speech request submitted to a SpeechEngine.
type Utterance struct {
	Text  string
	Voice Voice
	Rate  float64 // Speech rate multiplier (1.0 = normal)
	Pitch float64 // Pitch multiplier (1.0 = normal)

	OnStart func()
	OnEnd   func()
	OnError func(error)
}

// Start invokes OnStart if set.
func (u Utterance) Start() {
	if u.OnStart != nil {
		u.OnStart()
	}
}

// End invokes OnEnd if set.
func (u Utterance) End() {
	if u.OnEnd != nil {
		u.OnEnd()
	}
}

// Fail invokes OnError if set.
func (u Utterance) Fail(err error) {
	if u.OnError != nil {
		u.OnError(err)
	}
}
