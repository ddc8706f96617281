package segment

import (
	"fmt"
	"strings"

	"github.com/dgnsrekt/hanspeak/tts"
)

// Policy selects where segment boundaries fall.
type Policy int

const (
	// PolicyLanguage splits only where the script changes. Neutral
	// characters join whichever segment is open.
	PolicyLanguage Policy = iota
	// PolicySentence also closes the open segment right after a sentence
	// terminator and detects the next segment's language afresh.
	PolicySentence
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyLanguage:
		return "language"
	case PolicySentence:
		return "sentence"
	default:
		return "unknown"
	}
}

// ParsePolicy parses a policy name as used in configuration.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "language":
		return PolicyLanguage, nil
	case "sentence":
		return PolicySentence, nil
	default:
		return PolicyLanguage, fmt.Errorf("%w: %q", tts.ErrInvalidPolicy, name)
	}
}

// Segmenter implements tts.Segmenter.
type Segmenter struct {
	Policy Policy
}

// New creates a segmenter using the given policy.
func New(policy Policy) *Segmenter {
	return &Segmenter{Policy: policy}
}

// Segment splits text in a single left-to-right pass. Segments come back in
// reading order and never consist of whitespace alone.
func (s *Segmenter) Segment(text string) []tts.Segment {
	var st scanState
	for _, r := range text {
		st.add(r, Classify(r))
		if s.Policy == PolicySentence && isTerminator(r) {
			st.flush()
		}
	}
	st.flush()
	return st.out
}

// Segment splits text using PolicyLanguage.
func Segment(text string) []tts.Segment {
	return New(PolicyLanguage).Segment(text)
}

// lang is the language of the open segment; unset until its first rune.
type lang int

const (
	langUnset lang = iota
	langLatin
	langKorean
)

func langOf(c CharClass) lang {
	if c == ClassKorean {
		return langKorean
	}
	return langLatin
}

func (l lang) language() tts.Language {
	if l == langKorean {
		return tts.LanguageKorean
	}
	return tts.LanguageLatin
}

type scanState struct {
	buf  strings.Builder
	lang lang
	out  []tts.Segment
}

func (st *scanState) add(r rune, class CharClass) {
	switch {
	case st.lang == langUnset:
		// A leading neutral opens a Latin segment.
		st.lang = langOf(class)
	case class == ClassNeutral, langOf(class) == st.lang:
	default:
		st.flush()
		st.lang = langOf(class)
	}
	st.buf.WriteRune(r)
}

// flush emits the open segment unless it is whitespace only, and resets
// the language.
func (st *scanState) flush() {
	if text := st.buf.String(); strings.TrimSpace(text) != "" {
		st.out = append(st.out, tts.Segment{Text: text, Language: st.lang.language()})
	}
	st.buf.Reset()
	st.lang = langUnset
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '\n', '\r':
		return true
	}
	return false
}
