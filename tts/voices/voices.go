// Package voices picks a concrete engine voice for each segment language.
package voices

import (
	"fmt"
	"strings"

	"github.com/dgnsrekt/hanspeak/tts"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/language"
)

// Static is a fixed voice list.
type Static []tts.Voice

// Voices returns a copy of the list.
func (s Static) Voices() []tts.Voice {
	out := make([]tts.Voice, len(s))
	copy(out, s)
	return out
}

// Select picks the voice that best fits pref.
//
// A voice whose name or ID equals pref.Name wins outright. Otherwise pref.Name
// is fuzzy-matched against the voices sharing pref.Locale's base language, and
// failing that the voice with the closest locale is chosen. ErrNoVoice is
// returned when no voice is even loosely related to the locale.
func Select(voices []tts.Voice, pref tts.VoicePreference) (tts.Voice, error) {
	if len(voices) == 0 {
		return tts.Voice{}, fmt.Errorf("%w: engine offers no voices", tts.ErrNoVoice)
	}

	name := strings.TrimSpace(pref.Name)
	if name != "" {
		for _, v := range voices {
			if strings.EqualFold(v.Name, name) || strings.EqualFold(v.ID, name) {
				return v, nil
			}
		}
	}

	want, hasLocale := parseTag(pref.Locale)

	if name != "" {
		candidates := voices
		if hasLocale {
			candidates = sameBase(voices, want)
		}
		if v, ok := fuzzyName(candidates, name); ok {
			return v, nil
		}
	}

	if !hasLocale {
		return tts.Voice{}, fmt.Errorf("%w: %q", tts.ErrNoVoice, pref.Name)
	}
	return closestLocale(voices, want, pref.Locale)
}

// Resolve selects a voice for each segment language from the registry.
func Resolve(registry tts.VoiceRegistry, korean, latin tts.VoicePreference) (tts.VoiceSelection, error) {
	voices := registry.Voices()

	ko, err := Select(voices, korean)
	if err != nil {
		return tts.VoiceSelection{}, fmt.Errorf("korean voice: %w", err)
	}
	en, err := Select(voices, latin)
	if err != nil {
		return tts.VoiceSelection{}, fmt.Errorf("latin voice: %w", err)
	}
	return tts.VoiceSelection{Korean: ko, Latin: en}, nil
}

func fuzzyName(voices []tts.Voice, name string) (tts.Voice, bool) {
	if len(voices) == 0 {
		return tts.Voice{}, false
	}
	names := make([]string, len(voices))
	for i, v := range voices {
		names[i] = v.Name
	}
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return tts.Voice{}, false
	}
	return voices[matches[0].Index], true
}

func closestLocale(voices []tts.Voice, want language.Tag, raw string) (tts.Voice, error) {
	var (
		tags    []language.Tag
		indexes []int
	)
	for i, v := range voices {
		if tag, ok := parseTag(v.Language); ok {
			tags = append(tags, tag)
			indexes = append(indexes, i)
		}
	}
	if len(tags) == 0 {
		return tts.Voice{}, fmt.Errorf("%w: no voice declares a language", tts.ErrNoVoice)
	}

	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		return tts.Voice{}, fmt.Errorf("%w: locale %q", tts.ErrNoVoice, raw)
	}
	return voices[indexes[idx]], nil
}

func sameBase(voices []tts.Voice, want language.Tag) []tts.Voice {
	base, _ := want.Base()
	var out []tts.Voice
	for _, v := range voices {
		tag, ok := parseTag(v.Language)
		if !ok {
			continue
		}
		if b, _ := tag.Base(); b == base {
			out = append(out, v)
		}
	}
	return out
}

// parseTag accepts both BCP-47 ("ko-KR") and POSIX-style ("ko_KR") codes.
func parseTag(s string) (language.Tag, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))
	if s == "" {
		return language.Und, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
