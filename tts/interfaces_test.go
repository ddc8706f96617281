package tts_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dgnsrekt/hanspeak/tts"
	"github.com/dgnsrekt/hanspeak/tts/engines/mock"
	"github.com/dgnsrekt/hanspeak/tts/segment"
)

// Compile-time interface checks.
var (
	_ tts.SpeechEngine  = (*mock.Engine)(nil)
	_ tts.VoiceRegistry = (*mock.Engine)(nil)
	_ tts.Segmenter     = (*segment.Segmenter)(nil)
)

// TestLanguageString tests language names.
func TestLanguageString(t *testing.T) {
	tests := []struct {
		lang tts.Language
		want string
	}{
		{tts.LanguageLatin, "latin"},
		{tts.LanguageKorean, "korean"},
		{tts.Language(7), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.lang.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestSegmentJSON tests that segments encode their language by name.
func TestSegmentJSON(t *testing.T) {
	data, err := json.Marshal(tts.Segment{Text: "안녕", Language: tts.LanguageKorean})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got, want := string(data), `{"text":"안녕","language":"korean"}`; got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}
}

// TestVoiceSelectionFor tests voice lookup by language.
func TestVoiceSelectionFor(t *testing.T) {
	sel := tts.VoiceSelection{
		Korean: tts.Voice{ID: "ko"},
		Latin:  tts.Voice{ID: "en"},
	}

	if got := sel.For(tts.LanguageKorean).ID; got != "ko" {
		t.Errorf("For(korean) = %q, want ko", got)
	}
	if got := sel.For(tts.LanguageLatin).ID; got != "en" {
		t.Errorf("For(latin) = %q, want en", got)
	}
}

// TestUtteranceCallbacks tests that utterance helpers tolerate nil callbacks.
func TestUtteranceCallbacks(t *testing.T) {
	var empty tts.Utterance
	empty.Start()
	empty.End()
	empty.Fail(errors.New("ignored"))

	var events []string
	u := tts.Utterance{
		OnStart: func() { events = append(events, "start") },
		OnEnd:   func() { events = append(events, "end") },
		OnError: func(err error) { events = append(events, "error:"+err.Error()) },
	}
	u.Start()
	u.End()
	u.Fail(errors.New("boom"))

	want := []string{"start", "end", "error:boom"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
}
