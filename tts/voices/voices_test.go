package voices

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgnsrekt/hanspeak/tts"
)

var testVoices = Static{
	{ID: "yuna", Name: "Yuna", Language: "ko-KR"},
	{ID: "heami", Name: "Microsoft Heami", Language: "ko_KR"},
	{ID: "samantha", Name: "Samantha", Language: "en-US"},
	{ID: "daniel", Name: "Daniel", Language: "en-GB"},
	{ID: "robot", Name: "Robot", Language: ""},
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		pref    tts.VoicePreference
		wantAny []string
		wantErr error
	}{
		{
			name:    "exact name ignores locale",
			pref:    tts.VoicePreference{Name: "samantha", Locale: "ko-KR"},
			wantAny: []string{"samantha"},
		},
		{
			name:    "exact id",
			pref:    tts.VoicePreference{Name: "HEAMI"},
			wantAny: []string{"heami"},
		},
		{
			name:    "voice without language by name",
			pref:    tts.VoicePreference{Name: "robot"},
			wantAny: []string{"robot"},
		},
		{
			name:    "fuzzy name within locale",
			pref:    tts.VoicePreference{Name: "heam", Locale: "ko-KR"},
			wantAny: []string{"heami"},
		},
		{
			name:    "fuzzy name outside locale falls back to locale",
			pref:    tts.VoicePreference{Name: "dan", Locale: "ko-KR"},
			wantAny: []string{"yuna", "heami"},
		},
		{
			name:    "fuzzy name without locale",
			pref:    tts.VoicePreference{Name: "dan"},
			wantAny: []string{"daniel"},
		},
		{
			name:    "exact locale",
			pref:    tts.VoicePreference{Locale: "en-GB"},
			wantAny: []string{"daniel"},
		},
		{
			name:    "posix locale",
			pref:    tts.VoicePreference{Locale: "ko_KR"},
			wantAny: []string{"yuna", "heami"},
		},
		{
			name:    "regional fallback",
			pref:    tts.VoicePreference{Locale: "en-AU"},
			wantAny: []string{"samantha", "daniel"},
		},
		{
			name:    "unrelated locale",
			pref:    tts.VoicePreference{Locale: "ja-JP"},
			wantErr: tts.ErrNoVoice,
		},
		{
			name:    "unknown name without locale",
			pref:    tts.VoicePreference{Name: "zzz"},
			wantErr: tts.ErrNoVoice,
		},
		{
			name:    "empty preference",
			pref:    tts.VoicePreference{},
			wantErr: tts.ErrNoVoice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Select(testVoices.Voices(), tt.pref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Select() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select() unexpected error: %v", err)
			}
			for _, id := range tt.wantAny {
				if v.ID == id {
					return
				}
			}
			t.Errorf("Select() = %q, want one of %v", v.ID, tt.wantAny)
		})
	}
}

func TestSelectNoVoices(t *testing.T) {
	_, err := Select(nil, tts.VoicePreference{Locale: "ko-KR"})
	if !errors.Is(err, tts.ErrNoVoice) {
		t.Errorf("Select(nil) error = %v, want ErrNoVoice", err)
	}
}

func TestResolve(t *testing.T) {
	registry := Static{
		{ID: "mock-ko-1", Name: "Mock Yuna", Language: "ko-KR"},
		{ID: "mock-en-1", Name: "Mock Samantha", Language: "en-US"},
		{ID: "mock-en-2", Name: "Mock Daniel", Language: "en-GB"},
	}

	sel, err := Resolve(registry,
		tts.VoicePreference{Locale: "ko-KR"},
		tts.VoicePreference{Name: "daniel", Locale: "en-US"},
	)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if sel.Korean.ID != "mock-ko-1" {
		t.Errorf("Korean = %q, want mock-ko-1", sel.Korean.ID)
	}
	if sel.Latin.ID != "mock-en-2" {
		t.Errorf("Latin = %q, want mock-en-2", sel.Latin.ID)
	}

	_, err = Resolve(registry,
		tts.VoicePreference{Locale: "ko-KR"},
		tts.VoicePreference{Locale: "ja-JP"},
	)
	if !errors.Is(err, tts.ErrNoVoice) {
		t.Fatalf("Resolve error = %v, want ErrNoVoice", err)
	}
	if !strings.HasPrefix(err.Error(), "latin voice") {
		t.Errorf("Resolve error = %q, want latin voice prefix", err)
	}
}

func TestStaticVoicesCopy(t *testing.T) {
	s := Static{{ID: "a"}}
	v := s.Voices()
	v[0].ID = "changed"
	if s[0].ID != "a" {
		t.Error("Voices() should return a copy")
	}
}
