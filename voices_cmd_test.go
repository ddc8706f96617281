package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgnsrekt/hanspeak/tts"
)

func TestWriteVoices(t *testing.T) {
	list := []tts.Voice{
		{ID: "en-us", Name: "English (America)", Language: "en-US"},
		{ID: "ko", Name: "Korean", Language: "ko"},
		{ID: "en-gb", Name: "English with a very long descriptive voice name", Language: "en-GB"},
	}
	selection := tts.VoiceSelection{Korean: list[1], Latin: list[0]}

	var buf bytes.Buffer
	if err := writeVoices(&buf, list, selection); err != nil {
		t.Fatalf("writeVoices failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}

	// Sorted by language: en-GB, en-US, ko.
	if !strings.HasSuffix(lines[1], "en-gb") || !strings.Contains(lines[1], "…") {
		t.Errorf("first row = %q, want truncated en-gb", lines[1])
	}
	if !strings.HasPrefix(lines[2], "L") || !strings.HasSuffix(lines[2], "en-us") {
		t.Errorf("second row = %q, want latin mark", lines[2])
	}
	if !strings.HasPrefix(lines[3], "K") || !strings.HasSuffix(lines[3], "ko") {
		t.Errorf("third row = %q, want korean mark", lines[3])
	}
}

func TestWriteVoicesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeVoices(&buf, nil, tts.VoiceSelection{}); err != nil {
		t.Fatalf("writeVoices failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No voices found.") {
		t.Errorf("output = %q", buf.String())
	}
}
