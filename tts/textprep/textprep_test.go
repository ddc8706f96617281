package textprep

import (
	"testing"

	"github.com/dgnsrekt/hanspeak/tts"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"composed stays", "\ud55c\uae00", "\ud55c\uae00"},
		{"conjoining jamo compose", "\u1100\u1161", "\uac00"},
		{"jamo with final", "\u1112\u1161\u11ab", "\ud55c"},
		{"crlf", "a\r\nb", "a\nb"},
		{"latin accents", "e\u0301", "\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		keepCode bool
		want     string
	}{
		{
			name: "heading and paragraph",
			in:   "# 제목\n\nHello *world*.\n",
			want: "제목\nHello world.",
		},
		{
			name: "soft line breaks join",
			in:   "첫 줄\n둘째 줄\n",
			want: "첫 줄 둘째 줄",
		},
		{
			name: "links keep text only",
			in:   "See [the docs](https://example.com) or <https://go.dev>.",
			want: "See the docs or https://go.dev.",
		},
		{
			name: "list items",
			in:   "- 하나\n- two\n",
			want: "하나\ntwo",
		},
		{
			name: "code dropped",
			in:   "Run `go test` now.\n\n```go\nfmt.Println(1)\n```\n",
			want: "Run  now.",
		},
		{
			name:     "code kept",
			in:       "Run `go test` now.\n\n```\nmake\n```\n",
			keepCode: true,
			want:     "Run go test now.\nmake",
		},
		{
			name: "html removed",
			in:   "<div>skip</div>\n\ntext <b>bold</b>\n",
			want: "text bold",
		},
		{
			name: "blockquote",
			in:   "> 인용문\n",
			want: "인용문",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkdown(tt.in, tt.keepCode); got != tt.want {
				t.Errorf("StripMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrepare(t *testing.T) {
	in := "# \u1112\u1161\u11ab\n"

	if got := Prepare(in, tts.SegmentConfig{}); got != in {
		t.Errorf("Prepare with nothing enabled changed text: %q", got)
	}
	if got := Prepare(in, tts.SegmentConfig{Markdown: true, Normalize: true}); got != "\ud55c" {
		t.Errorf("Prepare() = %q, want 한", got)
	}
}
