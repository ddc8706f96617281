// Package textprep cleans input text before it reaches the segmenter.
package textprep

import (
	"bytes"
	"strings"

	"github.com/dgnsrekt/hanspeak/tts"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"
)

var markdown = goldmark.New()

// Normalize composes text to NFC so that conjoining Jamo sequences become
// precomposed syllables, and converts CRLF line endings to LF.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return norm.NFC.String(s)
}

// StripMarkdown returns the readable text of a markdown document: one line per
// paragraph, heading or list item, with markup, URLs and HTML removed. Code
// blocks and code spans are kept only when keepCode is set.
func StripMarkdown(src string, keepCode bool) string {
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := n.(type) {
		case *ast.Text:
			if !entering {
				break
			}
			buf.Write(n.Segment.Value(source))
			switch {
			case n.HardLineBreak():
				buf.WriteByte('\n')
			case n.SoftLineBreak():
				buf.WriteByte(' ')
			}

		case *ast.String:
			if entering {
				buf.Write(n.Value)
			}

		case *ast.CodeSpan:
			if !keepCode {
				return ast.WalkSkipChildren, nil
			}

		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering && keepCode {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.Write(seg.Value(source))
				}
				buf.WriteByte('\n')
			}
			return ast.WalkSkipChildren, nil

		case *ast.AutoLink:
			if entering {
				buf.Write(n.Label(source))
			}

		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			if !entering {
				buf.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})

	return tidy(buf.String())
}

// Prepare applies the configured preparation steps in order.
func Prepare(s string, cfg tts.SegmentConfig) string {
	if cfg.Markdown {
		s = StripMarkdown(s, cfg.CodeBlock)
	}
	if cfg.Normalize {
		s = Normalize(s)
	}
	return s
}

// tidy trims each line and drops empty ones.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
