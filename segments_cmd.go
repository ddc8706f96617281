package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgnsrekt/hanspeak/tts"
	"github.com/dgnsrekt/hanspeak/tts/textprep"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var (
	segmentsOutput string
	segmentsWidth  int

	segmentsCmd = &cobra.Command{
		Use:     "segments [SOURCE]",
		Short:   "Show how text is split between voices",
		Long:    paragraph(fmt.Sprintf("\n%s the language-tagged segments hanspeak would speak, without speaking them.", keyword("Print"))),
		Example: paragraph("hanspeak segments notes.md\necho '안녕 world' | hanspeak segments -o json"),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := tts.LoadConfigFromViper()
			if err != nil {
				return err
			}
			segmenter, err := newSegmenter(cfg)
			if err != nil {
				return err
			}

			text, _, err := readInput(cmd.Context(), args)
			if err != nil {
				return err
			}
			segments := segmenter.Segment(textprep.Prepare(text, cfg.Segment))

			width := segmentsWidth
			if width == 0 {
				width = 80
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
					width = w
				}
			}
			return writeSegments(os.Stdout, segments, segmentsOutput, width)
		},
	}
)

// writeSegments renders segments as a table, JSON or YAML.
func writeSegments(w io.Writer, segments []tts.Segment, format string, width int) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeSegmentTable(w, segments, width)
	case "json":
		if segments == nil {
			segments = []tts.Segment{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(segments)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(segments); err != nil {
			return fmt.Errorf("unable to encode segments: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q: use table, json or yaml", format)
	}
}

// writeSegmentTable prints one row per segment. The text column is cut to
// fit width, measured in terminal cells so Hangul counts double.
func writeSegmentTable(w io.Writer, segments []tts.Segment, width int) error {
	const (
		indexCol = 4
		langCol  = 7
		cellsCol = 6
	)
	textCol := width - indexCol - langCol - cellsCol - 3
	if textCol < 10 {
		textCol = 10
	}

	header := fmt.Sprintf("%*s %-*s %*s %s", indexCol, "#", langCol, "LANG", cellsCol, "CELLS", "TEXT")
	if _, err := fmt.Fprintln(w, headerStyle.Render(header)); err != nil {
		return err
	}

	for i, seg := range segments {
		text := strings.NewReplacer("\n", "⏎", "\t", " ").Replace(seg.Text)
		cells := runewidth.StringWidth(seg.Text)
		text = runewidth.Truncate(text, textCol, "…")

		row := fmt.Sprintf("%*d %s %*d %s",
			indexCol, i+1,
			languageStyle(seg.Language).Render(runewidth.FillRight(seg.Language.String(), langCol)),
			cellsCol, cells,
			text,
		)
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	segmentsCmd.Flags().StringVarP(&segmentsOutput, "output", "o", "table", "output format (table, json or yaml)")
	segmentsCmd.Flags().IntVarP(&segmentsWidth, "width", "w", 0, "table width (defaults to the terminal width)")
}
