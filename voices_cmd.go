package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dgnsrekt/hanspeak/tts"
	"github.com/dgnsrekt/hanspeak/tts/voices"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"
)

const voiceNameWidth = 28

var voicesCmd = &cobra.Command{
	Use:     "voices",
	Short:   "List the voices of the configured engine",
	Long:    paragraph(fmt.Sprintf("\n%s the voices offered by the speech engine and mark the ones picked for Korean and Latin text.", keyword("List"))),
	Example: paragraph("hanspeak voices\nhanspeak voices --engine mock --korean-voice yuna"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := tts.LoadConfigFromViper()
		if err != nil {
			return err
		}

		engine, closeEngine, err := newEngine(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeEngine() //nolint:errcheck

		selection, err := voices.Resolve(engine, cfg.Voices.Korean, cfg.Voices.Latin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}
		return writeVoices(os.Stdout, engine.Voices(), selection)
	},
}

// writeVoices lists voices sorted by language, marking the selected ones.
func writeVoices(w io.Writer, list []tts.Voice, selection tts.VoiceSelection) error {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Language != list[j].Language {
			return list[i].Language < list[j].Language
		}
		return list[i].ID < list[j].ID
	})

	header := fmt.Sprintf("  %-*s %-10s %s", voiceNameWidth, "NAME", "LANGUAGE", "ID")
	if _, err := fmt.Fprintln(w, headerStyle.Render(header)); err != nil {
		return err
	}

	for _, v := range list {
		mark := " "
		switch v.ID {
		case selection.Korean.ID:
			mark = markStyle.Render("K")
		case selection.Latin.ID:
			mark = markStyle.Render("L")
		}
		name := truncate.StringWithTail(v.Name, voiceNameWidth, "…")
		if _, err := fmt.Fprintf(w, "%s %-*s %-10s %s\n", mark, voiceNameWidth, name, v.Language, v.ID); err != nil {
			return err
		}
	}

	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No voices found.")
		return err
	}
	return nil
}
