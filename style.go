package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/hanspeak/tts"
)

var (
	keyword   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Render
	paragraph = lipgloss.NewStyle().Width(78).Padding(0, 0, 0, 2).Render

	indexStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"})
	koreanStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#F25D94"})
	latinStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00A7AE", Dark: "#6EEFC0"})
	headerStyle = lipgloss.NewStyle().Bold(true)
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
)

// languageStyle returns the highlight used for segments of lang.
func languageStyle(lang tts.Language) lipgloss.Style {
	if lang == tts.LanguageKorean {
		return koreanStyle
	}
	return latinStyle
}

// renderSegment formats a segment as it starts playing. Line breaks inside
// the segment collapse to single spaces.
func renderSegment(index int, seg tts.Segment) string {
	text := strings.Join(strings.Fields(seg.Text), " ")
	return fmt.Sprintf("%s %s",
		indexStyle.Render(fmt.Sprintf("%3d", index+1)),
		languageStyle(seg.Language).Render(text),
	)
}
