package espeak

import (
	"bufio"
	"bytes"
	"strings"
	"time"

	"github.com/dgnsrekt/hanspeak/tts"
)

const voiceListTimeout = 5 * time.Second

// ParseVoices reads the table printed by espeak-ng --voices:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  ko              --/M      Korean             sit/ko
//
// The language column doubles as the voice ID since espeak-ng -v accepts it.
func ParseVoices(out []byte) []tts.Voice {
	var voices []tts.Voice
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		lang := fields[1]
		if seen[lang] {
			continue
		}
		seen[lang] = true

		voices = append(voices, tts.Voice{
			ID:       lang,
			Name:     strings.ReplaceAll(fields[3], "_", " "),
			Language: lang,
		})
	}
	return voices
}
