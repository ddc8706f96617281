package segment

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// CharClass is the speech class of a single character.
type CharClass int

const (
	// ClassLatin is the default class for anything that is not Korean or
	// Neutral.
	ClassLatin CharClass = iota
	// ClassKorean covers Hangul syllables, Jamo and compatibility Jamo.
	ClassKorean
	// ClassNeutral covers digits, whitespace and common punctuation. Neutral
	// characters never force a language switch.
	ClassNeutral
)

// String returns the string representation of the class.
func (c CharClass) String() string {
	switch c {
	case ClassLatin:
		return "latin"
	case ClassKorean:
		return "korean"
	case ClassNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// Hangul is the set of code points spoken with the Korean voice.
var Hangul = rangetable.Merge(
	// Hangul Jamo
	&unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x1100, Hi: 0x11ff, Stride: 1}}},
	// Hangul Compatibility Jamo
	&unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x3130, Hi: 0x318f, Stride: 1}}},
	// Hangul Syllables
	&unicode.RangeTable{R16: []unicode.Range16{{Lo: 0xac00, Hi: 0xd7a3, Stride: 1}}},
)

// neutralPunct is the fixed punctuation and symbol set treated as neutral.
const neutralPunct = ".,!?;:'\"()[]{}-_/\\@#$%^&*+=<>|~`…·“”‘’"

var neutralSet = func() map[rune]struct{} {
	m := make(map[rune]struct{}, len(neutralPunct))
	for _, r := range neutralPunct {
		m[r] = struct{}{}
	}
	return m
}()

// Classify returns the class of r.
func Classify(r rune) CharClass {
	switch {
	case unicode.Is(Hangul, r):
		return ClassKorean
	case r >= '0' && r <= '9', unicode.IsSpace(r):
		return ClassNeutral
	}
	if _, ok := neutralSet[r]; ok {
		return ClassNeutral
	}
	return ClassLatin
}
