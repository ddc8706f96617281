// Package segment splits mixed Korean and Latin text into runs that can each
// be spoken by a single voice.
//
// Every character is classified as Korean, Latin or Neutral (digits,
// whitespace and common punctuation). The first character of a segment
// fixes its language, a leading Neutral counting as Latin. Neutral
// characters always join the open segment, so "올해는 1995년" stays one
// Korean segment while "abc123한글" splits after the digits. A Korean or
// Latin character of the other language closes the open segment and starts
// a new one. Segments whose text is only whitespace are dropped.
package segment
