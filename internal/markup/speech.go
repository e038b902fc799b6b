// Package markup converts plain lesson text into speech markup (SSML) and
// display-math markup (KaTeX).
package markup

import (
	"regexp"
	"strings"
)

// Pause markers inserted by ToSpeech.
const (
	LineBreak     = `<break time="500ms"/>`
	SentenceBreak = `<break time="200ms"/>`
	ClauseBreak   = `<break time="100ms"/>`
)

// Placeholder runes standing in for pause markers until the text is escaped.
const (
	markLine     = "\x00"
	markSentence = "\x01"
	markClause   = "\x02"
)

const (
	speakOpen  = `<speak><prosody rate='slow'>`
	speakClose = `</prosody></speak>`
)

var (
	sentenceEnd = regexp.MustCompile(`([.!?])\s+`)
	clauseEnd   = regexp.MustCompile(`([,;:])\s+`)
	anyBreak    = regexp.MustCompile(`<break time=["']\d+m?s["']/>`)
	anyTag      = regexp.MustCompile(`<[^>]+>`)

	escaper   = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

	stripMarks    = strings.NewReplacer(markLine, "", markSentence, "", markClause, "")
	marksToBreaks = strings.NewReplacer(markLine, LineBreak, markSentence, SentenceBreak, markClause, ClauseBreak)
	unescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
)

// ToSpeech converts narrative text to SSML: a 500ms pause at every line
// break, 200ms after sentence-final punctuation, 100ms after commas,
// semicolons and colons, all wrapped in a slow-rate prosody envelope.
//
// Input that is already wrapped is unwrapped first, so applying ToSpeech
// twice yields the same markup as applying it once.
func ToSpeech(text string) string {
	text = stripMarks.Replace(Unwrap(text))

	// Pauses are placed on the raw text so entity semicolons never count as
	// clause punctuation; the marks become tags after escaping.
	text = strings.ReplaceAll(text, "\n", markLine+" ")
	text = sentenceEnd.ReplaceAllString(text, "${1}"+markSentence+" ")
	text = clauseEnd.ReplaceAllString(text, "${1}"+markClause+" ")
	return Wrap(marksToBreaks.Replace(escaper.Replace(text)))
}

// Wrap places already-marked-up content in the speech envelope.
func Wrap(inner string) string {
	return speakOpen + inner + speakClose
}

// IsWrapped reports whether s carries the speech envelope.
func IsWrapped(s string) bool {
	return strings.HasPrefix(s, speakOpen) && strings.HasSuffix(s, speakClose)
}

// Unwrap reverses ToSpeech: it strips the envelope, turns line-break pauses
// back into newlines and removes the remaining pause markers. Text without
// the envelope is returned unchanged.
func Unwrap(s string) string {
	if !IsWrapped(s) {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, speakOpen), speakClose)
	inner = strings.ReplaceAll(inner, LineBreak+" ", "\n")
	inner = anyBreak.ReplaceAllString(inner, "")
	return unescaper.Replace(inner)
}

// Plain renders speech markup as readable text for display: tags are
// removed, pauses collapse to spaces and entities are unescaped.
func Plain(ssml string) string {
	s := anyBreak.ReplaceAllString(ssml, " ")
	s = anyTag.ReplaceAllString(s, "")
	s = unescaper.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
