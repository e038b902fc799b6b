// Package segment splits raw lesson text into bounded-length segments.
package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLen is the soft cap on segment length, in characters. A single
// sentence longer than MaxLen is emitted whole.
const MaxLen = 300

var (
	paragraphBreak = regexp.MustCompile(`\n\n+`)
	sentence       = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// Split breaks text into segments in source order. Paragraphs (runs of two
// or more newlines) are the primary units; blank units are dropped.
// Paragraphs longer than MaxLen are re-split at sentence boundaries and the
// sentences packed greedily into chunks of at most MaxLen characters.
func Split(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var out []string
	for _, unit := range paragraphBreak.Split(text, -1) {
		if strings.TrimSpace(unit) == "" {
			continue
		}
		if utf8.RuneCountInString(unit) <= MaxLen {
			out = append(out, strings.TrimSpace(unit))
			continue
		}
		out = append(out, pack(Sentences(unit))...)
	}
	return out
}

// Sentences splits a paragraph at terminal punctuation. Whitespace between
// sentences stays attached to the following sentence, and trailing text
// without terminal punctuation is returned as a final sentence, so joining
// the result reproduces the input.
func Sentences(paragraph string) []string {
	locs := sentence.FindAllStringIndex(paragraph, -1)
	if len(locs) == 0 {
		return []string{paragraph}
	}

	out := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		// Leading terminal punctuation that the pattern cannot start on is
		// folded into the first sentence.
		out = append(out, paragraph[prev:loc[1]])
		prev = loc[1]
	}
	if rest := paragraph[prev:]; strings.TrimSpace(rest) != "" {
		out = append(out, rest)
	} else if len(out) > 0 {
		out[len(out)-1] += rest
	}
	return out
}

func pack(sentences []string) []string {
	var (
		out     []string
		current strings.Builder
		n       int
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			out = append(out, s)
		}
		current.Reset()
		n = 0
	}

	for _, s := range sentences {
		size := utf8.RuneCountInString(s)
		if n+size > MaxLen && n > 0 {
			flush()
		}
		current.WriteString(s)
		n += size
	}
	flush()
	return out
}
