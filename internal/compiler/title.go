package compiler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/lessonscript/internal/retrieval"
)

// Title formats "Topic Words: Subtopic words - Grade G BOARD". Topic words
// are capitalised; only the first letter of the subtopic is.
func Title(meta retrieval.Metadata) string {
	words := strings.Split(humanize(meta.Topic), " ")
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	title := strings.Join(words, " ")
	if meta.Subtopic != "" {
		title += ": " + upperFirst(humanize(meta.Subtopic))
	}
	return fmt.Sprintf("%s - Grade %d %s", title, meta.Grade, meta.Board)
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
