package segment

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "two paragraphs",
			input: "Photosynthesis is how plants make food.\n\nIt requires sunlight, water, and carbon dioxide.",
			want: []string{
				"Photosynthesis is how plants make food.",
				"It requires sunlight, water, and carbon dioxide.",
			},
		},
		{
			name:  "blank units dropped",
			input: "\n\nFirst.\n\n   \n\n\n\nSecond.\n\n",
			want:  []string{"First.", "Second."},
		},
		{
			name:  "single newline kept inside segment",
			input: "What is 2+2?\nA) 3\nB) 4",
			want:  []string{"What is 2+2?\nA) 3\nB) 4"},
		},
		{
			name:  "crlf normalized",
			input: "One.\r\n\r\nTwo.",
			want:  []string{"One.", "Two."},
		},
		{
			name:  "empty",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Split() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitLongParagraphPacksSentences(t *testing.T) {
	s := "This sentence is exactly filler text for packing. "
	para := strings.Repeat(s, 10)

	got := Split(para)
	if len(got) < 2 {
		t.Fatalf("expected long paragraph to be re-split, got %d segments", len(got))
	}
	for i, seg := range got {
		if n := utf8.RuneCountInString(seg); n > MaxLen {
			t.Errorf("segment %d has %d chars, cap is %d", i, n, MaxLen)
		}
		if !strings.HasSuffix(seg, ".") {
			t.Errorf("segment %d = %q does not end on a sentence boundary", i, seg)
		}
	}
}

func TestSplitKeepsOversizedSentenceWhole(t *testing.T) {
	long := strings.Repeat("word ", 80) + "end."
	para := "Short opener. " + long + " Short closer."

	got := Split(para)
	want := []string{"Short opener.", strings.TrimSpace(long), "Short closer."}
	if len(got) != len(want) {
		t.Fatalf("Split() returned %d segments, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitPreservesOrderAndText(t *testing.T) {
	var b strings.Builder
	for i := range 30 {
		b.WriteString("Sentence number ")
		b.WriteString(strings.Repeat("x", i))
		b.WriteString(" closes here! ")
	}
	b.WriteString("trailing words without punctuation")
	para := b.String()

	got := Split(para)
	joined := strings.Join(got, " ")
	if strings.Join(strings.Fields(joined), " ") != strings.Join(strings.Fields(para), " ") {
		t.Errorf("joined segments do not reproduce the paragraph")
	}
	if !strings.HasSuffix(got[len(got)-1], "trailing words without punctuation") {
		t.Errorf("last segment = %q, want trailing text kept", got[len(got)-1])
	}
}

func TestSentences(t *testing.T) {
	got := Sentences("One. Two? Three! tail")
	want := []string{"One.", " Two?", " Three!", " tail"}
	if len(got) != len(want) {
		t.Fatalf("Sentences() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
	if strings.Join(got, "") != "One. Two? Three! tail" {
		t.Error("sentences do not join back to the input")
	}
}
