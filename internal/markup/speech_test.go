package markup

import (
	"strings"
	"testing"
)

func TestToSpeech(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "sentences",
			input: "Plants make food. They need light!",
			want:  `<speak><prosody rate='slow'>Plants make food.<break time="200ms"/> They need light!</prosody></speak>`,
		},
		{
			name:  "clauses",
			input: "sunlight, water; air: soil",
			want:  `<speak><prosody rate='slow'>sunlight,<break time="100ms"/> water;<break time="100ms"/> air:<break time="100ms"/> soil</prosody></speak>`,
		},
		{
			name:  "line breaks",
			input: "What is 2+2?\nA) 3",
			want:  `<speak><prosody rate='slow'>What is 2+2?<break time="500ms"/> A) 3</prosody></speak>`,
		},
		{
			name:  "angle brackets escaped",
			input: "x < 5",
			want:  `<speak><prosody rate='slow'>x &lt; 5</prosody></speak>`,
		},
		{
			name:  "comparison keeps no pause",
			input: "if a > b then",
			want:  `<speak><prosody rate='slow'>if a &gt; b then</prosody></speak>`,
		},
		{
			name:  "entity before clause",
			input: "salt & pepper, then stir",
			want:  `<speak><prosody rate='slow'>salt &amp; pepper,<break time="100ms"/> then stir</prosody></speak>`,
		},
		{
			name:  "empty",
			input: "",
			want:  `<speak><prosody rate='slow'></prosody></speak>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToSpeech(tt.input); got != tt.want {
				t.Errorf("ToSpeech(%q)\n got  %s\n want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestToSpeechIdempotent(t *testing.T) {
	inputs := []string{
		"Plants make food. They need light!",
		"Step one, mix.\nStep two: wait.  Then   stir.",
		"A. \nB",
		"x < 5 & y > 2.",
		"",
	}
	for _, in := range inputs {
		once := ToSpeech(in)
		twice := ToSpeech(once)
		if once != twice {
			t.Errorf("ToSpeech not idempotent for %q\n once  %s\n twice %s", in, once, twice)
		}
		if n := strings.Count(twice, "<speak>"); n != 1 {
			t.Errorf("envelope appears %d times in %s", n, twice)
		}
	}
}

func TestUnwrapRoundTrip(t *testing.T) {
	in := "First line.\nSecond, with a pause."
	got := Unwrap(ToSpeech(in))
	if got != in {
		t.Errorf("Unwrap(ToSpeech(%q)) = %q", in, got)
	}
	if Unwrap("plain") != "plain" {
		t.Error("Unwrap changed unwrapped text")
	}
}

func TestPlain(t *testing.T) {
	ssml := "<speak><prosody rate='slow'>Hello there!<break time='200ms'/> I'd like to help.</prosody></speak>"
	if got, want := Plain(ssml), "Hello there! I'd like to help."; got != want {
		t.Errorf("Plain() = %q, want %q", got, want)
	}
}
