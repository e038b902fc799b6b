package markup

import "testing"

func TestToMath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"square", "x² + y²", "x^2 + y^2"},
		{"cube", "a³", "a^3"},
		{"fraction", "3/4 of the pie", `\frac{3}{4} of the pie`},
		{"radical glyph", "√16 = 4", `\sqrt{16} = 4`},
		{"sqrt call", "sqrt(x+1)", `\sqrt{x+1}`},
		{
			"quadratic formula",
			"x = (-b ± sqrt(b²-4ac)) / 2a",
			`x = \frac{-b \pm \sqrt{b^2-4ac}}{2a}`,
		},
		{"already exponent", "x^2 + 5x + 6 = 0", "x^2 + 5x + 6 = 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToMath(tt.input); got != tt.want {
				t.Errorf("ToMath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToMathPassThrough(t *testing.T) {
	inputs := []string{
		"Photosynthesis is how plants make food.",
		"The mitochondria is the powerhouse of the cell",
		"",
		"a = b",
	}
	for _, in := range inputs {
		if got := ToMath(in); got != in {
			t.Errorf("ToMath(%q) = %q, want unchanged", in, got)
		}
	}
}
