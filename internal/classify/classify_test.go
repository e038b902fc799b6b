package classify

import (
	"strings"
	"testing"

	"github.com/abhisek/lessonscript/internal/script"
)

func TestContainsEquation(t *testing.T) {
	tests := []struct {
		segment string
		want    bool
	}{
		{"x^2 + 5x + 6 = 0", true},
		{`The ratio \frac{1}{2} appears often.`, true},
		{"Expand (x+2) carefully.", true},
		{"We know x2=4 here.", true},
		{"Area is a² for squares", true},
		{"Is 3 < 5 always?", true},
		{"Multiply by 2x to clear it", true},
		{"Photosynthesis is how plants make food.", false},
		{"It requires sunlight, water, and carbon dioxide.", false},
		{"B) 4 (correct)", false},
		{"Plants (like ferns) grow in shade.", false},
	}

	for _, tt := range tests {
		if got := ContainsEquation(tt.segment); got != tt.want {
			t.Errorf("ContainsEquation(%q) = %v, want %v", tt.segment, got, tt.want)
		}
	}
}

func TestIsQuestion(t *testing.T) {
	tests := []struct {
		segment string
		want    bool
	}{
		{"Why is the sky blue?", true},
		{"Why is the sky blue?  \n", true},
		{"Now calculate the area.", true},
		{"Find the missing angle.", true},
		{"Solve for the unknown.", true},
		{"What is a cell", true},
		{"Let's TRY   this one together.", true},
		{"what is a cell", false},
		{"The sky is blue.", false},
	}

	for _, tt := range tests {
		if got := IsQuestion(tt.segment); got != tt.want {
			t.Errorf("IsQuestion(%q) = %v, want %v", tt.segment, got, tt.want)
		}
	}
}

func TestContainsList(t *testing.T) {
	tests := []struct {
		segment string
		want    bool
	}{
		{"1. Wash hands\n2. Dry hands", true},
		{"- apples\n- pears", true},
		{"* one\n* two", true},
		{"Step 1 is to read.", true},
		{"First, boil the water.", true},
		{"Follow these steps.", true},
		{"Follow these steps. " + strings.Repeat("More detail here. ", 10), false},
		{"A plain sentence.", false},
	}

	for _, tt := range tests {
		if got := ContainsList(tt.segment); got != tt.want {
			t.Errorf("ContainsList(%q) = %v, want %v", tt.segment, got, tt.want)
		}
	}
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		segment  string
		want     Kind
		wantName string
	}{
		{"What is x^2 when x = 3?", Equation, "equation"},
		{"What is 2+2?\nA) 3\nB) 4 (correct)\nC) 5", Question, "question"},
		{"Plants make food.", Narrative, ""},
	}

	for _, tt := range tests {
		kind, name := Run(DefaultClassifiers(), tt.segment)
		if kind != tt.want || name != tt.wantName {
			t.Errorf("Run(%q) = (%v, %q), want (%v, %q)", tt.segment, kind, name, tt.want, tt.wantName)
		}
		if got := Classify(tt.segment); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.segment, got, tt.want)
		}
	}
}

func TestDefaultClassifiersOrder(t *testing.T) {
	cs := DefaultClassifiers()
	if len(cs) != 2 {
		t.Fatalf("got %d classifiers, want 2", len(cs))
	}
	if cs[0].Name() != "equation" || cs[1].Name() != "question" {
		t.Errorf("order = [%s %s], want [equation question]", cs[0].Name(), cs[1].Name())
	}
}

func TestExtractMCQMarkedCorrect(t *testing.T) {
	mcq, ok := ExtractMCQ("What is 2+2?\nA) 3\nB) 4 (correct)\nC) 5")
	if !ok {
		t.Fatal("expected MCQ")
	}
	if mcq.Question != "What is 2+2?" {
		t.Errorf("question = %q", mcq.Question)
	}
	if got := strings.Join(mcq.Options.Keys(), ","); got != "A,B,C" {
		t.Errorf("keys = %s, want A,B,C", got)
	}
	if text, _ := mcq.Options.Get("B"); text != "4" {
		t.Errorf("option B = %q, want marker stripped", text)
	}
	if len(mcq.CorrectOptions) != 1 || mcq.CorrectOptions[0] != "B" {
		t.Errorf("correct = %v, want [B]", mcq.CorrectOptions)
	}
	if mcq.QuestionType != script.Single {
		t.Errorf("type = %s, want SINGLE", mcq.QuestionType)
	}
}

func TestExtractMCQVariants(t *testing.T) {
	tests := []struct {
		name        string
		segment     string
		wantOK      bool
		wantKeys    string
		wantCorrect string
	}{
		{
			name:        "default first option",
			segment:     "What is absorbed by plants?\na) Oxygen\nb) Carbon dioxide\nc) Nitrogen",
			wantOK:      true,
			wantKeys:    "A,B,C",
			wantCorrect: "A",
		},
		{
			name:        "check mark",
			segment:     "Find the prime. Options:\n(A) 4\n(B) 6\n(C) 7 ✓",
			wantOK:      true,
			wantKeys:    "A,B,C",
			wantCorrect: "C",
		},
		{
			name:        "last marked wins",
			segment:     "What is 10/2?\nA) 5 correct\nB. 2\nC: 20 correct",
			wantOK:      true,
			wantKeys:    "A,B,C",
			wantCorrect: "C",
		},
		{
			name:        "duplicate letters keep first",
			segment:     "What is 3+3?\nA) 6\nA) 7\nB) 8",
			wantOK:      true,
			wantKeys:    "A,B",
			wantCorrect: "A",
		},
		{name: "single option", segment: "What is 2+2?\nA) 4", wantOK: false},
		{name: "no cue", segment: "What is 2+2?\n(1) 4\n(2) 5", wantOK: false},
		{name: "not a question", segment: "Consider option A) and B) below.\nA) x\nB) y", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mcq, ok := ExtractMCQ(tt.segment)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if mcq != nil {
					t.Error("expected nil MCQ on failure")
				}
				return
			}
			if got := strings.Join(mcq.Options.Keys(), ","); got != tt.wantKeys {
				t.Errorf("keys = %s, want %s", got, tt.wantKeys)
			}
			if len(mcq.CorrectOptions) != 1 || mcq.CorrectOptions[0] != tt.wantCorrect {
				t.Errorf("correct = %v, want [%s]", mcq.CorrectOptions, tt.wantCorrect)
			}
			if len(mcq.Options) < MinOptions {
				t.Errorf("got %d options, below minimum", len(mcq.Options))
			}
		})
	}
}
