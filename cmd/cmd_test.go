package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/lessonscript/internal/script"
)

const lessonText = "Plants make food from sunlight.\n\nWhat is needed by plants?\nA) Sunlight (correct)\nB) Sand\nC) Salt"

// run executes the command tree with args against a fresh database.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(append(args, "--db", filepath.Join(t.TempDir(), "test.db")))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestCompileThenValidate(t *testing.T) {
	out, err := run(t, lessonText, "compile", "--topic", "plant_life", "--grade", "5", "--seed-ids")
	if err != nil {
		t.Fatalf("compile: %v\n%s", err, out)
	}

	sc, err := script.Parse([]byte(out))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if sc.Title != "Plant Life - Grade 5 CBSE" {
		t.Errorf("title = %q", sc.Title)
	}
	if err := script.Validate(sc); err != nil {
		t.Fatalf("compiled script invalid: %v", err)
	}

	path := filepath.Join(t.TempDir(), "lesson.json")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		t.Fatal(err)
	}
	report, err := run(t, "", "validate", path)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, report)
	}
	for _, want := range []string{"Plant Life", "interact 1", "intro -> ", "OK"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestValidateRejectsDanglingPointer(t *testing.T) {
	doc := `{"title":"Broken","startEvent":"a","lessonEvents":{"a":{"type":"TEACH","next":"missing",` +
		`"avatar":{"gesture":"EXPLAIN"},"speech":{"content":"hi"},"whiteboard":{"elements":[]}}}}`
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "validate", path)
	if err == nil {
		t.Fatalf("expected validation error, got:\n%s", out)
	}
	if !strings.Contains(out, "missing") {
		t.Errorf("report does not name the dangling pointer:\n%s", out)
	}
}

func TestFormatSelected(t *testing.T) {
	got := formatSelected(map[string][]string{"mcq_b": {"A", "C"}, "mcq_a": {"B"}})
	if got != "mcq_a=B mcq_b=A,C" {
		t.Errorf("formatSelected = %q", got)
	}
	if formatSelected(nil) != "" {
		t.Error("nil selection should format empty")
	}
}
