package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-lite", "gemini-2.5-flash-lite"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := answerSchema("gemini-lesson").Definition
	def["properties"].(map[string]any)["method_tags"] = map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string", "enum": []any{"visual", "example", "story"}},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("type = %s, want OBJECT", schema.Type)
	}
	if len(schema.Properties) != 3 {
		t.Fatalf("properties = %d, want 3", len(schema.Properties))
	}
	if schema.Properties["answer"].Type != genai.TypeString {
		t.Errorf("answer type = %s", schema.Properties["answer"].Type)
	}
	tags := schema.Properties["method_tags"]
	if tags.Type != genai.TypeArray || tags.Items.Type != genai.TypeString {
		t.Errorf("method_tags = %s of %s", tags.Type, tags.Items.Type)
	}
	if len(tags.Items.Enum) != 3 {
		t.Errorf("enum = %v", tags.Items.Enum)
	}
	if len(schema.Required) != 2 {
		t.Errorf("required = %v", schema.Required)
	}
}

func TestGeminiProviderIdentity(t *testing.T) {
	p := &GeminiProvider{model: "gemini-2.5-flash"}
	if p.Name() != ProviderGemini || p.ModelID() != "gemini-2.5-flash" {
		t.Errorf("provider = %s/%s", p.Name(), p.ModelID())
	}
}
