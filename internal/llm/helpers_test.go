package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// answerSchema mirrors the structured reply requested for lesson text.
func answerSchema(name string) *Schema {
	return &Schema{
		Name:        name,
		Description: "Lesson narrative",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"answer":   map[string]any{"type": "string", "minLength": 1},
				"subtopic": map[string]any{"type": "string"},
			},
			"required": []any{"answer", "subtopic"},
		},
	}
}

const lessonJSON = `{"answer":"Plants make food from light.\n\nWhat is produced?\nA) Oxygen (correct)\nB) Iron","subtopic":"photosynthesis"}`

func lessonRequest(schema *Schema) Request {
	return Request{
		System:    "You write short lessons for school students.",
		Messages:  []Message{{Role: RoleUser, Content: "Explain photosynthesis for grade 7."}},
		Schema:    schema,
		MaxTokens: 512,
	}
}

func jsonServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}
