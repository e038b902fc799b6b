package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateResponse(t *testing.T) {
	schema := answerSchema("validate-lesson")

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", lessonJSON, false},
		{"extra fields allowed", `{"answer":"x","subtopic":"y","grade":7}`, false},
		{"missing subtopic", `{"answer":"x"}`, true},
		{"empty answer", `{"answer":"","subtopic":"y"}`, true},
		{"wrong type", `{"answer":3,"subtopic":"y"}`, true},
		{"malformed", `{"answer":`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(schema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
				if string(inv.Content) != tt.raw {
					t.Errorf("content = %s, want %s", inv.Content, tt.raw)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Fatalf("nil schema should skip validation: %v", err)
	}
}

func TestValidateResponse_CachesBySchemaName(t *testing.T) {
	schema := answerSchema("validate-cache")
	if err := validateResponse(schema, json.RawMessage(lessonJSON)); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, ok := schemaCache.Load(schema.Name); !ok {
		t.Fatal("schema not cached")
	}
	if err := validateResponse(schema, json.RawMessage(lessonJSON)); err != nil {
		t.Fatalf("cached: %v", err)
	}
}
