package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider is the core abstraction for LLM interaction.
type Provider interface {
	// Generate sends a prompt to the LLM. When the request carries a
	// Schema the response Content is JSON validated against it; otherwise
	// Content is the reply text encoded as a JSON string.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name identifies the backing service, e.g. "gemini".
	Name() string

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation history. Lesson generation sends a
	// single user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	Schema *Schema

	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema, e.g. "lesson-answer". Used as the
	// schema name for OpenAI and as the cache key for validation.
	Name string

	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Stop reasons normalized across providers.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response holds the LLM's output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Decode unmarshals the response content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: fmt.Errorf("decode %T: %w", v, err)}
	}
	return nil
}

// Text returns the reply text of an unstructured response.
func (r *Response) Text() string {
	var s string
	if err := json.Unmarshal(r.Content, &s); err != nil {
		return string(r.Content)
	}
	return s
}

// finish turns raw provider output into a Response body, validating it
// against the request schema or wrapping plain text as a JSON string.
func finish(req Request, raw string, stop string) (json.RawMessage, error) {
	if req.Schema == nil {
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("encode text response: %w", err)
		}
		return b, nil
	}

	content := json.RawMessage(raw)
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return content, nil
}
