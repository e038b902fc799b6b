package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(lessonJSON), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	ctx := context.Background()

	resp, err := mock.Generate(ctx, lessonRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != lessonJSON || resp.StopReason != StopEnd {
		t.Errorf("resp = %s / %s", resp.Content, resp.StopReason)
	}

	_, err = mock.Generate(ctx, Request{System: "second"})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Errorf("expected ErrRateLimit, got %T", err)
	}

	_, err = mock.Generate(ctx, Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Errorf("expected ErrProviderUnavailable on empty queue, got %T", err)
	}

	if mock.CallCount() != 3 {
		t.Errorf("calls = %d, want 3", mock.CallCount())
	}
	if last, ok := mock.LastCall(); !ok || last.System != "" {
		t.Errorf("last call = %+v", last)
	}
	if mock.Name() != ProviderMock || mock.ModelID() != "mock" {
		t.Errorf("identity = %s/%s", mock.Name(), mock.ModelID())
	}
}

func TestResponseDecodeAndText(t *testing.T) {
	r := &Response{Content: json.RawMessage(`"plain reply"`)}
	if r.Text() != "plain reply" {
		t.Errorf("text = %q", r.Text())
	}

	r = &Response{Content: json.RawMessage(`{"answer":1}`)}
	var out struct{ Answer string }
	var inv *ErrInvalidResponse
	if err := r.Decode(&out); !errors.As(err, &inv) {
		t.Errorf("decode err = %v, want ErrInvalidResponse", err)
	}
	if r.Text() != `{"answer":1}` {
		t.Errorf("text of object = %q", r.Text())
	}
}

func TestFinish(t *testing.T) {
	content, err := finish(Request{}, "a \"quoted\" line", StopMaxTokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(content) != `"a \"quoted\" line"` {
		t.Errorf("content = %s", content)
	}

	schema := answerSchema("finish-lesson")
	if _, err := finish(Request{Schema: schema}, lessonJSON, StopEnd); err != nil {
		t.Errorf("valid structured output: %v", err)
	}
	var maxTok *ErrMaxTokensExceeded
	if _, err := finish(Request{Schema: schema}, lessonJSON, StopMaxTokens); !errors.As(err, &maxTok) {
		t.Errorf("truncated output err = %v", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("purpose = %q, want unknown", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, PurposeChat)); p != PurposeChat {
		t.Fatalf("purpose = %q, want %q", p, PurposeChat)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderGemini {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.Gemini.Model != "gemini-flash" || cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("models = %q / %q", cfg.Gemini.Model, cfg.OpenAI.Model)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.InitialWait != time.Second || cfg.Retry.Multiplier != 2 {
		t.Errorf("retry = %+v", cfg.Retry)
	}
	if cfg.Timeout != time.Minute {
		t.Errorf("timeout = %s", cfg.Timeout)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	cfg, err := parse(map[string]string{
		"LESSONSCRIPT_LLM_PROVIDER":          "openrouter",
		"LESSONSCRIPT_OPENROUTER_API_KEY":    "sk-or",
		"LESSONSCRIPT_OPENROUTER_MODEL":      "meta-llama/llama-3-8b",
		"LESSONSCRIPT_LLM_RETRY_MAX_ATTEMPTS": "5",
		"LESSONSCRIPT_LLM_TIMEOUT":           "15s",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Provider != ProviderOpenRouter || cfg.OpenRouter.APIKey != "sk-or" {
		t.Errorf("provider = %q key = %q", cfg.Provider, cfg.OpenRouter.APIKey)
	}
	if cfg.OpenRouter.Model != "meta-llama/llama-3-8b" {
		t.Errorf("model = %q", cfg.OpenRouter.Model)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Timeout != 15*time.Second {
		t.Errorf("retry = %d timeout = %s", cfg.Retry.MaxAttempts, cfg.Timeout)
	}
	if !cfg.Configured() {
		t.Error("expected configured")
	}

	if _, err := parse(map[string]string{"LESSONSCRIPT_LLM_TIMEOUT": "soon"}); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"gemini without key", Config{Provider: ProviderGemini}, "LESSONSCRIPT_GEMINI_API_KEY"},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, ""},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, "LESSONSCRIPT_ANTHROPIC_API_KEY"},
		{"openai with key", Config{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "k"}}, ""},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, "LESSONSCRIPT_OPENROUTER_API_KEY"},
		{"mock needs no key", Config{Provider: ProviderMock}, ""},
		{"unknown provider", Config{Provider: "llama"}, "unknown LLM provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewProviderMock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != ProviderMock {
		t.Errorf("name = %q", p.Name())
	}

	if _, err := NewProvider(context.Background(), Config{Provider: ProviderOpenAI}, nil, nil); err == nil {
		t.Error("expected error for missing key")
	}
}

type blockingProvider struct{ MockProvider }

func (b *blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(&blockingProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}

	inner := NewMockProvider()
	if WithTimeout(inner, 0) != Provider(inner) {
		t.Error("zero timeout should return the provider unchanged")
	}
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  float64 // cost of 1M in + 1M out; 0 for unknown
	}{
		{"gpt-4o-mini", 0.75},
		{"claude-haiku-4-5-20251001", 6},
		{"gpt-4o-2024-08-06", 12.5},
		{"google/gemini-2.5-flash", 2.8},
		{"no-such-model", 0},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := LookupCost(tt.model)
			if tt.want == 0 {
				if c != nil {
					t.Fatalf("expected nil pricing, got %+v", *c)
				}
				return
			}
			if c == nil {
				t.Fatal("expected pricing")
			}
			if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cost = %v, want %v", got, tt.want)
			}
		})
	}
}
