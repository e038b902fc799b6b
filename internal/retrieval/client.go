package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/lessonscript/internal/logging"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// Client is the HTTP client for the RAG service. Every failure surfaces
// as a *GenerationFailedError; the client never retries.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(log *logging.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client for the service at cfg.BaseURL.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lesson requests lesson content for a topic.
func (c *Client) Lesson(ctx context.Context, req LessonRequest) (*LessonResponse, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return c.lesson(ctx, "lesson", "/api/lesson", req)
}

// Chat asks the service a question about a topic.
func (c *Client) Chat(ctx context.Context, req LessonRequest) (*LessonResponse, error) {
	req = req.WithDefaults()
	if err := req.ValidateChat(); err != nil {
		return nil, err
	}
	return c.lesson(ctx, "chat", "/api/chat", req)
}

func (c *Client) lesson(ctx context.Context, op, path string, req LessonRequest) (*LessonResponse, error) {
	var resp LessonResponse
	if err := c.post(ctx, op, path, req, &resp); err != nil {
		return nil, err
	}
	if resp.Answer == "" && resp.Error == "" && !resp.Inappropriate() {
		return nil, &GenerationFailedError{Op: op, Detail: "response has no answer"}
	}
	return &resp, nil
}

// AdaptiveContent requests content matched to the learner's level.
func (c *Client) AdaptiveContent(ctx context.Context, req AdaptiveRequest) (*AdaptiveResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Language == "" {
		req.Language = DefaultLanguage
	}

	var resp AdaptiveResponse
	if err := c.post(ctx, "adaptive-content", "/api/adaptive-content", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LearningPath requests a learning path. The body is returned untouched.
func (c *Client) LearningPath(ctx context.Context, req PathRequest) (LearningPath, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	mastery := req.Mastery()
	req.MasteryLevel = &mastery

	var path LearningPath
	if err := c.post(ctx, "learning-path", "/api/learning-path", req, &path); err != nil {
		return nil, err
	}
	return path, nil
}

// post sends body as JSON and decodes a 2xx reply into out.
func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &GenerationFailedError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &GenerationFailedError{Op: op, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn("upstream request failed", "op", op, "error", err)
		return &GenerationFailedError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &GenerationFailedError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug("upstream response", "op", op, "status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(), "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &GenerationFailedError{Op: op, Status: resp.StatusCode, Detail: upstreamError(data)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &GenerationFailedError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// upstreamError extracts the "error" field of an error body, if any.
func upstreamError(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		return body.Error
	}
	return ""
}
