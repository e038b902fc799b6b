package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lessonscript/internal/compiler"
	"github.com/abhisek/lessonscript/internal/ids"
	"github.com/abhisek/lessonscript/internal/lessons"
	"github.com/abhisek/lessonscript/internal/logging"
	"github.com/abhisek/lessonscript/internal/playback"
	"github.com/abhisek/lessonscript/internal/retrieval"
	"github.com/abhisek/lessonscript/internal/script"
	"github.com/abhisek/lessonscript/internal/store"
)

const quizText = "Plants are green.\n\nWhat is 2+2?\nA) 3\nB) 4 (correct)\nC) 5"

// stubSource answers every call with the configured values.
type stubSource struct {
	lesson   *retrieval.LessonResponse
	adaptive *retrieval.AdaptiveResponse
	path     retrieval.LearningPath
	err      error

	mu       sync.Mutex
	lastPath retrieval.PathRequest
}

func (s *stubSource) Lesson(_ context.Context, req retrieval.LessonRequest) (*retrieval.LessonResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.lesson, s.err
}

func (s *stubSource) Chat(_ context.Context, req retrieval.LessonRequest) (*retrieval.LessonResponse, error) {
	if err := req.ValidateChat(); err != nil {
		return nil, err
	}
	return s.lesson, s.err
}

func (s *stubSource) AdaptiveContent(_ context.Context, _ retrieval.AdaptiveRequest) (*retrieval.AdaptiveResponse, error) {
	return s.adaptive, s.err
}

func (s *stubSource) LearningPath(_ context.Context, req retrieval.PathRequest) (retrieval.LearningPath, error) {
	s.mu.Lock()
	s.lastPath = req
	s.mu.Unlock()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.path, s.err
}

// memEvents collects playback events.
type memEvents struct {
	mu     sync.Mutex
	events []store.PlaybackEventData
}

func (m *memEvents) AppendPlayback(_ context.Context, data store.PlaybackEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, data)
	return nil
}

func (m *memEvents) snapshot() []store.PlaybackEventData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.PlaybackEventData(nil), m.events...)
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("disk I/O error") }

func newTestServer(t *testing.T, src retrieval.Source, deps Deps) *httptest.Server {
	t.Helper()
	deps.Lessons = lessons.NewService(src, lessons.DefaultConfig(),
		lessons.WithCompilerOptions(compiler.WithIDGenerator(ids.NewSequence())))
	srv := httptest.NewServer(NewHandler(logging.Nop(), deps))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubSource{}, Deps{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	bad := newTestServer(t, &stubSource{}, Deps{DB: failingPinger{}})
	resp, err = http.Get(bad.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var checks map[string]map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&checks))
	assert.Equal(t, "error", checks["sqlite"]["status"])
}

func TestGenerateLesson(t *testing.T) {
	src := &stubSource{lesson: &retrieval.LessonResponse{
		Answer:        quizText,
		Topic:         "counting",
		FilterApplied: retrieval.FilterApplied{Grade: 3, Board: "CBSE"},
		Subject:       "Mathematics",
	}}
	srv := newTestServer(t, src, Deps{})

	resp, body := postJSON(t, srv.URL+"/api/rag/generate-lesson",
		map[string]any{"topic": "counting", "grade": 3, "board": "CBSE"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Counting - Grade 3 CBSE", body["title"])
	assert.Equal(t, "intro", body["startEvent"])
	assert.Equal(t, "General Knowledge", body["chapter"])
	assert.Equal(t, "Mathematics", body["subject"])

	events, ok := body["lessonEvents"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, events, 6)
	assert.Equal(t, "INTERACT", events["content2"].(map[string]any)["type"])
}

func TestGenerateLessonErrors(t *testing.T) {
	tests := []struct {
		name       string
		src        *stubSource
		body       any
		wantStatus int
		wantError  string
		wantDetail string
	}{
		{
			name:       "missing fields",
			src:        &stubSource{},
			body:       map[string]any{"topic": "counting"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing required fields: board, grade",
		},
		{
			name:       "upstream failure",
			src:        &stubSource{err: &retrieval.GenerationFailedError{Op: "lesson", Status: 500, Detail: "index down"}},
			body:       map[string]any{"topic": "counting", "grade": 3, "board": "CBSE"},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to generate lesson",
			wantDetail: "index down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.src, Deps{})
			resp, body := postJSON(t, srv.URL+"/api/rag/generate-lesson", tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantError, body["error"])
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["details"])
			}
		})
	}
}

func TestGenerateLessonBadJSON(t *testing.T) {
	srv := newTestServer(t, &stubSource{}, Deps{})
	resp, err := http.Post(srv.URL+"/api/rag/generate-lesson", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateLessonNotAppropriate(t *testing.T) {
	notAppropriate := false
	src := &stubSource{lesson: &retrieval.LessonResponse{
		Answer:           "This topic comes later.",
		GradeAppropriate: &notAppropriate,
		CurrentGrade:     5,
	}}
	srv := newTestServer(t, src, Deps{})

	resp, body := postJSON(t, srv.URL+"/api/rag/generate-lesson",
		map[string]any{"topic": "quadratic_equations", "grade": 5, "board": "CBSE"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "About Grade 5 Topics", body["title"])
	assert.NotContains(t, body, "chapter")
}

func TestLearningPath(t *testing.T) {
	src := &stubSource{path: retrieval.LearningPath(`{"path":["basics","roots"]}`)}
	srv := newTestServer(t, src, Deps{})

	resp, body := postJSON(t, srv.URL+"/api/rag/learning-path",
		map[string]any{"topic": "quadratic_equations", "grade": 10, "board": "CBSE", "currentSubtopic": "basics"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"basics", "roots"}, body["path"])
	assert.Equal(t, "basics", src.lastPath.CurrentSubtopic)
	assert.InDelta(t, 0.5, src.lastPath.Mastery(), 1e-9)

	resp, body = postJSON(t, srv.URL+"/api/rag/learning-path",
		map[string]any{"topic": "x", "grade": 10, "board": "CBSE", "masteryLevel": 2})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "mastery_level")
}

func TestAdaptiveContent(t *testing.T) {
	src := &stubSource{adaptive: &retrieval.AdaptiveResponse{AdaptiveContent: []retrieval.AdaptiveItem{
		{Text: "Roots are solutions.", ContentType: "explanation", Subtopic: "roots"},
	}}}
	srv := newTestServer(t, src, Deps{})
	req := map[string]any{"topic": "quadratic_equations", "grade": 10, "board": "CBSE"}

	resp, body := postJSON(t, srv.URL+"/api/rag/adaptive-content", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "adaptive_content")

	req["asLessonScript"] = true
	resp, body = postJSON(t, srv.URL+"/api/rag/adaptive-content", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Adaptive Content: quadratic equations - Grade 10 CBSE", body["title"])
}

func TestChatRoutes(t *testing.T) {
	src := &stubSource{lesson: &retrieval.LessonResponse{Answer: "Chlorophyll reflects green light."}}
	srv := newTestServer(t, src, Deps{})

	resp, body := postJSON(t, srv.URL+"/api/rag/chat",
		map[string]any{"topic": "photosynthesis", "grade": 7, "board": "CBSE"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields: message", body["error"])

	req := map[string]any{"message": "Why are leaves green?", "topic": "photosynthesis", "grade": 7, "board": "CBSE"}
	resp, body = postJSON(t, srv.URL+"/api/rag/chat", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Chlorophyll reflects green light.", body["answer"])

	resp, body = postJSON(t, srv.URL+"/api/rag/chat-to-lesson", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "intro", body["startEvent"])
}

func TestCompile(t *testing.T) {
	srv := newTestServer(t, &stubSource{}, Deps{})

	resp, body := postJSON(t, srv.URL+"/api/lessons/compile",
		map[string]any{"text": quizText, "topic": "counting", "grade": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Counting - Grade 3 CBSE", body["title"])

	resp, body = postJSON(t, srv.URL+"/api/lessons/compile",
		map[string]any{"response": map[string]any{"error": "no index"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["lessonEvents"], "suggestions")

	resp, _ = postJSON(t, srv.URL+"/api/lessons/compile", map[string]any{"topic": "counting"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidate(t *testing.T) {
	srv := newTestServer(t, &stubSource{}, Deps{})
	sc := compiler.Build(quizText, retrieval.Metadata{Topic: "counting", Grade: 3, Board: "CBSE"})

	resp, body := postJSON(t, srv.URL+"/api/lessons/validate", sc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["valid"])
	assert.EqualValues(t, 6, body["events"])
	assert.Equal(t, []any{"intro", "content1", "content2", "choice2", "incorrect2", "END"}, body["defaultPath"])

	sc.Events["content1"].(*script.Teach).Next = "nowhere"
	resp, body = postJSON(t, srv.URL+"/api/lessons/validate", sc)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, false, body["valid"])
	assert.NotEmpty(t, body["problems"])
}

// wsClient wraps a websocket connection to the play endpoint.
type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dialPlay(t *testing.T, srv *httptest.Server) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/lessons/play"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(msg any) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

func (c *wsClient) recv() map[string]any {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]any
	require.NoError(c.t, c.conn.ReadJSON(&msg))
	return msg
}

func TestPlaySessionManual(t *testing.T) {
	events := &memEvents{}
	srv := newTestServer(t, &stubSource{}, Deps{Events: events})
	sc := compiler.Build(quizText, retrieval.Metadata{Topic: "counting", Grade: 3, Board: "CBSE"},
		compiler.WithIDGenerator(ids.NewSequence()))
	mcq, ok := sc.Events["content2"].(*script.Interact).MCQ()
	require.True(t, ok)

	c := dialPlay(t, srv)

	c.send(map[string]any{"submit": true})
	msg := c.recv()
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "send a script first", msg["error"])

	c.send(map[string]any{"script": sc, "autoplay": false})
	msg = c.recv()
	assert.Equal(t, "state", msg["type"])
	assert.Equal(t, "start", msg["trigger"])
	assert.Equal(t, "intro", msg["eventId"])
	assert.Equal(t, "presenting", msg["phase"])
	sessionID, _ := msg["sessionId"].(string)
	assert.NotEmpty(t, sessionID)

	c.send(map[string]any{"complete": true})
	assert.Equal(t, "content1", c.recv()["eventId"])

	c.send(map[string]any{"complete": true})
	msg = c.recv()
	assert.Equal(t, "content2", msg["eventId"])
	assert.Equal(t, "awaiting", msg["phase"])

	c.send(map[string]any{"select": map[string]any{"elementId": mcq.ElementID, "key": "B"}})
	msg = c.recv()
	assert.Equal(t, "select", msg["trigger"])
	assert.Equal(t, map[string]any{mcq.ElementID: []any{"B"}}, msg["selected"])

	c.send(map[string]any{"submit": true})
	msg = c.recv()
	assert.Equal(t, "submit", msg["trigger"])
	assert.Equal(t, "correct2", msg["eventId"])

	c.send(map[string]any{"complete": true})
	msg = c.recv()
	assert.Equal(t, "END", msg["eventId"])
	assert.Equal(t, "finished", msg["phase"])
	assert.NotContains(t, msg, "event")

	c.send(map[string]any{"complete": true})
	assert.Equal(t, "error", c.recv()["type"])

	recorded := events.snapshot()
	require.Len(t, recorded, 4)
	assert.Equal(t, sessionID, recorded[0].SessionID)
	assert.Equal(t, sc.Title, recorded[0].ScriptTitle)
	assert.Equal(t, "submit", recorded[2].Trigger)
	assert.Equal(t, "choice2", recorded[2].ChoiceEvent)
	assert.Equal(t, []string{"B"}, recorded[2].Selected[mcq.ElementID])
}

func TestPlaySessionAutoplay(t *testing.T) {
	srv := newTestServer(t, &stubSource{}, Deps{Playback: playback.Config{SpeechDuration: 5 * time.Millisecond}})
	sc := compiler.Build("One.\n\nTwo.", retrieval.Metadata{Topic: "counting", Grade: 3, Board: "CBSE"})

	c := dialPlay(t, srv)
	c.send(map[string]any{"script": sc})

	var visited []any
	for {
		msg := c.recv()
		require.Equal(t, "state", msg["type"])
		visited = append(visited, msg["eventId"])
		if msg["phase"] == "finished" {
			break
		}
	}
	assert.Equal(t, []any{"intro", "content1", "content2", "END"}, visited)
}

func TestPlaySessionRejectsInvalidScript(t *testing.T) {
	srv := newTestServer(t, &stubSource{}, Deps{})
	c := dialPlay(t, srv)

	c.send(map[string]any{"script": map[string]any{"title": "x"}})
	msg := c.recv()
	assert.Equal(t, "error", msg["type"])
	assert.NotEmpty(t, msg["error"])
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "rag", cfg.LessonSource)
	assert.Equal(t, 10*time.Minute, cfg.SessionIdle)
}
