// Package server exposes the lesson service over HTTP: the RAG routes of
// the lesson player backend, script compile and validate endpoints, and a
// websocket playback session.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/lessonscript/internal/lessons"
	"github.com/abhisek/lessonscript/internal/logging"
	"github.com/abhisek/lessonscript/internal/playback"
	"github.com/abhisek/lessonscript/internal/retrieval"
	"github.com/abhisek/lessonscript/internal/script"
)

// LessonService is the part of *lessons.Service the handlers use.
type LessonService interface {
	Generate(ctx context.Context, req retrieval.LessonRequest) (*script.Script, error)
	ChatToLesson(ctx context.Context, req retrieval.LessonRequest) (*script.Script, error)
	Chat(ctx context.Context, req retrieval.LessonRequest) (*retrieval.LessonResponse, error)
	Adaptive(ctx context.Context, req retrieval.AdaptiveRequest, asScript bool) (*lessons.AdaptiveResult, error)
	LearningPath(ctx context.Context, req retrieval.PathRequest) (retrieval.LearningPath, error)
	Convert(ctx context.Context, resp retrieval.LessonResponse) *script.Script
	CompileText(ctx context.Context, in lessons.TextInput) *script.Script
}

var _ LessonService = (*lessons.Service)(nil)

// Pinger reports database health. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators of the HTTP handlers. Events and DB are
// optional.
type Deps struct {
	Lessons      LessonService
	Events       playback.Appender
	DB           Pinger
	Playback     playback.Config
	MaxBodyBytes int64
	SessionIdle  time.Duration
}

type Server struct {
	srv    *http.Server
	logger *logging.Logger
}

func New(addr string, logger *logging.Logger, deps Deps) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewHandler(logger, deps),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// NewHandler builds the routed handler with its middleware stack.
func NewHandler(logger *logging.Logger, deps Deps) http.Handler {
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = 1 << 20
	}
	if deps.SessionIdle <= 0 {
		deps.SessionIdle = 10 * time.Minute
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)

	addRoutes(r, logger, deps)
	return r
}

func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("http server listening", "addr", ln.Addr().String())

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func newStructuredLogger(logger *logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
