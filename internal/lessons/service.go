// Package lessons orchestrates lesson generation: it asks a retrieval
// Source for lesson text, applies the grade policy, compiles the text into
// a Lesson Script and records the outcome in the event log.
package lessons

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lessonscript/internal/compiler"
	"github.com/abhisek/lessonscript/internal/logging"
	"github.com/abhisek/lessonscript/internal/retrieval"
	"github.com/abhisek/lessonscript/internal/script"
	"github.com/abhisek/lessonscript/internal/store"
)

// Compile event sources besides Config.Source.
const (
	sourceChat     = "chat"
	sourceAdaptive = "adaptive"
	sourceText     = "text"
	sourceResponse = "response"
)

// Recorder persists compile events. store.EventRepo satisfies it.
type Recorder interface {
	AppendCompile(ctx context.Context, data store.CompileEventData) error
}

// Service generates lesson scripts.
type Service struct {
	source   retrieval.Source
	cfg      Config
	recorder Recorder
	log      *logging.Logger
	compile  []compiler.Option

	mu      sync.Mutex
	pending Result
	ready   bool
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder records a compile event for every generated script.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger sets the service logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCompilerOptions passes options to every compile.
func WithCompilerOptions(opts ...compiler.Option) Option {
	return func(s *Service) { s.compile = append(s.compile, opts...) }
}

// NewService creates a lesson service reading from source.
func NewService(source retrieval.Source, cfg Config, opts ...Option) *Service {
	def := DefaultConfig()
	cfg.Source = orDefault(cfg.Source, def.Source)
	cfg.DefaultChapter = orDefault(cfg.DefaultChapter, def.DefaultChapter)
	cfg.DefaultSubject = orDefault(cfg.DefaultSubject, def.DefaultSubject)

	s := &Service{source: source, cfg: cfg, log: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate fetches a lesson and compiles it. An upstream error field or a
// grade mismatch yields the explanation script rather than an error.
func (s *Service) Generate(ctx context.Context, req retrieval.LessonRequest) (*script.Script, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	resp, err := s.source.Lesson(ctx, req)
	if err != nil {
		s.recordFailure(ctx, s.cfg.Source, req, start, err)
		return nil, err
	}
	return s.convert(ctx, s.cfg.Source, req, *resp, start), nil
}

// Convert compiles an upstream response document with the grade policy
// applied, as Generate does after fetching it.
func (s *Service) Convert(ctx context.Context, resp retrieval.LessonResponse) *script.Script {
	meta := resp.Metadata()
	req := retrieval.LessonRequest{Topic: meta.Topic, Grade: meta.Grade, Board: meta.Board, Subtopic: meta.Subtopic}
	return s.convert(ctx, sourceResponse, req, resp, time.Now())
}

func (s *Service) convert(ctx context.Context, source string, req retrieval.LessonRequest, resp retrieval.LessonResponse, start time.Time) *script.Script {
	sc := compiler.Compile(resp, s.compile...)
	outcome := store.OutcomeNotAppropriate
	if resp.Error == "" && !resp.Inappropriate() {
		outcome = store.OutcomeCompiled
		sc.Chapter = orDefault(resp.Chapter, s.cfg.DefaultChapter)
		sc.Subject = orDefault(resp.Subject, s.cfg.DefaultSubject)
	}
	s.record(ctx, source, req, sc, outcome, start)
	return sc
}

// ChatToLesson answers a chat question and compiles the answer. The grade
// policy is not applied.
func (s *Service) ChatToLesson(ctx context.Context, req retrieval.LessonRequest) (*script.Script, error) {
	if err := req.ValidateChat(); err != nil {
		return nil, err
	}
	start := time.Now()

	resp, err := s.source.Chat(ctx, req)
	if err != nil {
		s.recordFailure(ctx, sourceChat, req, start, err)
		return nil, err
	}

	sc := compiler.Build(resp.Answer, resp.Metadata(), s.compile...)
	s.record(ctx, sourceChat, req, sc, store.OutcomeCompiled, start)
	return sc, nil
}

// Chat returns the raw chat answer.
func (s *Service) Chat(ctx context.Context, req retrieval.LessonRequest) (*retrieval.LessonResponse, error) {
	return s.source.Chat(ctx, req)
}

// Adaptive fetches content matched to the learner's level. When asScript
// is set the content is also compiled into a script.
func (s *Service) Adaptive(ctx context.Context, req retrieval.AdaptiveRequest, asScript bool) (*AdaptiveResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	lreq := retrieval.LessonRequest{Topic: req.Topic, Board: req.Board, Grade: req.Grade, Subtopic: req.Subtopic}

	content, err := s.source.AdaptiveContent(ctx, req)
	if err != nil {
		if asScript {
			s.recordFailure(ctx, sourceAdaptive, lreq, start, err)
		}
		return nil, err
	}

	out := &AdaptiveResult{Content: content}
	if asScript {
		out.Script = compiler.Adaptive(content.AdaptiveContent, req.Topic, req.Grade, req.Board)
		s.record(ctx, sourceAdaptive, lreq, out.Script, store.OutcomeCompiled, start)
	}
	return out, nil
}

// LearningPath returns the upstream learning path untouched.
func (s *Service) LearningPath(ctx context.Context, req retrieval.PathRequest) (retrieval.LearningPath, error) {
	return s.source.LearningPath(ctx, req)
}

// CompileText compiles raw lesson text without calling the upstream.
func (s *Service) CompileText(ctx context.Context, in TextInput) *script.Script {
	start := time.Now()
	sc := compiler.Build(in.Text, in.Meta, s.compile...)
	s.record(ctx, sourceText, retrieval.LessonRequest{
		Topic: in.Meta.Topic, Grade: in.Meta.Grade, Board: in.Meta.Board,
	}, sc, store.OutcomeCompiled, start)
	return sc
}

// CompileBatch compiles every input concurrently. Results are in input
// order.
func (s *Service) CompileBatch(ctx context.Context, inputs []TextInput) ([]*script.Script, error) {
	out := make([]*script.Script, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.BatchConcurrency, 1))
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = s.CompileText(ctx, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RequestLesson starts Generate in the background. Only one lesson is
// in-flight at a time; a new request replaces the pending result.
func (s *Service) RequestLesson(ctx context.Context, req retrieval.LessonRequest) {
	s.mu.Lock()
	s.pending, s.ready = Result{}, false
	s.mu.Unlock()

	go func() {
		sc, err := s.Generate(ctx, req)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending = Result{Script: sc, Err: err}
		s.ready = true
	}()
}

// ConsumeLesson returns the background result once it is ready, or false
// while generation is still running. The slot is cleared on consumption.
func (s *Service) ConsumeLesson() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return Result{}, false
	}
	res := s.pending
	s.pending, s.ready = Result{}, false
	return res, true
}

func (s *Service) record(ctx context.Context, source string, req retrieval.LessonRequest, sc *script.Script, outcome string, start time.Time) {
	sum := Summarize(sc)
	s.log.Info("lesson compiled", "source", source, "topic", req.Topic, "grade", req.Grade,
		"outcome", outcome, "events", sum.EventCount, "quizzes", sum.QuizCount)

	s.append(ctx, store.CompileEventData{
		Source:     source,
		Title:      sum.Title,
		Topic:      req.Topic,
		Grade:      req.Grade,
		Board:      req.Board,
		Outcome:    outcome,
		EventCount: sum.EventCount,
		QuizCount:  sum.QuizCount,
		LatencyMs:  time.Since(start).Milliseconds(),
	})
}

func (s *Service) recordFailure(ctx context.Context, source string, req retrieval.LessonRequest, start time.Time, err error) {
	outcome := store.OutcomeFailed
	if errors.Is(err, retrieval.ErrGenerationFailed) {
		outcome = store.OutcomeUpstreamError
	}
	s.log.Warn("lesson generation failed", "source", source, "topic", req.Topic, "error", err)

	s.append(ctx, store.CompileEventData{
		Source:       source,
		Topic:        req.Topic,
		Grade:        req.Grade,
		Board:        req.Board,
		Outcome:      outcome,
		LatencyMs:    time.Since(start).Milliseconds(),
		ErrorMessage: err.Error(),
	})
}

// append never fails the caller: a lost compile event is logged and
// dropped.
func (s *Service) append(ctx context.Context, data store.CompileEventData) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.AppendCompile(context.WithoutCancel(ctx), data); err != nil {
		s.log.Warn("record compile event", "error", err)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
