package player

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonscript/internal/lessons"
	"github.com/abhisek/lessonscript/internal/retrieval"
	"github.com/abhisek/lessonscript/internal/router"
	"github.com/abhisek/lessonscript/internal/screen"
	"github.com/abhisek/lessonscript/internal/ui/layout"
	"github.com/abhisek/lessonscript/internal/ui/theme"
)

const pollInterval = 200 * time.Millisecond

// Generator produces lessons in the background. *lessons.Service
// satisfies it.
type Generator interface {
	RequestLesson(ctx context.Context, req retrieval.LessonRequest)
	ConsumeLesson() (lessons.Result, bool)
}

// LoadingScreen waits for a lesson to be generated and then replaces
// itself with a player.
type LoadingScreen struct {
	gen     Generator
	req     retrieval.LessonRequest
	opts    []Option
	spinner spinner.Model
	errMsg  string
}

var _ screen.Screen = (*LoadingScreen)(nil)
var _ screen.KeyHintProvider = (*LoadingScreen)(nil)

// NewLoading creates a screen that generates req and plays the result
// with opts.
func NewLoading(gen Generator, req retrieval.LessonRequest, opts ...Option) *LoadingScreen {
	return &LoadingScreen{
		gen:  gen,
		req:  req,
		opts: opts,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
}

func (s *LoadingScreen) Init() tea.Cmd {
	s.gen.RequestLesson(context.Background(), s.req)
	return tea.Batch(s.spinner.Tick, pollCmd())
}

func (s *LoadingScreen) Title() string {
	return "Generating lesson"
}

func (s *LoadingScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (s *LoadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg:
		res, ok := s.gen.ConsumeLesson()
		if !ok {
			return s, pollCmd()
		}
		return s, func() tea.Msg { return lessonReadyMsg{Result: res} }

	case lessonReadyMsg:
		return s.handleReady(msg.Result)

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if s.errMsg != "" && msg.String() == "r" {
			s.errMsg = ""
			s.gen.RequestLesson(context.Background(), s.req)
			return s, pollCmd()
		}
	}
	return s, nil
}

func (s *LoadingScreen) handleReady(res lessons.Result) (screen.Screen, tea.Cmd) {
	if res.Err != nil {
		s.errMsg = res.Err.Error()
		return s, nil
	}
	p, err := New(res.Script, s.opts...)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: p} }
}

func (s *LoadingScreen) View(width, height int) string {
	style := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return style.Render("\n\n" + theme.Incorrect.Render("Could not generate the lesson") +
			"\n\n" + theme.Hint.Render(s.errMsg))
	}
	topic := retrieval.TopicName(s.req.Topic)
	return style.Foreground(theme.TextDim).
		Render("\n\n" + s.spinner.View() + " Preparing a lesson on " + topic + "...")
}

func pollCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return pollMsg(t) })
}
