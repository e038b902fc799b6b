// Package player is the terminal Lesson Script player. It drives a
// playback.Machine: TEACH and WAIT events advance on a timer, INTERACT
// events wait for the learner to answer.
package player

import (
	"context"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonscript/internal/playback"
	"github.com/abhisek/lessonscript/internal/screen"
	"github.com/abhisek/lessonscript/internal/script"
	"github.com/abhisek/lessonscript/internal/ui/components"
	"github.com/abhisek/lessonscript/internal/ui/layout"
)

// PlayerScreen implements screen.Screen for one playback session.
type PlayerScreen struct {
	machine  *playback.Machine
	cfg      playback.Config
	observe  func(playback.Transition)
	appender playback.Appender
	autoplay bool

	seq    int
	steps  int
	total  int
	choice components.MultiChoice
	mcqID  string
	errMsg string
}

var _ screen.Screen = (*PlayerScreen)(nil)
var _ screen.KeyHintProvider = (*PlayerScreen)(nil)
var _ screen.StatusProvider = (*PlayerScreen)(nil)

// Option configures a PlayerScreen.
type Option func(*PlayerScreen)

// WithConfig sets playback timing.
func WithConfig(cfg playback.Config) Option {
	return func(p *PlayerScreen) { p.cfg = cfg }
}

// WithObserver is called after every transition.
func WithObserver(fn func(playback.Transition)) Option {
	return func(p *PlayerScreen) { p.observe = fn }
}

// WithRecorder stores every transition through app under a fresh playback
// session id.
func WithRecorder(app playback.Appender) Option {
	return func(p *PlayerScreen) { p.appender = app }
}

// WithAutoplay turns timed advancing of TEACH and WAIT events on or off.
// It is on by default.
func WithAutoplay(on bool) Option {
	return func(p *PlayerScreen) { p.autoplay = on }
}

// New creates a player positioned at the script's start event.
func New(sc *script.Script, opts ...Option) (*PlayerScreen, error) {
	m, err := playback.New(sc)
	if err != nil {
		return nil, err
	}
	p := &PlayerScreen{
		machine:  m,
		cfg:      playback.DefaultConfig(),
		autoplay: true,
		total:    pathLength(sc),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.appender != nil {
		rec := playback.Recorder(context.Background(), p.appender, playback.NewSessionID(), sc.Title, nil)
		if obs := p.observe; obs != nil {
			p.observe = func(tr playback.Transition) {
				rec(tr)
				obs(tr)
			}
		} else {
			p.observe = rec
		}
	}
	p.refresh()
	return p, nil
}

// pathLength is the number of events a learner sees on the default path.
func pathLength(sc *script.Script) int {
	path, err := script.DefaultPath(sc)
	if err != nil {
		return len(sc.Events)
	}
	n := 0
	for _, id := range path {
		if ev, ok := sc.Events[id]; ok && ev.Type() != script.TypeChoice {
			n++
		}
	}
	return n
}

func (p *PlayerScreen) Init() tea.Cmd {
	return p.schedule()
}

func (p *PlayerScreen) Title() string {
	return p.machine.Script().Title
}

// Status reports progress along the default path.
func (p *PlayerScreen) Status() string {
	if p.machine.Done() {
		return "Finished"
	}
	return strconv.Itoa(min(p.steps+1, p.total)) + "/" + strconv.Itoa(p.total)
}

func (p *PlayerScreen) KeyHints() []layout.KeyHint {
	switch p.machine.Phase() {
	case playback.PhaseAwaiting:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Space", Description: "Select"},
			{Key: "Enter", Description: "Submit"},
			{Key: "R", Description: "Restart"},
		}
	case playback.PhaseFinished:
		return []layout.KeyHint{
			{Key: "R", Description: "Play again"},
			{Key: "Q", Description: "Quit"},
		}
	}
	pause := "Pause"
	if !p.autoplay {
		pause = "Resume"
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next"},
		{Key: "P", Description: pause},
		{Key: "R", Description: "Restart"},
	}
}

func (p *PlayerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case advanceMsg:
		if msg.seq != p.seq || p.machine.Phase() != playback.PhasePresenting {
			return p, nil
		}
		return p, p.apply(p.machine.Complete())

	case tea.KeyPressMsg:
		return p, p.handleKey(msg)
	}
	return p, nil
}

func (p *PlayerScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "r" {
		return p.apply(p.machine.Restart())
	}

	switch p.machine.Phase() {
	case playback.PhasePresenting:
		switch key {
		case "enter", "space", "right", "l":
			return p.apply(p.machine.Complete())
		case "p":
			p.autoplay = !p.autoplay
			p.seq++
			return p.schedule()
		}

	case playback.PhaseAwaiting:
		return p.handleAnswerKey(key)

	case playback.PhaseFinished:
		if key == "q" {
			return tea.Quit
		}
	}
	return nil
}

func (p *PlayerScreen) handleAnswerKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		p.choice = p.choice.Move(-1)
	case "down", "j":
		p.choice = p.choice.Move(1)
	case "space":
		p.selectKey(p.choice.CursorKey())
	case "enter":
		// A single-answer question submits the highlighted option when
		// nothing was picked explicitly.
		if p.mcqID != "" && !p.choice.Multiple && len(p.choice.Chosen) == 0 {
			p.selectKey(p.choice.CursorKey())
		}
		return p.apply(p.machine.Submit())
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(p.choice.Options) {
			p.choice.Cursor = n - 1
			p.selectKey(p.choice.CursorKey())
		}
	}
	return nil
}

func (p *PlayerScreen) selectKey(key string) {
	if p.mcqID == "" || key == "" {
		return
	}
	if err := p.machine.Select(p.mcqID, key); err != nil {
		p.errMsg = err.Error()
		return
	}
	p.errMsg = ""
	p.choice.Chosen = p.machine.Selected(p.mcqID)
}

// apply finishes a transition: it notifies the observer, resets the
// answer view and schedules the next autoplay tick.
func (p *PlayerScreen) apply(tr playback.Transition, err error) tea.Cmd {
	if err != nil {
		p.errMsg = err.Error()
		return nil
	}
	p.errMsg = ""
	if p.observe != nil {
		p.observe(tr)
	}

	p.seq++
	if tr.Trigger == playback.TriggerRestart {
		p.steps = 0
	} else {
		p.steps++
	}
	p.refresh()
	return p.schedule()
}

func (p *PlayerScreen) refresh() {
	p.mcqID = ""
	p.choice = components.MultiChoice{}
	interact, ok := p.machine.Current().(*script.Interact)
	if !ok {
		return
	}
	if mcq, ok := interact.MCQ(); ok {
		p.mcqID = mcq.ElementID
		p.choice = components.NewMultiChoice(mcq)
		p.choice.Chosen = p.machine.Selected(mcq.ElementID)
	}
}

// schedule returns the autoplay tick for the presenting event, if any.
func (p *PlayerScreen) schedule() tea.Cmd {
	if !p.autoplay || p.machine.Phase() != playback.PhasePresenting {
		return nil
	}
	seq := p.seq
	return tea.Tick(playback.Duration(p.machine.Current(), p.cfg), func(time.Time) tea.Msg {
		return advanceMsg{seq: seq}
	})
}
