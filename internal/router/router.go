// Package router keeps the stack of screens the app shows. Only the top
// screen receives messages and is rendered.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonscript/internal/screen"
)

// Navigation messages. Screens return them from commands instead of
// holding a reference to the router.
type (
	PushScreenMsg    struct{ Screen screen.Screen }
	PopScreenMsg     struct{}
	ReplaceScreenMsg struct{ Screen screen.Screen }
)

type Router struct {
	stack []screen.Screen
}

func New(initial screen.Screen) *Router {
	return &Router{stack: []screen.Screen{initial}}
}

func (r *Router) Depth() int { return len(r.stack) }

// Active returns the top screen, or nil when the stack is empty.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Push shows s above the current screen and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop goes back one screen. The bottom screen is never removed.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
	return nil
}

// Replace swaps the top screen for s without changing the depth, as the
// loading screen does once its script arrives.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(s)
	}
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Update applies navigation messages itself and forwards everything else
// to the active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	if len(r.stack) == 0 {
		return nil
	}
	top := len(r.stack) - 1
	next, cmd := r.stack[top].Update(msg)
	r.stack[top] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if active := r.Active(); active != nil {
		return active.View(width, height)
	}
	return ""
}
