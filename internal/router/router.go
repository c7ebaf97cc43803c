// Package router keeps the navigation stack. Screens ask for navigation
// by returning one of the command helpers; the app feeds the resulting
// messages back through Update.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
)

// PushScreenMsg opens Screen above the current one.
type PushScreenMsg struct{ Screen screen.Screen }

// PopScreenMsg closes the current screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen for Screen.
type ReplaceScreenMsg struct{ Screen screen.Screen }

// ResetScreenMsg drops the whole stack and starts over at Screen.
type ResetScreenMsg struct{ Screen screen.Screen }

func Push(s screen.Screen) tea.Cmd    { return func() tea.Msg { return PushScreenMsg{Screen: s} } }
func Pop() tea.Cmd                    { return func() tea.Msg { return PopScreenMsg{} } }
func Replace(s screen.Screen) tea.Cmd { return func() tea.Msg { return ReplaceScreenMsg{Screen: s} } }
func Reset(s screen.Screen) tea.Cmd   { return func() tea.Msg { return ResetScreenMsg{Screen: s} } }

// Router is a stack of screens. The bottom screen is never popped.
type Router struct {
	stack []screen.Screen
}

// New starts a stack at root.
func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) top() int { return len(r.stack) - 1 }

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen unless it is the root.
func (r *Router) Pop() tea.Cmd {
	if r.top() < 1 {
		return nil
	}
	leave(r.stack[r.top()])
	r.stack = r.stack[:r.top()]
	return nil
}

// Replace swaps the top screen for s.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if r.top() < 0 {
		r.stack = []screen.Screen{s}
		return s.Init()
	}
	leave(r.stack[r.top()])
	r.stack[r.top()] = s
	return s.Init()
}

// Reset leaves every screen, top first, and starts a new stack at s.
func (r *Router) Reset(s screen.Screen) tea.Cmd {
	for i := r.top(); i >= 0; i-- {
		leave(r.stack[i])
	}
	r.stack = []screen.Screen{s}
	return s.Init()
}

func leave(s screen.Screen) {
	if l, ok := s.(screen.Leaver); ok {
		l.Leave()
	}
}

// Active returns the top screen, nil on an empty stack.
func (r *Router) Active() screen.Screen {
	if r.top() < 0 {
		return nil
	}
	return r.stack[r.top()]
}

func (r *Router) Depth() int { return len(r.stack) }

// Update applies navigation messages and hands anything else to the
// top screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case ResetScreenMsg:
		return r.Reset(msg.Screen)
	}
	if r.top() < 0 {
		return nil
	}
	next, cmd := r.stack[r.top()].Update(msg)
	r.stack[r.top()] = next
	return cmd
}

// Broadcast delivers msg to every screen on the stack, bottom first.
// Screens below the top keep receiving async results this way.
func (r *Router) Broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(r.stack))
	for i, s := range r.stack {
		next, cmd := s.Update(msg)
		r.stack[i] = next
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}
