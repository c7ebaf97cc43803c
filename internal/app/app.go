// Package app is the root Bubble Tea model. It owns the navigation
// stack, applies the route guard on every session change and draws the
// shared header, toast and footer.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/resource"
	"github.com/eltonarunga/lugha-learner-kenya/internal/router"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/dashboard"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/entry"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/onboarding"
	"github.com/eltonarunga/lugha-learner-kenya/internal/session"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
)

// ToastDuration is how long a toast stays on screen.
const ToastDuration = 3 * time.Second

type initializedMsg struct{}

type toastExpiredMsg struct{ seq int }

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env     *env.Env
	router  *router.Router
	updates <-chan session.Snapshot
	stats   *resource.StatsResource

	toast    string
	toastSeq int

	width  int
	height int
}

// New creates the root model. The stack starts on a loading screen until
// the session store reports it has initialized.
func New(e *env.Env) AppModel {
	return AppModel{
		env:     e,
		router:  router.New(loadingScreen{}),
		updates: e.Session.Subscribe(),
		stats:   resource.NewStats(e.Backend, e.ResourceOptions()...),
	}
}

func (m AppModel) Init() tea.Cmd {
	s := m.env.Session
	timeout := m.env.Timeout()
	return tea.Batch(
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			s.Initialize(ctx)
			return initializedMsg{}
		},
		waitForSnapshot(m.updates),
	)
}

func waitForSnapshot(ch <-chan session.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return screen.SessionMsg{Snapshot: snap}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 && !capturesEsc(m.router.Active()) {
				return m, m.router.Pop()
			}
		}
		return m, m.router.Update(msg)

	case tea.PasteMsg, tea.MouseMsg:
		return m, m.router.Update(msg)

	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg, router.ResetScreenMsg:
		return m, m.router.Update(msg)

	case initializedMsg:
		return m, m.guard(m.env.Session.Snapshot())

	case screen.SessionMsg:
		uid := msg.Snapshot.UserID()
		cmds := []tea.Cmd{
			m.stats.Request(uid, uid != ""),
			m.router.Broadcast(msg),
			m.guard(msg.Snapshot),
			waitForSnapshot(m.updates),
		}
		return m, tea.Batch(cmds...)

	case screen.ToastMsg:
		m.toast = msg.Text
		m.toastSeq++
		seq := m.toastSeq
		return m, tea.Tick(ToastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case screen.StatsChangedMsg:
		return m, tea.Batch(m.stats.Refresh(), m.router.Broadcast(msg))

	case resource.Result[string, resource.Stats]:
		if m.stats.Apply(msg) {
			return m, nil
		}
	}

	// Everything else is an async result. Screens fence on their own
	// requests, so buried screens get them too.
	return m, m.router.Broadcast(msg)
}

func capturesEsc(s screen.Screen) bool {
	h, ok := s.(screen.EscHandler)
	return ok && h.HandlesEsc()
}

func activeName(s screen.Screen) string {
	if n, ok := s.(screen.Named); ok {
		return n.Name()
	}
	return ""
}

// guard moves the stack to where snap allows the learner to be. Screens
// already on an allowed route are left alone.
func (m AppModel) guard(snap session.Snapshot) tea.Cmd {
	if snap.Loading {
		return nil
	}
	name := activeName(m.router.Active())
	switch snap.Route() {
	case session.RouteEntry:
		if name == screen.NameEntry || name == screen.NameAuth {
			return nil
		}
		return m.router.Reset(entry.New(m.env))
	case session.RouteOnboarding:
		if name == screen.NameOnboarding {
			return nil
		}
		return m.router.Reset(onboarding.New(m.env))
	}
	switch name {
	case screen.NameEntry, screen.NameAuth, screen.NameOnboarding, nameLoading:
		return m.router.Reset(dashboard.New(m.env))
	}
	return nil
}

// Active returns the top screen.
func (m AppModel) Active() screen.Screen { return m.router.Active() }

// Depth returns the stack depth.
func (m AppModel) Depth() int { return m.router.Depth() }

// Toast returns the toast on screen, if any.
func (m AppModel) Toast() string { return m.toast }

func (m AppModel) headerStats() layout.HeaderStats {
	snap := m.env.Session.Snapshot()
	if snap.Profile != nil && snap.Profile.IsGuest {
		return layout.HeaderStats{Guest: true}
	}
	if snap.UserID() == "" || m.stats.Err != "" {
		return layout.HeaderStats{}
	}
	return layout.HeaderStats{XP: m.stats.Data.TotalXP, Streak: m.stats.Data.CurrentStreak, Shown: true}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.headerStats(), m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(footerHints, hp.KeyHints()...)
	} else if m.router.Depth() > 1 {
		footerHints = layout.Hints("Esc", "Back")
	} else {
		footerHints = layout.Hints("↑↓", "Navigate", "Enter", "Select")
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)
	toast := layout.RenderToast(m.toast, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if toast != "" {
		contentHeight -= lipgloss.Height(toast)
	}
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, toast, footer, m.width, m.height))
	return v
}

// Run starts the token refresh job and the Bubble Tea program, and
// closes the session store when the program exits.
func Run(e *env.Env) error {
	if err := e.Session.StartRefresh(); err != nil {
		e.Log().Warn("token refresh disabled", "err", err)
	}
	defer e.Session.Close()

	p := tea.NewProgram(New(e))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
