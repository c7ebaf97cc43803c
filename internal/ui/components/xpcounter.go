package components

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

const (
	xpFrames   = 12
	xpInterval = 40 * time.Millisecond
)

// XPTickMsg advances an XPCounter animation.
type XPTickMsg struct {
	id   int
	step int
}

var xpCounterID int

// XPCounter counts up to a target value over a few frames.
type XPCounter struct {
	id     int
	from   int
	target int
	step   int
}

// NewXPCounter starts at value with no animation pending.
func NewXPCounter(value int) XPCounter {
	xpCounterID++
	return XPCounter{id: xpCounterID, from: value, target: value, step: xpFrames}
}

// Set animates toward value. A value equal to the target is a no-op.
func (c XPCounter) Set(value int) (XPCounter, tea.Cmd) {
	if value == c.target {
		return c, nil
	}
	c.from = c.Value()
	c.target = value
	c.step = 0
	return c, c.tick()
}

// Update consumes this counter's tick messages.
func (c XPCounter) Update(msg tea.Msg) (XPCounter, tea.Cmd) {
	t, ok := msg.(XPTickMsg)
	if !ok || t.id != c.id || t.step != c.step || c.step >= xpFrames {
		return c, nil
	}
	c.step++
	if c.step >= xpFrames {
		return c, nil
	}
	return c, c.tick()
}

func (c XPCounter) tick() tea.Cmd {
	id, step := c.id, c.step
	return tea.Tick(xpInterval, func(time.Time) tea.Msg {
		return XPTickMsg{id: id, step: step}
	})
}

// Value is the number currently shown.
func (c XPCounter) Value() int {
	if c.step >= xpFrames {
		return c.target
	}
	return c.from + (c.target-c.from)*c.step/xpFrames
}

// Animating reports whether frames remain.
func (c XPCounter) Animating() bool { return c.step < xpFrames }

// View renders the counter.
func (c XPCounter) View() string {
	style := theme.XP.Bold(true)
	if c.Animating() {
		style = style.Foreground(theme.Warning)
	}
	return style.Render(fmt.Sprintf("◆ %d XP", c.Value()))
}
