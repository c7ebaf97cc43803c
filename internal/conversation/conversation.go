// Package conversation runs scripted practice conversations. The learner
// types each of their lines; the partner's reply comes from a Partner
// when one is configured and from the script otherwise.
package conversation

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/eltonarunga/lugha-learner-kenya/internal/content"
)

// DefaultTimeout bounds one partner reply.
const DefaultTimeout = 20 * time.Second

// Line is one rendered utterance.
type Line struct {
	Speaker     string
	Text        string
	Translation string
	// Correction is set on learner lines that missed the expected phrase.
	Correction string
	User       bool
	Generated  bool
}

// Reply is what a Partner says back after a learner line.
type Reply struct {
	Text        string
	Translation string
	Correction  string
}

// Prompt is the context handed to a Partner.
type Prompt struct {
	Scenario content.Scenario
	History  []Line
	Expected content.Turn
	// Next is the scripted partner line that follows, nil at the end.
	Next *content.Turn
}

// Partner produces replies. Implementations may block.
type Partner interface {
	Reply(ctx context.Context, p Prompt) (Reply, error)
}

// ReplyMsg carries a partner reply back into the update loop.
type ReplyMsg struct {
	owner *Conversation
	gen   uint64
	Reply Reply
	Err   error
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Conversation) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for partner failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Conversation) { c.logger = l }
}

// Conversation walks one scenario's turns.
type Conversation struct {
	Scenario content.Scenario

	partner Partner
	timeout time.Duration
	logger  *slog.Logger

	lines     []Line
	pos       int
	matched   int
	waiting   bool
	gen       uint64
	abandoned bool
}

// New starts sc. A nil partner keeps the conversation fully scripted.
func New(sc content.Scenario, partner Partner, opts ...Option) *Conversation {
	c := &Conversation{
		Scenario: sc,
		partner:  partner,
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	c.playScripted()
	return c
}

// Lines returns the transcript so far.
func (c *Conversation) Lines() []Line { return c.lines }

// Waiting reports whether a partner reply is in flight.
func (c *Conversation) Waiting() bool { return c.waiting }

// Done reports whether every turn has been played.
func (c *Conversation) Done() bool { return !c.waiting && c.pos >= len(c.Scenario.Turns) }

// Scripted reports whether replies come from the script only.
func (c *Conversation) Scripted() bool { return c.partner == nil }

// Matched counts learner lines that matched the expected phrase.
func (c *Conversation) Matched() int { return c.matched }

// Progress returns answered and total learner turns.
func (c *Conversation) Progress() (answered, total int) {
	for _, l := range c.lines {
		if l.User {
			answered++
		}
	}
	return answered, c.Scenario.UserTurns()
}

// Expected returns the learner turn being waited on.
func (c *Conversation) Expected() (content.Turn, bool) {
	if c.waiting || c.pos >= len(c.Scenario.Turns) || !c.Scenario.Turns[c.pos].UserTurn {
		return content.Turn{}, false
	}
	return c.Scenario.Turns[c.pos], true
}

// Say records the learner's line. The returned command fetches the
// partner reply; it is nil when the conversation is scripted or the line
// was not accepted.
func (c *Conversation) Say(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	expected, ok := c.Expected()
	if text == "" || !ok || c.abandoned {
		return nil
	}

	c.lines = append(c.lines, Line{Speaker: expected.Speaker, Text: text, User: true})
	c.pos++

	if c.partner == nil {
		c.correctLast(expected, "")
		c.playScripted()
		return nil
	}

	prompt := Prompt{
		Scenario: c.Scenario,
		History:  append([]Line(nil), c.lines...),
		Expected: expected,
		Next:     c.nextPartnerTurn(),
	}
	c.waiting = true
	c.gen++
	gen := c.gen
	partner := c.partner
	timeout := c.timeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		r, err := partner.Reply(ctx, prompt)
		return ReplyMsg{owner: c, gen: gen, Reply: r, Err: err}
	}
}

// Apply folds a partner reply in. Replies for other conversations,
// superseded requests or an abandoned conversation return false.
func (c *Conversation) Apply(msg ReplyMsg) bool {
	if msg.owner != c || msg.gen != c.gen || !c.waiting || c.abandoned {
		return false
	}
	c.waiting = false

	expected := c.Scenario.Turns[c.pos-1]
	if msg.Err != nil {
		c.logger.Warn("conversation partner failed, using script",
			"scenario", c.Scenario.ID, "err", msg.Err)
		c.correctLast(expected, "")
		c.playScripted()
		return true
	}

	c.correctLast(expected, msg.Reply.Correction)
	if next := c.nextPartnerTurn(); next != nil && strings.TrimSpace(msg.Reply.Text) != "" {
		c.lines = append(c.lines, Line{
			Speaker:     next.Speaker,
			Text:        strings.TrimSpace(msg.Reply.Text),
			Translation: strings.TrimSpace(msg.Reply.Translation),
			Generated:   true,
		})
		c.pos++
	}
	c.playScripted()
	return true
}

// Owns reports whether msg belongs to this conversation.
func (c *Conversation) Owns(msg ReplyMsg) bool { return msg.owner == c }

// Abandon drops any reply still in flight.
func (c *Conversation) Abandon() { c.abandoned = true }

// playScripted appends partner turns up to the next learner turn.
func (c *Conversation) playScripted() {
	for c.pos < len(c.Scenario.Turns) && !c.Scenario.Turns[c.pos].UserTurn {
		t := c.Scenario.Turns[c.pos]
		c.lines = append(c.lines, Line{Speaker: t.Speaker, Text: t.Text, Translation: t.Translation})
		c.pos++
	}
}

func (c *Conversation) nextPartnerTurn() *content.Turn {
	if c.pos >= len(c.Scenario.Turns) || c.Scenario.Turns[c.pos].UserTurn {
		return nil
	}
	t := c.Scenario.Turns[c.pos]
	return &t
}

// correctLast marks the last learner line. A partner correction wins over
// the local comparison, which only checks for the expected phrase.
func (c *Conversation) correctLast(expected content.Turn, correction string) {
	last := &c.lines[len(c.lines)-1]
	if Matches(last.Text, expected.Text) {
		c.matched++
		return
	}
	if correction = strings.TrimSpace(correction); correction == "" {
		correction = "Try: " + expected.Text
	}
	last.Correction = correction
}

// Matches compares two phrases ignoring case, punctuation and spacing.
// Diacritics are significant.
func Matches(said, want string) bool {
	return normalize(said) == normalize(want)
}

func normalize(s string) string {
	s = norm.NFC.String(strings.ToLower(s))
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'':
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}
