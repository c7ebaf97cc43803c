package review

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/screentest"
)

func TestFlipAndMark(t *testing.T) {
	e, _ := screentest.New(t)
	screentest.SignUp(t, e, "juma")
	s := New(e)
	if len(s.items) < 2 {
		t.Fatalf("expected at least two Kiswahili cards, got %d", len(s.items))
	}

	s.Update(screentest.Key('y'))
	if s.Known() != 0 || s.Index() != 0 {
		t.Fatal("cards can only be marked once flipped")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if !s.Flipped() {
		t.Fatal("space reveals the translation")
	}
	s.Update(screentest.Key('y'))
	if s.Known() != 1 || s.Index() != 1 || s.Flipped() {
		t.Errorf("known=%d index=%d flipped=%v after marking", s.Known(), s.Index(), s.Flipped())
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if s.Index() != 0 {
		t.Errorf("left goes back, index = %d", s.Index())
	}
}
