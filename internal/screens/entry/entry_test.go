package entry

import (
	"strings"
	"testing"

	"github.com/eltonarunga/lugha-learner-kenya/internal/router"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/screentest"
)

func TestFirstKeySkipsIntro(t *testing.T) {
	e, _ := screentest.New(t)
	s := New(e)

	if !strings.Contains(s.View(100, 40), "press any key") {
		t.Fatal("intro should prompt for a key")
	}
	if _, cmd := s.Update(screentest.Enter); cmd != nil {
		t.Fatal("the skipping key must not select a menu item")
	}
	if s.elapsed != introEnd {
		t.Fatalf("elapsed = %v, want %v", s.elapsed, introEnd)
	}
	if !strings.Contains(s.View(100, 40), "Continue as Guest") {
		t.Error("menu should be shown after the intro")
	}
}

func TestTicksEndIntro(t *testing.T) {
	e, _ := screentest.New(t)
	s := New(e)
	for range int(introEnd / tickInterval) {
		if _, cmd := s.Update(tickMsg{}); cmd == nil {
			t.Fatal("ticks reschedule themselves")
		}
	}
	if s.elapsed != introEnd {
		t.Errorf("elapsed = %v", s.elapsed)
	}
	s.Update(tickMsg{})
	if s.elapsed != introEnd {
		t.Error("elapsed stops at the end of the intro")
	}
}

func TestContinueAsGuest(t *testing.T) {
	e, _ := screentest.New(t)
	s := New(e)
	s.elapsed = introEnd

	s.menu.Selected = 2
	if _, cmd := s.Update(screentest.Enter); cmd != nil {
		t.Error("guest entry needs no command")
	}
	p := e.Session.Profile()
	if p == nil || !p.IsGuest {
		t.Fatalf("profile = %+v, want guest", p)
	}
}

func TestSignInPushesForm(t *testing.T) {
	e, _ := screentest.New(t)
	s := New(e)
	s.elapsed = introEnd

	_, cmd := s.Update(screentest.Enter)
	msgs := screentest.Run(cmd)
	if len(msgs) != 1 {
		t.Fatalf("msgs = %v", msgs)
	}
	push, ok := msgs[0].(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want PushScreenMsg", msgs[0])
	}
	named, ok := push.Screen.(screen.Named)
	if !ok || named.Name() != screen.NameAuth {
		t.Errorf("pushed %T", push.Screen)
	}
}
