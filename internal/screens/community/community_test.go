package community

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/screentest"
)

func TestSearchAndRead(t *testing.T) {
	e, _ := screentest.New(t)
	s := New(e)
	all := len(s.Posts())

	s.Update(screentest.Key('/'))
	if !s.HandlesEsc() {
		t.Fatal("search should hold Esc")
	}
	screentest.Type("proverb", func(m tea.Msg) { s.Update(m) })
	posts := s.Posts()
	if len(posts) != 1 || posts[0].Author != "John M." {
		t.Fatalf("posts = %+v", posts)
	}

	s.Update(screentest.Enter)
	if s.HandlesEsc() {
		t.Fatal("enter leaves the search")
	}
	s.Update(screentest.Enter)
	if !strings.Contains(s.View(100, 40), "by John M.") {
		t.Error("thread should open")
	}
	s.Update(screentest.Esc)
	if strings.Contains(s.View(100, 40), "by John M.") {
		t.Error("esc closes the thread")
	}

	s.Update(screentest.Key('/'))
	s.Update(screentest.Esc)
	if len(s.Posts()) != all {
		t.Error("esc clears the search")
	}
}

func TestNoMatches(t *testing.T) {
	e, _ := screentest.New(t)
	s := New(e)
	s.Update(screentest.Key('/'))
	screentest.Type("zzzz", func(m tea.Msg) { s.Update(m) })
	if !strings.Contains(s.View(100, 40), "No discussions match") {
		t.Error("empty result message")
	}
	s.Update(screentest.Enter)
	s.Update(screentest.Enter)
	if s.HandlesEsc() {
		t.Error("nothing to open")
	}
}

func TestTabsCycle(t *testing.T) {
	e, _ := screentest.New(t)
	s := New(e)
	tab := tea.KeyPressMsg{Code: tea.KeyTab}

	s.Update(tab)
	if s.Tab() != TabGroups {
		t.Fatalf("tab = %v", s.Tab())
	}
	if _, cmd := s.Update(screentest.Key('/')); cmd != nil {
		t.Error("search only exists on the forum")
	}
	s.Update(tab)
	if s.Tab() != TabPartners || !strings.Contains(s.View(100, 40), "available") {
		t.Error("partners tab")
	}
	s.Update(tab)
	if s.Tab() != TabForum {
		t.Error("tab wraps")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if s.Tab() != TabPartners {
		t.Error("shift+tab goes back")
	}
}
