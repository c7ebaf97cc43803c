package conversation

import (
	"encoding/json"
	"testing"

	tea "charm.land/bubbletea/v2"

	conv "github.com/eltonarunga/lugha-learner-kenya/internal/conversation"
	"github.com/eltonarunga/lugha-learner-kenya/internal/llm"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/screentest"
)

func TestScriptedChat(t *testing.T) {
	e, _ := screentest.New(t)
	screentest.SignUp(t, e, "wanjiru")
	s := New(e)

	if s.HandlesEsc() {
		t.Fatal("picker lets the app pop")
	}
	s.Update(screentest.Enter)
	if s.Chat() == nil {
		t.Fatal("enter starts the highlighted scenario")
	}
	if !s.HandlesEsc() {
		t.Error("chat captures esc")
	}

	for !s.Chat().Done() {
		exp, ok := s.Chat().Expected()
		if !ok {
			t.Fatal("expected a learner turn")
		}
		screentest.Type(exp.Text, func(m tea.Msg) { s.Update(m) })
		s.Update(screentest.Enter)
	}
	_, total := s.Chat().Progress()
	if s.Chat().Matched() != total {
		t.Errorf("matched %d of %d", s.Chat().Matched(), total)
	}

	s.Update(screentest.Enter)
	if s.Chat() != nil {
		t.Error("enter after the last line returns to the picker")
	}
}

func TestPartnerReplyDelivered(t *testing.T) {
	e, _ := screentest.New(t)
	screentest.SignUp(t, e, "otieno")
	e.Partner = conv.NewLLMPartner(llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"reply":"Karibu sana!","translation":"You are very welcome!","correction":""}`),
	}))
	s := New(e)
	s.Update(screentest.Enter)

	screentest.Type("Nzuri", func(m tea.Msg) { s.Update(m) })
	_, cmd := s.Update(screentest.Enter)
	if !s.Chat().Waiting() {
		t.Fatal("partner reply in flight")
	}
	for _, m := range screentest.Run(cmd) {
		s.Update(m)
	}
	if s.Chat().Waiting() {
		t.Fatal("reply applied")
	}
	lines := s.Chat().Lines()
	if got := lines[len(lines)-1]; !got.Generated || got.Text != "Karibu sana!" {
		t.Errorf("last line = %+v", got)
	}
}

func TestEscAbandonsReply(t *testing.T) {
	e, _ := screentest.New(t)
	screentest.SignUp(t, e, "kiprop")
	e.Partner = conv.NewLLMPartner(llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"reply":"Haya.","translation":"OK.","correction":""}`),
	}))
	s := New(e)
	s.Update(screentest.Enter)
	chat := s.Chat()
	screentest.Type("Nzuri", func(m tea.Msg) { s.Update(m) })
	_, cmd := s.Update(screentest.Enter)

	s.Update(screentest.Esc)
	if s.Chat() != nil {
		t.Fatal("esc returns to the picker")
	}
	for _, m := range screentest.Run(cmd) {
		s.Update(m)
	}
	if len(chat.Lines()) != 2 {
		t.Errorf("late reply applied to abandoned chat: %d lines", len(chat.Lines()))
	}
}
