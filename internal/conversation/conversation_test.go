package conversation

import (
	"encoding/json"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eltonarunga/lugha-learner-kenya/internal/content"
	"github.com/eltonarunga/lugha-learner-kenya/internal/llm"
)

func market(t *testing.T) content.Scenario {
	t.Helper()
	sc, ok := content.FindScenario("at-the-market")
	require.True(t, ok)
	return sc
}

func reply(t *testing.T, cmd tea.Cmd) ReplyMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(ReplyMsg)
	require.True(t, ok, "expected ReplyMsg")
	return msg
}

func TestScriptedConversation(t *testing.T) {
	c := New(market(t), nil)
	require.Len(t, c.Lines(), 1, "partner opens")
	assert.True(t, c.Scripted())

	exp, ok := c.Expected()
	require.True(t, ok)
	assert.Equal(t, "Nzuri! Ningependa kununua matunda.", exp.Text)

	assert.Nil(t, c.Say("  "), "blank line ignored")
	assert.Len(t, c.Lines(), 1)

	assert.Nil(t, c.Say("nzuri,  ningependa kununua matunda"))
	assert.Empty(t, c.Lines()[1].Correction)
	assert.Equal(t, "Vizuri! Tuna machungwa, ndizi na mapapai.", c.Lines()[2].Text)

	c.Say("Ndizi bei?")
	assert.Equal(t, "Try: Ndizi ni bei gani?", c.Lines()[3].Correction)

	c.Say("Sawa, nipe ndizi tano tafadhali.")
	assert.True(t, c.Done())
	assert.Len(t, c.Lines(), len(c.Scenario.Turns))
	assert.Equal(t, 2, c.Matched())

	answered, total := c.Progress()
	assert.Equal(t, 3, answered)
	assert.Equal(t, 3, total)

	_, ok = c.Expected()
	assert.False(t, ok)
	assert.Nil(t, c.Say("more"))
}

func TestPartnerReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"reply":"Vizuri sana! Tuna ndizi.","translation":"Very good! We have bananas.","correction":"Say matunda, not tunda."}`),
	})
	c := New(market(t), NewLLMPartner(mock))

	cmd := c.Say("Nzuri! Ningependa kununua tunda.")
	assert.True(t, c.Waiting())
	assert.Nil(t, c.Say("again"), "no second line while waiting")
	_, ok := c.Expected()
	assert.False(t, ok)

	require.True(t, c.Apply(reply(t, cmd)))
	assert.False(t, c.Waiting())

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "Say matunda, not tunda.", lines[1].Correction)
	assert.True(t, lines[2].Generated)
	assert.Equal(t, "vendor", lines[2].Speaker)
	assert.Equal(t, "Vizuri sana! Tuna ndizi.", lines[2].Text)

	exp, ok := c.Expected()
	require.True(t, ok)
	assert.Equal(t, "Ndizi ni bei gani?", exp.Text, "script resumes after generated line")

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, TurnSchema, req.Schema)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, llm.RoleUser, req.Messages[0].Role)
	assert.Equal(t, llm.RoleAssistant, req.Messages[1].Role)
	assert.Equal(t, "Habari za asubuhi! Karibu dukani.", req.Messages[1].Content)
	assert.Equal(t, llm.RoleUser, req.Messages[2].Role)
	assert.Contains(t, req.System, "Kiswahili")
	assert.Contains(t, req.System, "Vizuri! Tuna machungwa")
}

func TestPartnerFallsBackToScript(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"schema violation", llm.MockResponse{Content: json.RawMessage(`{"reply":""}`)}},
		{"unparseable", llm.MockResponse{Content: json.RawMessage(`not json`)}},
		{"provider error", llm.MockResponse{Err: &llm.Error{Kind: llm.KindUnavailable}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(market(t), NewLLMPartner(llm.NewMockProvider(tt.resp)))
			msg := reply(t, c.Say("Ningependa matunda"))
			require.Error(t, msg.Err)
			require.True(t, c.Apply(msg))

			lines := c.Lines()
			require.Len(t, lines, 3)
			assert.Equal(t, "Try: Nzuri! Ningependa kununua matunda.", lines[1].Correction)
			assert.False(t, lines[2].Generated)
			assert.Equal(t, "Vizuri! Tuna machungwa, ndizi na mapapai.", lines[2].Text)
		})
	}
}

func TestFinalTurnKeepsScriptLength(t *testing.T) {
	sc, ok := content.FindScenario("office-meeting")
	require.True(t, ok)
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"reply":"Safi.","translation":"Great.","correction":""}`)},
		llm.MockResponse{Content: json.RawMessage(`{"reply":"Kwaheri!","translation":"Goodbye!","correction":""}`)},
	)
	c := New(sc, NewLLMPartner(mock))

	c.Apply(reply(t, c.Say("Sawa, nitaleta ripoti ya mauzo.")))
	msg := reply(t, c.Say("Ndiyo, nimezimaliza jana jioni."))
	require.True(t, c.Apply(msg))

	assert.True(t, c.Done())
	assert.Len(t, c.Lines(), len(sc.Turns), "closing reply is not appended past the script")
	assert.Contains(t, mock.Calls[1].System, "end of the conversation")
	assert.Equal(t, 2, c.Matched())
}

func TestStaleReplies(t *testing.T) {
	mk := func() *llm.MockProvider {
		return llm.NewMockProvider(llm.MockResponse{
			Content: json.RawMessage(`{"reply":"Haya.","translation":"OK.","correction":""}`),
		})
	}

	a := New(market(t), NewLLMPartner(mk()))
	b := New(market(t), NewLLMPartner(mk()))
	msgA := reply(t, a.Say("Nzuri"))
	msgB := reply(t, b.Say("Nzuri"))

	assert.False(t, a.Apply(msgB), "foreign reply")
	assert.True(t, a.Owns(msgA))
	assert.False(t, a.Owns(msgB))

	b.Abandon()
	assert.False(t, b.Apply(msgB), "abandoned")
	assert.Len(t, b.Lines(), 2)

	require.True(t, a.Apply(msgA))
	assert.False(t, a.Apply(msgA), "applied twice")
}

func TestMatches(t *testing.T) {
	tests := []struct {
		said, want string
		ok         bool
	}{
		{"asante sana", "Asante sana!", true},
		{"  Ndizi ni   bei gani ? ", "Ndizi ni bei gani?", true},
		{"Ngo'ny", "ngo'ny", true},
		{"Wi mwega", "Wĩ mwega", false},
		{"ndizi", "Ndizi ni bei gani?", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, Matches(tt.said, tt.want), "%q vs %q", tt.said, tt.want)
	}
}
