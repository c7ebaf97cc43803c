package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eltonarunga/lugha-learner-kenya/internal/llm"
)

// TurnSchema is the structured output a partner reply must satisfy.
var TurnSchema = &llm.Schema{
	Name:        "conversation-turn",
	Description: "The conversation partner's next line with feedback on the learner's last line",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The partner's next line, in the practice language only",
			},
			"translation": map[string]any{
				"type":        "string",
				"description": "English translation of reply",
			},
			"correction": map[string]any{
				"type":        "string",
				"description": "A short correction of the learner's last line in English, or empty if it was acceptable",
			},
		},
		"required":             []any{"reply", "translation", "correction"},
		"additionalProperties": false,
	},
}

type turnOutput struct {
	Reply       string `json:"reply"`
	Translation string `json:"translation"`
	Correction  string `json:"correction"`
}

// LLMPartner voices the scenario partner through an llm.Provider.
type LLMPartner struct {
	provider    llm.Provider
	MaxTokens   int
	Temperature float64
}

// NewLLMPartner wraps provider.
func NewLLMPartner(provider llm.Provider) *LLMPartner {
	return &LLMPartner{provider: provider, MaxTokens: 300, Temperature: 0.4}
}

// Reply asks the model for the partner's next line.
func (p *LLMPartner) Reply(ctx context.Context, pr Prompt) (Reply, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeConversation)

	req := llm.Request{
		System:      systemPrompt(pr),
		Messages:    buildMessages(pr),
		Schema:      TurnSchema,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
	}
	resp, err := p.provider.Generate(ctx, req)
	if err != nil {
		return Reply{}, fmt.Errorf("generate partner reply: %w", err)
	}
	if err := llm.Validate(TurnSchema, resp.Content); err != nil {
		return Reply{}, err
	}

	var out turnOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Reply{}, fmt.Errorf("parse partner reply: %w", err)
	}
	return Reply{Text: out.Reply, Translation: out.Translation, Correction: out.Correction}, nil
}

func systemPrompt(pr Prompt) string {
	sc := pr.Scenario
	lang := fmt.Sprintf("%s (%s)", sc.Language.Label(), sc.Language.NativeName())

	var b strings.Builder
	fmt.Fprintf(&b, "You are the %s in a %s language practice conversation titled %q: %s.\n",
		sc.Partner, lang, sc.Title, strings.ToLower(sc.Description))
	fmt.Fprintf(&b, "The learner is a %s student. Keep every reply to one short sentence in %s.\n",
		strings.ToLower(string(sc.Difficulty)), lang)
	fmt.Fprintf(&b, "The learner was expected to say something like: %q (%s).\n",
		pr.Expected.Text, pr.Expected.Translation)
	if pr.Next != nil {
		fmt.Fprintf(&b, "Your scripted next line is %q (%s). Say it or a close natural variation that fits what the learner actually said.\n",
			pr.Next.Text, pr.Next.Translation)
	} else {
		b.WriteString("This is the end of the conversation. Close it politely.\n")
	}
	b.WriteString("If the learner's last line has a mistake, explain it briefly in English in correction; otherwise leave correction empty.")
	return b.String()
}

// buildMessages replays the transcript. Partner lines are assistant
// turns; the opening user message frames the scene since some providers
// require the first message to come from the user.
func buildMessages(pr Prompt) []llm.Message {
	msgs := []llm.Message{{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("Let's practise %q.", pr.Scenario.Title),
	}}
	for _, l := range pr.History {
		role := llm.RoleAssistant
		if l.User {
			role = llm.RoleUser
		}
		if n := len(msgs); msgs[n-1].Role == role {
			msgs[n-1].Content += "\n" + l.Text
			continue
		}
		msgs = append(msgs, llm.Message{Role: role, Content: l.Text})
	}
	return msgs
}
