package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const vendorGemini = "gemini"

var geminiAliases = map[string]string{
	"flash":      "gemini-2.5-flash",
	"flash-lite": "gemini-2.5-flash-lite",
}

// GeminiProvider talks to the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: resolveModel(cfg.Model, geminiAliases)}, nil
}

func (p *GeminiProvider) ModelID() string { return p.model }

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	out, err := p.client.Models.GenerateContent(ctx, p.model, geminiContents(req.Messages), geminiConfig(req))
	if err != nil {
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) {
			return nil, fromStatus(vendorGemini, apiErr.Code, nil, err)
		}
		return nil, &Error{Kind: KindUnavailable, Vendor: vendorGemini, Err: err}
	}

	resp := &Response{
		Content:    json.RawMessage(out.Text()),
		Model:      p.model,
		StopReason: StopEnd,
	}
	if len(out.Candidates) > 0 && out.Candidates[0].FinishReason == "MAX_TOKENS" {
		resp.StopReason = StopMaxTokens
	}
	if u := out.UsageMetadata; u != nil {
		resp.Usage = Usage{InputTokens: int(u.PromptTokenCount), OutputTokens: int(u.CandidatesTokenCount)}
	}
	return finish(vendorGemini, req, resp)
}

func geminiConfig(req Request) *genai.GenerateContentConfig {
	conf := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		t := float32(req.Temperature)
		conf.Temperature = &t
	}
	if req.System != "" {
		conf.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.Schema != nil {
		conf.ResponseMIMEType = "application/json"
		conf.ResponseSchema = geminiSchema(req.Schema.Definition)
	}
	return conf
}

func geminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}
	return out
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// geminiSchema converts the JSON Schema subset the partner schemas use.
// Keywords Gemini has no field for, like additionalProperties and
// minLength, are dropped; Validate still enforces them on the reply.
func geminiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{Type: genai.TypeString}
	for key, v := range def {
		switch key {
		case "type":
			if t, ok := geminiTypes[fmt.Sprint(v)]; ok {
				s.Type = t
			}
		case "description":
			s.Description, _ = v.(string)
		case "properties":
			props, _ := v.(map[string]any)
			s.Properties = make(map[string]*genai.Schema, len(props))
			for name, p := range props {
				if pd, ok := p.(map[string]any); ok {
					s.Properties[name] = geminiSchema(pd)
				}
			}
		case "items":
			if items, ok := v.(map[string]any); ok {
				s.Items = geminiSchema(items)
			}
		case "required":
			s.Required = stringList(v)
		case "enum":
			s.Enum = stringList(v)
		}
	}
	return s
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
