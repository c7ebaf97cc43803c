package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	vendorOpenAI     = "openai"
	vendorOpenRouter = "openrouter"

	defaultOpenRouterURL = "https://openrouter.ai/api/v1"
)

var openaiAliases = map[string]string{
	"mini": "gpt-4o-mini",
	"nano": "gpt-4.1-nano",
}

// OpenAIProvider talks to the Chat Completions API, or to any compatible
// endpoint such as OpenRouter.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	vendor string
}

// NewOpenAIProvider creates a provider for OpenAI or a compatible BaseURL.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	return newChatProvider(vendorOpenAI, cfg.APIKey, cfg.BaseURL, resolveModel(cfg.Model, openaiAliases)), nil
}

// NewOpenRouterProvider creates a provider for OpenRouter. Model ids are
// passed through untouched, e.g. "google/gemini-2.0-flash-001".
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenRouterURL
	}
	return newChatProvider(vendorOpenRouter, cfg.APIKey, base, cfg.Model), nil
}

func newChatProvider(vendor, key, baseURL, model string) *OpenAIProvider {
	conf := openai.DefaultConfig(key)
	if baseURL != "" {
		conf.BaseURL = baseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(conf), model: model, vendor: vendor}
}

func (p *OpenAIProvider) ModelID() string { return p.model }

// Vendor is "openai" or "openrouter".
func (p *OpenAIProvider) Vendor() string { return p.vendor }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chat, err := p.chatRequest(req)
	if err != nil {
		return nil, err
	}
	out, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return nil, p.classify(err)
	}
	if len(out.Choices) == 0 {
		return nil, &Error{Kind: KindInvalidOutput, Vendor: p.vendor, Err: fmt.Errorf("reply has no choices")}
	}

	choice := out.Choices[0]
	resp := &Response{
		Content:    json.RawMessage(choice.Message.Content),
		Model:      out.Model,
		Usage:      Usage{InputTokens: out.Usage.PromptTokens, OutputTokens: out.Usage.CompletionTokens},
		StopReason: StopEnd,
	}
	if choice.FinishReason == openai.FinishReasonLength {
		resp.StopReason = StopMaxTokens
	}
	return finish(p.vendor, req, resp)
}

func (p *OpenAIProvider) chatRequest(req Request) (openai.ChatCompletionRequest, error) {
	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return chat, fmt.Errorf("encode schema %s: %w", req.Schema.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: json.RawMessage(def),
				Strict: true,
			},
		}
	}
	return chat, nil
}

func (p *OpenAIProvider) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fromStatus(p.vendor, apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fromStatus(p.vendor, reqErr.HTTPStatusCode, nil, err)
	}
	return &Error{Kind: KindUnavailable, Vendor: p.vendor, Err: err}
}
