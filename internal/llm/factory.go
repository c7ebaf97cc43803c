package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eltonarunga/lugha-learner-kenya/internal/store"
)

// ErrDisabled is returned by NewProvider when no provider is configured.
var ErrDisabled = errors.New("llm: no provider configured")

// NewProvider builds the configured provider. Calls go through retry,
// then event recording when events is non-nil, then the vendor.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *slog.Logger) (Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case vendorAnthropic:
		p, err = NewAnthropicProvider(cfg.Anthropic)
	case vendorOpenAI:
		p, err = NewOpenAIProvider(cfg.OpenAI)
	case vendorOpenRouter:
		p, err = NewOpenRouterProvider(cfg.OpenRouter)
	case vendorGemini:
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	case VendorMock:
		p = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.Provider, err)
	}

	if events != nil {
		p = WithEvents(p, cfg.Provider, events, logger)
	}
	return WithRetry(p, cfg.Retry), nil
}
