package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eltonarunga/lugha-learner-kenya/internal/store"
)

// clearLLMEnv blanks every variable Resolve reads.
func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LUGHA_LLM_PROVIDER", "LUGHA_LLM_TIMEOUT", "LUGHA_OPENAI_BASE_URL", "LUGHA_OPENROUTER_BASE_URL"} {
		t.Setenv(k, "")
	}
	for _, v := range vendors {
		t.Setenv(v.keyVar, "")
		t.Setenv(v.modelVar, "")
		t.Setenv(v.wellKnown, "")
	}
}

func TestResolve(t *testing.T) {
	t.Run("nothing set", func(t *testing.T) {
		clearLLMEnv(t)
		cfg := Resolve()
		assert.Equal(t, VendorNone, cfg.Provider)
		assert.False(t, cfg.Enabled())
	})

	t.Run("discovers well-known key in order", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
		t.Setenv("OPENAI_API_KEY", "sk-oai")
		cfg := Resolve()
		assert.Equal(t, vendorOpenAI, cfg.Provider)
		assert.Equal(t, "sk-oai", cfg.OpenAI.APIKey)
	})

	t.Run("explicit provider wins", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")
		t.Setenv("LUGHA_LLM_PROVIDER", "anthropic")
		t.Setenv("LUGHA_ANTHROPIC_API_KEY", "sk-ant")
		t.Setenv("LUGHA_ANTHROPIC_MODEL", "sonnet")
		cfg := Resolve()
		assert.Equal(t, vendorAnthropic, cfg.Provider)
		assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
		assert.Equal(t, "sonnet", cfg.Anthropic.Model)
		assert.Empty(t, cfg.Gemini.APIKey)
	})

	t.Run("prefixed key beats well-known", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("GEMINI_API_KEY", "plain")
		t.Setenv("LUGHA_GEMINI_API_KEY", "prefixed")
		assert.Equal(t, "prefixed", Resolve().Gemini.APIKey)
	})

	t.Run("timeout", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("LUGHA_LLM_TIMEOUT", "45s")
		assert.Equal(t, 45*time.Second, Resolve().Timeout)
		t.Setenv("LUGHA_LLM_TIMEOUT", "soon")
		assert.Equal(t, DefaultConfig().Timeout, Resolve().Timeout)
	})
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Provider = vendorGemini
	assert.EqualError(t, cfg.Validate(), "LUGHA_GEMINI_API_KEY is required for the gemini provider")
	cfg.Gemini.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "kamusi"
	assert.EqualError(t, cfg.Validate(), `unknown LLM provider: "kamusi"`)
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	_, err := NewProvider(ctx, DefaultConfig(), nil, nil)
	assert.True(t, errors.Is(err, ErrDisabled))

	cfg := DefaultConfig()
	cfg.Provider = vendorOpenRouter
	_, err = NewProvider(ctx, cfg, nil, nil)
	assert.ErrorContains(t, err, "LUGHA_OPENROUTER_API_KEY")

	cfg.Provider = VendorMock
	p, err := NewProvider(ctx, cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
	r, ok := p.(*retrying)
	require.True(t, ok, "retry is outermost")
	_, ok = r.inner.(*MockProvider)
	assert.True(t, ok, "no recording without events")

	cfg.Provider = vendorOpenAI
	cfg.OpenAI.APIKey = "sk-test"
	p, err = NewProvider(ctx, cfg, openEvents(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.ModelID())
	_, ok = p.(*retrying).inner.(*recording)
	assert.True(t, ok)
}

func TestTotalCost(t *testing.T) {
	ev := func(model string, in, out int) store.LLMRequestEvent {
		return store.LLMRequestEvent{LLMRequestEventData: store.LLMRequestEventData{Model: model, InputTokens: in, OutputTokens: out}}
	}
	usd, priced := TotalCost([]store.LLMRequestEvent{
		ev("claude-haiku-4-5", 1_000_000, 0),
		ev("claude-haiku-4-5", 0, 200_000),
		ev("some-local-model", 500, 500),
	})
	assert.Equal(t, 2, priced)
	assert.InDelta(t, 2.0, usd, 1e-9)

	assert.Nil(t, LookupCost("some-local-model"))
	require.NotNil(t, LookupCost("claude-haiku-4-5"))
}
