package llm

import (
	"fmt"
	"os"
	"time"
)

// Vendor names accepted in LUGHA_LLM_PROVIDER.
const (
	VendorNone = "none"
	VendorMock = "mock"
)

// Config selects and configures the partner model.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter, mock or
	// none.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one partner reply, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Enabled reports whether a partner model is configured.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != VendorNone
}

// DefaultConfig has no provider selected and the small fast model of
// each vendor.
func DefaultConfig() Config {
	return Config{
		Provider:   VendorNone,
		Anthropic:  AnthropicConfig{Model: "haiku"},
		OpenAI:     OpenAIConfig{Model: "mini"},
		Gemini:     GeminiConfig{Model: "flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2,
		},
		Timeout: 20 * time.Second,
	}
}

// vendorVars describes the environment of one vendor. keyVar and
// modelVar are the LUGHA_* names; wellKnown is the vendor's own key
// variable used for discovery.
type vendorVars struct {
	name      string
	keyVar    string
	modelVar  string
	wellKnown string
	key       func(*Config) *string
	model     func(*Config) *string
}

// vendors is in discovery order.
var vendors = []vendorVars{
	{vendorGemini, "LUGHA_GEMINI_API_KEY", "LUGHA_GEMINI_MODEL", "GEMINI_API_KEY",
		func(c *Config) *string { return &c.Gemini.APIKey }, func(c *Config) *string { return &c.Gemini.Model }},
	{vendorOpenAI, "LUGHA_OPENAI_API_KEY", "LUGHA_OPENAI_MODEL", "OPENAI_API_KEY",
		func(c *Config) *string { return &c.OpenAI.APIKey }, func(c *Config) *string { return &c.OpenAI.Model }},
	{vendorAnthropic, "LUGHA_ANTHROPIC_API_KEY", "LUGHA_ANTHROPIC_MODEL", "ANTHROPIC_API_KEY",
		func(c *Config) *string { return &c.Anthropic.APIKey }, func(c *Config) *string { return &c.Anthropic.Model }},
	{vendorOpenRouter, "LUGHA_OPENROUTER_API_KEY", "LUGHA_OPENROUTER_MODEL", "OPENROUTER_API_KEY",
		func(c *Config) *string { return &c.OpenRouter.APIKey }, func(c *Config) *string { return &c.OpenRouter.Model }},
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ConfigFromEnv reads LUGHA_LLM_* and the LUGHA_<VENDOR>_* variables.
// An unparseable LUGHA_LLM_TIMEOUT keeps the default.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	setFromEnv(&cfg.Provider, "LUGHA_LLM_PROVIDER")
	for _, v := range vendors {
		setFromEnv(v.key(&cfg), v.keyVar)
		setFromEnv(v.model(&cfg), v.modelVar)
	}
	setFromEnv(&cfg.OpenAI.BaseURL, "LUGHA_OPENAI_BASE_URL")
	setFromEnv(&cfg.OpenRouter.BaseURL, "LUGHA_OPENROUTER_BASE_URL")
	if t := os.Getenv("LUGHA_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

// Resolve picks the partner configuration: an explicit
// LUGHA_LLM_PROVIDER wins, then the first vendor key found, then none.
func Resolve() Config {
	cfg := ConfigFromEnv()
	if os.Getenv("LUGHA_LLM_PROVIDER") != "" {
		return cfg
	}
	for _, v := range vendors {
		if k := os.Getenv(v.wellKnown); k != "" {
			cfg.Provider = v.name
			if *v.key(&cfg) == "" {
				*v.key(&cfg) = k
			}
			return cfg
		}
	}
	return cfg
}

// Validate checks that the selected provider has its key.
func (c Config) Validate() error {
	switch c.Provider {
	case VendorMock, VendorNone, "":
		return nil
	}
	for _, v := range vendors {
		if v.name != c.Provider {
			continue
		}
		if *v.key(&c) == "" {
			return fmt.Errorf("%s is required for the %s provider", v.keyVar, v.name)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}
