package llm

import (
	"fmt"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Endpoint is the credentials and model for one backend.
type Endpoint struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config holds all LLM provider configuration.
type Config struct {
	// Provider is empty when explanations are disabled.
	Provider string

	Anthropic  Endpoint
	OpenAI     Endpoint
	Gemini     Endpoint
	OpenRouter Endpoint

	Retry   RetryConfig
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the default models and retry policy with no
// provider selected.
func DefaultConfig() Config {
	return Config{
		Anthropic:  Endpoint{Model: "claude-haiku"},
		OpenAI:     Endpoint{Model: "gpt-4o-mini"},
		Gemini:     Endpoint{Model: "gemini-flash"},
		OpenRouter: Endpoint{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// FromEnv builds a Config from QUIZZY_* variables read through getenv.
// When QUIZZY_LLM_PROVIDER is unset the first provider with a key, either
// QUIZZY_<NAME>_API_KEY or the vendor's own <NAME>_API_KEY, is selected.
func FromEnv(getenv func(string) string) Config {
	cfg := DefaultConfig()

	endpoints := []struct {
		name string
		env  string
		ep   *Endpoint
	}{
		{ProviderAnthropic, "ANTHROPIC", &cfg.Anthropic},
		{ProviderOpenAI, "OPENAI", &cfg.OpenAI},
		{ProviderGemini, "GEMINI", &cfg.Gemini},
		{ProviderOpenRouter, "OPENROUTER", &cfg.OpenRouter},
	}
	for _, e := range endpoints {
		e.ep.APIKey = firstNonEmpty(getenv("QUIZZY_"+e.env+"_API_KEY"), getenv(e.env+"_API_KEY"))
		if m := getenv("QUIZZY_" + e.env + "_MODEL"); m != "" {
			e.ep.Model = m
		}
		if u := getenv("QUIZZY_" + e.env + "_BASE_URL"); u != "" {
			e.ep.BaseURL = u
		}
	}

	cfg.Provider = getenv("QUIZZY_LLM_PROVIDER")
	if cfg.Provider == "" {
		for _, e := range endpoints {
			if e.ep.APIKey != "" {
				cfg.Provider = e.name
				break
			}
		}
	}
	return cfg
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Enabled reports whether a provider has been selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// Validate checks the selected provider has a key.
func (c Config) Validate() error {
	var ep Endpoint
	switch c.Provider {
	case "":
		return ErrNotConfigured
	case ProviderMock:
		return nil
	case ProviderAnthropic:
		ep = c.Anthropic
	case ProviderOpenAI:
		ep = c.OpenAI
	case ProviderGemini:
		ep = c.Gemini
	case ProviderOpenRouter:
		ep = c.OpenRouter
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if ep.APIKey == "" {
		return fmt.Errorf("%s provider needs an API key (QUIZZY_%s_API_KEY)", c.Provider, envName(c.Provider))
	}
	return nil
}

func envName(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC"
	case ProviderOpenAI:
		return "OPENAI"
	case ProviderGemini:
		return "GEMINI"
	case ProviderOpenRouter:
		return "OPENROUTER"
	}
	return ""
}
