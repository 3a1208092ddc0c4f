package llm

import (
	"context"
	"fmt"
	"io"
)

// New builds the configured provider. Calls pass through retry and then,
// when logW is non-nil, per-attempt request logging.
func New(ctx context.Context, cfg Config, logW io.Writer) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	if logW != nil {
		base = WithLogging(base, logW)
	}
	return WithRetry(base, cfg.Retry), nil
}
