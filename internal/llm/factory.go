package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// NewProvider builds the configured vendor provider, wrapped so that calls
// are retried and every attempt is recorded: caller → retry → logging → vendor.
func NewProvider(ctx context.Context, cfg Config, rec EventRecorder, logger *slog.Logger) (Provider, error) {
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
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, cfg.Provider, rec, logger), cfg.Retry), nil
}

// NewProviderFromEnv resolves configuration from PENILAI_* variables,
// falling back to the vendors' standard key variables.
func NewProviderFromEnv(ctx context.Context, rec EventRecorder, logger *slog.Logger) (Provider, error) {
	cfg := ConfigFromEnv()
	if !cfg.HasKey() {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("no LLM API key found: set %sLLM_PROVIDER and its API key, or GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY", EnvPrefix)
		}
		cfg = discovered
	}
	return NewProvider(ctx, cfg, rec, logger)
}
