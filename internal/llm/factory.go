package llm

import (
	"context"
	"fmt"

	"github.com/magedabdelsalam/ustaz-sub000/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with event
// logging. A nil eventRepo means no database is configured; events are
// discarded. Retry and fallback policy live in the orchestration layer,
// not here.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if eventRepo == nil {
		eventRepo = store.NopEventRepo{}
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown completion provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, cfg.Provider, eventRepo), nil
}
