package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/finbot/internal/config"
	"github.com/theirongolddev/finbot/internal/gateway"
	"github.com/theirongolddev/finbot/internal/gateway/gemini"
	"github.com/theirongolddev/finbot/internal/gateway/openai"
)

// generatorFactory returns the gateway.Factory for the configured provider.
func generatorFactory(cfg config.LLMConfig) gateway.Factory {
	provider := strings.ToLower(cfg.Provider)
	return func(ctx context.Context, apiKey string) (gateway.Generator, error) {
		switch provider {
		case config.ProviderOpenAI:
			c, err := openai.New(apiKey, cfg.Model)
			if err != nil {
				return nil, err
			}
			return c, nil
		case config.ProviderGemini, "":
			c, err := gemini.New(ctx, apiKey, cfg.Model)
			if err != nil {
				return nil, err
			}
			return c, nil
		default:
			return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
		}
	}
}

// modelName is the model identifier a provider will use for cfg.
func modelName(cfg config.LLMConfig) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	if strings.ToLower(cfg.Provider) == config.ProviderOpenAI {
		return openai.DefaultModel
	}
	return gemini.DefaultModel
}
