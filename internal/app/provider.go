package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"jobcoach/internal/config"
	"jobcoach/internal/llm"
	"jobcoach/internal/llm/gemini"
	"jobcoach/internal/llm/openai"
)

// NewProvider builds the configured model provider. Without a credential it
// returns nil; the assistant then answers every request with a
// configuration error.
func NewProvider(ctx context.Context, cfg config.AssistantConfig, httpClient *http.Client) (llm.Provider, error) {
	if strings.TrimSpace(cfg.ProviderCredential) == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.New(cfg.ProviderCredential, cfg.ProviderBaseURL, httpClient), nil
	case config.ProviderGemini:
		p, err := gemini.New(ctx, cfg.ProviderCredential, cfg.ProviderBaseURL, httpClient)
		if err != nil {
			return nil, fmt.Errorf("create gemini provider: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown assistant provider %q", cfg.Provider)
	}
}
