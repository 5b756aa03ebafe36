// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/pkg/types"
)

// ErrMissingCredential reports that no API key was configured for the provider.
var ErrMissingCredential = errors.New("missing API credential")

// NewBackend builds the TopicGenerator named by cfg.Provider.
func NewBackend(cfg types.AIConfig) (TopicGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrMissingCredential)
	}

	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		return &OpenAIBackend{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			UserAgent: cfg.UserAgent,
			Client:    &http.Client{Timeout: cfg.Timeout},
		}, nil
	case types.ProviderAnthropic:
		return NewAnthropicBackend(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai or anthropic)", cfg.Provider)
	}
}
