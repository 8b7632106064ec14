// Package provider selects an ai.AIProvider implementation from configuration.
package provider

import (
	"fmt"

	"github.com/poiesic/resumatch/ai"
	"github.com/poiesic/resumatch/ai/local"
	"github.com/poiesic/resumatch/ai/openai"
)

// NewProvider validates config and returns the provider it names.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if config == nil {
		config = ai.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Provider {
	case ai.ProviderLocal:
		return local.NewProvider(config)
	case ai.ProviderOpenAI:
		return openai.NewProvider(config)
	default:
		return nil, fmt.Errorf("%w: %q", ai.ErrUnknownProvider, config.Provider)
	}
}
