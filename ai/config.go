// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"fmt"
	"strings"
)

// Provider names accepted by Config.Provider.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
)

// DefaultDimension is the embedding width of the default models.
const DefaultDimension = 384

// Config holds configuration for AI service providers.
type Config struct {
	// Provider selects the embedding implementation: "local" or "openai".
	// Default: "local"
	Provider string

	// EmbeddingHost is the base URL for the embedding service API.
	// Only used by the openai provider.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "all-minilm", "text-embedding-3-small"
	EmbeddingModel string

	// Token is the API token sent to the embedding service.
	// Local OpenAI-compatible servers accept any value.
	Token string

	// Dimension is the length of every embedding vector.
	// Default: 384
	Dimension int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the embedding provider name.
func WithProvider(name string) ConfigOption {
	return func(c *Config) {
		c.Provider = name
	}
}

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithToken sets the API token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithDimension sets the embedding dimension.
func WithDimension(dim int) ConfigOption {
	return func(c *Config) {
		c.Dimension = dim
	}
}

// DefaultConfig returns a Config that embeds fully offline.
// The remote settings point at a local Ollama server serving all-minilm,
// which also produces 384-dimensional vectors.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderLocal,
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "all-minilm",
		Token:          "none",
		Dimension:      DefaultDimension,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithProvider(ProviderOpenAI),
//	    WithHost("http://localhost:11434"),
//	    WithEmbeddingModel("all-minilm"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It lowercases the provider name and adds the /v1 suffix to the host if
// missing, which is required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
	if c.Token == "" {
		c.Token = "none"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Dimension < 1 {
		return fmt.Errorf("%w: Dimension must be positive", ErrInvalidConfig)
	}

	switch c.Provider {
	case ProviderLocal:
		return nil
	case ProviderOpenAI:
		if c.EmbeddingHost == "" {
			return fmt.Errorf("%w: EmbeddingHost is required", ErrInvalidConfig)
		}
		if c.EmbeddingModel == "" {
			return fmt.Errorf("%w: EmbeddingModel is required", ErrInvalidConfig)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
}
