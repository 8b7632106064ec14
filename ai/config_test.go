package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resumatch/core"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderLocal, cfg.Provider)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "all-minilm", cfg.EmbeddingModel)
	assert.Equal(t, "none", cfg.Token)
	assert.Equal(t, 384, cfg.Dimension)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.Equal(t, ProviderLocal, cfg.Provider)
		assert.Equal(t, DefaultDimension, cfg.Dimension)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderOpenAI),
			WithHost("http://custom:8080/v1"),
			WithEmbeddingModel("text-embedding-3-small"),
			WithToken("secret"),
			WithDimension(1536),
		)

		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "secret", cfg.Token)
		assert.Equal(t, 1536, cfg.Dimension)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name             string
		host             string
		provider         string
		expectedHost     string
		expectedProvider string
	}{
		{
			name:             "already has /v1",
			host:             "http://localhost:11434/v1",
			provider:         "openai",
			expectedHost:     "http://localhost:11434/v1",
			expectedProvider: "openai",
		},
		{
			name:             "missing /v1",
			host:             "http://localhost:11434",
			provider:         "OpenAI",
			expectedHost:     "http://localhost:11434/v1",
			expectedProvider: "openai",
		},
		{
			name:             "has trailing slash",
			host:             "http://localhost:11434/",
			provider:         " local ",
			expectedHost:     "http://localhost:11434/v1",
			expectedProvider: "local",
		},
		{
			name:             "empty values",
			host:             "",
			provider:         "",
			expectedHost:     "",
			expectedProvider: "local",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				EmbeddingHost: tt.host,
				Provider:      tt.provider,
			}

			cfg.Normalize()

			assert.Equal(t, tt.expectedHost, cfg.EmbeddingHost)
			assert.Equal(t, tt.expectedProvider, cfg.Provider)
			assert.Equal(t, "none", cfg.Token)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid local config", func(t *testing.T) {
		cfg := &Config{Provider: ProviderLocal, Dimension: 64}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("valid openai config", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderOpenAI), WithHost("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("openai missing host", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderOpenAI), WithHost(""))
		err := cfg.Validate()
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "EmbeddingHost")
	})

	t.Run("openai missing model", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderOpenAI), WithEmbeddingModel(""))
		err := cfg.Validate()
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "EmbeddingModel")
	})

	t.Run("non-positive dimension", func(t *testing.T) {
		cfg := NewConfig(WithDimension(0))
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := NewConfig(WithProvider("huggingface"))
		assert.ErrorIs(t, cfg.Validate(), ErrUnknownProvider)
	})
}

func TestValidateTexts(t *testing.T) {
	assert.NoError(t, ValidateTexts([]string{"a", "b"}))
	assert.NoError(t, ValidateTexts(nil))
	assert.ErrorIs(t, ValidateTexts([]string{"a", "  "}), core.ErrInvalidInput)
}
