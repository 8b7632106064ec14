package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resumatch/ai"
	"github.com/poiesic/resumatch/ai/local"
	"github.com/poiesic/resumatch/ai/openai"
)

func TestNewProvider(t *testing.T) {
	t.Run("nil config uses local", func(t *testing.T) {
		p, err := NewProvider(nil)
		require.NoError(t, err)
		_, ok := p.(*local.Provider)
		assert.True(t, ok)
		assert.Equal(t, ai.DefaultDimension, p.Embedder().Dimension())
	})

	t.Run("openai", func(t *testing.T) {
		p, err := NewProvider(ai.NewConfig(ai.WithProvider("OPENAI")))
		require.NoError(t, err)
		_, ok := p.(*openai.Provider)
		assert.True(t, ok)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewProvider(ai.NewConfig(ai.WithProvider("bert")))
		assert.ErrorIs(t, err, ai.ErrUnknownProvider)
	})
}
