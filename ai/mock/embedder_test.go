package mock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resumatch/core"
)

func TestMockEmbedder(t *testing.T) {
	ctx := context.Background()

	t.Run("deterministic default", func(t *testing.T) {
		m := NewMockEmbedderWithDimension(8)
		a, err := m.EmbedText(ctx, "hello")
		require.NoError(t, err)
		b, err := m.EmbedText(ctx, "hello")
		require.NoError(t, err)

		assert.Equal(t, a, b)
		assert.Len(t, a, 8)
		assert.Equal(t, 2, m.CallCount())
	})

	t.Run("rejects empty text", func(t *testing.T) {
		m := NewMockEmbedder()
		_, err := m.EmbedText(ctx, "")
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("injected behavior", func(t *testing.T) {
		boom := errors.New("boom")
		m := NewMockEmbedder()
		m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, boom
		}
		_, err := m.EmbedText(ctx, "x")
		assert.ErrorIs(t, err, boom)

		m.Reset()
		assert.Equal(t, 0, m.CallCount())
		_, err = m.EmbedText(ctx, "x")
		assert.NoError(t, err)
	})

	t.Run("concurrent calls are counted", func(t *testing.T) {
		m := NewMockEmbedderWithDimension(4)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = m.EmbedTexts(ctx, []string{"a", "b"})
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, m.CallCount())
	})
}

func TestMockProvider(t *testing.T) {
	p := NewMockProviderWithEmbedder(NewMockEmbedderWithDimension(3))
	assert.Equal(t, 3, p.Embedder().Dimension())
	assert.False(t, p.Closed())
	require.NoError(t, p.Close())
	assert.True(t, p.Closed())
}
