package local

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resumatch/ai"
	"github.com/poiesic/resumatch/core"
)

func newTestEmbedder(t *testing.T, dim int) ai.Embedder {
	t.Helper()
	e, err := NewEmbedder(ai.NewConfig(ai.WithDimension(dim)))
	require.NoError(t, err)
	return e
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func TestEmbedText(t *testing.T) {
	ctx := context.Background()
	e := newTestEmbedder(t, 384)

	t.Run("dimension and unit length", func(t *testing.T) {
		v, err := e.EmbedText(ctx, "Senior Python developer with Docker experience")
		require.NoError(t, err)
		assert.Len(t, v, 384)
		assert.Equal(t, 384, e.Dimension())
		assert.InDelta(t, 1.0, norm(v), 1e-5)
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := e.EmbedText(ctx, "Go and Kubernetes")
		require.NoError(t, err)
		b, err := e.EmbedText(ctx, "Go and Kubernetes")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("related text is closer", func(t *testing.T) {
		job, err := e.EmbedText(ctx, "python developer docker kubernetes aws")
		require.NoError(t, err)
		near, err := e.EmbedText(ctx, "experienced python developer using docker and kubernetes")
		require.NoError(t, err)
		far, err := e.EmbedText(ctx, "pastry chef specializing in french desserts")
		require.NoError(t, err)

		assert.Less(t, distance(job, near), distance(job, far))
	})

	t.Run("only punctuation yields zero vector", func(t *testing.T) {
		v, err := e.EmbedText(ctx, "!!! ---")
		require.NoError(t, err)
		assert.Equal(t, 0.0, norm(v))
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := e.EmbedText(ctx, "   ")
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := e.EmbedText(cctx, "text")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEmbedTexts(t *testing.T) {
	ctx := context.Background()
	e := newTestEmbedder(t, 32)

	vectors, err := e.EmbedTexts(ctx, []string{"first resume", "second resume"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	single, err := e.EmbedText(ctx, "second resume")
	require.NoError(t, err)
	assert.Equal(t, single, vectors[1])

	_, err = e.EmbedTexts(ctx, []string{"ok", ""})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"c++", "node.js", "developer"}, tokenize("C++, Node.js and the (developer)"))
	assert.Empty(t, tokenize("the and of"))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(ai.NewConfig(ai.WithDimension(16)))
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, 16, p.Embedder().Dimension())

	_, err = NewProvider(ai.NewConfig(ai.WithDimension(-1)))
	assert.ErrorIs(t, err, ai.ErrInvalidConfig)
}
