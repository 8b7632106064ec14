package ranking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resumatch/core"
)

func TestExplain(t *testing.T) {
	ctx := context.Background()
	r, err := NewRanker(scenarioCorpus(t), queryEmbedder())
	require.NoError(t, err)

	t.Run("partial match", func(t *testing.T) {
		a, err := r.Explain(ctx, "doc1.pdf", jobText)
		require.NoError(t, err)
		assert.Equal(t, []string{"Has python", "Has sql"}, a.Strengths)
		assert.Equal(t, []string{"Missing aws"}, a.Weaknesses)
		assert.Equal(t, 66.67, a.MatchScore)
		assert.Equal(t, core.FitMedium, a.OverallFit)
		assert.Equal(t, "Matched 2/3 required skills (66.7%)", a.Reasoning)
	})

	t.Run("no match", func(t *testing.T) {
		a, err := r.Explain(ctx, "doc3.pdf", jobText)
		require.NoError(t, err)
		assert.Empty(t, a.Strengths)
		assert.NotNil(t, a.Strengths)
		assert.Equal(t, core.FitLow, a.OverallFit)
		assert.Equal(t, "Matched 0/3 required skills (0.0%)", a.Reasoning)
	})

	t.Run("high fit with truncated lists", func(t *testing.T) {
		idx := newCorpus(t, seedDoc{
			name:      "senior.pdf",
			vector:    []float32{1, 0, 0, 0},
			technical: []string{"aws", "docker", "go", "kafka", "kubernetes", "postgresql", "python"},
		})
		r, err := NewRanker(idx, queryEmbedder())
		require.NoError(t, err)

		a, err := r.Explain(ctx, "senior.pdf",
			"Need Go, Python, Docker, Kubernetes, Kafka, PostgreSQL and AWS skills")
		require.NoError(t, err)
		assert.Equal(t, core.FitHigh, a.OverallFit)
		assert.Equal(t, 100.0, a.MatchScore)
		assert.Len(t, a.Strengths, 5)
		assert.Equal(t, "Has aws", a.Strengths[0])
	})

	t.Run("unknown resume", func(t *testing.T) {
		_, err := r.Explain(ctx, "nobody.pdf", jobText)
		assert.ErrorIs(t, err, core.ErrDocumentNotFound)
	})

	t.Run("empty job text", func(t *testing.T) {
		_, err := r.Explain(ctx, "doc1.pdf", "   ")
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})
}

func TestFitLevel(t *testing.T) {
	assert.Equal(t, core.FitHigh, fitLevel(70))
	assert.Equal(t, core.FitMedium, fitLevel(69.99))
	assert.Equal(t, core.FitMedium, fitLevel(40))
	assert.Equal(t, core.FitLow, fitLevel(39.99))
}
