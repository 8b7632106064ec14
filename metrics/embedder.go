package metrics

import (
	"context"
	"time"

	"github.com/poiesic/resumatch/ai"
)

type instrumentedEmbedder struct {
	next     ai.Embedder
	provider string
}

// InstrumentEmbedder wraps an embedder so every call is counted and timed
// under the given provider label.
func InstrumentEmbedder(next ai.Embedder, provider string) ai.Embedder {
	return &instrumentedEmbedder{next: next, provider: provider}
}

func (e *instrumentedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vec, err := e.next.EmbedText(ctx, text)
	e.observe(start, 1, err)
	return vec, err
}

func (e *instrumentedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	vecs, err := e.next.EmbedTexts(ctx, texts)
	e.observe(start, len(texts), err)
	return vecs, err
}

func (e *instrumentedEmbedder) Dimension() int {
	return e.next.Dimension()
}

func (e *instrumentedEmbedder) observe(start time.Time, texts int, err error) {
	EmbeddingRequestDuration.WithLabelValues(e.provider).Observe(time.Since(start).Seconds())
	EmbeddingRequestsTotal.WithLabelValues(e.provider, Status(err)).Inc()
	EmbeddingTextsTotal.WithLabelValues(e.provider).Add(float64(texts))
}
