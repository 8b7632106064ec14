package local

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math"

	"github.com/poiesic/resumatch/ai"
)

// Embedder implements ai.Embedder with hashed bag-of-words features.
// It holds no mutable state and is safe for concurrent use.
type Embedder struct {
	dimension int
	logger    *slog.Logger
}

func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Embedder{
		dimension: config.Dimension,
		logger:    slog.Default().With("component", "local-embedder"),
	}, nil
}

// NewEmbedder creates a local embedder producing config.Dimension-length vectors.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// Dimension returns the vector length.
func (e *Embedder) Dimension() int {
	return e.dimension
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ai.ValidateText(text); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(text), nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ai.ValidateTexts(texts); err != nil {
		return nil, err
	}
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *Embedder) embed(text string) []float32 {
	tokens := tokenize(text)
	counts := make(map[int]float64)
	add := func(feature string) {
		idx, sign := e.bucket(feature)
		counts[idx] += sign
	}
	for i, tok := range tokens {
		add("u:" + tok)
		if i > 0 {
			add("b:" + tokens[i-1] + " " + tok)
		}
	}

	vector := make([]float32, e.dimension)
	var sumSquares float64
	for idx, c := range counts {
		// Damp repeated terms, keeping the sign of the hashed count.
		v := math.Copysign(math.Log1p(math.Abs(c)), c)
		vector[idx] = float32(v)
		sumSquares += v * v
	}
	if sumSquares > 0 {
		norm := 1 / math.Sqrt(sumSquares)
		for i := range vector {
			vector[i] = float32(float64(vector[i]) * norm)
		}
	}
	return vector
}

func (e *Embedder) bucket(feature string) (int, float64) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	sign := 1.0
	if sum>>63 == 1 {
		sign = -1.0
	}
	return int(sum % uint64(e.dimension)), sign
}
