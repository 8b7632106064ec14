package ai

import (
	"context"

	"github.com/poiesic/resumatch/core"
)

// Embedder generates fixed-dimension vector embeddings from text.
// Implementations must be thread-safe for concurrent use and deterministic
// for identical input.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Empty or whitespace-only text fails with core.ErrInvalidInput.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the length of every vector this embedder produces.
	Dimension() int
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

// ValidateText rejects text that cannot be embedded.
func ValidateText(text string) error {
	return core.ValidateText(text)
}

// ValidateTexts rejects a batch containing any text that cannot be embedded.
func ValidateTexts(texts []string) error {
	for _, text := range texts {
		if err := ValidateText(text); err != nil {
			return err
		}
	}
	return nil
}
