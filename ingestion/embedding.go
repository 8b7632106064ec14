package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/resumatch/ai"
	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/skills"
)

// embeddingProcessor generates the document embedding.
type embeddingProcessor struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(embedder ai.Embedder, logger *slog.Logger) (processor, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		embedder: embedder,
		logger:   logger.With("processor", "embeddings"),
	}, nil
}

func (ep *embeddingProcessor) process(ctx context.Context, doc *document) error {
	vector, err := ep.embedder.EmbedText(ctx, doc.text)
	if err != nil {
		return fmt.Errorf("%w: embedding: %w", core.ErrExtractionFailed, err)
	}
	if len(vector) != ep.embedder.Dimension() {
		return fmt.Errorf("%w: expected %d, got %d",
			core.ErrDimensionMismatch, ep.embedder.Dimension(), len(vector))
	}
	ep.logger.Debug("generated embedding", "file", doc.identifier)
	doc.vector = vector
	return nil
}

// skillsProcessor computes the cached skill profile.
type skillsProcessor struct {
	extractor *skills.Extractor
}

var _ processor = (*skillsProcessor)(nil)

func (sp *skillsProcessor) process(ctx context.Context, doc *document) error {
	doc.skills = sp.extractor.Extract(doc.text)
	return nil
}
