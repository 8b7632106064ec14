package reindex

import (
	"context"
	"fmt"

	"github.com/poiesic/resumatch/ai"
	"github.com/poiesic/resumatch/core"
)

// BatchProcessor re-embeds batches of entries.
type BatchProcessor struct {
	embedder ai.Embedder
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(embedder ai.Embedder) *BatchProcessor {
	return &BatchProcessor{embedder: embedder}
}

// Process embeds the cached text of every entry and returns new entries
// sharing the original records. The input is not modified.
func (bp *BatchProcessor) Process(ctx context.Context, entries []core.Entry) ([]core.Entry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Record.Text
	}

	vectors, err := bp.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(vectors) != len(entries) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(entries), len(vectors))
	}

	out := make([]core.Entry, len(entries))
	for i, e := range entries {
		if err := core.ValidateVector(vectors[i], bp.embedder.Dimension()); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Record.Identifier, err)
		}
		out[i] = core.Entry{Record: e.Record, Vector: vectors[i]}
	}
	return out, nil
}
