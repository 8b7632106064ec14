package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/extract"
)

// textProcessor extracts and validates document text.
type textProcessor struct {
	extractor extract.TextExtractor
	minLength int
	logger    *slog.Logger
}

var _ processor = (*textProcessor)(nil)

func newTextProcessor(extractor extract.TextExtractor, minLength int, logger *slog.Logger) (processor, error) {
	if extractor == nil {
		return nil, ErrTextExtractorRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &textProcessor{
		extractor: extractor,
		minLength: minLength,
		logger:    logger.With("processor", "text"),
	}, nil
}

func (tp *textProcessor) process(ctx context.Context, doc *document) error {
	text, err := tp.extractor.ExtractText(ctx, doc.path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", core.ErrExtractionFailed, err)
	}

	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < tp.minLength {
		return fmt.Errorf("%w: %w: %d characters, need %d",
			core.ErrExtractionFailed, core.ErrInsufficientText, n, tp.minLength)
	}

	tp.logger.Debug("extracted text", "file", doc.identifier, "chars", len(text))
	doc.text = text
	return nil
}
