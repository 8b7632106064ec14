package extract

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/resumatch/core"
)

// PlainExtractor reads UTF-8 text files as-is.
type PlainExtractor struct{}

// NewPlainExtractor returns a PlainExtractor.
func NewPlainExtractor() *PlainExtractor {
	return &PlainExtractor{}
}

// ExtractText returns the trimmed contents of path.
func (p *PlainExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := openFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", core.ErrExtractionFailed, path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", core.ErrNoText, path)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%w: %s", core.ErrNoText, path)
	}
	return text, nil
}
