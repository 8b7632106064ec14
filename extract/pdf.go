package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"

	"github.com/poiesic/resumatch/core"
)

// PDFExtractor extracts the text of every page of a PDF as one document.
type PDFExtractor struct {
	parser *pdf.PDFParser
}

// NewPDFExtractor creates a PDFExtractor backed by the eino PDF parser.
func NewPDFExtractor(ctx context.Context) (*PDFExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF parser: %w", err)
	}
	return &PDFExtractor{parser: p}, nil
}

func (e *PDFExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	f, err := openFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	docs, err := e.parser.Parse(ctx, f,
		einoParser.WithURI(path),
		einoParser.WithExtraMeta(map[string]any{"source": path}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", core.ErrNoText, path, err)
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if s := strings.TrimSpace(doc.Content); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: %s", core.ErrNoText, path)
	}
	return strings.Join(parts, " "), nil
}
