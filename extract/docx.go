package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/resumatch/core"
)

const documentPart = "word/document.xml"

// DocxExtractor reads the main document part of Office Open XML files.
// Paragraph texts are joined with a single space.
type DocxExtractor struct{}

// NewDocxExtractor returns a DocxExtractor.
func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

func (d *DocxExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", core.ErrFileNotFound, path)
		}
		return "", fmt.Errorf("%w: %s: %w", core.ErrNoText, path, err)
	}
	defer zr.Close()

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", fmt.Errorf("%w: %s has no %s", core.ErrNoText, path, documentPart)
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", core.ErrNoText, path, err)
	}
	defer rc.Close()

	paragraphs, err := readParagraphs(rc)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", core.ErrNoText, path, err)
	}
	text := strings.TrimSpace(strings.Join(paragraphs, " "))
	if text == "" {
		return "", fmt.Errorf("%w: %s", core.ErrNoText, path)
	}
	return text, nil
}

// readParagraphs walks the WordprocessingML token stream collecting the
// text runs of each <w:p> element.
func readParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return paragraphs, nil
}
