// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/poiesic/resumatch/core"
)

// TextExtractor produces the plain text of a file.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Registry dispatches extraction on file extension. It is safe for
// concurrent use.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]TextExtractor
}

// NewEmptyRegistry returns a registry with no extractors registered.
func NewEmptyRegistry() *Registry {
	return &Registry{extractors: make(map[string]TextExtractor)}
}

// NewRegistry returns a registry with the built-in extractors for
// .pdf, .docx, .txt and .md files.
func NewRegistry(ctx context.Context) (*Registry, error) {
	pdf, err := NewPDFExtractor(ctx)
	if err != nil {
		return nil, err
	}

	r := NewEmptyRegistry()
	plain := NewPlainExtractor()
	for ext, e := range map[string]TextExtractor{
		".pdf":  pdf,
		".docx": NewDocxExtractor(),
		".txt":  plain,
		".md":   plain,
	} {
		if err := r.Register(ext, e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register associates an extension such as ".pdf" with an extractor,
// replacing any previous association.
func (r *Registry) Register(ext string, e TextExtractor) error {
	if e == nil {
		return ErrExtractorRequired
	}
	ext = strings.ToLower(ext)
	if len(ext) < 2 || ext[0] != '.' {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[ext] = e
	return nil
}

// Supports reports whether the extension of path has an extractor.
func (r *Registry) Supports(path string) bool {
	_, ok := r.lookup(path)
	return ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// Restrict returns a registry holding only the given extensions. An
// extension with no extractor fails with core.ErrUnsupportedFormat.
func (r *Registry) Restrict(exts ...string) (*Registry, error) {
	out := NewEmptyRegistry()
	for _, ext := range exts {
		e, ok := r.lookup("x" + ext)
		if !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, ext)
		}
		if err := out.Register(ext, e); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ExtractText extracts the text of path with the extractor registered
// for its extension. Unknown extensions fail with core.ErrUnsupportedFormat.
func (r *Registry) ExtractText(ctx context.Context, path string) (string, error) {
	e, ok := r.lookup(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, filepath.Base(path))
	}
	return e.ExtractText(ctx, path)
}

func (r *Registry) lookup(path string) (TextExtractor, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[ext]
	return e, ok
}

// openFile opens path, mapping a missing file to core.ErrFileNotFound.
func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrFileNotFound, path)
		}
		return nil, err
	}
	return f, nil
}
