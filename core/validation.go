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


package core

import (
	"fmt"
	"strings"
)

// MinTextLength is the shortest text, after trimming, that is worth
// extracting attributes from or ingesting.
const MinTextLength = 10

// ValidateText checks that text is usable as embedding input.
// Whitespace-only text is rejected along with the empty string.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text must be a non-empty string", ErrInvalidInput)
	}
	return nil
}

// ValidateDocumentRecord validates a DocumentRecord before it is appended.
//
// Validation rules:
//   - Identifier must not be empty
//   - ContentHash must not be empty
//   - Text must not be empty
//
// NOT validated (assigned by the index):
//   - Position
//   - IngestedAt
func ValidateDocumentRecord(record *DocumentRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidDocumentRecord)
	}

	if record.Identifier == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocumentRecord, ErrEmptyIdentifier)
	}

	if record.ContentHash == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocumentRecord, ErrEmptyContentHash)
	}

	if err := ValidateText(record.Text); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocumentRecord, err)
	}

	return nil
}

// ValidateVector checks that a vector has the expected dimension.
func ValidateVector(vector []float32, dimension int) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
	}
	if dimension > 0 && len(vector) != dimension {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, dimension, len(vector))
	}
	return nil
}
