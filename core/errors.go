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

import "errors"

// Input errors
var (
	// ErrInvalidInput indicates empty or unusable text given to embedding or ranking.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDocumentRecord indicates a DocumentRecord failed validation.
	ErrInvalidDocumentRecord = errors.New("invalid document record")

	// ErrEmptyIdentifier indicates the Identifier field is empty.
	ErrEmptyIdentifier = errors.New("identifier cannot be empty")

	// ErrEmptyContentHash indicates the ContentHash field is empty.
	ErrEmptyContentHash = errors.New("content hash cannot be empty")
)

// Ingestion errors
var (
	// ErrUnsupportedFormat indicates a file extension with no text extractor.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtractionFailed indicates text extraction or embedding failed for a file.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrFileNotFound indicates the source file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoText indicates the file could not be parsed or contained no text.
	ErrNoText = errors.New("no text found")

	// ErrInsufficientText indicates the extracted text is below the minimum length.
	ErrInsufficientText = errors.New("insufficient text")

	// ErrDuplicateContent indicates the content hash is already indexed.
	ErrDuplicateContent = errors.New("duplicate content")

	// ErrDuplicateIdentifier indicates the identifier is already indexed.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
)

// Index errors
var (
	// ErrIndexCorrupted indicates persisted index and metadata are unreadable or misaligned.
	ErrIndexCorrupted = errors.New("index state corrupted")

	// ErrDimensionMismatch indicates a vector whose length differs from the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Query errors
var (
	// ErrNoCandidates indicates a ranking request against an empty index.
	ErrNoCandidates = errors.New("no candidates indexed")

	// ErrDocumentNotFound indicates an identifier that is not in the index.
	ErrDocumentNotFound = errors.New("document not found")
)
