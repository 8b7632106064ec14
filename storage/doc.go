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


// Package storage provides the persistence abstraction for the resume index.
//
// An IndexStore saves and restores core.Snapshot values: the ordered list of
// (vector, record) entries plus the index dimension. Backends must keep the
// vector half and the metadata half aligned; a store that cannot prove the
// halves agree reports core.ErrIndexCorrupted instead of returning partial
// state.
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.IndexStore interface:
//
//	store, err := file.NewStore("/path/to/index")     // binary + JSON files
//	store, err := badger.NewIndexStore("/path/to/db") // BadgerDB
//
// # Backends
//
//   - storage/file: resume_index.bin, resume_metadata.bin and a
//     human-readable resume_metadata.json in one directory
//   - storage/badger: one key per record and per vector, appended
//     incrementally
//
// # Serialization
//
// Records and vectors are encoded with mus-go serializers (see
// serialization.go). Both backends share the same record encoding.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Save and Replace calls
// are serialized by the implementation.
package storage
