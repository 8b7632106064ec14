// Package ingestion provides the batch pipeline that turns a directory of
// resume files into index entries.
//
// A batch runs in three phases:
//   - Classification, sequential in filename order: unsupported formats,
//     identifiers already indexed and duplicate content are skipped
//   - Preparation, concurrent on a worker pool: text extraction, embedding
//     and skill profiling
//   - Commit, sequential in filename order: each prepared document is
//     appended to the index
//
// Per-document failures are logged and reported but never abort the batch.
package ingestion
