// Package index holds the in-memory vector index of ingested resumes.
//
// The index is an append-only arena of entries, each pairing an embedding
// with its DocumentRecord. A record's Position is its slot in the arena, so
// vectors and metadata can never drift out of alignment. Search is exact,
// brute-force squared L2 distance.
package index
