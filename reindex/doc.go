// Package reindex re-embeds every document of a persisted index with a new
// or updated embedding model.
//
// Positions, identifiers, content hashes and cached skill profiles are kept;
// only vectors (and possibly the dimension) change. The stored snapshot is
// replaced once every document has been re-embedded, so a failed run leaves
// the previous index intact.
package reindex
