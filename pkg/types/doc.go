// Package types defines the shared domain model for the repoSpector retrieval
// core: chunks, search results, retrieval payloads, indexing progress and the
// error taxonomy.
//
// A Chunk is the unit of embedding and search. Its ID is deterministic
// (RepoID:FilePath:ChunkIndex) so re-indexing a repository produces the same
// IDs for unchanged content:
//
//	c := types.Chunk{RepoID: "acme/api", FilePath: "src/auth.js", ChunkIndex: 0}
//	c.AssignID() // "acme/api:src/auth.js:0"
//
// SearchResult and RetrievedContext are read-only projections produced per
// query; they are never persisted.
//
// The error variables distinguish configuration errors (fail fast),
// authentication errors (never retried) and transient provider errors
// (retried with backoff), so callers can branch with errors.Is.
package types
