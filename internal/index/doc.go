// Package index persists embedded chunks per repository and serves cosine
// similarity search over them.
//
// Two backends implement the VectorIndex contract:
//
//   - SQLite (default): vectors stored as little-endian float32 blobs,
//     similarity computed in Go, schema managed by semver-tracked
//     migrations. The driver is selected at build time: modernc.org/sqlite
//     for pure-Go builds, mattn/go-sqlite3 with -tags cgo_sqlite.
//   - chromem: philippgille/chromem-go embedded vector database, one
//     collection per repository, optionally persisted to disk.
//
// Both backends rank through one shared pipeline (minScore filter,
// descending score with insertion-order tie-break, per-file dedup cap,
// limit), so switching backends never changes result semantics.
//
// Re-indexing is replace, never merge: ClearRepo runs before the new
// generation of chunks is inserted, so a repository never holds two
// generations simultaneously. AddVectors inserts row by row; a failure
// mid-batch leaves earlier rows durable.
package index
