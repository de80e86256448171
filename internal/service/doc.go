// Package service orchestrates the indexing and retrieval pipeline.
//
// IndexRepository: clear the repository's previous index, chunk every file,
// then embed and insert chunks in strictly sequential fixed-size batches.
// A batch whose embedding call fails is recorded as a typed BatchResult in
// the returned summary and skipped; the run as a whole still succeeds with a
// lower ChunksIndexed count.
//
// RetrieveContext: embed the query (cached and singleflight-collapsed),
// search the index with min-score and per-file dedup options, and format
// matches into a file-grouped context payload. Every failure on this path
// degrades to an empty payload instead of an error.
//
// CheckIndexQuality classifies the index by chunk count (good/fair/limited/
// none) and flags sparse indexes for re-indexing.
//
// Concurrent retrievals are independent of each other and of in-flight
// indexing. Indexing and retrieval racing on the same repository may observe
// a transient empty index between clear and re-insert; callers that need a
// consistent view serialize the two themselves.
package service
