// Package embedder generates vector embeddings for chunks and queries.
//
// Two providers share one contract, selected at construction:
//
//   - local: deterministic hash-derived unit vectors (384 dims), no network.
//     Initialization can fail; the error is recoverable and tells the caller
//     to switch to the remote provider.
//   - remote: POST <baseURL>/embeddings with {model, input}, bearer auth,
//     response vectors in request order (1536 dims by default).
//
// # Retry policy
//
// Remote calls are retried up to 3 times with exponential backoff starting
// at 500ms. Authentication failures (401/403) are never retried and surface
// immediately as types.ErrAuthFailed; everything else (429, 5xx, network) is
// retried, and the last error propagates after exhaustion wrapped in
// types.ErrProviderFailed.
//
// # Caching
//
// Only single-text requests are cache-eligible; that is the common
// query-embedding case. The cache keys on an FNV-64a hash of the text, holds
// at most N entries (default 100), and expires entries after a TTL (default
// 5 minutes) checked against an injectable clock:
//
//	cache := embedder.NewCacheWithClock(100, 5*time.Minute, clock.Now)
//	p, err := embedder.NewWithCache(embedder.Config{Provider: "local"}, cache)
//
// A cache hit short-circuits the provider entirely. The hash is a
// memoization key, not a security boundary.
package embedder
