// Package retrieval assembles raw similarity-search results into the bounded
// context payload handed to callers: grouped by file, restored to file-local
// reading order, annotated with per-file relevance tiers (high >= 0.7,
// medium >= 0.5, else low), plus the distinct source list and overall mean
// score. Empty input produces an empty payload, never an error.
package retrieval
