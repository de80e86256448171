package index

import (
	"context"
	"sort"

	"github.com/srewoo/repospector/pkg/types"
)

// SearchOptions narrows and shapes similarity search results.
type SearchOptions struct {
	// MinScore drops results scoring below the threshold. Zero disables.
	MinScore float64

	// Deduplicate caps how many chunks one file may contribute, keeping the
	// highest-scoring ones. MaxChunksPerFile is ignored unless Deduplicate
	// is set.
	Deduplicate      bool
	MaxChunksPerFile int
}

// VectorIndex persists embedded chunks keyed by repository identity and
// serves similarity search over them. Re-indexing is replace, never merge:
// callers clear a repository before inserting its new generation of chunks.
type VectorIndex interface {
	// Init performs idempotent setup of the backing store.
	Init(ctx context.Context) error

	// ClearRepo removes every chunk belonging to repoID.
	ClearRepo(ctx context.Context, repoID string) error

	// AddVectors appends a batch of embedded chunks. Each insertion is
	// independently durable: a partial-batch failure never corrupts chunks
	// stored earlier. Returns how many chunks were inserted.
	AddVectors(ctx context.Context, chunks []types.Chunk) (int, error)

	// Search returns up to limit chunks of repoID ranked by descending
	// cosine similarity to queryVector. Ties break by insertion order.
	Search(ctx context.Context, repoID string, queryVector []float32, limit int, opts SearchOptions) ([]types.SearchResult, error)

	// Stats reports chunk and file counts for repoID.
	Stats(ctx context.Context, repoID string) (types.RepoStats, error)

	// Close releases the backing store.
	Close() error
}

// candidate pairs a scored result with its insertion order for stable
// tie-breaking.
type candidate struct {
	result types.SearchResult
	order  int64
}

// rankCandidates applies the shared ranking pipeline: minScore filter, sort
// by descending score with insertion-order tie-break, per-file dedup cap,
// then the limit. Both backends rank through here so they behave identically.
func rankCandidates(candidates []candidate, limit int, opts SearchOptions) []types.SearchResult {
	filtered := candidates[:0]
	for _, c := range candidates {
		if opts.MinScore > 0 && c.result.Score < opts.MinScore {
			continue
		}
		filtered = append(filtered, c)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].result.Score != filtered[j].result.Score {
			return filtered[i].result.Score > filtered[j].result.Score
		}
		return filtered[i].order < filtered[j].order
	})

	perFile := make(map[string]int)
	results := make([]types.SearchResult, 0, len(filtered))
	for _, c := range filtered {
		if opts.Deduplicate && opts.MaxChunksPerFile > 0 {
			if perFile[c.result.FilePath] >= opts.MaxChunksPerFile {
				continue
			}
			perFile[c.result.FilePath]++
		}
		results = append(results, c.result)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results
}
