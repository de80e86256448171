package retrieval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/srewoo/repospector/pkg/types"
)

// Relevance tier thresholds applied to a file group's mean score.
const (
	TierHighThreshold   = 0.7
	TierMediumThreshold = 0.5
)

// fileGroup collects one file's matched chunks.
type fileGroup struct {
	filePath  string
	chunks    []types.SearchResult
	meanScore float64
}

// Format turns ranked search results into a bounded, file-grouped context
// payload. Results are grouped by file; within each file chunks are ordered
// by chunk index, restoring file-local reading order regardless of score
// order. File groups are emitted by descending mean score, each annotated
// with its relevance tier. Empty input yields an empty payload, never an
// error.
func Format(results []types.SearchResult) *types.RetrievedContext {
	if len(results) == 0 {
		return &types.RetrievedContext{Sources: []string{}}
	}

	byFile := make(map[string]*fileGroup)
	order := make([]*fileGroup, 0)
	var total float64

	for _, r := range results {
		total += r.Score
		g, ok := byFile[r.FilePath]
		if !ok {
			g = &fileGroup{filePath: r.FilePath}
			byFile[r.FilePath] = g
			order = append(order, g)
		}
		g.chunks = append(g.chunks, r)
	}

	for _, g := range order {
		var sum float64
		for _, c := range g.chunks {
			sum += c.Score
		}
		g.meanScore = sum / float64(len(g.chunks))

		sort.Slice(g.chunks, func(i, j int) bool {
			return g.chunks[i].ChunkIndex < g.chunks[j].ChunkIndex
		})
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].meanScore > order[j].meanScore
	})

	var b strings.Builder
	sources := make([]string, 0, len(order))
	for _, g := range order {
		sources = append(sources, g.filePath)
		writeFileBlock(&b, g)
	}

	return &types.RetrievedContext{
		Context:  b.String(),
		Sources:  sources,
		AvgScore: total / float64(len(results)),
	}
}

// writeFileBlock emits one annotated block for a file's chunks.
func writeFileBlock(b *strings.Builder, g *fileGroup) {
	fmt.Fprintf(b, "--- %s (relevance: %s, score: %.2f) ---\n",
		g.filePath, tierFor(g.meanScore), g.meanScore)
	for _, c := range g.chunks {
		b.WriteString(c.Content)
		if !strings.HasSuffix(c.Content, "\n") {
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
}

// tierFor buckets a mean score into a relevance tier.
func tierFor(score float64) types.RelevanceTier {
	switch {
	case score >= TierHighThreshold:
		return types.TierHigh
	case score >= TierMediumThreshold:
		return types.TierMedium
	default:
		return types.TierLow
	}
}
