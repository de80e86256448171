package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srewoo/repospector/pkg/types"
)

func cand(id, file string, score float64, order int64) candidate {
	return candidate{
		result: types.SearchResult{ChunkID: id, FilePath: file, Score: score},
		order:  order,
	}
}

func TestRankCandidates_SortsByScoreDescending(t *testing.T) {
	in := []candidate{
		cand("a", "f1", 0.4, 0),
		cand("b", "f2", 0.9, 1),
		cand("c", "f3", 0.6, 2),
	}
	out := rankCandidates(in, 10, SearchOptions{})
	require.Len(t, out, 3)
	assert.Equal(t, "b", out[0].ChunkID)
	assert.Equal(t, "c", out[1].ChunkID)
	assert.Equal(t, "a", out[2].ChunkID)
}

func TestRankCandidates_TieBreaksByInsertionOrder(t *testing.T) {
	in := []candidate{
		cand("later", "f1", 0.8, 7),
		cand("earlier", "f2", 0.8, 3),
	}
	out := rankCandidates(in, 10, SearchOptions{})
	require.Len(t, out, 2)
	assert.Equal(t, "earlier", out[0].ChunkID)
	assert.Equal(t, "later", out[1].ChunkID)
}

func TestRankCandidates_MinScoreFilter(t *testing.T) {
	in := []candidate{
		cand("keep", "f1", 0.31, 0),
		cand("drop", "f2", 0.29, 1),
		cand("edge", "f3", 0.30, 2),
	}
	out := rankCandidates(in, 10, SearchOptions{MinScore: 0.3})
	require.Len(t, out, 2)
	assert.Equal(t, "keep", out[0].ChunkID)
	assert.Equal(t, "edge", out[1].ChunkID)
}

func TestRankCandidates_ZeroMinScoreDisablesFilter(t *testing.T) {
	in := []candidate{cand("neg", "f1", -0.2, 0)}
	out := rankCandidates(in, 10, SearchOptions{})
	assert.Len(t, out, 1)
}

func TestRankCandidates_PerFileDedup(t *testing.T) {
	in := []candidate{
		cand("a1", "a.go", 0.9, 0),
		cand("a2", "a.go", 0.8, 1),
		cand("a3", "a.go", 0.7, 2),
		cand("b1", "b.go", 0.6, 3),
	}
	out := rankCandidates(in, 10, SearchOptions{Deduplicate: true, MaxChunksPerFile: 2})
	require.Len(t, out, 3)
	assert.Equal(t, "a1", out[0].ChunkID)
	assert.Equal(t, "a2", out[1].ChunkID)
	assert.Equal(t, "b1", out[2].ChunkID, "third chunk of a.go must yield to b.go")
}

func TestRankCandidates_DedupDisabledKeepsAll(t *testing.T) {
	in := []candidate{
		cand("a1", "a.go", 0.9, 0),
		cand("a2", "a.go", 0.8, 1),
		cand("a3", "a.go", 0.7, 2),
	}
	out := rankCandidates(in, 10, SearchOptions{Deduplicate: false, MaxChunksPerFile: 1})
	assert.Len(t, out, 3)
}

func TestRankCandidates_Limit(t *testing.T) {
	in := []candidate{
		cand("a", "f1", 0.9, 0),
		cand("b", "f2", 0.8, 1),
		cand("c", "f3", 0.7, 2),
	}
	out := rankCandidates(in, 2, SearchOptions{})
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ChunkID)
	assert.Equal(t, "b", out[1].ChunkID)
}

func TestRankCandidates_Empty(t *testing.T) {
	out := rankCandidates(nil, 5, SearchOptions{MinScore: 0.3})
	assert.Empty(t, out)
}
