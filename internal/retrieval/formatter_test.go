package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srewoo/repospector/pkg/types"
)

func result(file string, chunkIndex int, score float64, content string) types.SearchResult {
	return types.SearchResult{
		ChunkID:    types.ChunkID("r", file, chunkIndex),
		FilePath:   file,
		ChunkIndex: chunkIndex,
		Score:      score,
		Content:    content,
	}
}

func TestFormat_EmptyInput(t *testing.T) {
	out := Format(nil)
	require.NotNil(t, out)
	assert.Empty(t, out.Context)
	assert.NotNil(t, out.Sources)
	assert.Empty(t, out.Sources)
	assert.Zero(t, out.AvgScore)
}

func TestFormat_SingleFile(t *testing.T) {
	out := Format([]types.SearchResult{
		result("auth.go", 0, 0.8, "func Login() {}\n"),
	})

	assert.Equal(t, []string{"auth.go"}, out.Sources)
	assert.Contains(t, out.Context, "--- auth.go (relevance: high, score: 0.80) ---")
	assert.Contains(t, out.Context, "func Login() {}")
	assert.InDelta(t, 0.8, out.AvgScore, 1e-9)
}

func TestFormat_GroupsByFile(t *testing.T) {
	out := Format([]types.SearchResult{
		result("a.go", 0, 0.9, "a0\n"),
		result("b.go", 0, 0.6, "b0\n"),
		result("a.go", 1, 0.7, "a1\n"),
	})

	assert.Equal(t, []string{"a.go", "b.go"}, out.Sources)
	// One header per file, not per chunk
	assert.Equal(t, 1, strings.Count(out.Context, "--- a.go"))
	assert.Equal(t, 1, strings.Count(out.Context, "--- b.go"))
}

func TestFormat_ChunksOrderedByIndexWithinFile(t *testing.T) {
	// Score order is 2, 0, 1 but reading order must win within the file
	out := Format([]types.SearchResult{
		result("f.go", 2, 0.9, "chunk two\n"),
		result("f.go", 0, 0.8, "chunk zero\n"),
		result("f.go", 1, 0.7, "chunk one\n"),
	})

	zero := strings.Index(out.Context, "chunk zero")
	one := strings.Index(out.Context, "chunk one")
	two := strings.Index(out.Context, "chunk two")
	assert.True(t, zero < one && one < two, "chunks must appear in file order")
}

func TestFormat_FileGroupsOrderedByMeanScore(t *testing.T) {
	out := Format([]types.SearchResult{
		result("low.go", 0, 0.4, "low\n"),
		result("high.go", 0, 0.9, "high\n"),
		result("mid.go", 0, 0.6, "mid\n"),
	})

	assert.Equal(t, []string{"high.go", "mid.go", "low.go"}, out.Sources)
	assert.Less(t, strings.Index(out.Context, "--- high.go"), strings.Index(out.Context, "--- mid.go"))
}

func TestFormat_RelevanceTiers(t *testing.T) {
	tests := []struct {
		score float64
		tier  string
	}{
		{0.9, "high"},
		{0.7, "high"},
		{0.69, "medium"},
		{0.5, "medium"},
		{0.49, "low"},
		{0.1, "low"},
	}
	for _, tt := range tests {
		out := Format([]types.SearchResult{result("f.go", 0, tt.score, "x\n")})
		assert.Contains(t, out.Context, "relevance: "+tt.tier, "score %.2f", tt.score)
	}
}

func TestFormat_AvgScoreAcrossAllChunks(t *testing.T) {
	out := Format([]types.SearchResult{
		result("a.go", 0, 0.9, "x\n"),
		result("b.go", 0, 0.5, "y\n"),
	})
	assert.InDelta(t, 0.7, out.AvgScore, 1e-9)
}

func TestFormat_ContentWithoutTrailingNewline(t *testing.T) {
	out := Format([]types.SearchResult{
		result("f.go", 0, 0.8, "no trailing newline"),
		result("f.go", 1, 0.8, "next chunk"),
	})
	assert.Contains(t, out.Context, "no trailing newline\nnext chunk\n")
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, types.TierHigh, tierFor(0.75))
	assert.Equal(t, types.TierMedium, tierFor(0.55))
	assert.Equal(t, types.TierLow, tierFor(0.3))
}
