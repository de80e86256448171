package index

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srewoo/repospector/pkg/types"
)

func TestChromemIndex_NotInitialized(t *testing.T) {
	idx := NewChromemIndex("")
	ctx := context.Background()

	_, err := idx.AddVectors(ctx, []types.Chunk{testChunk("r", "a.go", 0, "x", scoreVec(0.9))})
	assert.ErrorIs(t, err, types.ErrNotInitialized)

	_, err = idx.Search(ctx, "r", queryVec, 10, SearchOptions{})
	assert.ErrorIs(t, err, types.ErrNotInitialized)

	assert.ErrorIs(t, idx.ClearRepo(ctx, "r"), types.ErrNotInitialized)

	_, err = idx.Stats(ctx, "r")
	assert.ErrorIs(t, err, types.ErrNotInitialized)
}

func TestChromemIndex_InitIdempotent(t *testing.T) {
	idx := NewChromemIndex("")
	require.NoError(t, idx.Init(context.Background()))
	require.NoError(t, idx.Init(context.Background()))
}

func TestChromemIndex_ClearUnknownRepo(t *testing.T) {
	idx := NewChromemIndex("")
	require.NoError(t, idx.Init(context.Background()))
	assert.NoError(t, idx.ClearRepo(context.Background(), "never-indexed"))
}

func TestCollectionName_ValidCharacters(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]+$`)
	for _, repoID := range []string{
		"acme/billing",
		"Weird Spaces Here",
		"under_scores.and.dots",
		"UPPERCASE",
	} {
		name := collectionName(repoID)
		assert.True(t, valid.MatchString(name), "collection name %q for %q", name, repoID)
	}
}

func TestCollectionName_DistinctAfterSanitization(t *testing.T) {
	// Both sanitize to the same character run; the hash suffix keeps them apart
	a := collectionName("acme/billing")
	b := collectionName("acme.billing")
	assert.NotEqual(t, a, b)
}

func TestCollectionName_Deterministic(t *testing.T) {
	assert.Equal(t, collectionName("acme/billing"), collectionName("acme/billing"))
}

func TestCollectionName_LongRepoIDBounded(t *testing.T) {
	long := ""
	for i := 0; i < 20; i++ {
		long += "very-long-repository-name"
	}
	name := collectionName(long)
	assert.LessOrEqual(t, len(name), 64)
}
