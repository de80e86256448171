package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkID(t *testing.T) {
	assert.Equal(t, "acme/billing:internal/invoice.go:3",
		ChunkID("acme/billing", "internal/invoice.go", 3))
}

func TestChunk_AssignID(t *testing.T) {
	c := Chunk{RepoID: "r", FilePath: "a.go", ChunkIndex: 1}
	c.AssignID()
	assert.Equal(t, "r:a.go:1", c.ID)
}

func TestChunk_Validate(t *testing.T) {
	valid := Chunk{RepoID: "r", FilePath: "a.go", ChunkIndex: 0, Content: "x"}
	valid.AssignID()
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Chunk)
	}{
		{"missing repo", func(c *Chunk) { c.RepoID = "" }},
		{"missing path", func(c *Chunk) { c.FilePath = "" }},
		{"empty content", func(c *Chunk) { c.Content = "" }},
		{"negative index", func(c *Chunk) { c.ChunkIndex = -1 }},
		{"stale ID", func(c *Chunk) { c.ChunkIndex = 5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestIndexSummary_FailedBatches(t *testing.T) {
	s := IndexSummary{Batches: []BatchResult{
		{Batch: 0},
		{Batch: 1, Err: assert.AnError},
		{Batch: 2},
		{Batch: 3, Err: assert.AnError},
	}}
	assert.Equal(t, 2, s.FailedBatches())
	assert.Equal(t, 0, (&IndexSummary{}).FailedBatches())
}
