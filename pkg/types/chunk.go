package types

import (
	"errors"
	"fmt"
)

// ChunkKind classifies the structural boundary a chunk was built from.
type ChunkKind string

const (
	ChunkFunction ChunkKind = "function" // function declaration span
	ChunkClass    ChunkKind = "class"    // class/type declaration span
	ChunkMethod   ChunkKind = "method"   // method declaration span
	ChunkBlock    ChunkKind = "block"    // other structural block
	ChunkSegment  ChunkKind = "segment"  // synthesized line-range segment
)

// Chunk is a bounded, overlapping slice of one source file, the unit of
// embedding and search.
type Chunk struct {
	// Identification
	ID         string // RepoID:FilePath:ChunkIndex, stable across runs
	RepoID     string
	FilePath   string
	ChunkIndex int

	// Content
	Content    string
	TokenCount int
	Kind       ChunkKind

	// Embedding is attached after successful embedding generation and is
	// nil for freshly chunked content.
	Embedding []float32
}

// ChunkID builds the deterministic chunk identifier.
func ChunkID(repoID, filePath string, chunkIndex int) string {
	return fmt.Sprintf("%s:%s:%d", repoID, filePath, chunkIndex)
}

// AssignID sets the chunk's ID from its repo, path and index.
func (c *Chunk) AssignID() {
	c.ID = ChunkID(c.RepoID, c.FilePath, c.ChunkIndex)
}

// Validate checks structural requirements before the chunk enters the index.
func (c *Chunk) Validate() error {
	if c.RepoID == "" {
		return errors.New("chunk repo ID is required")
	}
	if c.FilePath == "" {
		return errors.New("chunk file path is required")
	}
	if c.Content == "" {
		return ErrEmptyContent
	}
	if c.ChunkIndex < 0 {
		return errors.New("chunk index must not be negative")
	}
	if c.ID != ChunkID(c.RepoID, c.FilePath, c.ChunkIndex) {
		return errors.New("chunk ID does not match repo/path/index")
	}
	return nil
}

// RepoFile is one input file handed to indexing.
type RepoFile struct {
	Path    string
	Content string
}

// RepoStats summarizes one repository's index for quality assessment.
type RepoStats struct {
	ChunksCount int
	FilesCount  int
}
