package chunker

import (
	"github.com/srewoo/repospector/pkg/types"
)

const (
	// DefaultTokenBudget is the soft target token count per chunk.
	DefaultTokenBudget = 2000

	// DefaultOverlapTokens sizes the context window copied from the end of a
	// closed chunk into the next one.
	DefaultOverlapTokens = 200

	// charsPerToken converts the chars*0.25 token estimate back to
	// characters. The estimate intentionally over-counts for dense code.
	charsPerToken = 4
)

// Fragment is one chunk of text produced by the splitter, before repository
// identity is attached. OverlapChars counts the leading characters seeded
// from the previous fragment; stripping them reconstructs the original text.
type Fragment struct {
	Content      string
	TokenCount   int
	Kind         types.ChunkKind
	OverlapChars int
}

// Chunker splits file text into bounded, overlapping, boundary-aligned
// fragments. The zero-cost instance is stateless and safe for concurrent use.
type Chunker struct {
	overlapTokens int
}

// New creates a Chunker with the default overlap window.
func New() *Chunker {
	return &Chunker{overlapTokens: DefaultOverlapTokens}
}

// NewWithOverlap creates a Chunker with a custom overlap window, expressed
// in tokens.
func NewWithOverlap(overlapTokens int) *Chunker {
	if overlapTokens < 0 {
		overlapTokens = 0
	}
	return &Chunker{overlapTokens: overlapTokens}
}

// EstimateTokens approximates the token count of text as chars * 0.25,
// rounded up.
func EstimateTokens(text string) int {
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// Chunk splits text into fragments whose estimated token counts stay at or
// under tokenBudget, except when a single structural boundary alone exceeds
// it (the boundary is emitted whole, never truncated). Deterministic for
// identical input and budget. Empty input yields no fragments.
func (c *Chunker) Chunk(text string, tokenBudget int) []Fragment {
	if len(text) == 0 {
		return nil
	}
	if tokenBudget <= 0 {
		tokenBudget = DefaultTokenBudget
	}

	bounds := mergeBoundaries(text, detectBoundaries(text))

	overlapChars := c.overlapTokens * charsPerToken
	var fragments []Fragment

	var cur []byte
	curKind := types.ChunkKind("")
	curOverlap := 0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		kind := curKind
		if kind == "" {
			kind = types.ChunkSegment
		}
		fragments = append(fragments, Fragment{
			Content:      string(cur),
			TokenCount:   EstimateTokens(string(cur)),
			Kind:         kind,
			OverlapChars: curOverlap,
		})

		// Seed the next fragment with trailing context from this one.
		seed := overlapChars
		if seed > len(cur) {
			seed = len(cur)
		}
		tail := make([]byte, seed)
		copy(tail, cur[len(cur)-seed:])
		cur = tail
		curOverlap = seed
		curKind = ""
	}

	for _, b := range bounds {
		span := text[b.start:b.end]
		spanTokens := EstimateTokens(span)
		// The budget applies to a chunk's own text; the seeded overlap
		// window rides on top of it.
		curTokens := EstimateTokens(string(cur[curOverlap:]))

		if len(cur) > curOverlap && curTokens+spanTokens > tokenBudget {
			flush()
		}
		if curKind == "" && b.kind != types.ChunkBlock {
			curKind = b.kind
		}
		cur = append(cur, span...)
	}
	if len(cur) > curOverlap {
		flush()
	}

	return fragments
}

// ChunkFile splits content and attaches repository identity, producing
// index-ready chunks with deterministic IDs.
func (c *Chunker) ChunkFile(repoID, filePath, content string) []types.Chunk {
	fragments := c.Chunk(content, DefaultTokenBudget)
	return c.toChunks(repoID, filePath, fragments)
}

// ChunkFileWithBudget is ChunkFile with an explicit token budget.
func (c *Chunker) ChunkFileWithBudget(repoID, filePath, content string, tokenBudget int) []types.Chunk {
	fragments := c.Chunk(content, tokenBudget)
	return c.toChunks(repoID, filePath, fragments)
}

func (c *Chunker) toChunks(repoID, filePath string, fragments []Fragment) []types.Chunk {
	chunks := make([]types.Chunk, len(fragments))
	for i, f := range fragments {
		chunks[i] = types.Chunk{
			RepoID:     repoID,
			FilePath:   filePath,
			ChunkIndex: i,
			Content:    f.Content,
			TokenCount: f.TokenCount,
			Kind:       f.Kind,
		}
		chunks[i].AssignID()
	}
	return chunks
}
