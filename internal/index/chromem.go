package index

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/srewoo/repospector/pkg/types"
)

// ChromemIndex implements VectorIndex on chromem-go, an embedded pure-Go
// vector database. One collection per repository; clearing a repo drops its
// collection. With an empty persist directory the index lives in memory.
//
// chromem does not expose document enumeration, so distinct-file counts are
// tracked in process memory; after a restart of a persistent store they
// reset until the repo is re-indexed. The SQLite backend has no such gap.
type ChromemIndex struct {
	persistDir string
	db         *chromem.DB

	mu    sync.Mutex
	files map[string]map[string]struct{} // repoID -> file paths
}

// NewChromemIndex creates the index. persistDir == "" keeps everything in
// memory.
func NewChromemIndex(persistDir string) *ChromemIndex {
	return &ChromemIndex{
		persistDir: persistDir,
		files:      make(map[string]map[string]struct{}),
	}
}

// Init opens the backing store. Idempotent.
func (c *ChromemIndex) Init(ctx context.Context) error {
	if c.db != nil {
		return nil
	}
	if c.persistDir == "" {
		c.db = chromem.NewDB()
		return nil
	}
	db, err := chromem.NewPersistentDB(c.persistDir, false)
	if err != nil {
		return fmt.Errorf("failed to open chromem store: %w", err)
	}
	c.db = db
	return nil
}

// collectionName maps a repoID onto chromem's collection naming rules:
// lowercase alphanumerics and dashes, with an FNV suffix to keep distinct
// repoIDs from colliding after sanitization.
func collectionName(repoID string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(repoID) {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		default:
			b.WriteByte('-')
		}
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(repoID))
	name := b.String()
	if len(name) > 40 {
		name = name[:40]
	}
	return fmt.Sprintf("repo-%s-%08x", name, h.Sum32())
}

// noEmbed guards against chromem ever being asked to embed: all vectors are
// precomputed by the embedder and attached to documents.
func noEmbed(context.Context, string) ([]float32, error) {
	return nil, fmt.Errorf("embeddings are precomputed; embedding function must not be called")
}

// ClearRepo drops the repository's collection.
func (c *ChromemIndex) ClearRepo(ctx context.Context, repoID string) error {
	if c.db == nil {
		return types.ErrNotInitialized
	}
	if err := c.db.DeleteCollection(collectionName(repoID)); err != nil {
		return fmt.Errorf("failed to clear repo %s: %w", repoID, err)
	}
	c.mu.Lock()
	delete(c.files, repoID)
	c.mu.Unlock()
	return nil
}

// AddVectors appends embedded chunks to the repository's collection, one
// document per call so each insertion is independently durable.
func (c *ChromemIndex) AddVectors(ctx context.Context, chunks []types.Chunk) (int, error) {
	if c.db == nil {
		return 0, types.ErrNotInitialized
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	inserted := 0
	for i := range chunks {
		chunk := &chunks[i]
		if err := chunk.Validate(); err != nil {
			return inserted, fmt.Errorf("chunk %s invalid: %w", chunk.ID, err)
		}
		if len(chunk.Embedding) == 0 {
			return inserted, fmt.Errorf("chunk %s has no embedding", chunk.ID)
		}

		collection, err := c.db.GetOrCreateCollection(collectionName(chunk.RepoID), nil, noEmbed)
		if err != nil {
			return inserted, fmt.Errorf("failed to open collection for %s: %w", chunk.RepoID, err)
		}

		doc := chromem.Document{
			ID:      chunk.ID,
			Content: chunk.Content,
			Metadata: map[string]string{
				"file_path":   chunk.FilePath,
				"chunk_index": strconv.Itoa(chunk.ChunkIndex),
				"kind":        string(chunk.Kind),
				"seq":         strconv.Itoa(collection.Count()),
			},
			Embedding: chunk.Embedding,
		}
		if err := collection.AddDocuments(ctx, []chromem.Document{doc}, 1); err != nil {
			return inserted, fmt.Errorf("failed to add chunk %s: %w", chunk.ID, err)
		}
		inserted++

		c.mu.Lock()
		if c.files[chunk.RepoID] == nil {
			c.files[chunk.RepoID] = make(map[string]struct{})
		}
		c.files[chunk.RepoID][chunk.FilePath] = struct{}{}
		c.mu.Unlock()
	}
	return inserted, nil
}

// Search fetches every document of the repository's collection scored against
// queryVector and ranks through the shared pipeline.
func (c *ChromemIndex) Search(ctx context.Context, repoID string, queryVector []float32, limit int, opts SearchOptions) ([]types.SearchResult, error) {
	if c.db == nil {
		return nil, types.ErrNotInitialized
	}

	collection := c.db.GetCollection(collectionName(repoID), noEmbed)
	if collection == nil {
		return []types.SearchResult{}, nil
	}
	count := collection.Count()
	if count == 0 {
		return []types.SearchResult{}, nil
	}

	// Fetch all candidates; the shared ranker applies minScore, per-file
	// dedup and the limit so both backends behave identically.
	results, err := collection.QueryEmbedding(ctx, queryVector, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	candidates := make([]candidate, 0, len(results))
	for _, r := range results {
		chunkIndex, _ := strconv.Atoi(r.Metadata["chunk_index"])
		seq, _ := strconv.ParseInt(r.Metadata["seq"], 10, 64)
		candidates = append(candidates, candidate{
			result: types.SearchResult{
				ChunkID:    r.ID,
				FilePath:   r.Metadata["file_path"],
				Content:    r.Content,
				ChunkIndex: chunkIndex,
				Score:      float64(r.Similarity),
			},
			order: seq,
		})
	}

	return rankCandidates(candidates, limit, opts), nil
}

// Stats reports chunk and file counts for repoID.
func (c *ChromemIndex) Stats(ctx context.Context, repoID string) (types.RepoStats, error) {
	if c.db == nil {
		return types.RepoStats{}, types.ErrNotInitialized
	}

	var stats types.RepoStats
	if collection := c.db.GetCollection(collectionName(repoID), noEmbed); collection != nil {
		stats.ChunksCount = collection.Count()
	}
	c.mu.Lock()
	stats.FilesCount = len(c.files[repoID])
	c.mu.Unlock()
	return stats, nil
}

// Close releases the store. chromem persists on write, so no flush is needed.
func (c *ChromemIndex) Close() error {
	c.db = nil
	return nil
}
