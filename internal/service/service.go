package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/srewoo/repospector/internal/chunker"
	"github.com/srewoo/repospector/internal/config"
	"github.com/srewoo/repospector/internal/embedder"
	"github.com/srewoo/repospector/internal/index"
	"github.com/srewoo/repospector/internal/retrieval"
	"github.com/srewoo/repospector/pkg/types"
)

// Service composes the chunker, embedding provider and vector index into the
// two public operations: IndexRepository and RetrieveContext.
type Service struct {
	chunker  *chunker.Chunker
	provider embedder.Provider
	index    index.VectorIndex
	cfg      config.Config
	logger   *zap.Logger

	// queryGroup collapses concurrent identical query embeddings so a burst
	// of retrievals for the same query costs one provider call.
	queryGroup singleflight.Group
}

// New wires a Service. A nil logger disables logging.
func New(provider embedder.Provider, idx index.VectorIndex, cfg config.Config, logger *zap.Logger) *Service {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		chunker:  chunker.NewWithOverlap(cfg.OverlapTokens),
		provider: provider,
		index:    idx,
		cfg:      cfg,
		logger:   logger,
	}
}

// RetrieveOptions overrides per-call retrieval behavior. Zero values fall
// back to the configured defaults.
type RetrieveOptions struct {
	MinScore         float64
	MaxChunksPerFile int
	NoDeduplicate    bool
}

// IndexRepository replaces repoID's index with chunks built from files.
// The previous generation is cleared first, then chunks are embedded and
// inserted in strictly sequential fixed-size batches. A batch whose
// embedding call fails is recorded in the summary and skipped; indexing is
// best-effort per batch. Progress events fire for clearing, per-file
// chunking, per-batch embedding and completion.
func (s *Service) IndexRepository(ctx context.Context, repoID string, files []types.RepoFile, onProgress types.ProgressFunc) (*types.IndexSummary, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("embedding provider not initialized")
	}
	if repoID == "" {
		return nil, fmt.Errorf("repo ID is required")
	}
	if err := s.index.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize index: %w", err)
	}

	emit := func(p types.Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	// Re-indexing is replace, never merge.
	emit(types.Progress{Stage: types.StageClearing})
	if err := s.index.ClearRepo(ctx, repoID); err != nil {
		return nil, fmt.Errorf("failed to clear repo %s: %w", repoID, err)
	}

	var chunks []types.Chunk
	filesChunked := 0
	for i, f := range files {
		emit(types.Progress{
			Stage:   types.StageChunking,
			Current: i + 1,
			Total:   len(files),
			File:    f.Path,
		})
		fileChunks := s.chunker.ChunkFileWithBudget(repoID, f.Path, f.Content, s.cfg.TokenBudget)
		if len(fileChunks) > 0 {
			filesChunked++
		}
		chunks = append(chunks, fileChunks...)
	}

	summary := &types.IndexSummary{
		Success:      true,
		ChunksTotal:  len(chunks),
		FilesChunked: filesChunked,
	}

	batchSize := s.cfg.BatchSize
	totalBatches := (len(chunks) + batchSize - 1) / batchSize

	// Batches run strictly sequentially: batch k+1 does not start embedding
	// until batch k's insertion completes. This bounds peak memory and
	// respects provider batch limits.
	for b := 0; b < totalBatches; b++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		start := b * batchSize
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		result := s.indexBatch(ctx, b, batch)
		summary.Batches = append(summary.Batches, result)
		summary.ChunksIndexed += result.Inserted
		if result.Err != nil {
			s.logger.Warn("batch failed, skipping",
				zap.String("repo_id", repoID),
				zap.Int("batch", b),
				zap.Int("chunks", len(batch)),
				zap.Error(result.Err),
			)
		}

		emit(types.Progress{
			Stage:   types.StageEmbedding,
			Current: b + 1,
			Total:   totalBatches,
		})
	}

	emit(types.Progress{Stage: types.StageComplete, Current: totalBatches, Total: totalBatches})
	s.logger.Info("indexing complete",
		zap.String("repo_id", repoID),
		zap.Int("chunks_indexed", summary.ChunksIndexed),
		zap.Int("chunks_total", summary.ChunksTotal),
		zap.Int("failed_batches", summary.FailedBatches()),
	)
	return summary, nil
}

// indexBatch embeds one batch and inserts it, reporting a typed outcome.
func (s *Service) indexBatch(ctx context.Context, batchNum int, batch []types.Chunk) types.BatchResult {
	result := types.BatchResult{Batch: batchNum, Chunks: len(batch)}

	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].Content
	}

	vectors, err := s.provider.Embed(ctx, texts)
	if err != nil {
		result.Err = fmt.Errorf("embedding failed: %w", err)
		return result
	}
	for i := range batch {
		batch[i].Embedding = vectors[i]
	}

	inserted, err := s.index.AddVectors(ctx, batch)
	result.Inserted = inserted
	if err != nil {
		result.Err = fmt.Errorf("insertion failed after %d chunks: %w", inserted, err)
	}
	return result
}

// RetrieveContext embeds the query, searches repoID's index and formats the
// matches into a bounded context payload. Any failure on this path degrades
// to an empty result rather than an error: retrieval augments the caller's
// primary flow and must never block it.
func (s *Service) RetrieveContext(ctx context.Context, repoID, query string, limit int, opts RetrieveOptions) *types.RetrievedContext {
	empty := &types.RetrievedContext{Sources: []string{}}
	if s.provider == nil || repoID == "" || query == "" {
		return empty
	}
	if limit <= 0 {
		limit = 5
	}
	if err := s.index.Init(ctx); err != nil {
		s.logger.Warn("retrieval degraded: index init failed", zap.Error(err))
		return empty
	}

	vector, err := s.embedQuery(ctx, query)
	if err != nil {
		s.logger.Warn("retrieval degraded: query embedding failed",
			zap.String("repo_id", repoID), zap.Error(err))
		return empty
	}

	searchOpts := index.SearchOptions{
		MinScore:         s.cfg.MinScore,
		Deduplicate:      !opts.NoDeduplicate,
		MaxChunksPerFile: s.cfg.MaxChunksPerFile,
	}
	if opts.MinScore > 0 {
		searchOpts.MinScore = opts.MinScore
	}
	if opts.MaxChunksPerFile > 0 {
		searchOpts.MaxChunksPerFile = opts.MaxChunksPerFile
	}

	results, err := s.index.Search(ctx, repoID, vector, limit, searchOpts)
	if err != nil {
		s.logger.Warn("retrieval degraded: search failed",
			zap.String("repo_id", repoID), zap.Error(err))
		return empty
	}

	return retrieval.Format(results)
}

// embedQuery embeds a single query text. Single-text requests are
// cache-eligible inside the provider; singleflight additionally collapses
// concurrent identical queries into one provider call.
func (s *Service) embedQuery(ctx context.Context, query string) ([]float32, error) {
	v, err, _ := s.queryGroup.Do(query, func() (interface{}, error) {
		vectors, err := s.provider.Embed(ctx, []string{query})
		if err != nil {
			return nil, err
		}
		return vectors[0], nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}
