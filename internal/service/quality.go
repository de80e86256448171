package service

import (
	"context"
	"fmt"

	"github.com/srewoo/repospector/pkg/types"
)

// Chunk-count thresholds classifying index quality.
const (
	qualityGoodChunks = 100
	qualityFairChunks = 20
)

// CheckIndexQuality classifies how usable repoID's index is and suggests
// re-indexing when it is too sparse to retrieve from reliably.
func (s *Service) CheckIndexQuality(ctx context.Context, repoID string) (*types.IndexQuality, error) {
	if err := s.index.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize index: %w", err)
	}
	stats, err := s.index.Stats(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats for %s: %w", repoID, err)
	}

	quality := &types.IndexQuality{
		ChunksCount: stats.ChunksCount,
		FilesCount:  stats.FilesCount,
	}
	switch {
	case stats.ChunksCount >= qualityGoodChunks:
		quality.Level = types.QualityGood
	case stats.ChunksCount >= qualityFairChunks:
		quality.Level = types.QualityFair
	case stats.ChunksCount >= 1:
		quality.Level = types.QualityLimited
		quality.SuggestReindex = true
	default:
		quality.Level = types.QualityNone
		quality.SuggestReindex = true
	}
	return quality, nil
}
