package types

// SearchResult is a read-only projection of one matched chunk. It is produced
// per query and never persisted.
type SearchResult struct {
	ChunkID    string
	FilePath   string
	Content    string
	ChunkIndex int
	Score      float64 // cosine similarity to the query vector
}

// RelevanceTier buckets a file group's mean score.
type RelevanceTier string

const (
	TierHigh   RelevanceTier = "high"   // mean score >= 0.7
	TierMedium RelevanceTier = "medium" // mean score >= 0.5
	TierLow    RelevanceTier = "low"
)

// RetrievedContext is the bounded, file-grouped payload built from ranked
// search results.
type RetrievedContext struct {
	Context  string   // annotated per-file blocks, concatenated
	Sources  []string // distinct contributing file paths
	AvgScore float64  // mean score across all contributing chunks
}

// IndexQualityLevel classifies how usable a repository's index is.
type IndexQualityLevel string

const (
	QualityGood    IndexQualityLevel = "good"
	QualityFair    IndexQualityLevel = "fair"
	QualityLimited IndexQualityLevel = "limited"
	QualityNone    IndexQualityLevel = "none"
)

// IndexQuality reports index health for one repository.
type IndexQuality struct {
	Level          IndexQualityLevel
	ChunksCount    int
	FilesCount     int
	SuggestReindex bool
}
