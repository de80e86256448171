package types

// ProgressStage identifies the phase an indexing run is in.
type ProgressStage string

const (
	StageClearing  ProgressStage = "clearing"
	StageChunking  ProgressStage = "chunking"
	StageEmbedding ProgressStage = "embedding"
	StageComplete  ProgressStage = "complete"
)

// Progress is emitted to the caller's callback during IndexRepository.
// Current/Total count batches during the embedding stage and files during
// chunking.
type Progress struct {
	Stage   ProgressStage
	Current int
	Total   int
	File    string // set during chunking
}

// ProgressFunc receives progress events. A nil callback disables reporting.
type ProgressFunc func(Progress)

// BatchResult is the typed outcome of one embedding+insert batch. Indexing is
// best-effort per batch: a failed batch is recorded here and skipped rather
// than aborting the run.
type BatchResult struct {
	Batch    int // zero-based batch number
	Chunks   int // chunks in this batch
	Inserted int // chunks actually stored
	Err      error
}

// IndexSummary is returned by IndexRepository.
type IndexSummary struct {
	Success       bool
	ChunksIndexed int
	ChunksTotal   int
	FilesChunked  int
	Batches       []BatchResult
}

// FailedBatches counts batches that recorded an error.
func (s *IndexSummary) FailedBatches() int {
	n := 0
	for _, b := range s.Batches {
		if b.Err != nil {
			n++
		}
	}
	return n
}
