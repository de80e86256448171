package index

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/srewoo/repospector/pkg/types"
)

// SQLiteIndex implements VectorIndex on SQLite. Vectors are stored as
// little-endian float32 blobs and similarity is computed in Go, so the same
// code path serves both drivers.
type SQLiteIndex struct {
	db       *sql.DB
	initOnce sync.Once
	initErr  error
}

// NewSQLiteIndex opens (or creates) the database at dbPath. Use ":memory:"
// for an ephemeral index in tests.
func NewSQLiteIndex(dbPath string) (*SQLiteIndex, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL for concurrent readers, single writer as SQLite prefers.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteIndex{db: db}, nil
}

// Init applies schema migrations. Idempotent.
func (s *SQLiteIndex) Init(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = ApplyMigrations(ctx, s.db)
	})
	return s.initErr
}

// ClearRepo deletes every chunk belonging to repoID.
func (s *SQLiteIndex) ClearRepo(ctx context.Context, repoID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE repo_id = ?", repoID); err != nil {
		return fmt.Errorf("failed to clear repo %s: %w", repoID, err)
	}
	return nil
}

// AddVectors inserts chunks one statement at a time so each row is durable
// independently of the rest of the batch.
func (s *SQLiteIndex) AddVectors(ctx context.Context, chunks []types.Chunk) (int, error) {
	inserted := 0
	for i := range chunks {
		chunk := &chunks[i]
		if err := chunk.Validate(); err != nil {
			return inserted, fmt.Errorf("chunk %s invalid: %w", chunk.ID, err)
		}
		if len(chunk.Embedding) == 0 {
			return inserted, fmt.Errorf("chunk %s has no embedding", chunk.ID)
		}

		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO chunks
				(id, repo_id, file_path, chunk_index, content, token_count, kind, embedding, dimension)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			chunk.ID, chunk.RepoID, chunk.FilePath, chunk.ChunkIndex,
			chunk.Content, chunk.TokenCount, string(chunk.Kind),
			serializeVector(chunk.Embedding), len(chunk.Embedding))
		if err != nil {
			return inserted, fmt.Errorf("failed to insert chunk %s: %w", chunk.ID, err)
		}
		inserted++
	}
	return inserted, nil
}

// Search scans repoID's chunks in insertion order, scores them against
// queryVector and ranks through the shared pipeline.
func (s *SQLiteIndex) Search(ctx context.Context, repoID string, queryVector []float32, limit int, opts SearchOptions) ([]types.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, file_path, content, chunk_index, embedding
		FROM chunks
		WHERE repo_id = ?
		ORDER BY seq`, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var candidates []candidate
	for rows.Next() {
		var (
			seq        int64
			id         string
			filePath   string
			content    string
			chunkIndex int
			blob       []byte
		)
		if err := rows.Scan(&seq, &id, &filePath, &content, &chunkIndex, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}

		vector := deserializeVector(blob)
		if len(vector) != len(queryVector) {
			continue // dimension mismatch, different provider generation
		}

		candidates = append(candidates, candidate{
			result: types.SearchResult{
				ChunkID:    id,
				FilePath:   filePath,
				Content:    content,
				ChunkIndex: chunkIndex,
				Score:      cosineSimilarity(queryVector, vector),
			},
			order: seq,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rankCandidates(candidates, limit, opts), nil
}

// Stats reports chunk and distinct-file counts for repoID.
func (s *SQLiteIndex) Stats(ctx context.Context, repoID string) (types.RepoStats, error) {
	var stats types.RepoStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT file_path)
		FROM chunks
		WHERE repo_id = ?`, repoID).Scan(&stats.ChunksCount, &stats.FilesCount)
	if err != nil {
		return types.RepoStats{}, fmt.Errorf("failed to read repo stats: %w", err)
	}
	return stats, nil
}

// Close closes the database connection.
func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}
