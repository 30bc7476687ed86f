package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"jamesfarrell.me/video-to-content/internal/storage/models"
)

type TranscriptRepository struct {
	db *sql.DB
}

func NewTranscriptRepository(db *sql.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

func (r *TranscriptRepository) HasChunks(ctx context.Context, videoID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM transcript_chunks WHERE video_id = $1)`, videoID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check chunks: %w", err)
	}
	return exists, nil
}

// SaveChunks writes all chunks of a video in one transaction.
func (r *TranscriptRepository) SaveChunks(ctx context.Context, videoID string, chunks []models.Chunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction failed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transcript_chunks
			(video_id, position, speaker, chunk_start, chunk_end, chunk_text, chunk_embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (video_id, position) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare statement failed: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		_, err = stmt.ExecContext(ctx,
			videoID,
			chunk.Position,
			chunk.Speaker,
			chunk.Start,
			chunk.End,
			chunk.Text,
			pgvector.NewVector(chunk.Embedding),
		)
		if err != nil {
			return fmt.Errorf("chunk insert failed: %w", err)
		}
	}
	return tx.Commit()
}

// SearchChunks returns the chunks nearest to embedding by cosine distance.
func (r *TranscriptRepository) SearchChunks(ctx context.Context, embedding []float32, limit int) ([]models.SearchResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT video_id, chunk_text, speaker, chunk_start, chunk_end,
			   1 - (chunk_embedding <=> $1) AS similarity
		FROM transcript_chunks
		ORDER BY chunk_embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	results := []models.SearchResult{}
	for rows.Next() {
		var res models.SearchResult
		if err := rows.Scan(
			&res.VideoID,
			&res.ChunkText,
			&res.Speaker,
			&res.Start,
			&res.End,
			&res.Similarity,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
