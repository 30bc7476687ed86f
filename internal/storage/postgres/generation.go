package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"jamesfarrell.me/video-to-content/internal/errs"
	"jamesfarrell.me/video-to-content/internal/storage/models"
)

type GenerationRepository struct {
	db *sql.DB
}

func NewGenerationRepository(db *sql.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

func (r *GenerationRepository) SaveGeneration(ctx context.Context, g *models.Generation) error {
	const query = `
		INSERT INTO generations
			(video_id, key_point, model, quote, tweet, linkedin, score, improvements, iterations, accepted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	improvements := g.Improvements
	if improvements == nil {
		improvements = []string{}
	}
	err := r.db.QueryRowContext(ctx, query,
		g.VideoID,
		g.KeyPoint,
		g.Model,
		g.Quote,
		g.Tweet,
		g.LinkedIn,
		g.Score,
		pq.Array(improvements),
		g.Iterations,
		g.Accepted,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert generation: %w", err)
	}
	return nil
}

func (r *GenerationRepository) LatestGeneration(ctx context.Context, videoID string) (*models.Generation, error) {
	const query = `
		SELECT id, video_id, key_point, model, quote, tweet, linkedin,
			   score, improvements, iterations, accepted, created_at
		FROM generations
		WHERE video_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var g models.Generation
	err := r.db.QueryRowContext(ctx, query, videoID).Scan(
		&g.ID,
		&g.VideoID,
		&g.KeyPoint,
		&g.Model,
		&g.Quote,
		&g.Tweet,
		&g.LinkedIn,
		&g.Score,
		pq.Array(&g.Improvements),
		&g.Iterations,
		&g.Accepted,
		&g.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.E(errs.CodeNotFound, "postgres.latest_generation", "no generation for "+videoID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query generation: %w", err)
	}
	return &g, nil
}
