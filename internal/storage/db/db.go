package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type Config struct {
	URL string
}

// NewConnection creates and verifies a new database connection
func NewConnection(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	return db, nil
}

// EmbeddingDimensions matches text-embedding-ada-002 and text-embedding-3-small.
const EmbeddingDimensions = 1536

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS vector`,
	`CREATE TABLE IF NOT EXISTS generations (
		id           BIGSERIAL PRIMARY KEY,
		video_id     TEXT NOT NULL,
		key_point    TEXT NOT NULL DEFAULT '',
		model        TEXT NOT NULL,
		quote        TEXT NOT NULL,
		tweet        TEXT NOT NULL,
		linkedin     TEXT NOT NULL,
		score        INTEGER NOT NULL,
		improvements TEXT[] NOT NULL DEFAULT '{}',
		iterations   INTEGER NOT NULL,
		accepted     BOOLEAN NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS generations_video_id_idx ON generations (video_id, created_at DESC)`,
	fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transcript_chunks (
		id              BIGSERIAL PRIMARY KEY,
		video_id        TEXT NOT NULL,
		position        INTEGER NOT NULL,
		speaker         INTEGER NOT NULL,
		chunk_start     DOUBLE PRECISION NOT NULL,
		chunk_end       DOUBLE PRECISION NOT NULL,
		chunk_text      TEXT NOT NULL,
		chunk_embedding vector(%d) NOT NULL,
		UNIQUE (video_id, position)
	)`, EmbeddingDimensions),
}

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
