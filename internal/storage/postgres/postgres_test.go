package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamesfarrell.me/video-to-content/internal/errs"
	"jamesfarrell.me/video-to-content/internal/storage/db"
	"jamesfarrell.me/video-to-content/internal/storage/models"
)

// openTestDB connects to TEST_DATABASE_URL (a disposable database with pgvector
// installed) or skips.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	conn, err := db.NewConnection(ctx, db.Config{URL: url})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, conn))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func testVideoID(t *testing.T) string {
	return fmt.Sprintf("test-%d", time.Now().UnixNano())
}

func vector(first float32) []float32 {
	v := make([]float32, db.EmbeddingDimensions)
	v[0] = first
	v[1] = 1
	return v
}

func TestGenerationRepository(t *testing.T) {
	conn := openTestDB(t)
	repo := NewGenerationRepository(conn)
	ctx := context.Background()
	videoID := testVideoID(t)

	_, err := repo.LatestGeneration(ctx, videoID)
	assert.Equal(t, errs.CodeNotFound, errs.CodeOf(err))

	first := &models.Generation{VideoID: videoID, Model: "gpt-4-turbo", Quote: "q1", Tweet: "t1", LinkedIn: "l1", Score: 6, Improvements: []string{"shorter"}, Iterations: 2}
	require.NoError(t, repo.SaveGeneration(ctx, first))
	assert.NotZero(t, first.ID)

	second := &models.Generation{VideoID: videoID, Model: "gpt-4-turbo", Quote: "q2", Tweet: "t2", LinkedIn: "l2", Score: 10, Iterations: 1, Accepted: true}
	require.NoError(t, repo.SaveGeneration(ctx, second))

	got, err := repo.LatestGeneration(ctx, videoID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, "t2", got.Tweet)
	assert.True(t, got.Accepted)
	assert.Empty(t, got.Improvements)
}

func TestTranscriptRepository(t *testing.T) {
	conn := openTestDB(t)
	repo := NewTranscriptRepository(conn)
	ctx := context.Background()
	videoID := testVideoID(t)

	has, err := repo.HasChunks(ctx, videoID)
	require.NoError(t, err)
	assert.False(t, has)

	chunks := []models.Chunk{
		{Position: 0, Speaker: 0, Start: 0, End: 2, Text: "welcome", Embedding: vector(1)},
		{Position: 1, Speaker: 1, Start: 2, End: 4, Text: "agents", Embedding: vector(-1)},
	}
	require.NoError(t, repo.SaveChunks(ctx, videoID, chunks))
	require.NoError(t, repo.SaveChunks(ctx, videoID, chunks), "re-saving is a no-op")

	has, err = repo.HasChunks(ctx, videoID)
	require.NoError(t, err)
	assert.True(t, has)

	results, err := repo.SearchChunks(ctx, vector(-1), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "agents", results[0].ChunkText)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
}
