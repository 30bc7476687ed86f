package db

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionRequiresURL(t *testing.T) {
	_, err := NewConnection(context.Background(), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}

func TestNewConnectionLeavesDefaultLoggerAlone(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	conn, err := NewConnection(context.Background(), Config{URL: url})
	require.NoError(t, err)
	defer conn.Close()
	assert.Empty(t, buf.String())
}
