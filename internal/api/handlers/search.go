package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"jamesfarrell.me/video-to-content/internal/errs"
	"jamesfarrell.me/video-to-content/internal/storage/models"
)

const (
	defaultLimit = 5
	maxLimit     = 50
)

type QueryEmbedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

type ChunkSearcher interface {
	SearchChunks(ctx context.Context, embedding []float32, limit int) ([]models.SearchResult, error)
}

type SearchHandler struct {
	embedder QueryEmbedder
	chunks   ChunkSearcher
	log      *slog.Logger
}

func NewSearchHandler(embedder QueryEmbedder, chunks ChunkSearcher, log *slog.Logger) *SearchHandler {
	return &SearchHandler{embedder: embedder, chunks: chunks, log: log}
}

// Search returns the transcript chunks closest to the query.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, errs.New(errs.CodeMissingArgument, "query is required"))
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	req.Limit = min(req.Limit, maxLimit)

	embedding, err := h.embedder.EmbedOne(r.Context(), req.Query)
	if err != nil {
		h.log.Error("embedding query failed", slog.Any("error", err))
		writeError(w, err)
		return
	}
	results, err := h.chunks.SearchChunks(r.Context(), embedding, req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SearchResponse{Results: results})
}
