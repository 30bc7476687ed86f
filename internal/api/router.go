// Package api exposes stored results, cached transcripts and search over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"jamesfarrell.me/video-to-content/internal/api/handlers"
	"jamesfarrell.me/video-to-content/internal/api/middleware"
)

type Deps struct {
	Generations  handlers.GenerationReader
	Publisher    handlers.Publisher
	Embedder     handlers.QueryEmbedder
	Chunks       handlers.ChunkSearcher
	DownloadsDir string
	APIKey       string
}

func NewRouter(d Deps, log *slog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Logging(log))

	// Public routes
	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	// Protected routes
	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.APIKey(d.APIKey))

	videoHandler := handlers.NewVideoHandler(d.Generations, d.Publisher, d.DownloadsDir, log)
	videos := protected.PathPrefix("/videos").Subrouter()
	videos.HandleFunc("", videoHandler.AddVideo).Methods(http.MethodPost)
	videos.HandleFunc("/{id}/content", videoHandler.GetContent).Methods(http.MethodGet)
	videos.HandleFunc("/{id}/transcript", videoHandler.GetTranscript).Methods(http.MethodGet)

	searchHandler := handlers.NewSearchHandler(d.Embedder, d.Chunks, log)
	protected.HandleFunc("/search", searchHandler.Search).Methods(http.MethodPost)

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
