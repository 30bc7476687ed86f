package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"jamesfarrell.me/video-to-content/internal/config"
	"jamesfarrell.me/video-to-content/internal/embeddings"
	"jamesfarrell.me/video-to-content/internal/errs"
	"jamesfarrell.me/video-to-content/internal/generation"
	"jamesfarrell.me/video-to-content/internal/logger"
	"jamesfarrell.me/video-to-content/internal/media"
	"jamesfarrell.me/video-to-content/internal/pipeline"
	"jamesfarrell.me/video-to-content/internal/storage/db"
	"jamesfarrell.me/video-to-content/internal/storage/postgres"
	"jamesfarrell.me/video-to-content/internal/transcription"
)

// app wires adapters from a Config.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	childOut io.Writer

	db          *sql.DB
	generations *postgres.GenerationRepository
	chunks      *postgres.TranscriptRepository
	embedder    *embeddings.Embedder
	llm         generation.ChatCompleter
}

// newApp connects the optional store. With requireStore unset a connection
// failure is logged and the app runs without it.
func newApp(ctx context.Context, cfg config.Config, log *slog.Logger, childOut io.Writer, requireStore bool) *app {
	client := generation.NewClient(cfg.OpenAIKey, cfg.LLMBaseURL)
	a := &app{
		cfg:      cfg,
		log:      log,
		childOut: childOut,
		embedder: embeddings.New(client, cfg.EmbeddingModel),
		llm:      client,
	}
	if cfg.UsesLocalModel() {
		log.Info("using OpenAI-compatible endpoint", slog.String("base_url", cfg.LLMBaseURL), slog.String("model", cfg.Model))
	}
	if !cfg.HasStore() {
		return a
	}

	log.Info("connecting to database", slog.String("url", config.MaskDatabaseURL(cfg.DatabaseURL)))
	conn, err := openStore(ctx, cfg)
	if err != nil {
		if requireStore {
			log.Error("database unavailable", slog.Any("error", err))
		} else {
			log.Warn("database unavailable, continuing without run store", slog.Any("error", err))
		}
		return a
	}
	a.db = conn
	a.generations = postgres.NewGenerationRepository(conn)
	a.chunks = postgres.NewTranscriptRepository(conn)
	return a
}

func openStore(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	conn, err := db.NewConnection(ctx, db.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// requireDB fails when the store could not be opened.
func (a *app) requireDB(command string) error {
	if a.db == nil {
		return errs.New(errs.CodeInvalidConfig, command+" requires a reachable DATABASE_URL")
	}
	return nil
}

func (a *app) downloader() media.Downloader {
	if a.cfg.Downloader == config.DownloaderYTDLP {
		return media.YTDLP{}
	}
	return media.NewYouTube(logger.WithComponent(a.log, "youtube"))
}

func (a *app) Pipeline() *pipeline.Pipeline {
	deps := pipeline.Deps{
		Downloader: a.downloader(),
		Extractor:  media.FFmpeg{Stdout: a.childOut},
		Transcriber: transcription.NewClient(a.cfg.DeepgramKey, a.cfg.DeepgramHost,
			transcription.DefaultOptions(a.cfg.DeepgramModel)),
		Generator: generation.NewGenerator(a.llm, a.cfg.Model, logger.WithComponent(a.log, "generation")),
		Model:     a.cfg.Model,
	}
	if a.generations != nil {
		deps.Store = a.generations
		if a.cfg.IndexTranscripts {
			deps.Chunks = a.chunks
			deps.Embedder = a.embedder
			deps.Dimensions = db.EmbeddingDimensions
		}
	}
	return pipeline.New(a.cfg.DownloadsDir, deps, a.log)
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
