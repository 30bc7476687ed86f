package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"jamesfarrell.me/video-to-content/internal/api"
	"jamesfarrell.me/video-to-content/internal/errs"
	"jamesfarrell.me/video-to-content/internal/storage/postgres"
	"jamesfarrell.me/video-to-content/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve stored content, transcripts and search over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*opts, stderr)
			if err != nil {
				return err
			}
			if cfg.ServiceAPIKey == "" {
				return errs.New(errs.CodeInvalidConfig, "SERVICE_API_KEY environment variable must be set")
			}

			ctx := cmd.Context()
			a := newApp(ctx, cfg, log, stderr, true)
			defer a.Close()
			if err := a.requireDB("serve"); err != nil {
				return err
			}

			router := api.NewRouter(api.Deps{
				Generations:  a.generations,
				Publisher:    postgres.NewNotifier(a.db, worker.Channel),
				Embedder:     a.embedder,
				Chunks:       a.chunks,
				DownloadsDir: cfg.DownloadsDir,
				APIKey:       cfg.ServiceAPIKey,
			}, log)

			srv := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Info("starting HTTP server", slog.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errs.E(errs.CodeIO, "serve", "http server", err)
			}
			return nil
		},
	}
}
