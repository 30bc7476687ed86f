package main

import (
	"io"

	"github.com/spf13/cobra"

	"jamesfarrell.me/video-to-content/internal/logger"
	"jamesfarrell.me/video-to-content/internal/worker"
)

func newListenCmd(opts *options, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Process videos announced on the new_video channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*opts, stderr)
			if err != nil {
				return err
			}
			a := newApp(cmd.Context(), cfg, log, stderr, true)
			defer a.Close()
			if err := a.requireDB("listen"); err != nil {
				return err
			}

			l := worker.NewListener(cfg.DatabaseURL, a.Pipeline(), logger.WithComponent(log, "worker"))
			return l.Listen(cmd.Context())
		},
	}
}
