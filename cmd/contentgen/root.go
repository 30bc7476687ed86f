package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"jamesfarrell.me/video-to-content/internal/config"
	"jamesfarrell.me/video-to-content/internal/job"
	"jamesfarrell.me/video-to-content/internal/logger"
	"jamesfarrell.me/video-to-content/internal/pipeline"
)

type options struct {
	json         bool
	downloadsDir string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "contentgen <video-id> [key point...]",
		Short: "Generate social content from a video transcript",
		Example: `  contentgen gnLqlJYDAKQ
  contentgen https://youtu.be/gnLqlJYDAKQ agents are just loops
  contentgen gnLqlJYDAKQ --json`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return job.ErrMissingVideoID
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(opts, stderr)
			if err != nil {
				return err
			}

			// generated content owns stdout in --json mode
			childOut := stdout
			if opts.json {
				childOut = stderr
			}
			a := newApp(cmd.Context(), cfg, log, childOut, false)
			defer a.Close()

			p := a.Pipeline()
			j, err := p.Job(args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			out, err := p.Run(cmd.Context(), j)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(stdout, out)
			}
			printText(stdout, out)
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVar(&opts.downloadsDir, "downloads-dir", "", "artifact directory (overrides DOWNLOADS_DIR)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	cmd.AddCommand(newServeCmd(&opts, stderr), newListenCmd(&opts, stderr))
	return cmd
}

// setup loads configuration and builds the logger. Credentials are checked here,
// before anything touches the filesystem.
func setup(opts options, stderr io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if opts.downloadsDir != "" {
		cfg.DownloadsDir = opts.downloadsDir
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: stderr})
	return cfg, log, nil
}

func printText(w io.Writer, out *pipeline.Output) {
	res := out.Outcome.Result
	fmt.Fprintf(w, "Tweet (%d chars):\n%s\n\n", res.TweetLen(), res.Tweet)
	fmt.Fprintf(w, "LinkedIn (%d chars):\n%s\n\n", res.LinkedInLen(), res.LinkedIn)
	fmt.Fprintf(w, "Quote:\n%s\n\n", res.Quote)
	fmt.Fprintf(w, "Score: %d/10 after %d iteration(s)\n", res.Score, out.Outcome.Iterations)
	if !out.Outcome.Accepted && len(res.Improvements) > 0 {
		fmt.Fprintln(w, "\nOutstanding improvements:")
		for _, imp := range res.Improvements {
			fmt.Fprintf(w, "- %s\n", imp)
		}
	}
}

func printJSON(w io.Writer, out *pipeline.Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
