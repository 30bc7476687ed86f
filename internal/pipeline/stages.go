package pipeline

import (
	"context"
	"log/slog"

	"jamesfarrell.me/video-to-content/internal/artifact"
	"jamesfarrell.me/video-to-content/internal/job"
	"jamesfarrell.me/video-to-content/internal/transcription"
)

// stage produces one artifact.
type stage struct {
	name    string
	output  func(job.Job) string
	running string
	done    string
	present string
	run     func(ctx context.Context, j job.Job) error
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{
			name:    "download",
			output:  func(j job.Job) string { return j.VideoPath },
			running: "Downloading video file...",
			done:    "Downloaded video file",
			present: "Video file already exists",
			run: func(ctx context.Context, j job.Job) error {
				return p.deps.Downloader.Download(ctx, j.WatchURL(), j.VideoPath)
			},
		},
		{
			name:    "extract",
			output:  func(j job.Job) string { return j.AudioPath },
			running: "Extracting audio file...",
			done:    "Extracted audio file",
			present: "Audio file already exists",
			run: func(ctx context.Context, j job.Job) error {
				return p.deps.Extractor.Extract(ctx, j.VideoPath, j.AudioPath)
			},
		},
		{
			name:    "transcribe",
			output:  func(j job.Job) string { return j.JSONPath },
			running: "Transcribing audio file...",
			done:    "Transcribed audio file",
			present: "Transcription already exists",
			run: func(ctx context.Context, j job.Job) error {
				raw, err := p.deps.Transcriber.Transcribe(ctx, j.AudioPath)
				if err != nil {
					return err
				}
				// a payload that cannot be used must not become a cached artifact
				tr, err := transcription.Parse(raw)
				if err != nil {
					return err
				}
				if tr.Text() == "" {
					return errEmptyTranscript
				}
				return artifact.WritePrettyJSON(j.JSONPath, raw)
			},
		},
	}
}

// plan decides which stages must run. A stage runs when its artifact is missing
// and a later stage needs its output; an existing later artifact makes every
// earlier stage unnecessary regardless of what else is on disk.
func plan(stages []stage, j job.Job) []bool {
	runs := make([]bool, len(stages))
	needed := true
	for i := len(stages) - 1; i >= 0; i-- {
		runs[i] = needed && !artifact.Exists(stages[i].output(j))
		needed = runs[i]
	}
	return runs
}

func (p *Pipeline) acquire(ctx context.Context, j job.Job, log *slog.Logger) error {
	stages := p.stages()
	runs := plan(stages, j)

	for i, s := range stages {
		path := s.output(j)
		if !runs[i] {
			if artifact.Exists(path) {
				log.Info(s.present, slog.String("path", path))
			} else {
				log.Info("Skipping "+s.name+", later artifact already exists", slog.String("path", path))
			}
			continue
		}
		log.Info(s.running, slog.String("stage", s.name))
		if err := s.run(ctx, j); err != nil {
			return err
		}
		log.Info(s.done, slog.String("path", path))
	}
	return nil
}
