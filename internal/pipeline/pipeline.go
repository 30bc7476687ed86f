// Package pipeline runs the download, extract, transcribe and generate stages
// for one job, skipping every stage whose artifact is already on disk.
package pipeline

import (
	"context"
	"log/slog"

	"jamesfarrell.me/video-to-content/internal/artifact"
	"jamesfarrell.me/video-to-content/internal/errs"
	"jamesfarrell.me/video-to-content/internal/generation"
	"jamesfarrell.me/video-to-content/internal/job"
	"jamesfarrell.me/video-to-content/internal/media"
	"jamesfarrell.me/video-to-content/internal/storage/models"
	"jamesfarrell.me/video-to-content/internal/transcription"
)

var errEmptyTranscript = errs.New(errs.CodeMalformedUpstream, "transcript is empty")

// Transcriber returns the raw transcription payload for an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]byte, error)
}

// Generator produces content from transcript text.
type Generator interface {
	Generate(ctx context.Context, transcript, keyPoint string) (generation.Outcome, error)
}

// GenerationStore records outcomes.
type GenerationStore interface {
	SaveGeneration(ctx context.Context, g *models.Generation) error
}

// ChunkStore holds embedded transcript paragraphs.
type ChunkStore interface {
	HasChunks(ctx context.Context, videoID string) (bool, error)
	SaveChunks(ctx context.Context, videoID string, chunks []models.Chunk) error
}

// Embedder turns texts into vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Deps are the adapters a Pipeline drives. Store, Chunks and Embedder are optional.
type Deps struct {
	Downloader  media.Downloader
	Extractor   media.Extractor
	Transcriber Transcriber
	Generator   Generator
	Model       string

	Store    GenerationStore
	Chunks   ChunkStore
	Embedder Embedder
	// Dimensions is the vector size Chunks stores; zero skips the check.
	Dimensions int
}

// Output is what a successful run produced.
type Output struct {
	Job        job.Job            `json:"-"`
	VideoID    string             `json:"videoId"`
	KeyPoint   string             `json:"keyPoint,omitempty"`
	Language   string             `json:"language,omitempty"`
	Outcome    generation.Outcome `json:"outcome"`
	Transcript string             `json:"-"`
}

type Pipeline struct {
	dir  string
	deps Deps
	log  *slog.Logger
}

func New(dir string, deps Deps, log *slog.Logger) *Pipeline {
	return &Pipeline{dir: dir, deps: deps, log: log}
}

// Job builds the job for ref inside the pipeline's downloads directory.
func (p *Pipeline) Job(ref, keyPoint string) (job.Job, error) {
	return job.New(p.dir, ref, keyPoint)
}

// Run executes every stage for j in order.
func (p *Pipeline) Run(ctx context.Context, j job.Job) (*Output, error) {
	log := p.log.With(slog.String("video_id", j.VideoID))

	if err := artifact.EnsureDir(p.dir); err != nil {
		return nil, errs.E(errs.CodeIO, "pipeline.run", "", err)
	}
	if err := p.acquire(ctx, j, log); err != nil {
		return nil, err
	}

	// Always read back what was persisted, even right after writing it.
	tr, err := transcription.Load(j.JSONPath)
	if err != nil {
		return nil, err
	}
	text := tr.Text()
	if text == "" {
		return nil, errEmptyTranscript
	}

	if p.deps.Chunks != nil && p.deps.Embedder != nil {
		if err := p.index(ctx, j, tr, log); err != nil {
			log.Warn("transcript indexing failed", slog.Any("error", err))
		}
	}

	log.Info("Generating content...", slog.Int("transcript_chars", len(text)))
	outcome, err := p.deps.Generator.Generate(ctx, text, j.KeyPoint)
	if err != nil {
		return nil, err
	}

	if p.deps.Store != nil {
		if err := p.deps.Store.SaveGeneration(ctx, toModel(j, p.deps.Model, outcome)); err != nil {
			log.Warn("saving generation failed", slog.Any("error", err))
		}
	}

	return &Output{
		Job:        j,
		VideoID:    j.VideoID,
		KeyPoint:   j.KeyPoint,
		Language:   tr.Language(),
		Outcome:    outcome,
		Transcript: text,
	}, nil
}

func toModel(j job.Job, model string, o generation.Outcome) *models.Generation {
	return &models.Generation{
		VideoID:      j.VideoID,
		KeyPoint:     j.KeyPoint,
		Model:        model,
		Quote:        o.Result.Quote,
		Tweet:        o.Result.Tweet,
		LinkedIn:     o.Result.LinkedIn,
		Score:        o.Result.Score,
		Improvements: o.Result.Improvements,
		Iterations:   o.Iterations,
		Accepted:     o.Accepted,
	}
}
