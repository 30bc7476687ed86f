package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"jamesfarrell.me/video-to-content/internal/errs"
	"jamesfarrell.me/video-to-content/internal/job"
	"jamesfarrell.me/video-to-content/internal/storage/models"
	"jamesfarrell.me/video-to-content/internal/transcription"
)

const embedBatchSize = 64

// index embeds the transcript paragraphs once per video.
func (p *Pipeline) index(ctx context.Context, j job.Job, tr *transcription.Response, log *slog.Logger) error {
	has, err := p.deps.Chunks.HasChunks(ctx, j.VideoID)
	if err != nil {
		return err
	}
	if has {
		log.Info("Transcript already indexed")
		return nil
	}

	chunks := chunksOf(tr)
	log.Info("Indexing transcript...", slog.Int("chunks", len(chunks)))
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}
		vecs, err := p.deps.Embedder.Embed(ctx, texts)
		if err != nil {
			return err
		}
		for i, v := range vecs {
			if p.deps.Dimensions > 0 && len(v) != p.deps.Dimensions {
				return errs.E(errs.CodeInvalidConfig, "pipeline.index",
					fmt.Sprintf("embedding model returned %d dimensions, store expects %d", len(v), p.deps.Dimensions), nil)
			}
			chunks[start+i].Embedding = v
		}
	}
	return p.deps.Chunks.SaveChunks(ctx, j.VideoID, chunks)
}

// chunksOf splits a transcript by paragraph, or returns it whole when paragraphs
// were not produced.
func chunksOf(tr *transcription.Response) []models.Chunk {
	paragraphs := tr.Paragraphs()
	chunks := make([]models.Chunk, 0, len(paragraphs))
	for _, para := range paragraphs {
		text := para.Text()
		if text == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Position: len(chunks),
			Speaker:  para.Speaker,
			Start:    para.Start,
			End:      para.End,
			Text:     text,
		})
	}
	if len(chunks) == 0 {
		chunks = append(chunks, models.Chunk{Text: tr.Text()})
	}
	return chunks
}
