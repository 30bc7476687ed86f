package media

import (
	"context"
	"log/slog"

	"github.com/kkdai/youtube/v2"

	"jamesfarrell.me/video-to-content/internal/artifact"
	"jamesfarrell.me/video-to-content/internal/errs"
)

// Downloader stores the audio-only track of the video at watchURL in dest.
type Downloader interface {
	Download(ctx context.Context, watchURL, dest string) error
}

// YouTube fetches streams with the pure Go client, no external binary needed.
type YouTube struct {
	client *youtube.Client
	log    *slog.Logger
}

func NewYouTube(log *slog.Logger) *YouTube {
	return &YouTube{client: &youtube.Client{}, log: log}
}

func (y *YouTube) Download(ctx context.Context, watchURL, dest string) error {
	const op = "media.youtube"

	video, err := y.client.GetVideoContext(ctx, watchURL)
	if err != nil {
		return errs.E(errs.CodeIO, op, "fetch video metadata", err)
	}

	format, ok := pickAudioFormat(video.Formats)
	if !ok {
		return errs.E(errs.CodeIO, op, "no audio-only format for "+video.ID, nil)
	}
	y.log.Debug("selected audio format",
		slog.Int("itag", format.ItagNo),
		slog.String("mime", format.MimeType),
		slog.Int("bitrate", format.Bitrate),
	)

	stream, _, err := y.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return errs.E(errs.CodeIO, op, "open stream", err)
	}
	defer stream.Close()

	n, err := artifact.WriteStream(dest, stream)
	if err != nil {
		return errs.E(errs.CodeIO, op, "download stream", err)
	}
	y.log.Debug("stream written", slog.Int64("bytes", n))
	return nil
}

// pickAudioFormat prefers an audio/mp4 track so the artifact matches its .mp4 name,
// falling back to any audio-only track. Highest bitrate wins.
func pickAudioFormat(formats youtube.FormatList) (*youtube.Format, bool) {
	candidates := formats.Type("audio/mp4").WithAudioChannels()
	if len(candidates) == 0 {
		candidates = formats.Type("audio/").WithAudioChannels()
	}
	if len(candidates) == 0 {
		return nil, false
	}
	best := 0
	for i := range candidates {
		if candidates[i].Bitrate > candidates[best].Bitrate {
			best = i
		}
	}
	return &candidates[best], true
}
