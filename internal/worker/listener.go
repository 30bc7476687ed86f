// Package worker runs the pipeline for videos announced on a Postgres channel.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"

	"jamesfarrell.me/video-to-content/internal/errs"
	"jamesfarrell.me/video-to-content/internal/job"
	"jamesfarrell.me/video-to-content/internal/pipeline"
	"jamesfarrell.me/video-to-content/internal/storage/models"
)

// Channel is the notification channel submissions are published on.
const Channel = "new_video"

const (
	minReconnect = 10 * time.Second
	maxReconnect = time.Minute
	pingAfter    = time.Minute
)

// Runner is the slice of the pipeline the worker drives.
type Runner interface {
	Job(ref, keyPoint string) (job.Job, error)
	Run(ctx context.Context, j job.Job) (*pipeline.Output, error)
}

type Listener struct {
	dbURL  string
	runner Runner
	log    *slog.Logger
}

func NewListener(dbURL string, runner Runner, log *slog.Logger) *Listener {
	return &Listener{dbURL: dbURL, runner: runner, log: log}
}

// Listen blocks until ctx is cancelled, handling one notification at a time.
func (l *Listener) Listen(ctx context.Context) error {
	listener := pq.NewListener(l.dbURL, minReconnect, maxReconnect,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				l.log.Error("listener event", slog.Int("event", int(ev)), slog.Any("error", err))
			}
		})
	defer listener.Close()

	if err := listener.Listen(Channel); err != nil {
		return errs.E(errs.CodeIO, "worker.listen", "listen on "+Channel, err)
	}
	l.log.Info("Listening for new videos", slog.String("channel", Channel))

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect; notifications sent meanwhile are lost
			if n == nil {
				l.log.Warn("connection re-established")
				continue
			}
			l.handle(ctx, n.Extra)
		case <-time.After(pingAfter):
			go func() {
				if err := listener.Ping(); err != nil {
					l.log.Warn("ping failed", slog.Any("error", err))
				}
			}()
		}
	}
}

func (l *Listener) handle(ctx context.Context, payload string) {
	req, err := ParsePayload(payload)
	if err != nil {
		l.log.Error("bad notification", slog.String("payload", payload), slog.Any("error", err))
		return
	}
	log := l.log.With(slog.String("video_id", req.VideoID))
	log.Info("Received new video notification")

	j, err := l.runner.Job(req.VideoID, req.KeyPoint)
	if err != nil {
		log.Error("invalid video", slog.Any("error", err))
		return
	}
	out, err := l.runner.Run(ctx, j)
	if err != nil {
		log.Error("processing video failed", slog.String("code", string(errs.CodeOf(err))), slog.Any("error", err))
		return
	}
	log.Info("Processed video",
		slog.Int("score", out.Outcome.Result.Score),
		slog.Int("iterations", out.Outcome.Iterations),
		slog.Bool("accepted", out.Outcome.Accepted))
}

// ParsePayload decodes a notification body. A bare identifier is accepted too.
func ParsePayload(payload string) (models.VideoRequest, error) {
	payload = strings.TrimSpace(payload)
	var req models.VideoRequest
	if strings.HasPrefix(payload, "{") {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return req, errs.E(errs.CodeMalformedUpstream, "worker.parse", "decode notification", err)
		}
	} else {
		req.VideoID = payload
	}
	req.VideoID = strings.TrimSpace(req.VideoID)
	if req.VideoID == "" {
		return req, job.ErrMissingVideoID
	}
	return req, nil
}

// Payload encodes a request the way ParsePayload reads it.
func Payload(req models.VideoRequest) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
