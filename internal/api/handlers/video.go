package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"jamesfarrell.me/video-to-content/internal/artifact"
	"jamesfarrell.me/video-to-content/internal/errs"
	"jamesfarrell.me/video-to-content/internal/job"
	"jamesfarrell.me/video-to-content/internal/storage/models"
	"jamesfarrell.me/video-to-content/internal/transcription"
)

type GenerationReader interface {
	LatestGeneration(ctx context.Context, videoID string) (*models.Generation, error)
}

type Publisher interface {
	Publish(ctx context.Context, payload string) error
}

type VideoHandler struct {
	generations  GenerationReader
	publisher    Publisher
	downloadsDir string
	log          *slog.Logger
}

func NewVideoHandler(generations GenerationReader, publisher Publisher, downloadsDir string, log *slog.Logger) *VideoHandler {
	return &VideoHandler{generations: generations, publisher: publisher, downloadsDir: downloadsDir, log: log}
}

type submitResponse struct {
	VideoID string `json:"videoId"`
	Status  string `json:"status"`
}

// AddVideo queues a video for the worker.
func (h *VideoHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	var req models.VideoRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	j, err := job.New(h.downloadsDir, req.VideoID, req.KeyPoint)
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := json.Marshal(models.VideoRequest{VideoID: j.VideoID, KeyPoint: j.KeyPoint})
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.publisher.Publish(r.Context(), string(payload)); err != nil {
		h.log.Error("publish failed", slog.String("video_id", j.VideoID), slog.Any("error", err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, submitResponse{VideoID: j.VideoID, Status: "queued"})
}

// GetContent returns the latest stored generation for a video.
func (h *VideoHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	j, err := job.New(h.downloadsDir, mux.Vars(r)["id"], "")
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := h.generations.LatestGeneration(r.Context(), j.VideoID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type transcriptResponse struct {
	VideoID    string `json:"videoId"`
	Language   string `json:"language,omitempty"`
	Transcript string `json:"transcript"`
}

// GetTranscript serves the cached transcript artifact.
func (h *VideoHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	j, err := job.New(h.downloadsDir, mux.Vars(r)["id"], "")
	if err != nil {
		writeError(w, err)
		return
	}
	if !artifact.Exists(j.JSONPath) {
		writeError(w, errs.E(errs.CodeNotFound, "transcript", "no transcript for "+j.VideoID, nil))
		return
	}
	tr, err := transcription.Load(j.JSONPath)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transcriptResponse{
		VideoID:    j.VideoID,
		Language:   tr.Language(),
		Transcript: tr.Text(),
	})
}
