package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	interfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/pkg/client/listen"

	"jamesfarrell.me/video-to-content/internal/errs"
)

// Options select the prerecorded features. Sentiment, intents and summarization
// stay at their off defaults.
type Options struct {
	Model           string
	SmartFormat     bool
	Punctuate       bool
	DetectLanguage  bool
	ProfanityFilter bool
	Diarize         bool
	Paragraphs      bool
}

// DefaultOptions turns on formatting, language detection, diarization and
// paragraphs, and turns off profanity filtering.
func DefaultOptions(model string) Options {
	return Options{
		Model:          model,
		SmartFormat:    true,
		Punctuate:      true,
		DetectLanguage: true,
		Diarize:        true,
		Paragraphs:     true,
	}
}

func (o Options) request() *interfaces.PreRecordedTranscriptionOptions {
	return &interfaces.PreRecordedTranscriptionOptions{
		Model:           o.Model,
		SmartFormat:     o.SmartFormat,
		Punctuate:       o.Punctuate,
		DetectLanguage:  o.DetectLanguage,
		ProfanityFilter: o.ProfanityFilter,
		Diarize:         o.Diarize,
		Paragraphs:      o.Paragraphs,
	}
}

// fileTranscriber is the part of the SDK's prerecorded REST client used here.
type fileTranscriber interface {
	DoFile(ctx context.Context, filePath string, req *interfaces.PreRecordedTranscriptionOptions, resBody interface{}) error
}

var initSDK sync.Once

// Client uploads audio files to the Deepgram prerecorded endpoint.
type Client struct {
	rest fileTranscriber
	opts Options
}

// NewClient builds a client for host; an empty host means the hosted API.
func NewClient(apiKey, host string, opts Options) *Client {
	initSDK.Do(client.InitWithDefault)
	rest := client.NewREST(apiKey, &interfaces.ClientOptions{Host: host})
	return &Client{rest: rest, opts: opts}
}

// Transcribe uploads audioPath and returns the response body verbatim. A response
// the service marks as an error is returned as a CodeTranscriptionService error and no body.
func (c *Client) Transcribe(ctx context.Context, audioPath string) ([]byte, error) {
	const op = "deepgram.transcribe"

	if _, err := os.Stat(audioPath); err != nil {
		return nil, errs.E(errs.CodeIO, op, "open audio", err)
	}

	var body json.RawMessage
	if err := c.rest.DoFile(ctx, audioPath, c.opts.request(), &body); err != nil {
		var status *interfaces.StatusError
		var syntax *json.SyntaxError
		switch {
		case errors.As(err, &status):
			return nil, errs.E(errs.CodeTranscriptionService, op, "service reported error", err)
		case errors.As(err, &syntax):
			return nil, errs.E(errs.CodeMalformedUpstream, op, "decode response", err)
		default:
			return nil, errs.E(errs.CodeIO, op, "send request", err)
		}
	}

	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, errs.E(errs.CodeMalformedUpstream, op, "decode response", err)
	}
	if r.Failed() {
		return nil, serviceError(&r)
	}
	return body, nil
}

func serviceError(r *Response) error {
	detail := r.ErrMsg
	if r.ErrCode != "" {
		detail = r.ErrCode + ": " + detail
	}
	if r.RequestID != "" {
		detail += fmt.Sprintf(" (request %s)", r.RequestID)
	}
	return errs.E(errs.CodeTranscriptionService, "deepgram.transcribe", "service reported error", errors.New(detail))
}
