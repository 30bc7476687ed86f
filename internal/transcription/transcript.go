package transcription

import (
	"encoding/json"
	"os"
	"strings"

	"jamesfarrell.me/video-to-content/internal/errs"
)

// Response mirrors the prerecorded transcription payload. Only the fields the
// pipeline reads are typed; the artifact on disk keeps everything verbatim.
type Response struct {
	Metadata *Metadata `json:"metadata,omitempty"`
	Results  *Results  `json:"results,omitempty"`

	// Set instead of Results when the service rejects a request.
	ErrCode   string `json:"err_code,omitempty"`
	ErrMsg    string `json:"err_msg,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Metadata struct {
	RequestID string   `json:"request_id"`
	Duration  float64  `json:"duration"`
	Channels  int      `json:"channels"`
	Models    []string `json:"models"`
}

type Results struct {
	Channels []Channel `json:"channels"`
}

type Channel struct {
	DetectedLanguage string        `json:"detected_language,omitempty"`
	Alternatives     []Alternative `json:"alternatives"`
}

type Alternative struct {
	Transcript string      `json:"transcript"`
	Confidence float64     `json:"confidence"`
	Paragraphs *Paragraphs `json:"paragraphs,omitempty"`
}

type Paragraphs struct {
	Transcript string      `json:"transcript"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

type Paragraph struct {
	Sentences []Sentence `json:"sentences"`
	Speaker   int        `json:"speaker"`
	NumWords  int        `json:"num_words"`
	Start     float64    `json:"start"`
	End       float64    `json:"end"`
}

type Sentence struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Text joins the paragraph's sentences.
func (p Paragraph) Text() string {
	parts := make([]string, 0, len(p.Sentences))
	for _, s := range p.Sentences {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Failed reports whether the payload is a service-reported error.
func (r *Response) Failed() bool {
	return r.ErrCode != "" || r.ErrMsg != ""
}

func (r *Response) best() Alternative {
	return r.Results.Channels[0].Alternatives[0]
}

// Text is the paragraph-formatted transcript when available, else the flat one.
func (r *Response) Text() string {
	alt := r.best()
	if alt.Paragraphs != nil && strings.TrimSpace(alt.Paragraphs.Transcript) != "" {
		return strings.TrimSpace(alt.Paragraphs.Transcript)
	}
	return strings.TrimSpace(alt.Transcript)
}

// Paragraphs of the first alternative, empty when paragraphs were not requested.
func (r *Response) Paragraphs() []Paragraph {
	alt := r.best()
	if alt.Paragraphs == nil {
		return nil
	}
	return alt.Paragraphs.Paragraphs
}

// Language detected for the first channel, if any.
func (r *Response) Language() string {
	return r.Results.Channels[0].DetectedLanguage
}

// Parse decodes and validates a transcription payload.
func Parse(data []byte) (*Response, error) {
	const op = "transcription.parse"

	var r Response
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errs.E(errs.CodeMalformedUpstream, op, "decode transcript", err)
	}
	if r.Failed() {
		return nil, serviceError(&r)
	}
	if r.Results == nil || len(r.Results.Channels) == 0 {
		return nil, errs.E(errs.CodeMalformedUpstream, op, "transcript has no channels", nil)
	}
	if len(r.Results.Channels[0].Alternatives) == 0 {
		return nil, errs.E(errs.CodeMalformedUpstream, op, "transcript has no alternatives", nil)
	}
	return &r, nil
}

// Load re-reads a persisted transcript artifact.
func Load(path string) (*Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.E(errs.CodeIO, "transcription.load", "read "+path, err)
	}
	return Parse(data)
}
