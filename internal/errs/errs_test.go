package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(CodeMissingArgument, "missing video identifier"),
			want: "missing video identifier",
		},
		{
			name: "op and cause",
			err:  E(CodeIO, "media.download", "write stream", fmt.Errorf("disk full")),
			want: "media.download: write stream: disk full",
		},
		{
			name: "cause without message",
			err:  E(CodeUpstream, "deepgram", "", fmt.Errorf("bad key")),
			want: "deepgram: bad key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapKeepsCode(t *testing.T) {
	inner := E(CodeTranscriptionService, "deepgram.transcribe", "service reported error", nil)
	outer := fmt.Errorf("stage transcribe: %w", Wrap(inner, "pipeline.run", "transcription failed"))

	assert.Equal(t, CodeTranscriptionService, CodeOf(outer))
	assert.True(t, errors.Is(outer, Kind(CodeTranscriptionService)))
	assert.False(t, errors.Is(outer, Kind(CodeIO)))
}

func TestWrapPlainError(t *testing.T) {
	err := Wrap(fmt.Errorf("boom"), "op", "failed")
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Nil(t, Wrap(nil, "op", "failed"))
}

func TestSentinelMatchesMessage(t *testing.T) {
	sentinel := New(CodeMissingTranscription, "DEEPGRAM_KEY is not set")
	err := fmt.Errorf("load config: %w", sentinel)

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, Kind(CodeMissingTranscription))
	assert.NotErrorIs(t, err, New(CodeMissingTranscription, "other"))
}
