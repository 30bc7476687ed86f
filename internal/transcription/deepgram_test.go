package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	interfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamesfarrell.me/video-to-content/internal/errs"
)

type fakeREST struct {
	body string
	err  error

	path string
	req  *interfaces.PreRecordedTranscriptionOptions
}

func (f *fakeREST) DoFile(_ context.Context, filePath string, req *interfaces.PreRecordedTranscriptionOptions, resBody interface{}) error {
	f.path, f.req = filePath, req
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.body), resBody)
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "id.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3fake-audio"), 0o644))
	return path
}

func TestTranscribeSendsOptions(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("testdata", "response.json"))
	require.NoError(t, err)

	rest := &fakeREST{body: string(fixture)}
	c := &Client{rest: rest, opts: DefaultOptions("nova-2")}
	audio := writeAudio(t)

	raw, err := c.Transcribe(context.Background(), audio)
	require.NoError(t, err)
	assert.JSONEq(t, string(fixture), string(raw))

	assert.Equal(t, audio, rest.path)
	require.NotNil(t, rest.req)
	assert.Equal(t, "nova-2", rest.req.Model)
	assert.True(t, rest.req.SmartFormat)
	assert.True(t, rest.req.Punctuate)
	assert.True(t, rest.req.DetectLanguage)
	assert.True(t, rest.req.Diarize)
	assert.True(t, rest.req.Paragraphs)
	assert.False(t, rest.req.ProfanityFilter)
}

func TestTranscribeServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		rest *fakeREST
		code errs.Code
		msg  string
	}{
		{
			name: "status error",
			rest: &fakeREST{err: &interfaces.StatusError{}},
			code: errs.CodeTranscriptionService,
		},
		{
			name: "wrapped status error",
			rest: &fakeREST{err: errors.Join(errors.New("listen"), &interfaces.StatusError{})},
			code: errs.CodeTranscriptionService,
		},
		{
			name: "error field on 200",
			rest: &fakeREST{body: `{"err_code":"Bad Request","err_msg":"corrupt or unsupported data","request_id":"r-1"}`},
			code: errs.CodeTranscriptionService,
			msg:  "Bad Request: corrupt or unsupported data (request r-1)",
		},
		{
			name: "garbage on 200",
			rest: &fakeREST{body: "<html>"},
			code: errs.CodeMalformedUpstream,
		},
		{
			name: "transport failure",
			rest: &fakeREST{err: errors.New("dial tcp: connection refused")},
			code: errs.CodeIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{rest: tt.rest, opts: DefaultOptions("nova-2")}
			raw, err := c.Transcribe(context.Background(), writeAudio(t))
			require.Error(t, err)
			assert.Nil(t, raw)
			assert.Equal(t, tt.code, errs.CodeOf(err))
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestTranscribeMissingAudio(t *testing.T) {
	rest := &fakeREST{}
	c := &Client{rest: rest, opts: DefaultOptions("nova-2")}
	_, err := c.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)
	assert.Equal(t, errs.CodeIO, errs.CodeOf(err))
	assert.Empty(t, rest.path, "nothing is uploaded")
}

func TestNewClientUsesSDK(t *testing.T) {
	c := NewClient("dg-key", "", DefaultOptions("nova-2"))
	assert.NotNil(t, c.rest)
}
