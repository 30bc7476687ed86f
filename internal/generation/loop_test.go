package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamesfarrell.me/video-to-content/internal/errs"
	"jamesfarrell.me/video-to-content/internal/logger"
)

// scriptedChat replays replies in order, repeating the last one.
type scriptedChat struct {
	replies  []string
	err      error
	requests []openai.ChatCompletionRequest
}

func (s *scriptedChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	req.Messages = append([]openai.ChatCompletionMessage(nil), req.Messages...)
	s.requests = append(s.requests, req)
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	i := len(s.requests) - 1
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: s.replies[i],
		}}},
	}, nil
}

func reply(score int, improvements ...string) string {
	if improvements == nil {
		improvements = []string{}
	}
	b, _ := json.Marshal(Result{
		Quote:        "Agents are just loops with opinions.",
		Tweet:        strings.Repeat("t", 130),
		LinkedIn:     strings.Repeat("l", 450),
		Score:        score,
		Improvements: improvements,
	})
	return string(b)
}

func TestGenerateStopsOnPerfectScore(t *testing.T) {
	chat := &scriptedChat{replies: []string{reply(10)}}
	out, err := NewGenerator(chat, "gpt-4-turbo", logger.Discard()).Generate(context.Background(), "transcript", "")

	require.NoError(t, err)
	assert.Len(t, chat.requests, 1)
	assert.Equal(t, 1, out.Iterations)
	assert.True(t, out.Accepted)
	assert.Equal(t, 10, out.Result.Score)
}

func TestGenerateStopsOnEmptyImprovements(t *testing.T) {
	chat := &scriptedChat{replies: []string{reply(9), reply(10)}}
	out, err := NewGenerator(chat, "gpt-4-turbo", logger.Discard()).Generate(context.Background(), "transcript", "")

	require.NoError(t, err)
	assert.Len(t, chat.requests, 1)
	assert.Equal(t, 1, out.Iterations)
	assert.True(t, out.Accepted)
	assert.Equal(t, 9, out.Result.Score)
}

func TestGenerateRevisesOnBlankImprovements(t *testing.T) {
	chat := &scriptedChat{replies: []string{reply(3, "   "), reply(10)}}
	out, err := NewGenerator(chat, "gpt-4-turbo", logger.Discard()).Generate(context.Background(), "transcript", "")

	require.NoError(t, err)
	assert.Len(t, chat.requests, 2)
	assert.Equal(t, 2, out.Iterations)
	assert.True(t, out.Accepted)
}

func TestGenerateStopsAtBound(t *testing.T) {
	chat := &scriptedChat{replies: []string{
		reply(5, "shorten the tweet"),
		reply(5, "add a call to action", "mention the demo"),
	}}
	out, err := NewGenerator(chat, "gpt-4-turbo", logger.Discard()).Generate(context.Background(), "transcript", "")

	require.NoError(t, err)
	assert.Len(t, chat.requests, MaxIterations)
	assert.Equal(t, MaxIterations, out.Iterations)
	assert.False(t, out.Accepted)
	assert.Equal(t, []string{"add a call to action", "mention the demo"}, out.Result.Improvements)
}

func TestGenerateRevisionConversation(t *testing.T) {
	first := reply(6, "shorten the tweet", "use a stronger hook")
	chat := &scriptedChat{replies: []string{first, reply(10)}}
	_, err := NewGenerator(chat, "llama3.1", logger.Discard()).Generate(context.Background(), "the transcript", "open source wins")
	require.NoError(t, err)
	require.Len(t, chat.requests, 2)

	initial := chat.requests[0]
	assert.Equal(t, "llama3.1", initial.Model)
	require.NotNil(t, initial.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, initial.ResponseFormat.Type)
	require.Len(t, initial.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, initial.Messages[0].Role)
	assert.Contains(t, initial.Messages[0].Content, "open source wins")
	assert.Equal(t, openai.ChatMessageRoleUser, initial.Messages[1].Role)
	assert.Equal(t, "the transcript", initial.Messages[1].Content)

	revised := chat.requests[1].Messages
	require.Len(t, revised, 4)
	assert.Equal(t, openai.ChatMessageRoleAssistant, revised[2].Role)
	assert.Equal(t, first, revised[2].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, revised[3].Role)
	assert.Contains(t, revised[3].Content, "- shorten the tweet\n- use a stronger hook\n")
	assert.Contains(t, revised[3].Content, "hashtags")
	assert.Contains(t, revised[3].Content, "between 400 and 500")
	assert.Contains(t, revised[3].Content, "at least 120")
	assert.Contains(t, revised[3].Content, `"delve"`)
}

func TestGenerateErrors(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		chat := &scriptedChat{err: errors.New("connection refused")}
		_, err := NewGenerator(chat, "m", logger.Discard()).Generate(context.Background(), "x", "")
		require.Error(t, err)
		assert.Equal(t, errs.CodeUpstream, errs.CodeOf(err))
	})

	t.Run("malformed reply", func(t *testing.T) {
		chat := &scriptedChat{replies: []string{"Sure! Here is your tweet."}}
		_, err := NewGenerator(chat, "m", logger.Discard()).Generate(context.Background(), "x", "")
		require.Error(t, err)
		assert.Equal(t, errs.CodeMalformedUpstream, errs.CodeOf(err))
	})
}

// TestGenerateOverHTTP drives the real go-openai client against a local
// OpenAI-compatible endpoint, as used with LLM_BASE_URL.
func TestGenerateOverHTTP(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.1", req.Model)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"c1","object":"chat.completion","model":"llama3.1","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":%q}}]}`,
			"```json\n"+reply(10)+"\n```")
	}))
	defer srv.Close()

	client := NewClient("", srv.URL+"/v1")
	out, err := NewGenerator(client, "llama3.1", logger.Discard()).Generate(context.Background(), "transcript", "")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 10, out.Result.Score)
	assert.Equal(t, "Agents are just loops with opinions.", out.Result.Quote)
}
