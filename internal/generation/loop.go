package generation

import (
	"context"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"jamesfarrell.me/video-to-content/internal/errs"
)

// MaxIterations bounds the draft/revise loop.
const MaxIterations = 2

// Outcome is the last Result together with how the loop ended. Accepted is false
// when the bound ran out before the model was satisfied.
type Outcome struct {
	Result     Result `json:"result"`
	Iterations int    `json:"iterations"`
	Accepted   bool   `json:"accepted"`
}

// Generator runs the self-critique loop against a chat model.
type Generator struct {
	client        ChatCompleter
	model         string
	maxIterations int
	log           *slog.Logger
}

func NewGenerator(client ChatCompleter, model string, log *slog.Logger) *Generator {
	return &Generator{
		client:        client,
		model:         model,
		maxIterations: MaxIterations,
		log:           log,
	}
}

// Generate drafts content for transcript and revises it until the model accepts
// its own work or MaxIterations is reached.
func (g *Generator) Generate(ctx context.Context, transcript, keyPoint string) (Outcome, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(keyPoint)},
		{Role: openai.ChatMessageRoleUser, Content: transcript},
	}

	var out Outcome
	for i := 1; i <= g.maxIterations; i++ {
		raw, err := g.complete(ctx, messages)
		if err != nil {
			return Outcome{}, err
		}
		res, err := ParseResult(raw)
		if err != nil {
			return Outcome{}, err
		}

		out = Outcome{Result: res, Iterations: i, Accepted: res.Accepted()}
		g.log.Info("content generated",
			slog.Int("iteration", i),
			slog.Int("score", res.Score),
			slog.Int("tweet_chars", res.TweetLen()),
			slog.Int("linkedin_chars", res.LinkedInLen()),
			slog.Any("improvements", res.Improvements),
		)
		if res.blank > 0 {
			g.log.Warn("dropped blank improvements", slog.Int("iteration", i), slog.Int("count", res.blank))
		}
		g.log.Debug("generation result",
			slog.String("quote", res.Quote),
			slog.String("tweet", res.Tweet),
			slog.String("linkedin", res.LinkedIn),
		)

		if out.Accepted || i == g.maxIterations {
			break
		}
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: raw},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: RevisionPrompt(res.Improvements)},
		)
	}

	if !out.Accepted {
		g.log.Warn("revision limit reached, keeping last result",
			slog.Int("iterations", out.Iterations),
			slog.Int("score", out.Result.Score),
		)
	}
	return out, nil
}

func (g *Generator) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	const op = "generation.complete"

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", errs.E(errs.CodeUpstream, op, "chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", errs.E(errs.CodeMalformedUpstream, op, "reply has no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}
