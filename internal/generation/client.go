package generation

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// ChatCompleter is the part of *openai.Client the loop needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewClient returns a client for the hosted API, or for any OpenAI-compatible
// server (Ollama, vLLM, LM Studio) when baseURL is set.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
