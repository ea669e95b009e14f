package faq

import (
	"context"

	"github.com/yanqian/faq-agent/internal/infra/llm/chatgpt"
)

// ChatClient is the language model used for translating questions before search.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// Embedder turns text into a vector comparable with the stored question vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Notifier tells the administrator about newly registered questions. Best effort.
type Notifier interface {
	NotifyPending(ctx context.Context, question, createdBy string) error
}
