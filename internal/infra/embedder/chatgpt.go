package embedder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/faq-agent/internal/domain/faq"
	"github.com/yanqian/faq-agent/internal/infra/llm/chatgpt"
)

// TokenCounter reports how many model tokens a text occupies.
type TokenCounter interface {
	Count(text string) int
}

// maxInputTokens stays below the embeddings endpoint cap.
const maxInputTokens = 8000

// ChatGPTEmbedder calls an OpenAI-compatible embeddings API.
type ChatGPTEmbedder struct {
	client  *chatgpt.Client
	model   string
	counter TokenCounter
	logger  *slog.Logger
}

// NewChatGPTEmbedder constructs an embedder backed by the ChatGPT client.
func NewChatGPTEmbedder(client *chatgpt.Client, model string, counter TokenCounter, logger *slog.Logger) *ChatGPTEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatGPTEmbedder{
		client:  client,
		model:   strings.TrimSpace(model),
		counter: counter,
		logger:  logger.With("component", "embedder.chatgpt"),
	}
}

// Embed requests a single embedding vector.
func (e *ChatGPTEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("embed: empty input")
	}
	if e.counter != nil {
		if tokens := e.counter.Count(text); tokens > maxInputTokens {
			return nil, fmt.Errorf("text too large for embedding request: tokens=%d", tokens)
		}
	}
	resp, err := e.client.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
		Model: e.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("create embedding: empty response")
	}
	if len(resp.Data) > 1 {
		e.logger.Warn("embedding result count mismatch", "expected", 1, "got", len(resp.Data))
	}
	vec := make([]float32, len(resp.Data[0].Embedding))
	copy(vec, resp.Data[0].Embedding)
	return vec, nil
}

var _ faq.Embedder = (*ChatGPTEmbedder)(nil)
