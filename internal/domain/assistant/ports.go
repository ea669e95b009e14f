package assistant

import (
	"context"

	"github.com/yanqian/faq-agent/internal/domain/faq"
	"github.com/yanqian/faq-agent/internal/infra/llm/chatgpt"
)

// ChatClient drives tool-bound completions.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// KnowledgeBase is the subset of the FAQ service used by the assistant.
type KnowledgeBase interface {
	Lookup(ctx context.Context, question string) (faq.LookupResult, error)
	RegisterPending(ctx context.Context, question, createdBy string) (faq.Entry, error)
}

type InvoiceChecker interface {
	Status(ctx context.Context, invoiceID string) (string, error)
}

type AddressBook interface {
	Lookup(name string) string
}

type Mailer interface {
	Send(ctx context.Context, recipientName, address, text string) error
}

type WebFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

type LiveTV interface {
	Current(ctx context.Context) (Program, error)
}

// Tokenizer counts model tokens for history trimming.
type Tokenizer interface {
	Count(text string) int
}

// Archive stores finished turn transcripts. Best effort.
type Archive interface {
	SaveTranscript(ctx context.Context, t Transcript) error
}

// Deps groups the assistant's collaborators. Archive and Tokenizer are optional.
type Deps struct {
	Chat      ChatClient
	Knowledge KnowledgeBase
	Sessions  SessionStore
	Invoices  InvoiceChecker
	Directory AddressBook
	Mailer    Mailer
	Web       WebFetcher
	LiveTV    LiveTV
	Tokenizer Tokenizer
	Archive   Archive
}
