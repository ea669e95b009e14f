package assistant

import (
	"context"
	"sync"

	"github.com/yanqian/faq-agent/internal/infra/llm/chatgpt"
)

// SessionStore persists conversation state between turns.
type SessionStore interface {
	Get(ctx context.Context, conversationID string) (Session, bool, error)
	Put(ctx context.Context, session Session) error
	Delete(ctx context.Context, conversationID string) error
}

// keyedMutex serializes work per conversation while leaving other keys independent.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// trimHistory drops the oldest whole turns until the history fits budget tokens.
// A turn starts at a user message; the latest turn is always kept.
func trimHistory(history []chatgpt.Message, budget int, counter Tokenizer) []chatgpt.Message {
	if budget <= 0 || counter == nil || len(history) == 0 {
		return history
	}
	total := 0
	for _, msg := range history {
		total += messageTokens(msg, counter)
	}
	for total > budget {
		next := nextTurnStart(history)
		if next <= 0 {
			break
		}
		for _, msg := range history[:next] {
			total -= messageTokens(msg, counter)
		}
		history = history[next:]
	}
	return history
}

func nextTurnStart(history []chatgpt.Message) int {
	for i := 1; i < len(history); i++ {
		if history[i].Role == "user" {
			return i
		}
	}
	return -1
}

func messageTokens(msg chatgpt.Message, counter Tokenizer) int {
	n := counter.Count(msg.Content) + 4
	for _, call := range msg.ToolCalls {
		n += counter.Count(call.Function.Name) + counter.Count(call.Function.Arguments)
	}
	return n
}
