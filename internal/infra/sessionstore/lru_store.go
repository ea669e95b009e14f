package sessionstore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yanqian/faq-agent/internal/domain/assistant"
	"github.com/yanqian/faq-agent/internal/infra/llm/chatgpt"
)

// LRUStore keeps conversations in process memory, bounded by capacity and TTL.
type LRUStore struct {
	cache *expirable.LRU[string, assistant.Session]
}

// NewLRUStore constructs the store. A zero ttl disables expiry.
func NewLRUStore(capacity int, ttl time.Duration) *LRUStore {
	if capacity <= 0 {
		capacity = 1024
	}
	return &LRUStore{cache: expirable.NewLRU[string, assistant.Session](capacity, nil, ttl)}
}

func (s *LRUStore) Get(_ context.Context, conversationID string) (assistant.Session, bool, error) {
	sess, ok := s.cache.Get(conversationID)
	if !ok {
		return assistant.Session{}, false, nil
	}
	sess.History = append([]chatgpt.Message(nil), sess.History...)
	return sess, true, nil
}

func (s *LRUStore) Put(_ context.Context, session assistant.Session) error {
	session.History = append([]chatgpt.Message(nil), session.History...)
	s.cache.Add(session.ConversationID, session)
	return nil
}

func (s *LRUStore) Delete(_ context.Context, conversationID string) error {
	s.cache.Remove(conversationID)
	return nil
}

var _ assistant.SessionStore = (*LRUStore)(nil)
