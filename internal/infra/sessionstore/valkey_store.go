package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-agent/internal/domain/assistant"
)

// ValkeyStore persists conversations as JSON values with a TTL.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs the store.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "faq"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ValkeyStore) Get(ctx context.Context, conversationID string) (assistant.Session, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(conversationID)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return assistant.Session{}, false, nil
		}
		return assistant.Session{}, false, err
	}
	var sess assistant.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return assistant.Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	return sess, true, nil
}

func (s *ValkeyStore) Put(ctx context.Context, session assistant.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.key(session.ConversationID)).Value(string(payload))
	if s.ttl >= time.Second {
		return s.client.Do(ctx, builder.Ex(s.ttl).Build()).Error()
	}
	return s.client.Do(ctx, builder.Build()).Error()
}

func (s *ValkeyStore) Delete(ctx context.Context, conversationID string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(conversationID)).Build()).Error()
}

func (s *ValkeyStore) key(conversationID string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, conversationID)
}

var _ assistant.SessionStore = (*ValkeyStore)(nil)
