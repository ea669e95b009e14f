package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yanqian/faq-agent/internal/domain/assistant"
)

// objectKey places transcripts under transcripts/<conversation>/<timestamp>-<uuid>.json.
func objectKey(t assistant.Transcript) string {
	conv := strings.NewReplacer("/", "_", " ", "_").Replace(t.ConversationID)
	return fmt.Sprintf("transcripts/%s/%s-%s.json", conv, t.CreatedAt, uuid.NewString())
}

// MemoryArchive keeps transcripts in memory. Useful for tests and local dev.
type MemoryArchive struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryArchive constructs the archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{blobs: make(map[string][]byte)}
}

func (a *MemoryArchive) SaveTranscript(_ context.Context, t assistant.Transcript) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.blobs[objectKey(t)] = payload
	a.mu.Unlock()
	return nil
}

// Keys lists stored object keys.
func (a *MemoryArchive) Keys() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	keys := make([]string, 0, len(a.blobs))
	for k := range a.blobs {
		keys = append(keys, k)
	}
	return keys
}

var _ assistant.Archive = (*MemoryArchive)(nil)
