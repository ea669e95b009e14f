package faqrepo

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/yanqian/faq-agent/internal/domain/faq"
)

type memoryEntry struct {
	entry     faq.Entry
	embedding []float32
}

// MemoryRepository is an in-memory faq.Repository used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	now     func() time.Time
	entries map[int64]memoryEntry
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:  1,
		now:     func() time.Time { return time.Now().UTC() },
		entries: make(map[int64]memoryEntry),
	}
}

// InsertPending implements faq.Repository.
func (r *MemoryRepository) InsertPending(_ context.Context, question, createdBy string) (faq.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	entry := faq.Entry{
		ID:        id,
		Question:  question,
		Status:    faq.StatusPending,
		CreatedAt: r.now(),
		CreatedBy: createdBy,
	}
	r.entries[id] = memoryEntry{entry: entry}
	return entry, nil
}

// Get implements faq.Repository.
func (r *MemoryRepository) Get(_ context.Context, id int64) (faq.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.entries[id]
	if !ok {
		return faq.Entry{}, false, nil
	}
	return cloneEntry(rec.entry), true, nil
}

// ListByStatus implements faq.Repository.
func (r *MemoryRepository) ListByStatus(_ context.Context, status faq.Status) ([]faq.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]faq.Entry, 0)
	for _, rec := range r.entries {
		if rec.entry.Status == status {
			out = append(out, cloneEntry(rec.entry))
		}
	}
	// the review queue is worked oldest first
	oldestFirst := status == faq.StatusPending
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return (out[i].ID < out[j].ID) == oldestFirst
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt) == oldestFirst
	})
	return out, nil
}

// AnswerAndActivate implements faq.Repository.
func (r *MemoryRepository) AnswerAndActivate(_ context.Context, id int64, answer string, embedding []float32) error {
	return r.mutate(id, func(rec *memoryEntry) {
		text := answer
		rec.entry.Answer = &text
		rec.entry.Status = faq.StatusActive
		rec.embedding = append([]float32(nil), embedding...)
	})
}

// SoftDelete implements faq.Repository.
func (r *MemoryRepository) SoftDelete(_ context.Context, id int64) error {
	return r.mutate(id, func(rec *memoryEntry) {
		rec.entry.Status = faq.StatusDeleted
		rec.embedding = nil
	})
}

// Restore implements faq.Repository.
func (r *MemoryRepository) Restore(_ context.Context, id int64) error {
	return r.mutate(id, func(rec *memoryEntry) {
		rec.entry.Status = faq.StatusPending
		rec.embedding = nil
	})
}

// UpdateText implements faq.Repository.
func (r *MemoryRepository) UpdateText(_ context.Context, id int64, question string) error {
	return r.mutate(id, func(rec *memoryEntry) {
		rec.entry.Question = question
	})
}

// FindBestMatch scans ACTIVE entries and returns the highest cosine similarity.
func (r *MemoryRepository) FindBestMatch(_ context.Context, embedding []float32) (faq.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		best   faq.Match
		hasAny bool
	)
	for _, candidate := range r.entries {
		if candidate.entry.Status != faq.StatusActive || len(candidate.embedding) == 0 {
			continue
		}
		score := cosineSimilarity(embedding, candidate.embedding)
		if !hasAny || score > best.Score {
			hasAny = true
			best = faq.Match{Entry: cloneEntry(candidate.entry), Score: score}
		}
	}
	if !hasAny {
		return faq.Match{}, false, nil
	}
	return best, true, nil
}

// Ping implements faq.Repository.
func (r *MemoryRepository) Ping(context.Context) error { return nil }

func (r *MemoryRepository) mutate(id int64, fn func(*memoryEntry)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.entries[id]
	if !ok {
		return faq.ErrEntryNotFound
	}
	fn(&rec)
	rec.entry.HasEmbedding = len(rec.embedding) > 0
	r.entries[id] = rec
	return nil
}

func cloneEntry(e faq.Entry) faq.Entry {
	if e.Answer != nil {
		answer := *e.Answer
		e.Answer = &answer
	}
	return e
}

func cosineSimilarity(a, b []float32) float64 {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < length; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ faq.Repository = (*MemoryRepository)(nil)
