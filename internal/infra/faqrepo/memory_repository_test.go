package faqrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-agent/internal/domain/faq"
)

func TestMemoryRepositoryListOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, err := repo.InsertPending(ctx, "first", faq.CreatedByUser)
	require.NoError(t, err)
	second, err := repo.InsertPending(ctx, "second", faq.CreatedByUser)
	require.NoError(t, err)
	third, err := repo.InsertPending(ctx, "third", faq.CreatedByJoule)
	require.NoError(t, err)

	pending, err := repo.ListByStatus(ctx, faq.StatusPending)
	require.NoError(t, err)
	require.Equal(t, []int64{first.ID, second.ID, third.ID}, ids(pending))

	require.NoError(t, repo.AnswerAndActivate(ctx, first.ID, "a", []float32{1, 0}))
	require.NoError(t, repo.AnswerAndActivate(ctx, third.ID, "c", []float32{0, 1}))
	active, err := repo.ListByStatus(ctx, faq.StatusActive)
	require.NoError(t, err)
	require.Equal(t, []int64{third.ID, first.ID}, ids(active))
	require.True(t, active[0].HasEmbedding)
}

func TestMemoryRepositoryBestMatchSkipsInactive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, found, err := repo.FindBestMatch(ctx, []float32{1, 0})
	require.NoError(t, err)
	require.False(t, found)

	a, _ := repo.InsertPending(ctx, "a", faq.CreatedByUser)
	b, _ := repo.InsertPending(ctx, "b", faq.CreatedByUser)
	require.NoError(t, repo.AnswerAndActivate(ctx, a.ID, "answer a", []float32{1, 0}))
	require.NoError(t, repo.AnswerAndActivate(ctx, b.ID, "answer b", []float32{0.6, 0.8}))

	match, found, err := repo.FindBestMatch(ctx, []float32{1, 0})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, a.ID, match.Entry.ID)
	require.InDelta(t, 1.0, match.Score, 1e-9)

	require.NoError(t, repo.SoftDelete(ctx, a.ID))
	match, found, err = repo.FindBestMatch(ctx, []float32{1, 0})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, b.ID, match.Entry.ID)
	require.InDelta(t, 0.6, match.Score, 1e-6)

	deleted, ok, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, deleted.HasEmbedding)

	require.ErrorIs(t, repo.Restore(ctx, 99), faq.ErrEntryNotFound)
}

func ids(entries []faq.Entry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}
