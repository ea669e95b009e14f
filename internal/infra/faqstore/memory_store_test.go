package faqstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-agent/internal/domain/faq"
)

func TestMemoryStoreAnswerLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SaveAnswer(ctx, faq.AnswerRecord{EntryID: 1, Answer: "a"}, time.Hour))
	got, ok, err := store.GetAnswer(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", got.Answer)

	require.NoError(t, store.DeleteAnswer(ctx, 1))
	_, ok, err = store.GetAnswer(ctx, 1)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.SaveAnswer(ctx, faq.AnswerRecord{EntryID: 2, Answer: "b"}, time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, ok, err = store.GetAnswer(ctx, 2)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreTopQueries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, q := range []string{"reset password", "vacation", "reset password"} {
		require.NoError(t, store.IncrementQuery(ctx, q, q+"?"))
	}

	top, err := store.TopQueries(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []faq.TrendingQuery{{Query: "reset password?", Count: 2}}, top)
}
