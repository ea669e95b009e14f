package embedder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeterministicEmbedderIsStable(t *testing.T) {
	e := NewDeterministicEmbedder(16)
	a, err := e.Embed(context.Background(), "How do I reset my password?")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "how do i reset my PASSWORD")
	require.NoError(t, err)
	require.Len(t, a, 16)
	require.Equal(t, a, b)
}

func TestDeterministicEmbedderEmptyTextIsNonZero(t *testing.T) {
	vec, err := NewDeterministicEmbedder(0).Embed(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, vec, 64)
	require.NotZero(t, vec[0])
}
