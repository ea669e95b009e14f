package archive

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-agent/internal/domain/assistant"
)

func TestMemoryArchiveKeys(t *testing.T) {
	a := NewMemoryArchive()
	err := a.SaveTranscript(context.Background(), assistant.Transcript{
		ConversationID: "team/a b",
		CreatedAt:      "2026-10-16T08:00:00.000Z",
		Response:       "hola",
	})
	require.NoError(t, err)

	keys := a.Keys()
	require.Len(t, keys, 1)
	require.True(t, strings.HasPrefix(keys[0], "transcripts/team_a_b/2026-10-16T08:00:00.000Z-"))
	require.True(t, strings.HasSuffix(keys[0], ".json"))
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "acc.r2.cloudflarestorage.com", sanitizeEndpoint("https://acc.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint("http://localhost:9000"))
	require.Equal(t, "", sanitizeEndpoint(" "))
}
