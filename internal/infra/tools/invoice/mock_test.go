package invoice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockCheckerReturnsKnownStatus(t *testing.T) {
	m := NewMockChecker()
	for i := 0; i < 20; i++ {
		status, err := m.Status(context.Background(), "INV-1")
		require.NoError(t, err)
		require.Contains(t, Statuses, status)
	}

	m.pick = func(int) int { return 2 }
	status, err := m.Status(context.Background(), "INV-2")
	require.NoError(t, err)
	require.Equal(t, "Unpaid, not due yet", status)

	_, err = m.Status(context.Background(), " ")
	require.Error(t, err)
}
