package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	require.Zero(t, Estimate{}.Count(""))
	require.Equal(t, 6, Estimate{}.Count("hello world!"))
	require.Equal(t, 1, Estimate{}.Count("ñá"))
	require.Equal(t, 3, Estimate{}.Count("a b c"))
}
