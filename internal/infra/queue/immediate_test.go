package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type delivery struct {
	name    string
	payload map[string]any
	ctxErr  error
}

func TestImmediateQueueDeliversAfterCallerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan delivery, 1)
	q := NewImmediateQueue(func(jobCtx context.Context, name string, payload map[string]any) {
		got <- delivery{name: name, payload: payload, ctxErr: jobCtx.Err()}
	})

	require.NoError(t, q.Enqueue(ctx, "notify", map[string]any{"question": "hello"}))
	cancel()
	q.Close()

	d := <-got
	require.Equal(t, "notify", d.name)
	require.Equal(t, "hello", d.payload["question"])
	require.NoError(t, d.ctxErr)
}

func TestImmediateQueueWithoutHandler(t *testing.T) {
	q := NewImmediateQueue(nil)
	require.NoError(t, q.Enqueue(context.Background(), "noop", nil))
	q.Close()
}
