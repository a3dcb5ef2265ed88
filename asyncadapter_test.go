package conflagrate

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnsureAwaitableNonBlockingRunsInline(t *testing.T) {
	t.Parallel()

	callerGoroutine := make(chan struct{})
	fn := func(ctx context.Context, deps Deps, args ...any) (any, error) {
		close(callerGoroutine)
		return "result", nil
	}

	v, err := ensureAwaitable(context.Background(), fn, NonBlocking, nil)
	require.NoError(t, err)
	require.Equal(t, "result", v)

	select {
	case <-callerGoroutine:
	default:
		t.Fatal("expected NonBlocking to invoke fn synchronously")
	}
}

func TestEnsureAwaitableBlockingDispatchesToPool(t *testing.T) {
	t.Parallel()

	var invoked int32
	fn := func(ctx context.Context, deps Deps, args ...any) (any, error) {
		atomic.AddInt32(&invoked, 1)
		return args[0], nil
	}

	v, err := ensureAwaitable(context.Background(), fn, Blocking, nil, "payload")
	require.NoError(t, err)
	require.Equal(t, "payload", v)
	require.EqualValues(t, 1, atomic.LoadInt32(&invoked))
}

func TestEnsureAwaitableBlockingRespectsCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	fn := func(ctx context.Context, deps Deps, args ...any) (any, error) {
		<-release
		return nil, nil
	}
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := ensureAwaitable(ctx, fn, Blocking, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
