package conflagrate

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/ignirtoq/conflagrate/log"
)

// defaultWorkerPoolSize is the default capacity of the blocking Async
// Adapter's worker pool, matching the order of magnitude the teacher's
// executor defaults to for its event channel buffer.
const defaultWorkerPoolSize = 256

var (
	workerPoolOnce sync.Once
	workerPool     *ants.PoolWithFunc
	workerPoolSize = defaultWorkerPoolSize
)

type blockingCall struct {
	fn      NodeFunc
	ctx     context.Context
	deps    Deps
	args    []any
	resultC chan blockingResult
}

type blockingResult struct {
	value any
	err   error
}

// setWorkerPoolSize configures the capacity of the blocking worker pool.
// Must be called before the pool is first used (i.e. before the first
// Blocking node type is invoked); it is intended to be set once from
// WithWorkerPoolSize at executor-construction time.
func setWorkerPoolSize(size int) {
	if size > 0 {
		workerPoolSize = size
	}
}

func getWorkerPool() *ants.PoolWithFunc {
	workerPoolOnce.Do(func() {
		pool, err := ants.NewPoolWithFunc(workerPoolSize, func(arg any) {
			call := arg.(*blockingCall)
			value, err := call.fn(call.ctx, call.deps, call.args...)
			call.resultC <- blockingResult{value: value, err: err}
		})
		if err != nil {
			// Pool construction only fails on an invalid (<=0) size,
			// which setWorkerPoolSize already guards against; a
			// fallback single-worker pool keeps the adapter usable
			// rather than panicking user code.
			log.Errorf("conflagrate: worker pool init failed, falling back to size 1: %v", err)
			pool, _ = ants.NewPoolWithFunc(1, func(arg any) {
				call := arg.(*blockingCall)
				value, err := call.fn(call.ctx, call.deps, call.args...)
				call.resultC <- blockingResult{value: value, err: err}
			})
		}
		workerPool = pool
	})
	return workerPool
}

// ensureAwaitable converts fn into a result, either by calling it directly
// on the calling goroutine (NonBlocking) or by dispatching it to the bounded
// worker pool and waiting for the result (Blocking). It respects ctx
// cancellation while waiting for a blocking call's result; the dispatched
// pool worker itself runs to completion regardless (best effort — it is not
// preemptible).
func ensureAwaitable(ctx context.Context, fn NodeFunc, behavior BlockingBehavior, deps Deps, args ...any) (any, error) {
	if behavior == NonBlocking {
		return fn(ctx, deps, args...)
	}

	call := &blockingCall{
		fn:      fn,
		ctx:     ctx,
		deps:    deps,
		args:    args,
		resultC: make(chan blockingResult, 1),
	}
	if err := getWorkerPool().Invoke(call); err != nil {
		return nil, err
	}
	select {
	case res := <-call.resultC:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
