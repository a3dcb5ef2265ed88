package conflagrate

// EngineOption configures process-wide engine behavior. It mirrors the
// teacher's functional-options configuration pattern (ExecutorOption /
// WithChannelBufferSize), adapted to the one process-wide knob this engine
// exposes: the size of the Blocking dispatch worker pool.
type EngineOption func(*engineConfig)

type engineConfig struct {
	workerPoolSize int
}

// WithWorkerPoolSize sets the capacity of the bounded worker pool that
// Blocking node types are dispatched through. Must be called before the
// first Blocking node type is invoked in the process; later calls have no
// effect once the pool has been constructed.
func WithWorkerPoolSize(n int) EngineOption {
	return func(c *engineConfig) { c.workerPoolSize = n }
}

// Configure applies process-wide engine options. There is deliberately no
// WithNonBlockingGoroutineLimit option: NonBlocking node types run inline on
// the scheduler's own goroutines, which are not pooled.
func Configure(opts ...EngineOption) {
	cfg := engineConfig{workerPoolSize: defaultWorkerPoolSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	setWorkerPoolSize(cfg.workerPoolSize)
}
