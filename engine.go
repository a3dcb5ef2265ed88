package conflagrate

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ignirtoq/conflagrate/log"
)

// GraphSource resolves to an executable Graph. *Graph satisfies it trivially
// (Resolve returns itself); the dot and dsl packages provide other
// implementations that build a Graph from a DOT file or a fluent builder.
type GraphSource interface {
	Resolve() (*Graph, error)
}

// Resolve returns g unchanged, so a *Graph can be passed directly to Run.
func (g *Graph) Resolve() (*Graph, error) {
	return g, nil
}

type runOptions struct {
	startArgs  []any
	cacheUsage CacheUsage
}

// RunOption configures a RunGraph/Run invocation.
type RunOption func(*runOptions)

// WithStartArgs supplies the positional arguments passed to the start
// node's callable.
func WithStartArgs(args ...any) RunOption {
	return func(o *runOptions) { o.startArgs = args }
}

// WithCacheUsage controls whether the run shares the DependencyCache already
// attached to ctx (Shared, the default) or installs a fresh one
// (Independent).
func WithCacheUsage(usage CacheUsage) RunOption {
	return func(o *runOptions) { o.cacheUsage = usage }
}

type dependencyCacheCtxKey struct{}

func withDependencyCache(ctx context.Context, c *DependencyCache) context.Context {
	return context.WithValue(ctx, dependencyCacheCtxKey{}, c)
}

func dependencyCacheFromContext(ctx context.Context) (*DependencyCache, bool) {
	c, ok := ctx.Value(dependencyCacheCtxKey{}).(*DependencyCache)
	return c, ok
}

// runState records the run's outcome: the most recently observed terminal
// value (SPEC_FULL.md §10, O2 — the source project leaves the choice among
// multiple terminal branches undefined; this implementation documents
// last-write-wins) and the first error any branch produced.
type runState struct {
	mu       sync.Mutex
	terminal any
	err      error
}

func (s *runState) recordTerminal(v any) {
	s.mu.Lock()
	s.terminal = v
	s.mu.Unlock()
}

func (s *runState) recordErr(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}

func (s *runState) snapshot() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminal, s.err
}

// Run resolves source to a Graph and runs it starting at startName. It is
// the synchronous, top-level entry point: create a context (with
// context.Background() plus whatever cancellation/timeout the caller wants)
// and call Run from main.
func Run(ctx context.Context, source GraphSource, startName string, opts ...RunOption) (any, error) {
	g, err := source.Resolve()
	if err != nil {
		return nil, fmt.Errorf("conflagrate: resolving graph source: %w", err)
	}
	return RunGraph(ctx, g, startName, opts...)
}

// RunGraph walks g starting at startName, invoking each node and fanning out
// to its successors as independent goroutines, and returns the terminal
// value recorded by the run (see runState) along with the first error any
// branch produced, if any.
func RunGraph(ctx context.Context, g *Graph, startName string, opts ...RunOption) (any, error) {
	var options runOptions
	for _, opt := range opts {
		opt(&options)
	}

	startNode, ok := g.Node(startName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoStartNode, startName)
	}

	runCtx := ctx
	if options.cacheUsage == Independent {
		runCtx = withDependencyCache(ctx, NewDependencyCache())
	} else if _, exists := dependencyCacheFromContext(ctx); !exists {
		runCtx = withDependencyCache(ctx, NewDependencyCache())
	}

	invocationID := uuid.NewString()
	log.Debugf("conflagrate: run %s starting at node %q", invocationID, startName)

	tracker := NewBranchTracker(1)
	state := &runState{}
	go executeNode(runCtx, startNode, tracker, options.startArgs, state)

	waitErr := tracker.Wait(ctx)
	terminal, branchErr := state.snapshot()
	if waitErr != nil {
		log.Warnf("conflagrate: run %s cancelled: %v", invocationID, waitErr)
		return terminal, waitErr
	}
	if branchErr != nil {
		log.Errorf("conflagrate: run %s failed: %v", invocationID, branchErr)
		return terminal, branchErr
	}
	log.Debugf("conflagrate: run %s completed", invocationID)
	return terminal, nil
}

// executeNode is the scheduler's per-branch unit of work: resolve
// dependencies, invoke the node, and either terminate the branch or fan out
// to its successors. Every call ends by doing exactly one of: removing its
// branch from tracker, spawning one or more successor goroutines (having
// first added branches for all but the first successor), or, if adding a
// branch fails because the tracker is already closed, recording that error
// and returning.
func executeNode(ctx context.Context, node *Node, tracker *BranchTracker, input []any, state *runState) {
	cache, ok := dependencyCacheFromContext(ctx)
	if !ok {
		// Defensive: RunGraph always installs a cache before spawning
		// the first executeNode goroutine.
		cache = NewDependencyCache()
	}

	deps, err := resolveDeps(ctx, cache, node.nodeType.DependsOn)
	if err != nil {
		state.recordErr(fmt.Errorf("node %q: %w", node.Name, err))
		_ = tracker.RemoveBranch()
		return
	}

	raw, err := node.invoke(ctx, deps, input...)
	if err != nil {
		state.recordErr(fmt.Errorf("node %q: %w", node.Name, err))
		_ = tracker.RemoveBranch()
		return
	}

	if !node.hasSuccessors() {
		state.recordTerminal(raw)
		_ = tracker.RemoveBranch()
		return
	}

	data, err := node.extractData(raw)
	if err != nil {
		state.recordErr(fmt.Errorf("node %q: %w", node.Name, err))
		_ = tracker.RemoveBranch()
		return
	}
	nextInput := convertOutputToInput(data)

	successors, err := node.next(raw)
	if err != nil {
		state.recordErr(fmt.Errorf("node %q: %w", node.Name, err))
		_ = tracker.RemoveBranch()
		return
	}
	if len(successors) == 0 {
		// Matcher miss or an explicitly empty edge set: terminate the
		// branch silently, not an error (SPEC_FULL.md §4.3).
		state.recordTerminal(raw)
		_ = tracker.RemoveBranch()
		return
	}

	for i := 1; i < len(successors); i++ {
		if err := tracker.AddBranch(); err != nil {
			state.recordErr(fmt.Errorf("node %q: %w", node.Name, err))
			return
		}
	}
	for _, successor := range successors {
		go executeNode(ctx, successor, tracker, nextInput, state)
	}
}

// resolveDeps resolves every named dependency concurrently; the caller
// observes no ordering among them, only the first error, if any.
func resolveDeps(ctx context.Context, cache *DependencyCache, names []string) (Deps, error) {
	if len(names) == 0 {
		return nil, nil
	}

	type resolved struct {
		name string
		val  any
		err  error
	}
	results := make(chan resolved, len(names))
	for _, name := range names {
		go func(name string) {
			v, err := cache.Resolve(ctx, name)
			results <- resolved{name: name, val: v, err: err}
		}(name)
	}

	deps := make(Deps, len(names))
	var firstErr error
	for i := 0; i < len(names); i++ {
		r := <-results
		if r.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("resolving dependency %q: %w", r.name, r.err)
			continue
		}
		deps[r.name] = r.val
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return deps, nil
}

// convertOutputToInput applies the Output->Input rule: nil becomes no
// arguments, a single-element []any{nil} "tuple" also becomes no arguments,
// any other []any is passed through as-is, and any other non-nil value
// becomes a single positional argument.
func convertOutputToInput(output any) []any {
	if output == nil {
		return nil
	}
	if tuple, ok := output.([]any); ok {
		if len(tuple) == 1 && tuple[0] == nil {
			return nil
		}
		return tuple
	}
	return []any{output}
}
