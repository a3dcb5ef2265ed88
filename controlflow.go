package conflagrate

// BranchType is the branching strategy of a node type.
type BranchType string

const (
	// BranchParallel fans out to every successor of a node.
	BranchParallel BranchType = "parallel"
	// BranchMatcher selects a single successor by a match-key returned
	// alongside the node's data output.
	BranchMatcher BranchType = "matcher"
)

// BlockingBehavior declares whether a node type's callable should run inline on the calling goroutine or be dispatched to the
// bounded worker pool.
type BlockingBehavior int

const (
	// Blocking callables are dispatched to the worker pool so that
	// blocking I/O does not tie up scheduler goroutines indefinitely.
	Blocking BlockingBehavior = iota
	// NonBlocking callables run inline on the calling goroutine. The
	// author asserts the callable will not stall the scheduler.
	NonBlocking
)

// CacheUsage controls whether a RunGraph invocation shares the dependency
// cache already attached to its context or installs a fresh one.
type CacheUsage int

const (
	// Shared reuses the DependencyCache already attached to ctx,
	// installing a fresh one only if none is present.
	Shared CacheUsage = iota
	// Independent installs a fresh DependencyCache for this run,
	// shadowing any cache inherited from ctx.
	Independent
)

// MatchResult is the mandatory return shape of a BranchMatcher node type's
// callable: Key selects the outgoing edge, Data is passed on as the node's
// output.
type MatchResult struct {
	Key  string
	Data any
}
