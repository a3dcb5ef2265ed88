package conflagrate

import "errors"

// Registration and runtime errors. Each is a sentinel so callers can match
// with errors.Is even though the concrete error returned is usually wrapped
// with the offending name via fmt.Errorf("...: %w", ...).
var (
	// ErrDuplicateRegistration is returned when a node type or dependency
	// name is already present in its registry.
	ErrDuplicateRegistration = errors.New("conflagrate: name already registered")

	// ErrMissingAnnotation is returned when a node type is registered
	// without an explicit output type (the Go analogue of a missing
	// return annotation).
	ErrMissingAnnotation = errors.New("conflagrate: node type missing output type annotation")

	// ErrInvalidMatcherSignature is returned when a matcher node type's
	// declared output type is not assignable from MatchResult.
	ErrInvalidMatcherSignature = errors.New("conflagrate: matcher node type must declare a MatchResult output")

	// ErrSyncDependencyRejected is returned when a dependency callable's
	// first parameter is not context.Context.
	ErrSyncDependencyRejected = errors.New("conflagrate: dependency must accept context.Context as its first parameter")

	// ErrUnknownNodeType is returned when a graph references a node type
	// name with no registration.
	ErrUnknownNodeType = errors.New("conflagrate: unknown node type")

	// ErrUnknownSuccessor is returned when an edge references a node name
	// that does not exist in the graph.
	ErrUnknownSuccessor = errors.New("conflagrate: unknown successor node")

	// ErrUnknownNode is returned when an edge's source node does not
	// exist in the graph.
	ErrUnknownNode = errors.New("conflagrate: unknown node")

	// ErrTrackerClosed is returned when a branch is added or removed from
	// a BranchTracker after it has already completed. This indicates a
	// scheduler bug.
	ErrTrackerClosed = errors.New("conflagrate: branch tracker already closed")

	// ErrCyclicDependency is returned when resolving a dependency
	// re-enters a name already being resolved on the same chain.
	ErrCyclicDependency = errors.New("conflagrate: cyclic dependency detected")

	// ErrUnknownDependency is returned when a node or dependency requests
	// a dependency name with no registration.
	ErrUnknownDependency = errors.New("conflagrate: unknown dependency")

	// ErrNoStartNode is returned when RunGraph is given a start node name
	// absent from the graph.
	ErrNoStartNode = errors.New("conflagrate: start node not found in graph")
)
