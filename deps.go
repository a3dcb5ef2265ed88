package conflagrate

import "context"

// Deps carries the resolved dependency values a node type or dependency
// declared via WithDependsOn, keyed by name. It stands in for Python's
// keyword-only parameters, which Go has no equivalent for (see SPEC_FULL.md
// §10, O1).
type Deps map[string]any

// Get returns the value registered under name, or ok=false if it was never
// resolved (the name was not declared as a dependency of the callable).
func (d Deps) Get(name string) (any, bool) {
	v, ok := d[name]
	return v, ok
}

// NodeFunc is the callable bound to a node type. args are the positional
// data inputs converted from the predecessor node's output; deps holds the
// values resolved for the node type's declared dependency names.
//
// A BranchMatcher node type's NodeFunc must return a MatchResult (or an
// error); on a node with outgoing edges any other returned value is a
// scheduler error at run time. A node with no outgoing edges records its
// return value as the terminal value without checking its type.
type NodeFunc func(ctx context.Context, deps Deps, args ...any) (any, error)

// DependencyFunc is the callable bound to a named dependency. deps holds
// the already-resolved values of the dependency's own declared upstream
// dependencies.
type DependencyFunc func(ctx context.Context, deps Deps) (any, error)
