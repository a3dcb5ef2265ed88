package conflagrate

import (
	"fmt"
	"reflect"
	"sync"
)

// NodeType is an immutable registration record associating a name with a
// callable, its branching strategy, its blocking behavior, and declared
// parameter/return metadata used for documentation and matcher-shape
// validation only (never enforced against actual runtime arguments).
type NodeType struct {
	Name       string
	Callable   NodeFunc
	Branching  BranchType
	Blocking   BlockingBehavior
	InputTypes []reflect.Type
	OutputType reflect.Type
	DependsOn  []string
}

// NodeTypeOption configures a NodeType at registration time.
type NodeTypeOption func(*NodeType)

// WithBranching sets the node type's branching strategy. Defaults to
// BranchParallel.
func WithBranching(bt BranchType) NodeTypeOption {
	return func(nt *NodeType) { nt.Branching = bt }
}

// WithBlocking sets the node type's blocking behavior. Defaults to
// Blocking.
func WithBlocking(b BlockingBehavior) NodeTypeOption {
	return func(nt *NodeType) { nt.Blocking = b }
}

// WithInputTypes records the declared positional input types. Purely
// informational.
func WithInputTypes(types ...reflect.Type) NodeTypeOption {
	return func(nt *NodeType) { nt.InputTypes = types }
}

// WithOutputType records the declared return type. Required for every
// registration — its absence is the Go analogue of a missing return
// annotation.
func WithOutputType(t reflect.Type) NodeTypeOption {
	return func(nt *NodeType) { nt.OutputType = t }
}

// WithDependsOn declares the dependency names this node type requires,
// resolved from the Dependency subsystem before each invocation rather than
// taken from the predecessor node's output.
func WithDependsOn(names ...string) NodeTypeOption {
	return func(nt *NodeType) { nt.DependsOn = names }
}

var matchResultType = reflect.TypeOf(MatchResult{})

type nodeTypeRegistry struct {
	mu    sync.RWMutex
	types map[string]NodeType
}

var nodeTypes = &nodeTypeRegistry{types: make(map[string]NodeType)}

// RegisterNodeType binds fn under name with the given options. Fails with
// ErrDuplicateRegistration if name is already registered, ErrMissingAnnotation
// if WithOutputType was not supplied, and ErrInvalidMatcherSignature if the
// branching strategy is BranchMatcher but the declared output type is not
// assignable from MatchResult.
func RegisterNodeType(name string, fn NodeFunc, opts ...NodeTypeOption) error {
	nt := NodeType{
		Name:      name,
		Callable:  fn,
		Branching: BranchParallel,
		Blocking:  Blocking,
	}
	for _, opt := range opts {
		opt(&nt)
	}

	if nt.OutputType == nil {
		return fmt.Errorf("%w: %q", ErrMissingAnnotation, name)
	}
	if nt.Branching == BranchMatcher && !matchResultType.AssignableTo(nt.OutputType) {
		return fmt.Errorf("%w: %q declares output type %s", ErrInvalidMatcherSignature, name, nt.OutputType)
	}

	nodeTypes.mu.Lock()
	defer nodeTypes.mu.Unlock()
	if _, exists := nodeTypes.types[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRegistration, name)
	}
	nodeTypes.types[name] = nt
	return nil
}

// NodeTypes returns a snapshot copy of the current node type registry.
// Graphs bind NodeTypes at construction time and must be insulated from
// registrations that happen afterward.
func NodeTypes() map[string]NodeType {
	nodeTypes.mu.RLock()
	defer nodeTypes.mu.RUnlock()
	out := make(map[string]NodeType, len(nodeTypes.types))
	for k, v := range nodeTypes.types {
		out[k] = v
	}
	return out
}

// resetNodeTypeRegistry clears the global node type registry. It exists for
// test isolation only.
func resetNodeTypeRegistry() {
	nodeTypes.mu.Lock()
	defer nodeTypes.mu.Unlock()
	nodeTypes.types = make(map[string]NodeType)
}
