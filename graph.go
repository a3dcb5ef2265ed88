package conflagrate

import (
	"context"
	"fmt"
)

// Node is a unique occurrence of a NodeType in a Graph. Its edges are a
// tagged variant: a BranchParallel node keeps an ordered successor slice, a
// BranchMatcher node keeps a match-key-to-successor map. The same *Node may
// be the successor of more than one predecessor — graphs may contain loops
// and reconvergence; cycles are permitted because the scheduler never walks
// the graph as a whole, only a node's own successors (see SPEC_FULL.md §9).
type Node struct {
	Name     string
	TypeName string
	nodeType NodeType

	parallelEdges []*Node
	matcherEdges  map[string]*Node
}

// invoke calls the node's bound NodeType through the Async Adapter.
func (n *Node) invoke(ctx context.Context, deps Deps, args ...any) (any, error) {
	return ensureAwaitable(ctx, n.nodeType.Callable, n.nodeType.Blocking, deps, args...)
}

// extractData strips the match-key from a matcher node's raw output; a
// parallel node's output passes through unchanged.
func (n *Node) extractData(raw any) (any, error) {
	if n.nodeType.Branching != BranchMatcher {
		return raw, nil
	}
	mr, ok := raw.(MatchResult)
	if !ok {
		return nil, fmt.Errorf("conflagrate: matcher node %q returned %T, want MatchResult", n.Name, raw)
	}
	return mr.Data, nil
}

// IsMatcher reports whether the node branches by match key rather than
// fanning out to every successor in parallel.
func (n *Node) IsMatcher() bool {
	return n.nodeType.Branching == BranchMatcher
}

// hasSuccessors reports whether the node has any outgoing edges at all
// (not whether raw output would select one).
func (n *Node) hasSuccessors() bool {
	if n.nodeType.Branching == BranchMatcher {
		return len(n.matcherEdges) > 0
	}
	return len(n.parallelEdges) > 0
}

// next returns the successor nodes selected by raw, the node type's
// callable's return value. A matcher node whose match-key has no
// corresponding edge returns nil, not an error — matcher nodes may be used
// as filters that silently terminate a branch.
func (n *Node) next(raw any) ([]*Node, error) {
	if n.nodeType.Branching != BranchMatcher {
		return n.parallelEdges, nil
	}
	mr, ok := raw.(MatchResult)
	if !ok {
		return nil, fmt.Errorf("conflagrate: matcher node %q returned %T, want MatchResult", n.Name, raw)
	}
	successor, ok := n.matcherEdges[mr.Key]
	if !ok {
		return nil, nil
	}
	return []*Node{successor}, nil
}

// Graph is a directed graph of Nodes, indexed by name. The start node name
// is supplied per invocation (to RunGraph/Run), not stored on the graph.
type Graph struct {
	nodes map[string]*Node
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode registers a node named name as an occurrence of the node type
// typeName (looked up in the global NodeType registry at the time AddNode is
// called — the registry snapshot, not a live reference). Returns
// ErrUnknownNodeType if typeName has no registration, or
// ErrDuplicateRegistration if name is already present in the graph.
func (g *Graph) AddNode(name, typeName string) error {
	if _, exists := g.nodes[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRegistration, name)
	}
	nt, ok := NodeTypes()[typeName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNodeType, typeName)
	}
	node := &Node{Name: name, TypeName: typeName, nodeType: nt}
	if nt.Branching == BranchMatcher {
		node.matcherEdges = make(map[string]*Node)
	}
	g.nodes[name] = node
	return nil
}

// AddEdge adds an ordered successor edge from a BranchParallel node. Returns
// ErrUnknownNode / ErrUnknownSuccessor if either endpoint is undefined.
func (g *Graph) AddEdge(from, to string) error {
	src, dst, err := g.resolveEdgeEndpoints(from, to)
	if err != nil {
		return err
	}
	if src.nodeType.Branching == BranchMatcher {
		return fmt.Errorf("conflagrate: node %q is a matcher node, use AddMatcherEdge", from)
	}
	src.parallelEdges = append(src.parallelEdges, dst)
	return nil
}

// AddMatcherEdge adds a match-key-selected edge from a BranchMatcher node.
// An empty matchKey is valid (it is the DOT loader's policy for edges
// missing a "value" attribute).
func (g *Graph) AddMatcherEdge(from, matchKey, to string) error {
	src, dst, err := g.resolveEdgeEndpoints(from, to)
	if err != nil {
		return err
	}
	if src.nodeType.Branching != BranchMatcher {
		return fmt.Errorf("conflagrate: node %q is not a matcher node, use AddEdge", from)
	}
	src.matcherEdges[matchKey] = dst
	return nil
}

func (g *Graph) resolveEdgeEndpoints(from, to string) (*Node, *Node, error) {
	src, ok := g.nodes[from]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownNode, from)
	}
	dst, ok := g.nodes[to]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSuccessor, to)
	}
	return src, dst, nil
}

// Node returns the node registered under name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns a snapshot of every node name in the graph.
func (g *Graph) Nodes() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	return names
}
