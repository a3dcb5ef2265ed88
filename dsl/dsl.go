// Package dsl provides a fluent, in-language graph-definition builder as an
// alternative to loading a DOT file. The original project overloads the ">"
// operator so a graph reads as `source > destination`; Go has no operator
// overloading, so this package chains method calls on a NodeRef instead.
package dsl

import (
	"fmt"

	"github.com/ignirtoq/conflagrate"
)

// Builder accumulates nodes and edges, deferring all registry lookups and
// validation to Build/Resolve so that a definition can be assembled in any
// order.
type Builder struct {
	graph *conflagrate.Graph
	err   error
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{graph: conflagrate.NewGraph()}
}

// NodeRef names a node already added to a Builder, so edges can be chained
// off of it: b.Node("fetch", "httpGet").To("parse").To("store").
type NodeRef struct {
	b    *Builder
	name string
}

// Node registers name as an occurrence of typeName and returns a NodeRef for
// chaining edges from it.
func (b *Builder) Node(name, typeName string) *NodeRef {
	if b.err == nil {
		if err := b.graph.AddNode(name, typeName); err != nil {
			b.err = fmt.Errorf("conflagrate/dsl: node %q: %w", name, err)
		}
	}
	return &NodeRef{b: b, name: name}
}

// To adds a parallel edge from the ref's node to each named successor, in
// order. Returns the ref itself so further edges can be chained.
func (r *NodeRef) To(names ...string) *NodeRef {
	if r.b.err != nil {
		return r
	}
	for _, name := range names {
		if err := r.b.graph.AddEdge(r.name, name); err != nil {
			r.b.err = fmt.Errorf("conflagrate/dsl: edge %s -> %s: %w", r.name, name, err)
			return r
		}
	}
	return r
}

// Match adds a matcher edge keyed by key from the ref's node to name.
// Returns the ref itself so further match arms can be chained.
func (r *NodeRef) Match(key, name string) *NodeRef {
	if r.b.err != nil {
		return r
	}
	if err := r.b.graph.AddMatcherEdge(r.name, key, name); err != nil {
		r.b.err = fmt.Errorf("conflagrate/dsl: matcher edge %s -[%s]-> %s: %w", r.name, key, name, err)
	}
	return r
}

// Name returns the name of the node the ref points at.
func (r *NodeRef) Name() string {
	return r.name
}

// Build returns the assembled graph, or the first error encountered while
// adding a node or edge.
func (b *Builder) Build() (*conflagrate.Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.graph, nil
}

// Resolve satisfies conflagrate.GraphSource.
func (b *Builder) Resolve() (*conflagrate.Graph, error) {
	return b.Build()
}
