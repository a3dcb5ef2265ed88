// Package dot loads a Graph from a Graphviz DOT file, the original project's
// native graph definition format. Node records become conflagrate.Node
// occurrences keyed by the DOT "type" attribute; edges become parallel or
// matcher edges depending on the source node's declared NodeType, with the
// matcher match-key taken from the edge's "value" attribute.
//
// This package has no analogue in the teacher repo — no DOT parser appears
// anywhere in the example corpus — so it is grounded directly on the real
// ecosystem library github.com/awalterschulze/gographviz rather than on a
// pack file (see DESIGN.md).
package dot

import (
	"fmt"
	"os"
	"strings"

	"github.com/awalterschulze/gographviz"

	"github.com/ignirtoq/conflagrate"
)

// typeAttr is the DOT node attribute naming the registered NodeType a node
// occurrence binds to; valueAttr is the matcher-edge attribute carrying the
// match key.
const (
	typeAttr  = "type"
	valueAttr = "value"
)

// File is a conflagrate.GraphSource backed by a DOT file on disk. The file
// is read and parsed lazily, on Resolve, not on construction.
type File struct {
	Path string
}

// FromFile returns a GraphSource that loads path on Resolve.
func FromFile(path string) File {
	return File{Path: path}
}

// Resolve reads and parses f.Path, satisfying conflagrate.GraphSource.
func (f File) Resolve() (*conflagrate.Graph, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("conflagrate/dot: reading %s: %w", f.Path, err)
	}
	return Parse(string(data))
}

// Parse builds a Graph from DOT source text.
func Parse(source string) (*conflagrate.Graph, error) {
	ast, err := gographviz.ParseString(source)
	if err != nil {
		return nil, fmt.Errorf("conflagrate/dot: parsing DOT source: %w", err)
	}
	parsed := gographviz.NewGraph()
	if err := gographviz.Analyse(ast, parsed); err != nil {
		return nil, fmt.Errorf("conflagrate/dot: analysing DOT graph: %w", err)
	}

	g := conflagrate.NewGraph()

	for _, node := range parsed.Nodes.Nodes {
		typeName, ok := nodeAttr(node.Attrs, typeAttr)
		if !ok {
			// A DOT node with no "type" attribute does not correspond to
			// a graph node occurrence; Graphviz itself creates implicit
			// nodes from bare identifiers, which this loader ignores.
			continue
		}
		name := unquote(node.Name)
		if err := g.AddNode(name, typeName); err != nil {
			return nil, fmt.Errorf("conflagrate/dot: node %q: %w", name, err)
		}
	}

	for _, edge := range parsed.Edges.Edges {
		src := unquote(edge.Src)
		dst := unquote(edge.Dst)
		srcNode, ok := g.Node(src)
		if !ok {
			// The edge's source was never declared with a "type"
			// attribute; nothing to attach the edge to.
			continue
		}
		if _, ok := g.Node(dst); !ok {
			// The destination has no "type" attribute and was ignored
			// above, so the edge has nothing to point at either.
			continue
		}
		if srcNode.IsMatcher() {
			key, _ := edgeAttr(edge.Attrs, valueAttr)
			if err := g.AddMatcherEdge(src, key, dst); err != nil {
				return nil, fmt.Errorf("conflagrate/dot: edge %s -> %s: %w", src, dst, err)
			}
			continue
		}
		if err := g.AddEdge(src, dst); err != nil {
			return nil, fmt.Errorf("conflagrate/dot: edge %s -> %s: %w", src, dst, err)
		}
	}

	return g, nil
}

func nodeAttr(attrs gographviz.Attrs, key string) (string, bool) {
	v, ok := attrs[gographviz.Attr(key)]
	if !ok {
		return "", false
	}
	return unquote(v), true
}

func edgeAttr(attrs gographviz.Attrs, key string) (string, bool) {
	return nodeAttr(attrs, key)
}

func unquote(s string) string {
	return strings.Trim(s, `"`)
}
