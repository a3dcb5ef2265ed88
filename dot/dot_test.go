package dot

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ignirtoq/conflagrate"
)

// Each test registers its own uniquely-named node types so tests can run
// without a shared registry reset hook across package boundaries.

func registerOnce(t *testing.T, name string, fn conflagrate.NodeFunc, opts ...conflagrate.NodeTypeOption) {
	t.Helper()
	err := conflagrate.RegisterNodeType(name, fn, opts...)
	if err != nil {
		t.Fatalf("RegisterNodeType(%q): %v", name, err)
	}
}

func TestParseBuildsParallelEdges(t *testing.T) {
	registerOnce(t, "dot_parse_start", func(ctx context.Context, deps conflagrate.Deps, args ...any) (any, error) {
		return "value", nil
	}, conflagrate.WithOutputType(reflect.TypeOf("")))
	registerOnce(t, "dot_parse_finish", func(ctx context.Context, deps conflagrate.Deps, args ...any) (any, error) {
		return args[0], nil
	}, conflagrate.WithOutputType(reflect.TypeOf("")))

	source := `
digraph g {
    a [type="dot_parse_start"];
    b [type="dot_parse_finish"];
    a -> b;
}
`
	g, err := Parse(source)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, g.Nodes())

	result, err := conflagrate.RunGraph(context.Background(), g, "a")
	require.NoError(t, err)
	require.Equal(t, "value", result)
}

func TestParseMatcherEdgeUsesValueAttribute(t *testing.T) {
	registerOnce(t, "dot_parse_router", func(ctx context.Context, deps conflagrate.Deps, args ...any) (any, error) {
		return conflagrate.MatchResult{Key: "a", Data: "x"}, nil
	}, conflagrate.WithBranching(conflagrate.BranchMatcher), conflagrate.WithOutputType(reflect.TypeOf(conflagrate.MatchResult{})))
	registerOnce(t, "dot_parse_router_finish", func(ctx context.Context, deps conflagrate.Deps, args ...any) (any, error) {
		return args[0], nil
	}, conflagrate.WithOutputType(reflect.TypeOf("")))

	source := `
digraph g {
    a [type="dot_parse_router"];
    b [type="dot_parse_router_finish"];
    a -> b [value="a"];
}
`
	g, err := Parse(source)
	require.NoError(t, err)

	node, ok := g.Node("a")
	require.True(t, ok)
	require.True(t, node.IsMatcher())

	result, err := conflagrate.RunGraph(context.Background(), g, "a")
	require.NoError(t, err)
	require.Equal(t, "x", result)
}

func TestParseIgnoresNodesWithoutTypeAttribute(t *testing.T) {
	registerOnce(t, "dot_parse_untyped_start", func(ctx context.Context, deps conflagrate.Deps, args ...any) (any, error) {
		return "value", nil
	}, conflagrate.WithOutputType(reflect.TypeOf("")))

	source := `
digraph g {
    a [type="dot_parse_untyped_start"];
    untyped;
    a -> untyped;
}
`
	g, err := Parse(source)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a"}, g.Nodes())
}

func TestFromFileReadsGraphFile(t *testing.T) {
	registerOnce(t, "dot_parse_file_start", func(ctx context.Context, deps conflagrate.Deps, args ...any) (any, error) {
		return "value", nil
	}, conflagrate.WithOutputType(reflect.TypeOf("")))

	source := `
digraph g {
    a [type="dot_parse_file_start"];
}
`
	path := filepath.Join(t.TempDir(), "graph.gv")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	g, err := FromFile(path).Resolve()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a"}, g.Nodes())
}
