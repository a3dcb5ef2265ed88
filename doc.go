// Package conflagrate provides a concurrent control-flow-graph execution
// engine: applications describe their logic as a directed graph of named
// node types, and the engine walks the graph, invoking each node's callable
// and fanning out to its successors as independent goroutines.
//
// A minimal program registers one or more node types, builds (or loads) a
// Graph, and runs it:
//
//	conflagrate.RegisterNodeType("greet", func(ctx context.Context, deps conflagrate.Deps, args ...any) (any, error) {
//		fmt.Printf("hello, %s!\n", args[0])
//		return nil, nil
//	}, conflagrate.WithOutputType(reflect.TypeOf(struct{}{})))
//
//	g := conflagrate.NewGraph()
//	g.AddNode("start", "greet")
//	_, err := conflagrate.RunGraph(context.Background(), g, "start",
//		conflagrate.WithStartArgs("Ada"))
package conflagrate
