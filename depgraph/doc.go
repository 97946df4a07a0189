// Package depgraph builds dependency graphs over providers and resolves
// them into the keyword arguments a target needs to run.
//
// A provider is a callable producing one value; its parameters may declare
// further providers via Depends. Build walks those declarations
// breadth-first into an immutable Graph with a topological evaluation
// order; a scope then evaluates the graph, invoking each cached provider at
// most once per resolution and releasing every acquired resource in reverse
// acquisition order when the scope closes.
//
// Two disciplines share one traversal:
//
//   - SyncScope: blocking, runs on the caller's goroutine; suspending
//     provider shapes fail fast with DisciplineMismatchError.
//   - AsyncScope: suspending, threads a context.Context through provider
//     invocations, one invocation in flight at a time.
//
// Provider shapes are a closed union fixed at construction: pre-built
// values (Value), blocking and suspending computations (Call, AsyncCall),
// scoped resources with acquire/release lifecycles (Scoped, AsyncScoped)
// and restartable resources (Generator, AsyncGenerator) whose cleanup runs
// at scope close. The CallerInfo sentinel injects a ParamInfo describing
// how the consuming parameter was declared.
//
// Minimal wiring:
//
//	one := depgraph.Call("one", func(depgraph.Kwargs) (any, error) { return 1, nil })
//	target := depgraph.Call("target", nil,
//		depgraph.Param{Name: "a", Default: depgraph.Depends(one)},
//	)
//	g, err := depgraph.Build(target)
//	// ...
//	scope, err := g.SyncScope()
//	kw, err := scope.Resolve() // Kwargs{"a": 1}
//	defer scope.Close(err)
package depgraph
