package depgraph_test

import (
	"testing"

	"github.com/sghaida/depgraph/depgraph"
)

/*
   Shared helpers (NOT counted in benchmarks)
*/

// newBenchTarget wires a small diamond: target depends on a repo and a
// logger, the repo depends on a db, the db and logger share a config.
func newBenchTarget() *depgraph.Provider {
	config := depgraph.Call("config", func(depgraph.Kwargs) (any, error) {
		return "dsn=postgres", nil
	})
	db := depgraph.Call("db", func(kw depgraph.Kwargs) (any, error) {
		return kw["cfg"], nil
	}, depgraph.Param{Name: "cfg", Default: depgraph.Depends(config)})
	logger := depgraph.Call("logger", func(kw depgraph.Kwargs) (any, error) {
		return kw["cfg"], nil
	}, depgraph.Param{Name: "cfg", Default: depgraph.Depends(config)})
	repo := depgraph.Call("repo", func(kw depgraph.Kwargs) (any, error) {
		return kw["db"], nil
	}, depgraph.Param{Name: "db", Default: depgraph.Depends(db)})
	return depgraph.Call("handler", nil,
		depgraph.Param{Name: "repo", Default: depgraph.Depends(repo)},
		depgraph.Param{Name: "log", Default: depgraph.Depends(logger)},
	)
}

/*
   Benchmarks
*/

func BenchmarkBuild(b *testing.B) {
	target := newBenchTarget()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = depgraph.Build(target)
	}
}

func BenchmarkResolve(b *testing.B) {
	g, err := depgraph.Build(newBenchTarget())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scope, _ := g.SyncScope()
		_, _ = scope.Resolve()
		_ = scope.Close(nil)
	}
}

func BenchmarkResolve_Seeded(b *testing.B) {
	config := depgraph.Call("config", func(depgraph.Kwargs) (any, error) {
		return "dsn=postgres", nil
	})
	target := depgraph.Call("handler", nil,
		depgraph.Param{Name: "cfg", Default: depgraph.Depends(config)},
	)
	g, err := depgraph.Build(target)
	if err != nil {
		b.Fatal(err)
	}
	seed := depgraph.NewSeed().Provide(config, "dsn=seeded")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scope, _ := g.SyncScope(depgraph.WithSeed(seed))
		_, _ = scope.Resolve()
		_ = scope.Close(nil)
	}
}

func BenchmarkResolve_NoCacheSubgraph(b *testing.B) {
	dep := depgraph.Call("dep", func(depgraph.Kwargs) (any, error) { return 1, nil })
	target := depgraph.Call("handler", nil,
		depgraph.Param{Name: "a", Default: depgraph.Depends(dep).NoCache()},
	)
	g, err := depgraph.Build(target)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scope, _ := g.SyncScope()
		_, _ = scope.Resolve()
		_ = scope.Close(nil)
	}
}
