package depgraph

import (
	"context"

	"github.com/rs/zerolog"
)

// ScopeOption customizes a resolution scope.
type ScopeOption func(*scopeConfig)

type scopeConfig struct {
	seed      map[*Provider]any
	replaced  map[*Provider]*Provider
	propagate bool
	log       zerolog.Logger
}

func newScopeConfig(opts []ScopeOption) scopeConfig {
	cfg := scopeConfig{
		seed:      map[*Provider]any{},
		propagate: true,
		log:       packageLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSeed supplies externally computed initial values. The seed is copied
// at scope creation and never written back.
func WithSeed(seed *Seed) ScopeOption {
	return func(c *scopeConfig) { c.seed = seed.snapshot() }
}

// WithReplacedProviders substitutes providers at scope creation by
// rebuilding the graph with the override map. Used to install test doubles
// without touching the shared graph.
func WithReplacedProviders(replaced map[*Provider]*Provider) ScopeOption {
	return func(c *scopeConfig) { c.replaced = replaced }
}

// WithoutExceptionPropagation keeps failures out of resource teardown:
// cleanup runs as on the success path, while the original failure still
// surfaces to the caller.
func WithoutExceptionPropagation() ScopeOption {
	return func(c *scopeConfig) { c.propagate = false }
}

// WithScopeLogger overrides the package logger for one scope.
func WithScopeLogger(l zerolog.Logger) ScopeOption {
	return func(c *scopeConfig) { c.log = l }
}

// RunSync resolves the graph under the blocking discipline, hands the
// keyword set to fn and closes the scope on every exit path. A panic in fn
// closes the scope with a ResolvePanicError before resuming the panic.
func (g *Graph) RunSync(fn func(kw Kwargs) error, opts ...ScopeOption) error {
	scope, err := g.SyncScope(opts...)
	if err != nil {
		return err
	}
	defer func() {
		if rec := recover(); rec != nil {
			_ = scope.Close(ResolvePanicError{Value: rec})
			panic(rec)
		}
	}()
	kw, err := scope.Resolve()
	if err != nil {
		_ = scope.Close(err)
		return err
	}
	ferr := fn(kw)
	cerr := scope.Close(ferr)
	if ferr != nil {
		return ferr
	}
	return cerr
}

// RunAsync is RunSync under the suspending discipline.
func (g *Graph) RunAsync(ctx context.Context, fn func(ctx context.Context, kw Kwargs) error, opts ...ScopeOption) error {
	scope, err := g.AsyncScope(opts...)
	if err != nil {
		return err
	}
	defer func() {
		if rec := recover(); rec != nil {
			_ = scope.Close(ctx, ResolvePanicError{Value: rec})
			panic(rec)
		}
	}()
	kw, err := scope.Resolve(ctx)
	if err != nil {
		_ = scope.Close(ctx, err)
		return err
	}
	ferr := fn(ctx, kw)
	cerr := scope.Close(ctx, ferr)
	if ferr != nil {
		return ferr
	}
	return cerr
}
