package depgraph

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// AsyncScope resolves a graph under the suspending discipline: provider
// invocations receive the caller's context and may suspend, while exactly
// one invocation is in flight at a time within one resolution. Blocking
// provider shapes remain usable.
//
// If the context is cancelled mid-resolution, the cancellation error comes
// back from Resolve; pass it to Close so partially opened resources observe
// it during teardown.
type AsyncScope struct {
	graph     *Graph
	main      *Graph
	seed      map[*Provider]any
	propagate bool
	log       zerolog.Logger

	opened   []any // Producer, AsyncProducer, Handle or AsyncHandle
	children []*AsyncScope
}

// AsyncScope creates a suspending resolution scope for the graph.
func (g *Graph) AsyncScope(opts ...ScopeOption) (*AsyncScope, error) {
	cfg := newScopeConfig(opts)
	resolved := g
	if len(cfg.replaced) > 0 {
		rebuilt, err := g.rebuild(cfg.replaced)
		if err != nil {
			return nil, err
		}
		resolved = rebuilt
	}
	s := &AsyncScope{
		graph:     resolved,
		main:      resolved,
		seed:      cfg.seed,
		propagate: cfg.propagate,
		log:       cfg.log,
	}
	return s, nil
}

// Resolve runs all dependencies and returns the keyword arguments required
// to run the target.
func (s *AsyncScope) Resolve(ctx context.Context) (Kwargs, error) {
	return s.graph.traverse(ctx, s.seed, s)
}

func (s *AsyncScope) mainGraph() *Graph { return s.main }

func (s *AsyncScope) resolveGraph(ctx context.Context, sub *Graph) (Kwargs, error) {
	child := &AsyncScope{
		graph:     sub,
		main:      s.main,
		seed:      s.seed,
		propagate: s.propagate,
		log:       s.log,
	}
	s.children = append(s.children, child)
	return child.graph.traverse(ctx, child.seed, child)
}

func (s *AsyncScope) invoke(ctx context.Context, p *Provider, kw Kwargs) (any, error) {
	switch p.sh {
	case shapeCall:
		return p.call(kw)
	case shapeAsyncCall:
		return p.asyncCall(ctx, kw)
	case shapeGenerator:
		prod, err := p.start(kw)
		if err != nil {
			return nil, err
		}
		v, err := prod.Next()
		if err != nil {
			return nil, err
		}
		s.opened = append(s.opened, prod)
		return v, nil
	case shapeAsyncGenerator:
		prod, err := p.asyncStart(kw)
		if err != nil {
			return nil, err
		}
		v, err := prod.Next(ctx)
		if err != nil {
			return nil, err
		}
		s.opened = append(s.opened, prod)
		return v, nil
	case shapeScoped:
		h, err := p.acquire(kw)
		if err != nil {
			return nil, err
		}
		s.opened = append(s.opened, h)
		return h.Value(), nil
	case shapeAsyncScoped:
		h, err := p.asyncAcquire(ctx, kw)
		if err != nil {
			return nil, err
		}
		s.opened = append(s.opened, h)
		return h.Value(), nil
	default:
		return p.value, nil
	}
}

// Close runs teardown: child scopes first, in creation order, then this
// scope's resources in reverse acquisition order, forwarding cause into
// each teardown path when propagation is enabled. Semantics match
// (*SyncScope).Close.
func (s *AsyncScope) Close(ctx context.Context, cause error) error {
	forward := cause
	if !s.propagate {
		forward = nil
	}
	var firstErr error
	for _, child := range s.children {
		if err := child.Close(ctx, cause); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for i := len(s.opened) - 1; i >= 0; i-- {
		switch r := s.opened[i].(type) {
		case Producer:
			if forward != nil {
				if err := r.Throw(forward); err != nil && !errors.Is(err, ErrExhausted) {
					s.log.Warn().Err(err).Msg("error on dependency teardown")
				}
				continue
			}
			if err := drain(r); err != nil && firstErr == nil {
				firstErr = err
			}
		case AsyncProducer:
			if forward != nil {
				if err := r.Throw(ctx, forward); err != nil && !errors.Is(err, ErrExhausted) {
					s.log.Warn().Err(err).Msg("error on dependency teardown")
				}
				continue
			}
			if err := drainAsync(ctx, r); err != nil && firstErr == nil {
				firstErr = err
			}
		case Handle:
			err := r.Release(forward)
			if err == nil {
				continue
			}
			if forward != nil {
				s.log.Warn().Err(err).Msg("error on dependency teardown")
			} else if firstErr == nil {
				firstErr = err
			}
		case AsyncHandle:
			err := r.Release(ctx, forward)
			if err == nil {
				continue
			}
			if forward != nil {
				s.log.Warn().Err(err).Msg("error on dependency teardown")
			} else if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
