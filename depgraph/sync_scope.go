package depgraph

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// SyncScope resolves a graph under the blocking discipline: everything runs
// on the caller's goroutine, and any suspending provider shape fails fast
// with DisciplineMismatchError.
//
// A scope separates resolving from graph building: it reads the graph but
// never modifies it. Close must run on every exit path; pass the failure
// that ended the scope (nil on success) so teardown can forward it.
type SyncScope struct {
	graph     *Graph
	main      *Graph
	seed      map[*Provider]any
	propagate bool
	log       zerolog.Logger

	opened   []any // Producer or Handle, acquisition order
	children []*SyncScope
}

// SyncScope creates a blocking resolution scope for the graph.
func (g *Graph) SyncScope(opts ...ScopeOption) (*SyncScope, error) {
	cfg := newScopeConfig(opts)
	resolved := g
	if len(cfg.replaced) > 0 {
		rebuilt, err := g.rebuild(cfg.replaced)
		if err != nil {
			return nil, err
		}
		resolved = rebuilt
	}
	s := &SyncScope{
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
func (s *SyncScope) Resolve() (Kwargs, error) {
	return s.graph.traverse(context.Background(), s.seed, s)
}

func (s *SyncScope) mainGraph() *Graph { return s.main }

func (s *SyncScope) resolveGraph(ctx context.Context, sub *Graph) (Kwargs, error) {
	child := &SyncScope{
		graph:     sub,
		main:      s.main,
		seed:      s.seed,
		propagate: s.propagate,
		log:       s.log,
	}
	s.children = append(s.children, child)
	return child.graph.traverse(ctx, child.seed, child)
}

func (s *SyncScope) invoke(_ context.Context, p *Provider, kw Kwargs) (any, error) {
	switch p.sh {
	case shapeCall:
		return p.call(kw)
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
	case shapeScoped:
		h, err := p.acquire(kw)
		if err != nil {
			return nil, err
		}
		s.opened = append(s.opened, h)
		return h.Value(), nil
	case shapeAsyncCall, shapeAsyncScoped, shapeAsyncGenerator:
		return nil, DisciplineMismatchError{Provider: p.name}
	default:
		// Pre-built instances stand in for their own value.
		return p.value, nil
	}
}

// Close runs teardown: child scopes first, in creation order, then this
// scope's resources in reverse acquisition order. cause is the failure
// that ended the scope; when propagation is enabled it is forwarded into
// each resource's teardown path. Teardown failures on the forwarding path
// are logged per resource and never mask the original failure or abort the
// remaining teardown. On the success path the first teardown error is
// returned once everything has been closed.
func (s *SyncScope) Close(cause error) error {
	forward := cause
	if !s.propagate {
		forward = nil
	}
	var firstErr error
	for _, child := range s.children {
		if err := child.Close(cause); err != nil && firstErr == nil {
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
		}
	}
	return firstErr
}
