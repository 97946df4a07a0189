package depgraph

import (
	"context"
	"reflect"
)

// invoker is the driving side of the traversal. The walk asks it, one
// request at a time, to resolve a nested graph or to invoke a provider,
// and resumes with the returned value. The blocking and suspending scopes
// are two thin implementations over this one walk.
type invoker interface {
	invoke(ctx context.Context, p *Provider, kw Kwargs) (any, error)
	resolveGraph(ctx context.Context, sub *Graph) (Kwargs, error)
	mainGraph() *Graph
}

type kwargEntry struct {
	kwargs Kwargs
	value  any
}

// lookupKwarg scans a provider's bucket for a structurally equal argument
// set. Fixed kwargs may hold uncomparable values, so entries are compared
// by deep equality against a short list rather than used as map keys.
func lookupKwarg(bucket []kwargEntry, kw Kwargs) (any, bool) {
	for _, e := range bucket {
		if reflect.DeepEqual(e.kwargs, kw) {
			return e.value, true
		}
	}
	return nil, false
}

// traverse walks the evaluation order, invoking each cached provider at
// most once per distinct argument set and recursing into nested graphs for
// cache-skipped children. It returns the keyword set gathered for the
// terminal target node, which itself is never invoked.
func (g *Graph) traverse(ctx context.Context, seed map[*Provider]any, inv invoker) (Kwargs, error) {
	if g.IsEmpty() {
		return Kwargs{}, nil
	}

	// Copy the seed so resolutions sharing one never observe each other.
	cache := make(map[*Provider]any, len(seed))
	for k, v := range seed {
		cache[k] = v
	}
	kwargCache := map[*Provider][]kwargEntry{}

	kwargs := Kwargs{}
	last := len(g.order) - 1
	for i, n := range g.order {
		// Cache-skipped nodes only matter as children of another node.
		if !n.useCache {
			continue
		}
		p, ok := n.provider.(*Provider)
		if !ok || p == nil {
			continue
		}
		if _, hit := cache[p]; hit {
			continue
		}
		if len(n.kwargs) > 0 {
			if _, hit := lookupKwarg(kwargCache[p], n.kwargs); hit {
				continue
			}
		}

		kwargs = Kwargs{}
		for _, child := range g.edges[n] {
			cp, ok := child.provider.(*Provider)
			if !ok || cp == nil {
				continue
			}
			if cp.sh == shapeCallerInfo {
				kwargs[child.paramName] = ParamInfo{
					Name:       n.paramName,
					Graph:      inv.mainGraph(),
					Definition: n.definition,
				}
				continue
			}
			if child.useCache {
				if len(child.kwargs) > 0 {
					if v, hit := lookupKwarg(kwargCache[cp], child.kwargs); hit {
						kwargs[child.paramName] = v
						continue
					}
					// A bucket miss means the node-level walk skipped this
					// occurrence on a plain-cache hit: the provider was
					// seeded, and the seeded value wins over fixed kwargs.
				}
				// Topological order guarantees the child is resolved here;
				// a plain-cache miss at this point is impossible.
				kwargs[child.paramName] = cache[cp]
				continue
			}
			// Cache-skipped child: resolve its isolated graph, let its
			// fixed kwargs override the nested result, invoke, cache
			// nothing.
			sub, err := inv.resolveGraph(ctx, g.subgraphs[child])
			if err != nil {
				return nil, err
			}
			merged := sub.clone()
			for k, v := range child.kwargs {
				merged[k] = v
			}
			v, err := inv.invoke(ctx, cp, merged)
			if err != nil {
				return nil, err
			}
			kwargs[child.paramName] = v
		}

		if i == last || p.sh == shapeCallerInfo {
			continue
		}
		callKw := n.kwargs.clone()
		for k, v := range kwargs {
			callKw[k] = v
		}
		v, err := inv.invoke(ctx, p, callKw)
		if err != nil {
			return nil, err
		}
		if len(n.kwargs) > 0 {
			kwargCache[p] = append(kwargCache[p], kwargEntry{kwargs: n.kwargs, value: v})
		} else {
			cache[p] = v
		}
	}
	return kwargs, nil
}
