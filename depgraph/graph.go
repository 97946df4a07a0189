package depgraph

import (
	"errors"
	"reflect"

	gr "github.com/dominikbraun/graph"
	"github.com/google/uuid"
)

// Node is one resolved occurrence of a dependency descriptor within a
// graph. Two textually identical descriptors at different call sites are
// distinct nodes; identity and equality are per-occurrence.
type Node struct {
	id         string
	seq        int
	provider   any // *Provider once built; *TypeVar only transiently
	useCache   bool
	kwargs     Kwargs
	paramName  string
	definition *Param
	parent     *Node
}

// ID returns the node's unique identity token.
func (n *Node) ID() string { return n.id }

// Provider returns the node's bound provider, nil when unresolved.
func (n *Node) Provider() *Provider {
	p, _ := n.provider.(*Provider)
	return p
}

// ParamName returns the name of the parameter that introduced the node,
// empty at the graph root.
func (n *Node) ParamName() string { return n.paramName }

// UseCache reports whether the node's result occupies a cache slot.
func (n *Node) UseCache() bool { return n.useCache }

// Graph is an immutable dependency graph for one target: adjacency from a
// node to its declared children, isolated nested graphs for cache-skipped
// nodes, and a topological evaluation order with the target last.
//
// A Graph is built once and shared read-only by every resolution scope
// created against it.
type Graph struct {
	target     *Provider
	root       *Node
	nodes      []*Node
	edges      map[*Node][]*Node
	subgraphs  map[*Node]*Graph
	order      []*Node
	signatures SignatureSource
}

// BuildOption customizes graph construction.
type BuildOption func(*builder)

// WithSignatures installs an external signature source. The default reads
// the parameters declared on each provider.
func WithSignatures(src SignatureSource) BuildOption {
	return func(b *builder) {
		if src != nil {
			b.signatures = src
		}
	}
}

// WithReplaced substitutes providers while building, keyed by the provider
// being replaced. Used by scopes to install test doubles.
func WithReplaced(replaced map[*Provider]*Provider) BuildOption {
	return func(b *builder) { b.replaced = replaced }
}

type builder struct {
	signatures SignatureSource
	replaced   map[*Provider]*Provider
	opts       []BuildOption
	seq        int
}

// Build discovers the target's dependencies breadth-first and produces the
// evaluation order. It fails with UnresolvableDependencyError when a
// parameter has no descriptor provider and no inferable type, and with
// GenericResolutionError when a placeholder cannot be substituted.
func Build(target *Provider, opts ...BuildOption) (*Graph, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	b := &builder{signatures: declaredSignatures{}, opts: opts}
	for _, opt := range opts {
		opt(b)
	}
	return b.build(target)
}

func (b *builder) newNode(provider any, useCache bool, kwargs Kwargs, paramName string, def *Param, parent *Node) *Node {
	n := &Node{
		id:         uuid.NewString(),
		seq:        b.seq,
		provider:   provider,
		useCache:   useCache,
		kwargs:     kwargs,
		paramName:  paramName,
		definition: def,
		parent:     parent,
	}
	b.seq++
	return n
}

func (b *builder) build(target *Provider) (*Graph, error) {
	g := &Graph{
		target:     target,
		edges:      map[*Node][]*Node{},
		subgraphs:  map[*Node]*Graph{},
		signatures: b.signatures,
	}
	g.root = b.newNode(target, true, nil, "", nil, nil)
	g.nodes = append(g.nodes, g.root)

	queue := []*Node{g.root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		// Guard re-expansion of the literal same node only; nodes are
		// unique per occurrence, so no structural dedup happens here.
		if _, seen := g.edges[n]; seen {
			continue
		}
		if n.provider == nil {
			continue
		}
		p, err := b.concrete(n)
		if err != nil {
			return nil, err
		}
		n.provider = p
		g.edges[n] = nil

		// The sentinel has no parameters of its own.
		if p.sh == shapeCallerInfo {
			continue
		}

		for _, param := range b.signatures.Signature(p) {
			param := param
			desc := descriptorOf(param)
			if desc == nil {
				// Host-supplied parameter, not part of the graph.
				continue
			}
			ref := desc.provider
			if ref == nil {
				if param.Type == nil {
					return nil, UnresolvableDependencyError{
						Provider: qualifiedName(p),
						Param:    param.Name,
					}
				}
				ref = param.Type
			}
			if anc := b.cycleTo(n, ref, desc.useCache, desc.kwargs); anc != nil {
				// The declaration closes a cycle. Link back to the ancestor
				// occurrence instead of expanding a fresh node, so discovery
				// stays finite and the sort rejects the cycle.
				g.edges[n] = append(g.edges[n], anc)
				continue
			}
			child := b.newNode(ref, desc.useCache, desc.kwargs, param.Name, &param, n)
			g.nodes = append(g.nodes, child)
			g.edges[n] = append(g.edges[n], child)
			if child.useCache {
				queue = append(queue, child)
				continue
			}
			// Cache-skipped children get an isolated nested graph instead
			// of joining the flat evaluation order.
			cp, err := b.concrete(child)
			if err != nil {
				return nil, err
			}
			child.provider = cp
			sub, err := Build(cp, b.opts...)
			if err != nil {
				return nil, err
			}
			g.subgraphs[child] = sub
		}
	}

	order, err := b.sort(g)
	if err != nil {
		return nil, err
	}
	g.order = order
	return g, nil
}

// concrete resolves the node's provider reference: replacement map first,
// then positional substitution for type-parameter placeholders.
func (b *builder) concrete(n *Node) (*Provider, error) {
	if tv, ok := n.provider.(*TypeVar); ok {
		sub, err := substituteTypeVar(tv, n)
		if err != nil {
			return nil, err
		}
		n.provider = sub
	}
	p, ok := n.provider.(*Provider)
	if !ok || p == nil {
		return nil, ErrNilTarget
	}
	if rep, ok := b.replaced[p]; ok && rep != nil {
		p = rep
	}
	return p, nil
}

// cycleTo reports the nearest ancestor occurrence structurally equal to a
// child declaration: same provider reference (after replacement), same
// cache policy, deep-equal fixed kwargs.
func (b *builder) cycleTo(n *Node, ref any, useCache bool, kw Kwargs) *Node {
	if p, ok := ref.(*Provider); ok {
		if rep, ok := b.replaced[p]; ok && rep != nil {
			ref = rep
		}
	}
	for a := n; a != nil; a = a.parent {
		if a.provider == ref && a.useCache == useCache && reflect.DeepEqual(a.kwargs, kw) {
			return a
		}
	}
	return nil
}

// sort computes the evaluation order: children before parents, insertion
// order breaking ties, target last.
func (b *builder) sort(g *Graph) ([]*Node, error) {
	dg := gr.New(func(n *Node) int { return n.seq }, gr.Directed())
	for _, n := range g.nodes {
		if err := dg.AddVertex(n); err != nil {
			return nil, err
		}
	}
	for parent, children := range g.edges {
		for _, child := range children {
			// Two parameters may link back to one ancestor occurrence.
			if err := dg.AddEdge(child.seq, parent.seq); err != nil && !errors.Is(err, gr.ErrEdgeAlreadyExists) {
				return nil, err
			}
		}
	}
	seqs, err := gr.StableTopologicalSort(dg, func(a, b int) bool { return a < b })
	if err != nil {
		return nil, err
	}
	order := make([]*Node, 0, len(seqs))
	for _, seq := range seqs {
		order = append(order, g.nodes[seq])
	}
	return order, nil
}

// Target returns the provider the graph was built for.
func (g *Graph) Target() *Provider { return g.target }

// Order returns the evaluation order, target last. The returned slice is
// shared; treat it as read-only.
func (g *Graph) Order() []*Node { return g.order }

// IsEmpty reports whether the target depends on nothing: resolving an
// empty graph yields an empty keyword set without invoking anything.
func (g *Graph) IsEmpty() bool { return len(g.order) <= 1 }

// rebuild re-runs construction with providers replaced, for scopes created
// with test doubles.
func (g *Graph) rebuild(replaced map[*Provider]*Provider) (*Graph, error) {
	return Build(g.target, WithSignatures(g.signatures), WithReplaced(replaced))
}
