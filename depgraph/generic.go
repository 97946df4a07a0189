package depgraph

import (
	"strings"

	"github.com/google/uuid"
)

// TypeVar is a type-parameter placeholder. A parameter may depend on a
// TypeVar declared by its enclosing provider; the builder substitutes the
// placeholder positionally against the type arguments captured by
// Instantiate. Placeholders compare by identity.
type TypeVar struct {
	name string
}

// NewTypeVar declares a placeholder with the given display name.
func NewTypeVar(name string) *TypeVar {
	return &TypeVar{name: name}
}

// Name returns the placeholder's display name.
func (t *TypeVar) Name() string { return t.name }

// String implements fmt.Stringer.
func (t *TypeVar) String() string { return t.name }

// WithTypeParams declares the provider's generic type parameters, in
// positional order, and returns the provider for chaining.
func (p *Provider) WithTypeParams(tvs ...*TypeVar) *Provider {
	p.typeParams = tvs
	return p
}

// Instantiate binds the provider's type parameters to concrete arguments.
// Each argument is a *Provider or a *TypeVar (the latter re-exported from a
// further enclosing generic). The result is a distinct provider sharing the
// origin's signature and invocation behavior; it owns its own cache slot.
func (p *Provider) Instantiate(args ...any) *Provider {
	names := make([]string, 0, len(args))
	for _, a := range args {
		names = append(names, qualifiedName(a))
	}
	inst := *p
	inst.id = uuid.NewString()
	inst.name = p.name + "[" + strings.Join(names, ", ") + "]"
	inst.origin = p
	inst.typeArgs = args
	inst.params = nil
	inst.typeParams = nil
	return &inst
}

// substituteTypeVar resolves a placeholder against the node's parent: the
// parent's origin declares the type parameters, the parent's instantiation
// carries the substituted arguments, and the match is positional.
func substituteTypeVar(tv *TypeVar, n *Node) (*Provider, error) {
	if n.parent == nil {
		return nil, GenericResolutionError{TypeVar: tv.name}
	}
	parent, ok := n.parent.provider.(*Provider)
	failure := GenericResolutionError{
		TypeVar:  tv.name,
		Provider: qualifiedName(n.parent.provider),
		Param:    n.parent.paramName,
	}
	if !ok || parent == nil || parent.origin == nil || len(parent.typeArgs) == 0 {
		return nil, failure
	}
	declared := parent.origin.typeParams
	for i, candidate := range declared {
		if candidate != tv || i >= len(parent.typeArgs) {
			continue
		}
		if sub, ok := parent.typeArgs[i].(*Provider); ok {
			return sub, nil
		}
		// A bare placeholder as the substituted argument means a partial
		// instantiation; chained substitution is not supported.
		return nil, failure
	}
	return nil, failure
}
