package depgraph

// Kwargs is the keyword-argument set passed to providers and returned by a
// resolution: parameter names mapped to resolved values.
type Kwargs map[string]any

// clone returns a shallow copy, never nil.
func (kw Kwargs) clone() Kwargs {
	cp := make(Kwargs, len(kw))
	for k, v := range kw {
		cp[k] = v
	}
	return cp
}

// Dependency is an immutable declaration binding a parameter to a provider,
// a cache policy and optional fixed keyword arguments.
//
// The provider reference may be a *Provider, a *TypeVar (substituted during
// graph construction) or nil, in which case the builder infers the provider
// from the parameter's declared type.
//
// Chainers return modified copies so a Dependency can be shared between
// parameter declarations without aliasing surprises.
type Dependency struct {
	provider any
	useCache bool
	kwargs   Kwargs
}

// Depends declares a dependency on the given provider with caching enabled.
//
// Pass nil to have the builder infer the provider from the parameter's
// declared type.
func Depends(provider any) *Dependency {
	return &Dependency{provider: provider, useCache: true}
}

// NoCache returns a copy with caching disabled. The dependency is then
// re-evaluated through an isolated nested graph at every occurrence.
func (d *Dependency) NoCache() *Dependency {
	cp := *d
	cp.useCache = false
	return &cp
}

// WithKwargs returns a copy carrying fixed keyword arguments merged into
// the provider's resolved arguments at invocation time. Occurrences of one
// provider with different kwargs never share a cache slot.
func (d *Dependency) WithKwargs(kw Kwargs) *Dependency {
	cp := *d
	cp.kwargs = kw.clone()
	return &cp
}

// Provider returns the declared provider reference, nil when inferred.
func (d *Dependency) Provider() any { return d.provider }

// UseCache reports the declared cache policy.
func (d *Dependency) UseCache() bool { return d.useCache }

// Marker is the structural shape of a foreign framework's injection marker.
//
// Any metadata value implementing it is rewritten into a Dependency before
// graph construction, so third-party markers can be mixed with native
// declarations without this package importing anything.
type Marker interface {
	// DependencyProvider returns the marked provider reference.
	DependencyProvider() any

	// DependencyUseCache reports the marked cache policy.
	DependencyUseCache() bool
}

// fromMarker rewrites a foreign marker into a native descriptor.
func fromMarker(m Marker) *Dependency {
	return &Dependency{provider: m.DependencyProvider(), useCache: m.DependencyUseCache()}
}

// descriptorOf determines the dependency descriptor for a parameter: the
// explicit default, or the first match scanning metadata in reverse
// declaration order (an override annotation appears after the original).
// A nil result means the parameter is host-supplied and not injected.
func descriptorOf(p Param) *Dependency {
	desc := p.Default
	for i := len(p.Meta) - 1; i >= 0; i-- {
		switch m := p.Meta[i].(type) {
		case *Dependency:
			desc = m
		case Marker:
			desc = fromMarker(m)
		default:
			continue
		}
		break
	}
	return desc
}
