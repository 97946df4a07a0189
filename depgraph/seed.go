package depgraph

// Seed carries externally supplied values consumed as a resolution's
// initial cache: a provider found in the seed is never invoked, its seeded
// value is used instead.
//
// A Seed is read-only input to a scope; it is copied before use, so
// concurrent resolutions sharing one seed never observe each other's
// writes.
type Seed struct {
	items map[*Provider]any
}

// NewSeed returns an empty seed.
func NewSeed() *Seed {
	return &Seed{items: map[*Provider]any{}}
}

// Provide stores a value for a provider and returns the seed for chaining.
func (s *Seed) Provide(p *Provider, val any) *Seed {
	s.items[p] = val
	return s
}

// Get returns the seeded value if present.
func (s *Seed) Get(p *Provider) (any, bool) {
	v, ok := s.items[p]
	return v, ok
}

// MustGet returns the seeded value or panics with a helpful message.
// Useful in examples/tests where missing seeds should fail fast.
func (s *Seed) MustGet(p *Provider) any {
	v, ok := s.items[p]
	if !ok {
		panic(MissingSeedError{Provider: qualifiedName(p)})
	}
	return v
}

// Len reports the number of seeded providers.
func (s *Seed) Len() int { return len(s.items) }

// snapshot copies the seed into a fresh cache map.
func (s *Seed) snapshot() map[*Provider]any {
	if s == nil {
		return map[*Provider]any{}
	}
	cp := make(map[*Provider]any, len(s.items))
	for k, v := range s.items {
		cp[k] = v
	}
	return cp
}
