package depgraph

// Param describes one declared parameter of a provider: its name, its
// declared type (used to infer a provider when the descriptor names none),
// an optional Depends-style default, and per-parameter metadata.
//
// Type may be a *Provider (the type doubles as its own constructor) or a
// *TypeVar. Meta is scanned in reverse declaration order; the first
// *Dependency or foreign Marker wins, so an override annotation placed
// after the original takes effect. A parameter with neither Default nor a
// matching Meta entry is host-supplied and ignored by the graph.
type Param struct {
	Name    string
	Type    any
	Default *Dependency
	Meta    []any
}

// ParamInfo is the value synthesized for the CallerInfo sentinel: it
// describes how the consuming provider's own parameter was declared. At the
// graph root the name is empty and Definition is nil.
type ParamInfo struct {
	// Name is the parameter name under which the consumer was introduced.
	Name string

	// Graph is the root graph the resolution was started against.
	Graph *Graph

	// Definition is the consumer's declared parameter, nil at the root.
	Definition *Param
}

// String implements fmt.Stringer.
func (p ParamInfo) String() string { return "ParamInfo<name=" + p.Name + ">" }

// SignatureSource hands the builder a provider's declared parameter list.
// It is the boundary to whatever signature reflection the host performs;
// the default source returns the parameters declared on the provider
// itself.
type SignatureSource interface {
	Signature(p *Provider) []Param
}

// declaredSignatures is the default SignatureSource.
type declaredSignatures struct{}

func (declaredSignatures) Signature(p *Provider) []Param { return p.signature() }
