package depgraph

import (
	"errors"
	"strconv"
)

var (
	// ErrNilTarget is returned when a graph is built for a nil provider.
	ErrNilTarget = errors.New("depgraph: nil target provider")

	// ErrExhausted is reported by a Producer once its cleanup path has run
	// and it has nothing left to yield. Draining a producer loops until
	// this sentinel appears.
	ErrExhausted = errors.New("depgraph: producer exhausted")
)

// UnresolvableDependencyError is returned at build time when a parameter
// carries a dependency descriptor that names no provider and whose declared
// type offers nothing to infer one from.
type UnresolvableDependencyError struct {
	// Provider is the qualified name of the provider that declared the
	// parameter.
	Provider string

	// Param is the name of the parameter that could not be resolved.
	Param string
}

// Error implements the error interface.
func (e UnresolvableDependencyError) Error() string {
	// Example: depgraph: dependency "db" of "newRepo" cannot be resolved
	return "depgraph: dependency " + strconv.Quote(e.Param) +
		" of " + strconv.Quote(e.Provider) + " cannot be resolved"
}

// GenericResolutionError is returned at build time when a type-parameter
// placeholder cannot be substituted from an enclosing instantiation.
type GenericResolutionError struct {
	// TypeVar is the name of the unresolved placeholder.
	TypeVar string

	// Provider is the qualified name of the enclosing provider, empty when
	// the placeholder appeared at the graph root.
	Provider string

	// Param is the name of the enclosing provider's own declaring
	// parameter, empty at the root.
	Param string
}

// Error implements the error interface.
func (e GenericResolutionError) Error() string {
	if e.Provider == "" {
		// Example: depgraph: cannot resolve generic "T" at graph root
		return "depgraph: cannot resolve generic " + strconv.Quote(e.TypeVar) + " at graph root"
	}
	// Example: depgraph: unknown generic argument "T": provide a type in
	// param "box" of "newBox"
	return "depgraph: unknown generic argument " + strconv.Quote(e.TypeVar) +
		": provide a type in param " + strconv.Quote(e.Param) +
		" of " + strconv.Quote(e.Provider)
}

// DisciplineMismatchError is returned when a suspending provider shape is
// invoked under the blocking discipline. Failing fast here beats silently
// never resolving.
type DisciplineMismatchError struct {
	// Provider is the qualified name of the offending provider.
	Provider string
}

// Error implements the error interface.
func (e DisciplineMismatchError) Error() string {
	// Example: depgraph: suspending provider "fetchUser" invoked in blocking scope
	return "depgraph: suspending provider " + strconv.Quote(e.Provider) +
		" invoked in blocking scope"
}

// ResolvePanicError wraps a panic recovered while running a resolved target
// inside RunSync or RunAsync, so the teardown path can observe a concrete
// failure before the panic is re-raised.
type ResolvePanicError struct {
	// Value is the recovered panic value.
	Value any
}

// Error implements the error interface.
func (e ResolvePanicError) Error() string {
	return "depgraph: panic during resolution scope"
}

// MissingSeedError is returned by (*Seed).MustGet via panic when a provider
// has no seeded value.
type MissingSeedError struct {
	// Provider is the qualified name of the provider looked up.
	Provider string
}

// Error implements the error interface.
func (e MissingSeedError) Error() string {
	// Example: depgraph: seed missing value for "httpRequest"
	return "depgraph: seed missing value for " + strconv.Quote(e.Provider)
}
