package depgraph

import (
	"context"

	"github.com/google/uuid"
)

// CallFunc is a blocking single-value computation.
type CallFunc func(kw Kwargs) (any, error)

// AsyncCallFunc is a suspending single-value computation. Invoking one
// under the blocking discipline fails with DisciplineMismatchError.
type AsyncCallFunc func(ctx context.Context, kw Kwargs) (any, error)

// AcquireFunc acquires a scoped resource.
type AcquireFunc func(kw Kwargs) (Handle, error)

// AsyncAcquireFunc acquires a scoped resource and may suspend doing so.
type AsyncAcquireFunc func(ctx context.Context, kw Kwargs) (AsyncHandle, error)

// StartFunc starts a restartable resource, returning it paused before its
// first value.
type StartFunc func(kw Kwargs) (Producer, error)

// AsyncStartFunc starts a suspending restartable resource.
type AsyncStartFunc func(kw Kwargs) (AsyncProducer, error)

// shape is the closed union of provider invocation shapes, assigned once at
// construction rather than probed per call.
type shape uint8

const (
	shapeValue shape = iota
	shapeCall
	shapeAsyncCall
	shapeScoped
	shapeAsyncScoped
	shapeGenerator
	shapeAsyncGenerator
	shapeCallerInfo
)

// Provider is a callable producing one value, possibly with declared
// dependencies of its own. Providers are compared by identity: the pointer
// is the cache key, so reuse the same Provider value wherever one result
// should be shared.
type Provider struct {
	id   string
	name string
	sh   shape

	value        any
	call         CallFunc
	asyncCall    AsyncCallFunc
	acquire      AcquireFunc
	asyncAcquire AsyncAcquireFunc
	start        StartFunc
	asyncStart   AsyncStartFunc

	params     []Param
	typeParams []*TypeVar

	// set on instantiated generics
	origin   *Provider
	typeArgs []any
}

func newProvider(name string, sh shape, params []Param) *Provider {
	return &Provider{id: uuid.NewString(), name: name, sh: sh, params: params}
}

// Value wraps a pre-built instance so it can stand in as a provider. The
// instance itself is the resolved value; nothing is invoked.
func Value(name string, v any) *Provider {
	p := newProvider(name, shapeValue, nil)
	p.value = v
	return p
}

// Call builds a blocking computation provider with the given declared
// parameters.
func Call(name string, fn CallFunc, params ...Param) *Provider {
	p := newProvider(name, shapeCall, params)
	p.call = fn
	return p
}

// AsyncCall builds a suspending computation provider.
func AsyncCall(name string, fn AsyncCallFunc, params ...Param) *Provider {
	p := newProvider(name, shapeAsyncCall, params)
	p.asyncCall = fn
	return p
}

// Scoped builds a scoped-resource provider. The acquired Handle is released
// in reverse acquisition order when the resolution scope closes.
func Scoped(name string, fn AcquireFunc, params ...Param) *Provider {
	p := newProvider(name, shapeScoped, params)
	p.acquire = fn
	return p
}

// AsyncScoped builds a suspending scoped-resource provider.
func AsyncScoped(name string, fn AsyncAcquireFunc, params ...Param) *Provider {
	p := newProvider(name, shapeAsyncScoped, params)
	p.asyncAcquire = fn
	return p
}

// Generator builds a restartable-resource provider. The returned Producer
// is advanced exactly once during resolution; its cleanup path runs at
// scope close.
func Generator(name string, fn StartFunc, params ...Param) *Provider {
	p := newProvider(name, shapeGenerator, params)
	p.start = fn
	return p
}

// AsyncGenerator builds a suspending restartable-resource provider.
func AsyncGenerator(name string, fn AsyncStartFunc, params ...Param) *Provider {
	p := newProvider(name, shapeAsyncGenerator, params)
	p.asyncStart = fn
	return p
}

// ClassifyProvider turns an arbitrary value into a provider by capability
// probe: an existing *Provider passes through, typed functions map to their
// shape, anything else becomes a pre-built Value.
func ClassifyProvider(name string, v any) *Provider {
	switch fn := v.(type) {
	case *Provider:
		return fn
	case CallFunc:
		return Call(name, fn)
	case func(Kwargs) (any, error):
		return Call(name, fn)
	case AsyncCallFunc:
		return AsyncCall(name, fn)
	case func(context.Context, Kwargs) (any, error):
		return AsyncCall(name, fn)
	case AcquireFunc:
		return Scoped(name, fn)
	case func(Kwargs) (Handle, error):
		return Scoped(name, fn)
	case AsyncAcquireFunc:
		return AsyncScoped(name, fn)
	case func(context.Context, Kwargs) (AsyncHandle, error):
		return AsyncScoped(name, fn)
	case StartFunc:
		return Generator(name, fn)
	case func(Kwargs) (Producer, error):
		return Generator(name, fn)
	case AsyncStartFunc:
		return AsyncGenerator(name, fn)
	case func(Kwargs) (AsyncProducer, error):
		return AsyncGenerator(name, fn)
	default:
		return Value(name, v)
	}
}

// CallerInfo is the sentinel provider. It is never invoked: the resolution
// engine replaces it with a ParamInfo describing how the consuming
// provider's own parameter was declared. The builder skips dependency
// discovery for it.
//
// Requesting CallerInfo from a cache-skipped consumer is an untested
// combination: inside the nested graph the consumer is its own root, so the
// sentinel yields an empty name there.
var CallerInfo = newProvider("depgraph.CallerInfo", shapeCallerInfo, nil)

// ID returns the provider's unique identity token.
func (p *Provider) ID() string { return p.id }

// Name returns the qualified name used in errors and logs.
func (p *Provider) Name() string { return p.name }

// String implements fmt.Stringer.
func (p *Provider) String() string { return p.name }

// Params returns the provider's declared parameters (the origin's, for an
// instantiated generic).
func (p *Provider) Params() []Param { return p.signature() }

func (p *Provider) signature() []Param {
	if p.origin != nil {
		return p.origin.params
	}
	return p.params
}

func (p *Provider) suspending() bool {
	switch p.sh {
	case shapeAsyncCall, shapeAsyncScoped, shapeAsyncGenerator:
		return true
	default:
		return false
	}
}

// qualifiedName names a provider reference for error reporting.
func qualifiedName(ref any) string {
	switch v := ref.(type) {
	case *Provider:
		if v == nil {
			return "unknown"
		}
		return v.name
	case *TypeVar:
		if v == nil {
			return "unknown"
		}
		return v.name
	default:
		return "unknown"
	}
}
