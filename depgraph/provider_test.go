package depgraph_test

import (
	"context"
	"testing"

	"github.com/sghaida/depgraph/depgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resolveOne builds and resolves a single-dependency graph around p.
func resolveOne(t *testing.T, p *depgraph.Provider) any {
	t.Helper()

	target := depgraph.Call("target", nil,
		depgraph.Param{Name: "a", Default: depgraph.Depends(p)},
	)
	g, err := depgraph.Build(target)
	require.NoError(t, err)

	scope, err := g.AsyncScope()
	require.NoError(t, err)
	kw, err := scope.Resolve(context.Background())
	require.NoError(t, err)
	require.NoError(t, scope.Close(context.Background(), nil))
	return kw["a"]
}

// TestValueProvider verifies a pre-built instance stands in as a provider
// without anything being invoked.
func TestValueProvider(t *testing.T) {
	t.Parallel()

	type config struct{ DSN string }
	cfg := &config{DSN: "postgres://localhost"}

	p := depgraph.Value("config", cfg)
	assert.Equal(t, "config", p.Name())
	assert.Same(t, cfg, resolveOne(t, p))
}

// TestClassifyProvider verifies the capability probe maps each callable
// flavor to its invocation behavior and passes existing providers through.
func TestClassifyProvider(t *testing.T) {
	t.Parallel()

	t.Run("provider passthrough", func(t *testing.T) {
		t.Parallel()
		p := intProvider(1)
		assert.Same(t, p, depgraph.ClassifyProvider("ignored", p))
	})

	t.Run("blocking call", func(t *testing.T) {
		t.Parallel()
		p := depgraph.ClassifyProvider("f", func(depgraph.Kwargs) (any, error) { return 1, nil })
		assert.Equal(t, 1, resolveOne(t, p))
	})

	t.Run("suspending call", func(t *testing.T) {
		t.Parallel()
		p := depgraph.ClassifyProvider("f", func(context.Context, depgraph.Kwargs) (any, error) { return 2, nil })
		assert.Equal(t, 2, resolveOne(t, p))
	})

	t.Run("scoped resource", func(t *testing.T) {
		t.Parallel()
		p := depgraph.ClassifyProvider("f", func(depgraph.Kwargs) (depgraph.Handle, error) {
			return depgraph.NewHandle(3, nil), nil
		})
		assert.Equal(t, 3, resolveOne(t, p))
	})

	t.Run("restartable resource", func(t *testing.T) {
		t.Parallel()
		p := depgraph.ClassifyProvider("f", func(depgraph.Kwargs) (depgraph.Producer, error) {
			return depgraph.NewProducer(4, nil), nil
		})
		assert.Equal(t, 4, resolveOne(t, p))
	})

	t.Run("anything else is a value", func(t *testing.T) {
		t.Parallel()
		p := depgraph.ClassifyProvider("f", "plain string")
		assert.Equal(t, "plain string", resolveOne(t, p))
	})
}

// TestProviderIdentity verifies providers carry unique identity tokens and
// render their qualified name.
func TestProviderIdentity(t *testing.T) {
	t.Parallel()

	a := depgraph.Call("repo.New", nil)
	b := depgraph.Call("repo.New", nil)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "repo.New", a.String())
}

// TestDependencyChainers verifies descriptor chainers return modified
// copies, leaving shared declarations untouched.
func TestDependencyChainers(t *testing.T) {
	t.Parallel()

	p := intProvider(1)
	base := depgraph.Depends(p)

	skipped := base.NoCache()
	assert.True(t, base.UseCache())
	assert.False(t, skipped.UseCache())
	assert.Same(t, p, skipped.Provider())

	kw := depgraph.Kwargs{"limit": 10}
	fixed := base.WithKwargs(kw)
	kw["limit"] = 99
	assert.True(t, fixed.UseCache())

	// The descriptor captured a copy of the fixed arguments.
	target := depgraph.Call("target", nil,
		depgraph.Param{Name: "a", Default: fixed},
	)
	g, err := depgraph.Build(target)
	require.NoError(t, err)
	require.False(t, g.IsEmpty())
}
