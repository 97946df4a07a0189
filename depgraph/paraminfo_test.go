package depgraph_test

import (
	"context"
	"testing"

	"github.com/sghaida/depgraph/depgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// introspect echoes the ParamInfo injected for the sentinel.
func introspect() *depgraph.Provider {
	return depgraph.Call("introspect", func(kw depgraph.Kwargs) (any, error) { return kw["info"], nil },
		depgraph.Param{Name: "info", Default: depgraph.Depends(depgraph.CallerInfo)},
	)
}

// TestCallerInfo_Nested verifies a provider requesting the sentinel sees
// the parameter name and definition it was introduced under, plus the root
// graph.
func TestCallerInfo_Nested(t *testing.T) {
	t.Parallel()

	target := depgraph.Call("target", nil,
		depgraph.Param{Name: "pp", Default: depgraph.Depends(introspect())},
	)

	g, err := depgraph.Build(target)
	require.NoError(t, err)

	scope, err := g.SyncScope()
	require.NoError(t, err)
	kw, err := scope.Resolve()
	require.NoError(t, err)
	require.NoError(t, scope.Close(nil))

	info, ok := kw["pp"].(depgraph.ParamInfo)
	require.True(t, ok)
	assert.Equal(t, "pp", info.Name)
	assert.Same(t, g, info.Graph)
	require.NotNil(t, info.Definition)
	assert.Equal(t, "pp", info.Definition.Name)
}

// TestCallerInfo_AtRoot verifies the target itself requesting the sentinel
// gets an empty name and no definition: nothing introduced the root.
func TestCallerInfo_AtRoot(t *testing.T) {
	t.Parallel()

	target := depgraph.Call("target", nil,
		depgraph.Param{Name: "info", Default: depgraph.Depends(depgraph.CallerInfo)},
	)

	g, err := depgraph.Build(target)
	require.NoError(t, err)

	scope, err := g.SyncScope()
	require.NoError(t, err)
	kw, err := scope.Resolve()
	require.NoError(t, err)
	require.NoError(t, scope.Close(nil))

	info, ok := kw["info"].(depgraph.ParamInfo)
	require.True(t, ok)
	assert.Empty(t, info.Name)
	assert.Nil(t, info.Definition)
	assert.Same(t, g, info.Graph)
}

// TestCallerInfo_SentinelNeverInvoked verifies the sentinel reaches the
// consumer as synthesized data even under the suspending discipline.
func TestCallerInfo_SentinelNeverInvoked(t *testing.T) {
	t.Parallel()

	target := depgraph.Call("target", nil,
		depgraph.Param{Name: "who", Default: depgraph.Depends(introspect())},
	)

	g, err := depgraph.Build(target)
	require.NoError(t, err)

	var got depgraph.Kwargs
	err = g.RunAsync(context.Background(), func(_ context.Context, kw depgraph.Kwargs) error {
		got = kw
		return nil
	})
	require.NoError(t, err)

	info, ok := got["who"].(depgraph.ParamInfo)
	require.True(t, ok)
	assert.Equal(t, "who", info.Name)
	assert.Contains(t, info.String(), "who")
}
