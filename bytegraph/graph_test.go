package bytegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectSetsExistsAndSpark(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Inject([]byte("cat"), 0))

	assert.True(t, g.Nodes['c'].Exists)
	assert.True(t, g.Nodes['a'].Exists)
	assert.True(t, g.Nodes['t'].Exists)
	assert.False(t, g.Nodes['z'].Exists)
	assert.Greater(t, g.Nodes['c'].Activation, 0.0)
	assert.Equal(t, []NodeID{'c', 'a', 't'}, g.InputBuffer)
}

func TestInjectRejectsOversizedInput(t *testing.T) {
	g := NewGraph()
	huge := make([]byte, 2<<20)
	err := g.Inject(huge, 0)
	require.Error(t, err)
	assert.False(t, g.Nodes[0].Exists)
}

func TestEdgeBetweenRefusesSelfLoop(t *testing.T) {
	g := NewGraph()
	_, ok := g.EdgeBetween('x', 'x')
	assert.False(t, ok)
	assert.Equal(t, 0, g.outgoing['x'].Len())
}

func TestEdgeWeightsStayNormalized(t *testing.T) {
	g := NewGraph()
	g.EdgeBetween('a', 'b')
	g.EdgeBetween('a', 'c')
	g.EdgeBetween('a', 'd')
	g.Strengthen('a', 'b', 1.0, 0.1, true)

	sum := 0.0
	for _, e := range g.Outgoing('a').Edges() {
		sum += e.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestStrengthenNeverCreatesSelfLoop(t *testing.T) {
	g := NewGraph()
	g.Strengthen('q', 'q', 1.0, 0.1, true)
	assert.Equal(t, 0, g.outgoing['q'].Len())
}

func TestWeakenFloorsAboveZero(t *testing.T) {
	g := NewGraph()
	g.EdgeBetween('a', 'b')
	for i := 0; i < 1000; i++ {
		g.Weaken('a', 'b', 1.0)
	}
	e, ok := g.Outgoing('a').Get('b')
	require.True(t, ok)
	assert.Greater(t, e.Weight, 0.0)
}

func TestPruneOnlyRunsUnderMetabolicPressure(t *testing.T) {
	g := NewGraph()
	g.EdgeBetween('a', 'b')
	g.Prune('a') // low density, no-op
	e, _ := g.Outgoing('a').Get('b')
	assert.True(t, e.Active)
}

func TestSuccessRateDefaultsNeutral(t *testing.T) {
	e := &Edge{}
	assert.Equal(t, 0.5, e.SuccessRate())
}

func TestEdgeCount(t *testing.T) {
	g := NewGraph()
	g.EdgeBetween('a', 'b')
	g.EdgeBetween('a', 'c')
	g.EdgeBetween('b', 'c')
	assert.Equal(t, 3, g.EdgeCount())
}
