package selectout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytewave/bytewave/bytegraph"
	"github.com/bytewave/bytewave/emergent"
	"github.com/bytewave/bytewave/pattern"
)

func TestSelectPicksHighestScoringExistingNode(t *testing.T) {
	g := bytegraph.NewGraph()
	require.NoError(t, g.Inject([]byte("a"), 0))
	g.Nodes['a'].Activation = 10

	reg := pattern.NewRegistry()
	st := emergent.New()
	st.AvgActivation = 1.0

	b, ok := Select(g, reg, st, nil)
	require.True(t, ok)
	assert.Equal(t, byte('a'), b)
}

func TestSelectEmitsNothingWhenNoNodeExists(t *testing.T) {
	g := bytegraph.NewGraph()
	reg := pattern.NewRegistry()
	st := emergent.New()

	_, ok := Select(g, reg, st, nil)
	assert.False(t, ok)
}

func TestLoopSuppressionPenalizesRecentRepeat(t *testing.T) {
	g := bytegraph.NewGraph()
	require.NoError(t, g.Inject([]byte("xyz"), 0))
	g.Nodes['x'].Activation = 10
	g.Nodes['y'].Activation = 10
	g.Nodes['z'].Activation = 3

	reg := pattern.NewRegistry()
	st := emergent.New()
	st.AvgActivation = 1.0
	st.LoopPressure = 0.9

	output := []byte{'x', 'y', 'x', 'y'}
	b, ok := Select(g, reg, st, output)
	require.True(t, ok)
	assert.Equal(t, byte('z'), b)
}

func TestMaxOutputGrowsWithInputLength(t *testing.T) {
	assert.Greater(t, MaxOutput(10), MaxOutput(1))
}
