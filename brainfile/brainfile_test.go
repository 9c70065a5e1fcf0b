package brainfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytewave/bytewave/bytegraph"
	"github.com/bytewave/bytewave/emergent"
	"github.com/bytewave/bytewave/pattern"
)

func buildSampleBrain() (*bytegraph.Graph, *pattern.Registry, *emergent.State) {
	g := bytegraph.NewGraph()
	_ = g.Inject([]byte("cat"), 0)
	g.Strengthen('c', 'a', 1.0, 0.3, true)
	g.Strengthen('a', 't', 1.0, 0.3, true)
	g.Weaken('c', 't', 0.1)

	reg := pattern.NewRegistry()
	cat := reg.Mint([]bytegraph.NodeID{'c', 'a', 't'}, 0.4)
	cat.PredictedNodes = []bytegraph.NodeID{'s'}
	cat.PredictionWeights = []float64{0.75}
	cat.PredictionAttempts = 12
	cat.PredictionSuccesses = 9

	blank := reg.MintGeneralized(cat, 0)
	blank.OutgoingPatterns.Strengthen(cat.ID, 1.0, 0.2, true)

	st := emergent.New()
	st.ErrorRate = 0.2345678
	st.Step = 42

	return g, reg, st
}

func TestWriteReadRoundTripsByteIdentical(t *testing.T) {
	g, reg, st := buildSampleBrain()

	var buf1 bytes.Buffer
	require.NoError(t, Write(&buf1, g, reg, st))

	g2, reg2, st2, err := Read(strings.NewReader(buf1.String()), nil)
	require.NoError(t, err)

	var buf2 bytes.Buffer
	require.NoError(t, Write(&buf2, g2, reg2, st2))

	assert.Equal(t, buf1.String(), buf2.String())
}

func TestRoundTripPreservesPatternCountAndPrediction(t *testing.T) {
	g, reg, st := buildSampleBrain()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g, reg, st))

	_, reg2, _, err := Read(strings.NewReader(buf.String()), nil)
	require.NoError(t, err)

	assert.Equal(t, reg.Count(), reg2.Count())

	cat := reg2.Get(0)
	require.NotNil(t, cat)
	require.Len(t, cat.PredictedNodes, 1)
	assert.Equal(t, bytegraph.NodeID('s'), cat.PredictedNodes[0])
	assert.InDelta(t, 0.75, cat.PredictionWeights[0], 1e-6)
	assert.Equal(t, uint64(12), cat.PredictionAttempts)
	assert.Equal(t, uint64(9), cat.PredictionSuccesses)

	blank := reg2.Get(1)
	require.NotNil(t, blank)
	assert.True(t, blank.IsGeneralized())
	assert.True(t, cat.HasParent)
	assert.Equal(t, blank.ID, cat.ParentID)
}

func TestRoundTripPreservesEdgeWeightsAndGraphStructure(t *testing.T) {
	g, reg, st := buildSampleBrain()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g, reg, st))

	g2, _, _, err := Read(strings.NewReader(buf.String()), nil)
	require.NoError(t, err)

	eOrig, ok := g.Outgoing('c').Get('a')
	require.True(t, ok)
	eLoaded, ok := g2.Outgoing('c').Get('a')
	require.True(t, ok)
	assert.InDelta(t, eOrig.Weight, eLoaded.Weight, 1e-6)
	assert.Equal(t, eOrig.UseCount, eLoaded.UseCount)
	assert.Equal(t, eOrig.SuccessCount, eLoaded.SuccessCount)

	assert.True(t, g2.Nodes['c'].Exists)
	assert.True(t, g2.Nodes['a'].Exists)
	assert.True(t, g2.Nodes['t'].Exists)
	assert.False(t, g2.Nodes['z'].Exists)
}

func TestRoundTripPreservesState(t *testing.T) {
	g, reg, st := buildSampleBrain()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g, reg, st))

	_, _, st2, err := Read(strings.NewReader(buf.String()), nil)
	require.NoError(t, err)

	assert.InDelta(t, st.ErrorRate, st2.ErrorRate, 1e-6)
	assert.Equal(t, st.Step, st2.Step)
}

func TestReadSkipsUnknownLineWithoutError(t *testing.T) {
	input := "future_record some new field\n" +
		"node 99 exists:true energy:1.000000 threshold:0.500000\n" +
		"state error:0.000000 step:0\n"

	g, _, _, err := Read(strings.NewReader(input), nil)
	require.NoError(t, err)
	assert.True(t, g.Nodes[99].Exists)
}

func TestReadStrictModeAbortsOnMalformedKnownLine(t *testing.T) {
	input := "node 3 exists:notabool energy:1.000000 threshold:0.500000\n"

	_, _, _, err := Read(strings.NewReader(input), DefaultLoadOptions())
	require.Error(t, err)
}

func TestReadLenientModeCommitsPartialLoad(t *testing.T) {
	input := "node 3 exists:true energy:1.000000 threshold:0.500000\n" +
		"node 4 exists:notabool energy:1.000000 threshold:0.500000\n" +
		"node 5 exists:true energy:1.000000 threshold:0.500000\n"

	g, _, _, err := Read(strings.NewReader(input), &LoadOptions{StrictMode: false})
	require.NoError(t, err)
	assert.True(t, g.Nodes[3].Exists)
	// parsing stopped at the bad line, so node 5 never committed.
	assert.False(t, g.Nodes[5].Exists)
}

func TestEncodeDecodeSequenceRoundTrips(t *testing.T) {
	seq := []bytegraph.NodeID{'c', bytegraph.Blank, 0x80 + 5, '"', '\\'}
	encoded := encodeSequence(seq)
	decoded, err := decodeSequence(encoded)
	require.NoError(t, err)
	assert.Equal(t, seq, decoded)
}

func TestSplitFieldsHandlesQuotedSpace(t *testing.T) {
	fields := splitFields(`pattern 0 seq:"c a" strength:0.500000 attempts:0 successes:0 depth:0 parent:- meaning:0.000000`)
	require.Len(t, fields, 9)
	assert.Equal(t, `seq:"c a"`, fields[2])
}
