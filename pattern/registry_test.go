package pattern

import (
	"testing"

	"github.com/bytewave/bytewave/bytegraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(s string) []bytegraph.NodeID {
	out := make([]bytegraph.NodeID, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = bytegraph.NodeID(s[i])
	}
	return out
}

func TestMatchAtExactAndBlank(t *testing.T) {
	r := NewRegistry()
	p := r.Mint(seq("at"), 0.5)
	buf := seq("cats")

	assert.True(t, p.MatchAt(buf, 1))
	assert.False(t, p.MatchAt(buf, 0))

	blank := r.Mint([]bytegraph.NodeID{bytegraph.Blank, 'a', 't'}, 0.3)
	assert.True(t, blank.MatchAt(buf, 0))
}

func TestUtilityLawAboveTenAttempts(t *testing.T) {
	p := newPattern(0, seq("at"), 0.9)
	p.PredictionAttempts = 100
	p.PredictionSuccesses = 100
	p.recomputeUtility()
	assert.Equal(t, 1.0, p.Strength)

	p.PredictionSuccesses = 30 // utility 0.3 < 0.4
	p.recomputeUtility()
	assert.InDelta(t, 0.15, p.Strength, 1e-9)
}

func TestUtilityLawBelowTenAttemptsUsesNeutralPrior(t *testing.T) {
	p := newPattern(0, seq("at"), 0.9)
	p.PredictionAttempts = 5
	p.PredictionSuccesses = 5
	p.recomputeUtility()
	assert.Equal(t, 0.5, p.Strength)
}

func TestSetParentRefusesCycle(t *testing.T) {
	r := NewRegistry()
	a := r.Mint(seq("at"), 0.1)
	b := r.Mint([]bytegraph.NodeID{bytegraph.Blank, 't'}, 0.1)

	require.True(t, r.SetParent(a.ID, b.ID)) // b is a's parent
	assert.False(t, r.SetParent(b.ID, a.ID)) // would close a cycle
}

func TestMintGeneralizedWiresHierarchy(t *testing.T) {
	r := NewRegistry()
	cat := r.Mint(seq("cat"), 0.2)
	cat.AccumulatedMeaning = 1.0

	g := r.MintGeneralized(cat, 0)
	assert.Equal(t, bytegraph.Blank, g.Sequence[0])
	assert.True(t, cat.HasParent)
	assert.Equal(t, g.ID, cat.ParentID)
	assert.Equal(t, g.ChainDepth+1, cat.ChainDepth)
	assert.InDelta(t, 1.2, g.AccumulatedMeaning, 1e-9)
}

func TestPruneDeadPatterns(t *testing.T) {
	r := NewRegistry()
	p := r.Mint(seq("xy"), 0.001)
	p.PredictionAttempts = 60
	p.PredictionSuccesses = 2 // success rate ~0.033 < 0.2

	r.Prune()
	assert.True(t, p.Dead)
	assert.Equal(t, 0.0, p.Strength)
}

func TestCapacityDoublesWhenFull(t *testing.T) {
	r := NewRegistry()
	before := r.Capacity()
	for i := 0; i < before+1; i++ {
		r.Mint(seq("ab"), 0.1)
	}
	assert.Greater(t, r.Capacity(), before)
}

func TestDeadPatternsExcludedFromMatching(t *testing.T) {
	r := NewRegistry()
	p := r.Mint(seq("at"), 0.1)
	p.Dead = true
	matches := r.MatchingAt(seq("cats"), 1)
	assert.Empty(t, matches)
}
