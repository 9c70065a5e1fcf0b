package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bytewave/bytewave/bytegraph"
	"github.com/bytewave/bytewave/emergent"
	"github.com/bytewave/bytewave/pattern"
)

func TestMintRecurringMintsRepeatedSubsequence(t *testing.T) {
	g := bytegraph.NewGraph()
	_ = g.Inject([]byte("catcat"), 0)
	reg := pattern.NewRegistry()
	st := emergent.New()

	Detect(g, reg, st, []byte("catcat"), nil, nil)

	found := false
	for _, p := range reg.Live() {
		if string(toBytesLossy(p.Sequence)) == "at" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectGeneralizationsMintsBlankVariant(t *testing.T) {
	reg := pattern.NewRegistry()
	cat := reg.Mint([]bytegraph.NodeID{'c', 'a', 't'}, 0.5)
	reg.Mint([]bytegraph.NodeID{'d', 'a', 't'}, 0.5)

	detectGeneralizations(reg)

	foundBlank := false
	for _, p := range reg.Live() {
		if p.IsGeneralized() && p.Sequence[0] == bytegraph.Blank {
			foundBlank = true
		}
	}
	assert.True(t, foundBlank)
	assert.True(t, cat.HasParent)
}

func TestLearnSequencesStrengthensPatternEdge(t *testing.T) {
	reg := pattern.NewRegistry()
	a := reg.Mint([]bytegraph.NodeID{'c', 'a'}, 0.5)
	b := reg.Mint([]bytegraph.NodeID{'t', 's'}, 0.5)

	buf := []bytegraph.NodeID{'c', 'a', 't', 's'}
	learnSequences(reg, buf)

	e, ok := a.OutgoingPatterns.Get(b.ID)
	assert.True(t, ok)
	assert.True(t, e.Active)
}

func TestSingleDifference(t *testing.T) {
	pos, ok := singleDifference([]bytegraph.NodeID{'c', 'a', 't'}, []bytegraph.NodeID{'d', 'a', 't'})
	assert.True(t, ok)
	assert.Equal(t, 0, pos)

	_, ok = singleDifference([]bytegraph.NodeID{'c', 'a', 't'}, []bytegraph.NodeID{'d', 'o', 't'})
	assert.False(t, ok)
}
