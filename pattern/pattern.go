// File: pattern.go
// Role: the Pattern type, BLANK matching, and the utility law that drives
// Pattern.Strength.
package pattern

import "github.com/bytewave/bytewave/bytegraph"

// Pattern is a finite ordered sequence of node identifiers, where each
// position is either a concrete byte or bytegraph.Blank.
type Pattern struct {
	ID       int
	Sequence []bytegraph.NodeID

	Strength   float64
	Activation float64
	Threshold  float64
	HasFired   bool

	PredictionAttempts  uint64
	PredictionSuccesses uint64
	PredictedNodes      []bytegraph.NodeID
	PredictionWeights   []float64

	OutgoingPatterns *EdgeList

	HasParent          bool
	ParentID           int
	ChainDepth         int
	AccumulatedMeaning float64

	DynamicImportance float64

	Dead bool
}

// newPattern allocates a Pattern with neutral transient state. Strength
// starts at the supplied mint estimate; recomputeUtility will override it
// with the neutral prior (0.5) until prediction_attempts exceeds 10.
func newPattern(id int, seq []bytegraph.NodeID, mintStrength float64) *Pattern {
	return &Pattern{
		ID:               id,
		Sequence:         seq,
		Strength:         mintStrength,
		Threshold:        0.3,
		OutgoingPatterns: newEdgeList(),
	}
}

// IsGeneralized reports whether the pattern contains at least one BLANK.
func (p *Pattern) IsGeneralized() bool {
	for _, id := range p.Sequence {
		if id == bytegraph.Blank {
			return true
		}
	}
	return false
}

// Len returns the pattern's sequence length.
func (p *Pattern) Len() int { return len(p.Sequence) }

// MatchAt reports whether the pattern matches buf at position pos: for
// every pattern position i, either the pattern is Blank there or
// buf[pos+i] == pattern.Sequence[i].
func (p *Pattern) MatchAt(buf []bytegraph.NodeID, pos int) bool {
	if pos < 0 || pos+p.Len() > len(buf) {
		return false
	}
	for i, id := range p.Sequence {
		if id == bytegraph.Blank {
			continue
		}
		if id != buf[pos+i] {
			return false
		}
	}
	return true
}

// MatchScore returns the best match score for the pattern across every
// applicable position in buf: 1.0 on a full match, 0 otherwise (the
// pattern is exact-or-wildcard per position, so partial credit does not
// apply — see WavePropagator for how match score combines with strength).
func (p *Pattern) MatchScore(buf []bytegraph.NodeID) float64 {
	best := 0.0
	limit := len(buf) - p.Len()
	for pos := 0; pos <= limit; pos++ {
		if p.MatchAt(buf, pos) {
			best = 1.0
			break
		}
	}
	return best
}

// recomputeUtility implements the pattern utility law:
//
//	if prediction_attempts > 10:
//	    utility = prediction_successes / prediction_attempts
//	    strength <- utility
//	    if utility < 0.4: strength <- strength * 0.5
//
// At 10 attempts or fewer, utility is uninformative: strength is held at the
// neutral prior 0.5 rather than the compression-based mint estimate, so a
// young pattern can't dominate propagation before it has evidence.
func (p *Pattern) recomputeUtility() {
	if p.PredictionAttempts <= 10 {
		p.Strength = 0.5
		return
	}
	utility := float64(p.PredictionSuccesses) / float64(p.PredictionAttempts)
	p.Strength = utility
	if utility < 0.4 {
		p.Strength *= 0.5
	}
}

// recomputeDynamicImportance derives DynamicImportance from usage, success,
// depth, and co-occurrence, without pinning an exact formula: deeper,
// well-used, successful patterns matter more, but the
// depth bonus tapers so root patterns aren't structurally starved.
func (p *Pattern) recomputeDynamicImportance(coOccurrence float64) {
	usage := float64(p.PredictionAttempts)
	success := 0.5
	if p.PredictionAttempts > 0 {
		success = float64(p.PredictionSuccesses) / float64(p.PredictionAttempts)
	}
	depthBonus := 1.0 + 1.0/(1.0+float64(p.ChainDepth)*0.2)
	p.DynamicImportance = (usage/(usage+10.0))*success*depthBonus + 0.1*coOccurrence
}
