// File: propagator.go
// Role: Step — the three-pass propagation cycle.
package propagate

import (
	"math"

	"github.com/bytewave/bytewave/bytegraph"
	"github.com/bytewave/bytewave/emergent"
	"github.com/bytewave/bytewave/pattern"
)

// Structural constants: parameterized once, never re-derived.
const (
	nodeDecay           = 0.9
	coherentNodeDecay   = 0.95 // patterns-supported nodes survive slightly longer
	patternDecay        = 0.7
	maxTransferPerEdge  = 10.0
	maxNodeActivation   = 100.0
	maxMeaningBoost     = 30.0
	activationEpsilon   = 1e-6
	neutralLow          = 0.3
	neutralMid          = 0.5
	neutralHigh         = 0.8
)

// StepBudget returns the number of propagation steps for an episode:
// min(3*inputLen, 200), and at least 1.
func StepBudget(inputLen int) int {
	n := 3 * inputLen
	if n > 200 {
		return 200
	}
	if n < 1 {
		return 1
	}
	return n
}

// Step runs Pass A, B, and C once over g/reg, reading st for the current
// emergent pressures (notably PatternConfidence, used as a historical-
// accuracy proxy in the path-quality Predictive factor). output is the
// episode's output buffer so far, as NodeIDs — patterns match against both
// input and output buffers.
func Step(g *bytegraph.Graph, reg *pattern.Registry, st *emergent.State, output []bytegraph.NodeID) {
	support := passA(g, reg, output)
	passB(g, reg, st, support)
	passC(g, reg, support)
}

// passA transfers pattern activation into predicted nodes and into
// predicted patterns via outgoing_patterns edges. It returns, per node, the
// pattern-support total this step (used by Pass B's Coherence factor and
// Pass C's slower decay for pattern-carried nodes).
func passA(g *bytegraph.Graph, reg *pattern.Registry, output []bytegraph.NodeID) map[bytegraph.NodeID]float64 {
	support := make(map[bytegraph.NodeID]float64)

	live := reg.Live()
	for _, p := range live {
		if p.HasFired {
			continue // already ignited this step
		}
		score := p.MatchScore(g.InputBuffer)
		if out := p.MatchScore(output); out > score {
			score = out
		}
		if score <= p.Threshold {
			continue
		}
		p.Activation += score * p.Strength
		p.HasFired = true

		meaningBoost := 1.0 + p.AccumulatedMeaning*0.5
		if meaningBoost > maxMeaningBoost {
			meaningBoost = maxMeaningBoost
		}
		hierarchyBoost := 1.0 + 1.0/(1.0+float64(p.ChainDepth)*0.2)

		for i, predID := range p.PredictedNodes {
			w := 1.0
			if i < len(p.PredictionWeights) {
				w = p.PredictionWeights[i]
			}
			delta := p.Activation * w * p.Strength * meaningBoost * hierarchyBoost * bytegraph.IntelligentPathBoost
			g.Nodes[predID].Activation += delta
			if g.Nodes[predID].Activation > g.ActivationCeiling {
				g.Nodes[predID].Activation = g.ActivationCeiling
			}
			support[predID] += delta
		}

		for _, e := range p.OutgoingPatterns.Edges() {
			q := reg.Get(e.To)
			if q == nil || q.Dead {
				continue
			}
			q.Activation += p.Activation * e.Weight * meaningBoost
			candidate := p.AccumulatedMeaning * e.Weight * p.Strength
			if candidate > q.AccumulatedMeaning {
				q.AccumulatedMeaning = candidate // monotone-nondecreasing
			}
		}
	}

	return support
}

// passB propagates node activation along edges, weighted by a normalized,
// four-factor path quality.
func passB(g *bytegraph.Graph, reg *pattern.Registry, st *emergent.State, support map[bytegraph.NodeID]float64) {
	type transfer struct {
		to    bytegraph.NodeID
		delta float64
	}

	var pending []transfer

	for s := 0; s < bytegraph.NodeCount; s++ {
		src := bytegraph.NodeID(s)
		if g.Nodes[src].Activation <= activationEpsilon {
			continue
		}
		edges := g.Outgoing(src).Edges()
		if len(edges) == 0 {
			continue
		}

		qualities := make([]float64, len(edges))
		sum := 0.0
		for i, e := range edges {
			q := pathQuality(g, reg, st, src, e, support)
			qualities[i] = q
			sum += q
		}
		if sum < activationEpsilon {
			sum = activationEpsilon
		}

		for i, e := range edges {
			normalized := qualities[i] / sum
			delta := g.Nodes[src].Activation * normalized
			if delta > maxTransferPerEdge {
				delta = maxTransferPerEdge
			}
			pending = append(pending, transfer{to: e.To, delta: delta})
		}
	}

	for _, t := range pending {
		g.Nodes[t.to].Activation += t.delta
		if g.Nodes[t.to].Activation > maxNodeActivation {
			g.Nodes[t.to].Activation = maxNodeActivation
		}
		if g.Nodes[t.to].Activation > g.ActivationCeiling {
			g.Nodes[t.to].Activation = g.ActivationCeiling
		}
		g.Nodes[t.to].ReceiveCount++
	}
}

// pathQuality computes base_quality = Information*Learning*Coherence*
// Predictive for one edge, optionally boosted by pattern-connection
// support. Every factor defaults to a neutral value in [0.3,0.8] when its
// inputs are undefined — never 0.
func pathQuality(g *bytegraph.Graph, reg *pattern.Registry, st *emergent.State, src bytegraph.NodeID, e *bytegraph.Edge, support map[bytegraph.NodeID]float64) float64 {
	info := informationFactor(g, src, e.To)
	learn := learningFactor(e)
	coh := coherenceFactor(g, support, e.To)
	pred := predictiveFactor(st, e, support)

	base := info * learn * coh * pred
	if boost, ok := support[e.To]; ok && boost > 0 {
		base *= 1.0 + math.Min(boost, 1.0)
	}
	return base
}

func informationFactor(g *bytegraph.Graph, src, dst bytegraph.NodeID) float64 {
	inputConnection := neutralLow
	if containsNode(g.InputBuffer, dst) {
		inputConnection = neutralHigh
	}
	contextMatch := neutralMid
	if followsInBuffer(g.InputBuffer, src, dst) {
		contextMatch = neutralHigh
	}
	historyCoherence := neutralMid
	if last, ok := g.LastEmittedNode(); ok && last == src {
		historyCoherence = neutralHigh
	}
	return inputConnection * contextMatch * historyCoherence
}

func learningFactor(e *bytegraph.Edge) float64 {
	usageBoost := 1.0 + math.Log1p(float64(e.UseCount))/10.0
	return e.Weight * usageBoost * (0.5 + e.SuccessRate())
}

func coherenceFactor(g *bytegraph.Graph, support map[bytegraph.NodeID]float64, dst bytegraph.NodeID) float64 {
	patternAlignment := neutralLow
	if support[dst] > 0 {
		patternAlignment = neutralHigh
	}
	sequentialFlow := neutralMid
	if g.Nodes[dst].Activation > activationEpsilon {
		sequentialFlow = neutralHigh
	}
	contextFit := neutralLow
	if containsNode(g.InputBuffer, dst) {
		contextFit = neutralHigh
	}
	return patternAlignment * sequentialFlow * contextFit
}

func predictiveFactor(st *emergent.State, e *bytegraph.Edge, support map[bytegraph.NodeID]float64) float64 {
	patternPrediction := neutralLow
	if support[e.To] > 0 {
		patternPrediction = neutralHigh
	}
	historicalAccuracy := neutralMid
	if st != nil {
		historicalAccuracy = st.PatternConfidence
	}
	contextPrediction := neutralMid
	if support[e.To] > 0 {
		contextPrediction = neutralHigh
	}
	return patternPrediction * (0.5 + historicalAccuracy) * contextPrediction
}

// passC decays node and pattern activation, clears HasFired, and applies
// the slower 0.95 decay to nodes that received pattern support this step.
func passC(g *bytegraph.Graph, reg *pattern.Registry, support map[bytegraph.NodeID]float64) {
	for i := range g.Nodes {
		decay := nodeDecay
		if support[bytegraph.NodeID(i)] > 0 {
			decay = coherentNodeDecay
		}
		g.Nodes[i].Activation *= decay
	}
	for _, p := range reg.Live() {
		p.Activation *= patternDecay
		p.HasFired = false
	}
}

func containsNode(buf []bytegraph.NodeID, id bytegraph.NodeID) bool {
	for _, b := range buf {
		if b == id {
			return true
		}
	}
	return false
}

func followsInBuffer(buf []bytegraph.NodeID, src, dst bytegraph.NodeID) bool {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == src && buf[i+1] == dst {
			return true
		}
	}
	return false
}
