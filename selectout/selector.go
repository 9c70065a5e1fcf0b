// File: selector.go
// Role: Select — logical-relevance scoring, loop/history suppression, and
// argmax selection.
package selectout

import (
	"github.com/bytewave/bytewave/bytegraph"
	"github.com/bytewave/bytewave/emergent"
	"github.com/bytewave/bytewave/pattern"
)

// historyWindow bounds how far back repetition-frequency and loop checks
// look into the output tail.
const historyWindow = 20

// recentRepeatSpan is how many trailing bytes count as "a recent repeat"
// for loop suppression.
const recentRepeatSpan = 4

// MaxOutput returns the soft output-length bound proportional to input
// length. There is no fixed cap — it
// grows with the episode.
func MaxOutput(inputLen int) int {
	bound := 4*inputLen + 8
	if bound < 8 {
		return 8
	}
	return bound
}

// Select picks the next byte to emit given the graph's current
// activations, the live pattern set, the emergent pressures, and the
// output emitted so far this episode. It returns (0, false) when nothing
// clears the emergent selection threshold — ending output is a normal
// degrade, not an error.
func Select(g *bytegraph.Graph, reg *pattern.Registry, st *emergent.State, output []byte) (byte, bool) {
	live := reg.Live()
	lastEmitted, hasLast := g.LastEmittedNode()

	var bestID bytegraph.NodeID
	bestScore := 0.0
	found := false

	for id := 0; id < bytegraph.NodeCount; id++ {
		node := bytegraph.NodeID(id)
		if !g.Nodes[id].Exists {
			continue
		}

		logical := logicalRelevance(g, live, node, lastEmitted, hasLast)
		score := logical * g.Nodes[id].Activation

		if st.LoopPressure > 0.5 && isRecentRepeat(output, byte(id)) {
			score *= 0.1
		}
		score *= historyPenalty(output, byte(id))

		if score > bestScore {
			bestScore = score
			bestID = node
			found = true
		}
	}

	threshold := selectionThreshold(st)
	if !found || bestScore <= threshold {
		return 0, false
	}

	return byte(bestID), true
}

// selectionThreshold is the emergent "small" cutoff below which nothing is
// emitted: proportional to avg_activation so it scales with how excited
// the graph currently is, never a hard-coded constant.
func selectionThreshold(st *emergent.State) float64 {
	return 0.01 * (st.AvgActivation + 1e-6)
}

func logicalRelevance(g *bytegraph.Graph, live []*pattern.Pattern, node bytegraph.NodeID, lastEmitted bytegraph.NodeID, hasLast bool) float64 {
	patternSupport := patternSupportScore(live, node)
	contextFit := contextFitScore(g, node, lastEmitted, hasLast)
	sequenceCoherence := sequenceCoherenceScore(g, node, lastEmitted, hasLast)
	generalization := generalizationScore(g, live, node)

	return 0.5*patternSupport + 0.25*contextFit + 0.15*sequenceCoherence + 0.10*generalization
}

func patternSupportScore(live []*pattern.Pattern, node bytegraph.NodeID) float64 {
	total := 0.0
	for _, p := range live {
		if p.Activation <= 0 {
			continue
		}
		for i, predID := range p.PredictedNodes {
			if predID != node {
				continue
			}
			w := 1.0
			if i < len(p.PredictionWeights) {
				w = p.PredictionWeights[i]
			}
			total += p.Activation * w * p.Strength
		}
	}
	return total
}

func contextFitScore(g *bytegraph.Graph, node, lastEmitted bytegraph.NodeID, hasLast bool) float64 {
	score := 0.0
	for _, b := range g.InputBuffer {
		if b == node {
			score = 1.0
			break
		}
	}
	if hasLast && g.HasIncoming(node, lastEmitted) {
		score = 1.0
	}
	return score
}

func sequenceCoherenceScore(g *bytegraph.Graph, node, lastEmitted bytegraph.NodeID, hasLast bool) float64 {
	if !hasLast {
		return 0.5
	}
	e, ok := g.Outgoing(lastEmitted).Get(node)
	if !ok || !e.Active {
		return 0.5
	}
	return e.SuccessRate()
}

// generalizationScore implements the BLANK hypothesis test: for every live
// generalized pattern, check whether filling its first blank with node
// would produce a sequence that occurs in the input buffer; if so, add the
// pattern's strength. Pattern activation is not consulted, and the output
// buffer is not searched.
func generalizationScore(g *bytegraph.Graph, live []*pattern.Pattern, node bytegraph.NodeID) float64 {
	total := 0.0
	for _, p := range live {
		if !p.IsGeneralized() {
			continue
		}
		filled := make([]bytegraph.NodeID, len(p.Sequence))
		copy(filled, p.Sequence)
		blankAt := -1
		for i, id := range filled {
			if id == bytegraph.Blank {
				blankAt = i
				break
			}
		}
		if blankAt < 0 {
			continue
		}
		filled[blankAt] = node

		if matchesContext(filled, g.InputBuffer) {
			total += p.Strength
		}
	}
	return total
}

func matchesContext(filled, buf []bytegraph.NodeID) bool {
	limit := len(buf) - len(filled)
	for pos := 0; pos <= limit; pos++ {
		ok := true
		for i, id := range filled {
			if buf[pos+i] != id {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func isRecentRepeat(output []byte, b byte) bool {
	start := len(output) - recentRepeatSpan
	if start < 0 {
		start = 0
	}
	for _, o := range output[start:] {
		if o == b {
			return true
		}
	}
	return false
}

// historyPenalty scales a candidate's score down proportional to how often
// it has appeared in the recent output window — never to exactly zero, so
// a genuinely repeating-but-correct byte (e.g. a doubled letter) can still
// be chosen when nothing else scores higher.
func historyPenalty(output []byte, b byte) float64 {
	window := output
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}
	if len(window) == 0 {
		return 1.0
	}
	count := 0
	for _, o := range window {
		if o == b {
			count++
		}
	}
	freq := float64(count) / float64(len(window))
	return 1.0 / (1.0 + 3.0*freq)
}
