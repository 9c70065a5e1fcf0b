// File: feedback.go
// Role: Apply — the five-step supervised update.
package feedback

import (
	"github.com/bytewave/bytewave/bytegraph"
	"github.com/bytewave/bytewave/emergent"
	"github.com/bytewave/bytewave/pattern"
)

// Apply compares output to target position by position (length = min of
// the two), strengthens edges/predictions behind correct positions,
// weakens those behind wrong ones, and mints pattern->target predictions
// for every pattern that matched the input.
func Apply(g *bytegraph.Graph, reg *pattern.Registry, st *emergent.State, input, output, target []byte) {
	n := len(output)
	if len(target) < n {
		n = len(target)
	}

	for _, b := range target {
		g.Nodes[b].Exists = true
	}

	for i := 0; i < n; i++ {
		prev, hasPrev := prevNode(i, output, input)
		tgt := bytegraph.NodeID(target[i])
		correct := output[i] == target[i]

		if hasPrev {
			if correct {
				g.Strengthen(prev, tgt, 1.0, st.LearningRate, true)
			} else {
				// weaken the edge that carried activation to the wrongly
				// emitted byte, if prev has an active one.
				wrong := bytegraph.NodeID(output[i])
				if e, ok := g.Outgoing(prev).Get(wrong); ok && e.Active {
					g.Weaken(prev, wrong, st.LearningRate)
				}
				_, existed := g.Outgoing(prev).Get(tgt)
				if !existed {
					// mint the prev->target edge directly at a weight
					// proportional to learning_pressure. SetEdgeWeight
					// renormalizes afterward, so the rest of prev's
					// outgoing list still sums to 1.
					weight := st.LearningPressure
					if weight < 1e-9 {
						weight = 1e-9
					}
					g.SetEdgeWeight(prev, tgt, weight)
				} else {
					g.Strengthen(prev, tgt, 1.0, st.LearningRate, false)
				}
			}
		}

		for _, p := range reg.Live() {
			predictsTarget(p, tgt, correct)
		}
	}

	mintInputToTargetPredictions(reg, input, target)
	reg.RecomputeUtilities()
}

// prevNode returns the node emitted immediately before output position i:
// output[i-1] if i>0, else the last input byte if input is non-empty.
// Position 0 with empty input has no predecessor.
func prevNode(i int, output, input []byte) (bytegraph.NodeID, bool) {
	if i > 0 {
		return bytegraph.NodeID(output[i-1]), true
	}
	if len(input) > 0 {
		return bytegraph.NodeID(input[len(input)-1]), true
	}
	return 0, false
}

// predictsTarget increments a pattern's attempts (and, on a correct
// position, its successes) when the pattern's predicted-node list names
// the target byte — this is the "predicted-node weight" update.
func predictsTarget(p *pattern.Pattern, tgt bytegraph.NodeID, correct bool) {
	for i, predID := range p.PredictedNodes {
		if predID != tgt {
			continue
		}
		p.PredictionAttempts++
		if correct {
			p.PredictionSuccesses++
			if i < len(p.PredictionWeights) {
				p.PredictionWeights[i] = minFloat(1.0, p.PredictionWeights[i]*1.1)
			}
		}
	}
}

// mintInputToTargetPredictions appends the target sequence to the
// predicted-node list (at full, undampened confidence) of every pattern
// that matched anywhere in the input.
func mintInputToTargetPredictions(reg *pattern.Registry, input, target []byte) {
	if len(target) == 0 {
		return
	}
	inBuf := make([]bytegraph.NodeID, len(input))
	for i, b := range input {
		inBuf[i] = bytegraph.NodeID(b)
	}

	for _, p := range reg.Live() {
		matched := false
		for pos := 0; pos+p.Len() <= len(inBuf); pos++ {
			if p.MatchAt(inBuf, pos) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, tb := range target {
			tgt := bytegraph.NodeID(tb)
			if hasPrediction(p, tgt) {
				continue
			}
			p.PredictedNodes = append(p.PredictedNodes, tgt)
			p.PredictionWeights = append(p.PredictionWeights, 1.0)
		}
	}
}

func hasPrediction(p *pattern.Pattern, tgt bytegraph.NodeID) bool {
	for _, id := range p.PredictedNodes {
		if id == tgt {
			return true
		}
	}
	return false
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
