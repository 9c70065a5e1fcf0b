// File: state.go
// Role: State — the single process-wide EmergentState instance and its
// recompute pass.
package emergent

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/bytewave/bytewave/bytegraph"
	"github.com/bytewave/bytewave/pattern"
)

// outputWindow is how many trailing output bytes feed variance/loop
// detection.
const outputWindow = 20

// State holds every average, pressure, and confidence the rest of the
// core reads back out each step. It is one instance per Graph.
type State struct {
	AvgActivation      float64
	AvgEdgeWeight      float64
	AvgPatternStrength float64

	ErrorRate        float64
	LearningRate     float64
	LearningPressure float64

	EdgeDensity       float64
	PatternDensity    float64
	MetabolicPressure float64
	PatternConfidence float64

	OutputVariance      float64
	LoopPressure        float64
	ExplorationPressure float64

	Step uint64
}

// New returns a State with its resting defaults: learning_rate starts at
// its floor (0.01 + 0.2*0 error_rate).
func New() *State {
	return &State{LearningRate: 0.01}
}

// Recompute walks the graph and registry and refreshes every average,
// density, and confidence. It does not touch ErrorRate/LearningRate/
// LearningPressure (see UpdateErrorRate) or the output-derived pressures
// (see UpdateOutputStats) — those update on their own triggers.
func (s *State) Recompute(g *bytegraph.Graph, reg *pattern.Registry) {
	var activations []float64
	for i := range g.Nodes {
		if g.Nodes[i].Exists {
			activations = append(activations, g.Nodes[i].Activation)
		}
	}
	s.AvgActivation = meanOr(activations, 0.0)

	var weights []float64
	for i := 0; i < bytegraph.NodeCount; i++ {
		for _, e := range g.Outgoing(bytegraph.NodeID(i)).Edges() {
			weights = append(weights, e.Weight)
		}
	}
	s.AvgEdgeWeight = meanOr(weights, 1.0)

	var strengths []float64
	live := reg.Live()
	for _, p := range live {
		strengths = append(strengths, p.Strength)
	}
	s.AvgPatternStrength = meanOr(strengths, 0.5)

	s.EdgeDensity = float64(g.EdgeCount()) / (float64(bytegraph.NodeCount) * 10.0)
	s.PatternDensity = float64(reg.Count()) / 100.0
	s.MetabolicPressure = (s.EdgeDensity + s.PatternDensity) / 2.0

	var utilities []float64
	for _, p := range live {
		if p.PredictionAttempts == 0 {
			utilities = append(utilities, 0.5)
			continue
		}
		utilities = append(utilities, float64(p.PredictionSuccesses)/float64(p.PredictionAttempts))
	}
	s.PatternConfidence = meanOr(utilities, 0.5)

	// ceiling = 100x avg_activation, floored so it never collapses to zero
	// early in an episode when nothing has activation yet.
	ceiling := 100.0 * s.AvgActivation
	if ceiling < bytegraph.DefaultActivationCeiling {
		ceiling = bytegraph.DefaultActivationCeiling
	}
	g.ActivationCeiling = ceiling

	s.Step++
}

// UpdateErrorRate folds in the current episode's mismatch as an
// exponential moving average, and derives learning_rate/learning_pressure
// from it.
func (s *State) UpdateErrorRate(mismatch float64) {
	s.ErrorRate = 0.9*s.ErrorRate + 0.1*mismatch
	s.LearningRate = 0.01 + 0.2*s.ErrorRate
	s.LearningPressure = s.ErrorRate * s.ErrorRate
}

// UpdateOutputStats derives output_variance (the statistical variance of
// emitted byte values over the last 20 emitted bytes, normalized against
// the range actually observed), loop_pressure (repeating suffix of period
// 2-4), and exploration_pressure = variance*error_rate.
func (s *State) UpdateOutputStats(output []byte) {
	window := output
	if len(window) > outputWindow {
		window = window[len(window)-outputWindow:]
	}
	if len(window) < 2 {
		s.OutputVariance = 0
	} else {
		vals := make([]float64, len(window))
		for i, b := range window {
			vals[i] = float64(b)
		}
		spread := floats.Max(vals) - floats.Min(vals)
		if spread < 1 {
			spread = 1
		}
		// The most spread-out two-point distribution over [lo,hi] has
		// variance (spread/2)^2; normalizing against it keeps
		// output_variance in [0,1] regardless of the byte range in play.
		maxVariance := spread * spread / 4.0
		s.OutputVariance = stat.Variance(vals, nil) / maxVariance
		if s.OutputVariance > 1 {
			s.OutputVariance = 1
		}
	}

	s.LoopPressure = loopPressure(output)
	s.ExplorationPressure = s.OutputVariance * s.ErrorRate
}

// loopPressure detects a repeating suffix of period 2..4 and returns a
// pressure in [0,1] proportional to how many periods repeat.
func loopPressure(output []byte) float64 {
	best := 0.0
	for period := 2; period <= 4; period++ {
		reps := repeatCount(output, period)
		if reps < 2 {
			continue
		}
		// 2 reps -> 0.5, 3 -> 0.67, capping growth so it saturates near 1.
		p := float64(reps-1) / float64(reps)
		if p > best {
			best = p
		}
	}
	return best
}

// repeatCount returns how many consecutive periods of the given length
// repeat at the tail of output.
func repeatCount(output []byte, period int) int {
	n := len(output)
	if n < period*2 {
		return 0
	}
	reps := 1
	for k := 1; n-(k+1)*period >= 0; k++ {
		a := output[n-(k+1)*period : n-k*period]
		b := output[n-k*period : n-(k-1)*period]
		if string(a) != string(b) {
			break
		}
		reps++
	}
	return reps
}

// meanOr returns the gonum mean of xs, or the neutral default when xs is
// empty: such a quantity defaults to a neutral value, never 0.
func meanOr(xs []float64, neutral float64) float64 {
	if len(xs) == 0 {
		return neutral
	}
	return stat.Mean(xs, nil)
}
