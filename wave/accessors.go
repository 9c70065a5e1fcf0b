// File: accessors.go
// Role: inspection accessors — a real package surface, not test-only
// shims, exposing the episode's learned state as exported Graph methods.
package wave

import "github.com/bytewave/bytewave/bytegraph"

// PatternInfo is a snapshot of one pattern's learned state, returned by
// Graph.PatternInfo.
type PatternInfo struct {
	ID                  int
	Sequence            []bytegraph.NodeID
	Strength            float64
	PredictionAttempts  uint64
	PredictionSuccesses uint64
	ChainDepth          int
	HasParent           bool
	ParentID            int
	AccumulatedMeaning  float64
}

// PatternCount returns the number of live (non-dead, non-pruned) patterns.
func (gr *Graph) PatternCount() int {
	return gr.reg.Count()
}

// ErrorRate returns the current exponential-moving-average mismatch rate.
func (gr *Graph) ErrorRate() float64 {
	return gr.st.ErrorRate
}

// PatternInfo returns a snapshot of the pattern with the given ID, and
// false if no live pattern has that ID.
func (gr *Graph) PatternInfo(id int) (PatternInfo, bool) {
	p := gr.reg.Get(id)
	if p == nil || p.Dead {
		return PatternInfo{}, false
	}
	return PatternInfo{
		ID:                  p.ID,
		Sequence:            p.Sequence,
		Strength:            p.Strength,
		PredictionAttempts:  p.PredictionAttempts,
		PredictionSuccesses: p.PredictionSuccesses,
		ChainDepth:          p.ChainDepth,
		HasParent:           p.HasParent,
		ParentID:            p.ParentID,
		AccumulatedMeaning:  p.AccumulatedMeaning,
	}, true
}

// PatternPredictions returns the predicted-node list and parallel weight
// list for the pattern with the given ID, and false if no live pattern has
// that ID.
func (gr *Graph) PatternPredictions(id int) ([]bytegraph.NodeID, []float64, bool) {
	p := gr.reg.Get(id)
	if p == nil || p.Dead {
		return nil, nil, false
	}
	return p.PredictedNodes, p.PredictionWeights, true
}

// EdgeWeight returns the src->dst edge weight, or 0 if no such edge exists.
func (gr *Graph) EdgeWeight(src, dst byte) float64 {
	e, ok := gr.g.Outgoing(bytegraph.NodeID(src)).Get(bytegraph.NodeID(dst))
	if !ok || !e.Active {
		return 0
	}
	return e.Weight
}

// EdgeUseCount returns the src->dst edge's lifetime use count, or 0 if no
// such edge exists.
func (gr *Graph) EdgeUseCount(src, dst byte) uint64 {
	e, ok := gr.g.Outgoing(bytegraph.NodeID(src)).Get(bytegraph.NodeID(dst))
	if !ok {
		return 0
	}
	return e.UseCount
}

// EdgeSuccessCount returns the src->dst edge's lifetime success count, or 0
// if no such edge exists.
func (gr *Graph) EdgeSuccessCount(src, dst byte) uint64 {
	e, ok := gr.g.Outgoing(bytegraph.NodeID(src)).Get(bytegraph.NodeID(dst))
	if !ok {
		return 0
	}
	return e.SuccessCount
}

// NodeActivation returns the current transient activation of the node for
// byte id.
func (gr *Graph) NodeActivation(id byte) float64 {
	return gr.g.Nodes[id].Activation
}
