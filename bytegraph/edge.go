// File: edge.go
// Role: Edge and EdgeList — a node's outgoing adjacency, weight-normalized
// to a proportion distribution after every mutation.
package bytegraph

import "math"

// epsilon guards every division that could otherwise hit zero.
const epsilon = 1e-9

// Edge is a directed connection from an owning node to NodeID "To".
type Edge struct {
	To           NodeID
	Weight       float64 // proportion within the owning EdgeList, sums to 1
	UseCount     uint64
	SuccessCount uint64
	Active       bool
}

// EdgeList is the outgoing adjacency of one node. Weights are kept as
// proportions: every mutation renormalizes the full list so weights sum to
// 1 (modulo floating error).
type EdgeList struct {
	edges         []*Edge
	byTo          map[NodeID]*Edge
	totalWeight   float64
	metabolicLoad float64 // density^2
}

func newEdgeList() *EdgeList {
	return &EdgeList{byTo: make(map[NodeID]*Edge)}
}

// Len returns the number of active edges.
func (el *EdgeList) Len() int {
	n := 0
	for _, e := range el.edges {
		if e.Active {
			n++
		}
	}
	return n
}

// Edges returns the active edges in insertion order.
func (el *EdgeList) Edges() []*Edge {
	out := make([]*Edge, 0, len(el.edges))
	for _, e := range el.edges {
		if e.Active {
			out = append(out, e)
		}
	}
	return out
}

// Get returns the edge to "to" if one exists (active or not).
func (el *EdgeList) Get(to NodeID) (*Edge, bool) {
	e, ok := el.byTo[to]
	return e, ok
}

// getOrCreate obtains the edge to "to", creating one with weight
// 1/(outgoing_count+1) if absent, then renormalizing the rest of the list.
// Self-loops (from == to) must be rejected by the caller before invoking
// this — EdgeList itself has no notion of "from".
func (el *EdgeList) getOrCreate(to NodeID) *Edge {
	if e, ok := el.byTo[to]; ok {
		if !e.Active {
			e.Active = true
		}
		return e
	}

	n := el.Len()
	e := &Edge{To: to, Weight: 1.0 / float64(n+1), Active: true}
	el.edges = append(el.edges, e)
	el.byTo[to] = e
	el.renormalize()
	el.recomputeLoad()

	return e
}

// strengthen multiplies the edge's weight by (1+factor*learningRate), then
// renormalizes. use is incremented always; success only when correct.
func (el *EdgeList) strengthen(to NodeID, factor, learningRate float64, success bool) {
	e := el.getOrCreate(to)
	e.Weight *= 1 + factor*learningRate
	e.UseCount++
	if success {
		e.SuccessCount++
	}
	el.renormalize()
}

// weaken multiplies the edge's weight by (1 - learningRate*0.5), floored at
// epsilon so recovery always remains possible, then renormalizes.
func (el *EdgeList) weaken(to NodeID, learningRate float64) {
	e := el.getOrCreate(to)
	e.Weight *= 1 - learningRate*0.5
	if e.Weight < epsilon {
		e.Weight = epsilon
	}
	e.UseCount++
	el.renormalize()
}

// setWeight assigns the edge's weight directly, bypassing the
// multiplicative strengthen/weaken factors, then renormalizes so the
// proportion invariant still holds. Used when a caller needs a fresh edge
// to start at a specific absolute weight rather than the default
// 1/(outgoing_count+1).
func (el *EdgeList) setWeight(to NodeID, weight float64) {
	e := el.getOrCreate(to)
	e.Weight = weight
	e.UseCount++
	el.renormalize()
}

// renormalize rescales all active weights to sum to 1. A list with no
// active edges, or a degenerate all-zero list, is left untouched (nothing
// to normalize against) except that the cached totalWeight is updated.
func (el *EdgeList) renormalize() {
	sum := 0.0
	for _, e := range el.edges {
		if e.Active {
			sum += e.Weight
		}
	}
	if sum < epsilon {
		el.totalWeight = 0
		return
	}
	for _, e := range el.edges {
		if e.Active {
			e.Weight /= sum
		}
	}
	el.totalWeight = 1.0
}

// LoadEdge appends an edge in exactly the given state, without renormalizing
// the rest of the list. Used only by brainfile when restoring a save that
// was already normalized at write time; callers must call FinalizeLoad once
// every edge for this list has been appended.
func (el *EdgeList) LoadEdge(to NodeID, weight float64, useCount, successCount uint64) {
	e := &Edge{To: to, Weight: weight, UseCount: useCount, SuccessCount: successCount, Active: true}
	el.edges = append(el.edges, e)
	el.byTo[to] = e
}

// FinalizeLoad recomputes totalWeight and metabolicLoad after a batch of
// LoadEdge calls.
func (el *EdgeList) FinalizeLoad() {
	sum := 0.0
	for _, e := range el.edges {
		if e.Active {
			sum += e.Weight
		}
	}
	el.totalWeight = sum
	el.recomputeLoad()
}

// recomputeLoad sets metabolicLoad = density^2, density = active/NodeCount.
func (el *EdgeList) recomputeLoad() {
	density := float64(el.Len()) / float64(NodeCount)
	el.metabolicLoad = density * density
}

// MetabolicLoad returns the cached density^2 figure.
func (el *EdgeList) MetabolicLoad() float64 { return el.metabolicLoad }

// prune soft-deletes edges whose metabolic value falls below
// metabolicLoad*0.1. Only runs when metabolicLoad > 0.5.
func (el *EdgeList) prune() {
	if el.metabolicLoad <= 0.5 {
		return
	}
	floor := el.metabolicLoad * 0.1
	for _, e := range el.edges {
		if !e.Active {
			continue
		}
		cost := 1.0 - e.Weight // metabolic cost proxy: scarcity of weight share
		value := e.Weight / (cost + epsilon)
		if value < floor {
			e.Active = false
		}
	}
	el.renormalize()
	el.recomputeLoad()
}

// SuccessRate returns success_count/use_count for an edge, or the neutral
// default 0.5 when use_count is zero; it never falls back to 0.
func (e *Edge) SuccessRate() float64 {
	if e.UseCount == 0 {
		return 0.5
	}
	return math.Min(1.0, float64(e.SuccessCount)/float64(e.UseCount))
}
