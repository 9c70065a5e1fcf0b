// File: graph.go
// Role: Graph — the fixed 256-node population, its outgoing/incoming
// adjacency, input injection, and the edge lifecycle operations
// (EdgeBetween/Strengthen/Prune).
package bytegraph

import "github.com/bytewave/bytewave/waveerr"

// InputSparkFraction and IntelligentPathBoost are the two structural
// numeric constants inherited from the reference design: "input is a
// trigger, not the answer" and "patterns outrank raw edges." They are
// parameterized once here, never re-derived per call.
const (
	InputSparkFraction  = 0.2
	IntelligentPathBoost = 3.0

	// DefaultActivationCeiling seeds Graph.ActivationCeiling before any
	// emergent-state recompute has run. It is overwritten by
	// emergent's State.Recompute (ceiling = 100 x avg_activation, never
	// below this default) on the first propagation step.
	DefaultActivationCeiling = 100.0
)

// Graph is the fixed byte-node population plus adjacency. It is owned by
// exactly one episode at a time; no internal locking is provided (see
// package doc).
type Graph struct {
	Nodes    [NodeCount]Node
	outgoing [NodeCount]*EdgeList
	incoming [NodeCount]map[NodeID]struct{}

	// InputBuffer holds the most recent injected input, for pattern
	// matching and context-fit scoring during the episode.
	InputBuffer []NodeID

	// ActivationCeiling is the hard per-node cap, recomputed by the
	// emergent package every propagation step as 100x avg_activation.
	ActivationCeiling float64

	// LastEmitted is the last byte written to the output buffer this
	// episode; hasLastEmitted is false while none has been written yet.
	LastEmitted    NodeID
	hasLastEmitted bool
}

// NewGraph returns an empty Graph with all 256 nodes pre-allocated (but
// Exists=false) and empty outgoing/incoming adjacency.
func NewGraph() *Graph {
	g := &Graph{ActivationCeiling: DefaultActivationCeiling}
	for i := range g.Nodes {
		g.Nodes[i] = newNode()
		g.outgoing[i] = newEdgeList()
		g.incoming[i] = make(map[NodeID]struct{})
	}
	return g
}

// Reset clears per-episode transient state (activation, output tracking,
// input buffer) without touching learned edges/patterns. Called at the
// start of every episode.
func (g *Graph) Reset() {
	for i := range g.Nodes {
		g.Nodes[i].Activation = 0
	}
	g.InputBuffer = g.InputBuffer[:0]
	g.hasLastEmitted = false
}

// Inject adds a fixed "spark" activation to each byte of input, latches
// Node.Exists, and appends the bytes to the input buffer for reference
// during the episode. port is unused by the core (reserved for embedders
// that track multiple logical input channels) and kept only for call-site
// symmetry with the conceptual inject(bytes, port) operation.
func (g *Graph) Inject(input []byte, port int) error {
	if len(input) > waveerr.MaxByteLen {
		return waveerr.ErrMalformedInput
	}
	spark := InputSparkFraction * g.ActivationCeiling
	for _, b := range input {
		id := NodeID(b)
		g.Nodes[id].Exists = true
		g.Nodes[id].Activation += spark
		if g.Nodes[id].Activation > g.ActivationCeiling {
			g.Nodes[id].Activation = g.ActivationCeiling
		}
		g.InputBuffer = append(g.InputBuffer, id)
	}
	return nil
}

// Outgoing returns the outgoing EdgeList for a node.
func (g *Graph) Outgoing(src NodeID) *EdgeList { return g.outgoing[src] }

// HasIncoming reports whether src has an edge into dst.
func (g *Graph) HasIncoming(dst, src NodeID) bool {
	_, ok := g.incoming[dst][src]
	return ok
}

// EdgeBetween obtains or creates the edge src->dst, rejecting self-loops.
// A newly created edge starts at weight 1/(outgoing_count+1), and the rest
// of src's outgoing list is renormalized to keep the proportion invariant.
func (g *Graph) EdgeBetween(src, dst NodeID) (*Edge, bool) {
	if src == dst {
		return nil, false
	}
	e := g.outgoing[src].getOrCreate(dst)
	g.incoming[dst][src] = struct{}{}
	return e, true
}

// Strengthen multiplies the src->dst edge's weight by (1+factor*
// learningRate), renormalizes src's outgoing list, and records success.
// Self-loops are refused (no-op) per the data-model invariant.
func (g *Graph) Strengthen(src, dst NodeID, factor, learningRate float64, success bool) {
	if src == dst {
		return
	}
	g.outgoing[src].strengthen(dst, factor, learningRate, success)
	g.incoming[dst][src] = struct{}{}
}

// Weaken multiplies the src->dst edge's weight by (1-learningRate*0.5),
// floored at epsilon, and renormalizes.
func (g *Graph) Weaken(src, dst NodeID, learningRate float64) {
	if src == dst {
		return
	}
	g.outgoing[src].weaken(dst, learningRate)
	g.incoming[dst][src] = struct{}{}
}

// SetEdgeWeight assigns the src->dst edge's weight directly, creating the
// edge if absent, then renormalizes src's outgoing list so it still sums
// to 1. Self-loops are refused (no-op) per the data-model invariant.
func (g *Graph) SetEdgeWeight(src, dst NodeID, weight float64) {
	if src == dst {
		return
	}
	g.outgoing[src].setWeight(dst, weight)
	g.incoming[dst][src] = struct{}{}
}

// Prune walks outgoing[src] and soft-deletes edges whose metabolic value
// falls below metabolicLoad*0.1, only when metabolicLoad > 0.5.
func (g *Graph) Prune(src NodeID) {
	g.outgoing[src].prune()
}

// PruneAll runs Prune over every node; called at episode end under
// metabolic pressure.
func (g *Graph) PruneAll() {
	for i := range g.outgoing {
		g.outgoing[i].prune()
	}
}

// RecordEmission appends an emitted byte to the graph's notion of "last
// emitted," used by feedback and output selection for sequence-coherence
// scoring. It does not itself append to any externally visible buffer;
// callers (selectout) own the actual output buffer.
func (g *Graph) RecordEmission(id NodeID) {
	g.LastEmitted = id
	g.hasLastEmitted = true
	g.Nodes[id].ReceiveCount++
}

// LastEmittedNode returns the last emitted byte and whether one exists yet.
func (g *Graph) LastEmittedNode() (NodeID, bool) {
	return g.LastEmitted, g.hasLastEmitted
}

// EdgeCount returns the total number of active edges across all nodes.
func (g *Graph) EdgeCount() int {
	n := 0
	for i := range g.outgoing {
		n += g.outgoing[i].Len()
	}
	return n
}

// LoadEdge restores a src->dst edge in exactly the given state, without
// renormalizing src's other edges. Used only by brainfile; callers must call
// FinalizeLoad once the whole saved graph has been restored.
func (g *Graph) LoadEdge(src, dst NodeID, weight float64, useCount, successCount uint64) {
	if src == dst {
		return
	}
	g.outgoing[src].LoadEdge(dst, weight, useCount, successCount)
	g.incoming[dst][src] = struct{}{}
}

// FinalizeLoad recomputes every node's outgoing-list totals after a batch of
// LoadEdge calls.
func (g *Graph) FinalizeLoad() {
	for i := range g.outgoing {
		g.outgoing[i].FinalizeLoad()
	}
}

// ExistingNodeCount returns how many of the 256 nodes have been touched.
func (g *Graph) ExistingNodeCount() int {
	n := 0
	for i := range g.Nodes {
		if g.Nodes[i].Exists {
			n++
		}
	}
	return n
}
