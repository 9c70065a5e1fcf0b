package bytegraph

// NodeID identifies a node. Values 0..255 are real byte values; Blank is a
// sentinel used only inside patterns (package pattern), never as an actual
// node in a Graph. Code that walks a pattern's sequence must branch on
// id == Blank explicitly — Blank is never treated as a byte.
type NodeID uint16

// NodeCount is the fixed population of byte-value nodes.
const NodeCount = 256

// Blank is the wildcard sentinel, one past the byte value space.
const Blank NodeID = 256

// Node is one of the 256 fixed byte nodes.
type Node struct {
	// Exists latches true the first time this byte is injected or targeted.
	Exists bool

	// Activation is transient excitation, reset/decayed every episode.
	Activation float64

	// Threshold is adaptive, normalized to a running average by emergent.
	Threshold float64

	// Energy drains when the node fires and recovers when idle.
	Energy float64

	// ReceiveCount is a lifetime counter of activation transfers received.
	ReceiveCount uint64
}

// newNode returns a Node with sane transient defaults. Threshold and Energy
// start at neutral values so early propagation doesn't degenerate to zero.
func newNode() Node {
	return Node{
		Threshold: 0.5,
		Energy:    1.0,
	}
}
