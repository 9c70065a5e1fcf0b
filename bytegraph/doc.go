// Package bytegraph implements the fixed 256-node byte graph: one Node per
// byte value 0..255, a directed, weight-normalized outgoing EdgeList per
// node, input injection with a fixed "spark" activation, and metabolic
// pruning of weak edges.
//
// Nodes are never destroyed once touched (Node.Exists latches true on first
// injection or first appearance in a feedback target); the 256-element
// backing array is permanent for the lifetime of a Graph. Edge weights
// within one node's outgoing EdgeList are proportions: EdgeBetween,
// Strengthen, and Weaken all renormalize the full list so it sums to 1
// afterward.
//
// This package carries no synchronization: a Graph is owned by exactly one
// episode at a time (see the module's concurrency model); embedding code
// that shares a Graph across goroutines must serialize calls itself.
package bytegraph
