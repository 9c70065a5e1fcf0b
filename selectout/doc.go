// Package selectout implements the OutputSelector: one call to Select
// picks the next output byte (or nothing) from current node activations,
// scored by logical relevance, loop/history suppression, and emitted once
// per propagation step.
package selectout
