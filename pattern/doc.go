// Package pattern implements the pattern registry: a dynamic array of
// Patterns, each with its own pattern->pattern EdgeList, a predicted-node
// list, and parent/child hierarchy links through a BLANK-wildcard
// generalization.
//
// Utility law (the self-tuning rule at the heart of this package): once a
// pattern has more than 10 prediction attempts, its strength tracks its
// observed utility (successes/attempts) directly; below that, strength
// stays at a neutral prior rather than the mint-time compression estimate,
// so young patterns don't dominate propagation before they have evidence.
//
// Patterns are never deleted from the backing array; pruning sets Dead and
// excludes the pattern from matching/propagation. A dead pattern keeps its
// slot: minting always appends, so dead slots are not reused.
package pattern
