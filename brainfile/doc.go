// Package brainfile implements the BrainSerializer: a line-oriented, mostly
// ASCII text format ("<brain>.m") that captures the whole of a bytegraph.Graph,
// pattern.Registry, and emergent.State.
//
// Records are independent and order-insensitive except that a pattern must
// be written (and read) before any pred/pedge record naming it, and pattern
// records must appear in ascending ID order; the writer guarantees both by
// emitting node/edge/pattern/pred/pedge/state in that fixed order, patterns
// by ID. The format is forward-compatible: a line whose leading keyword is
// not a known record type is always skipped with a logged warning. A line
// with a known keyword whose fields do not parse is either rejected or ends
// a partial load, depending on LoadOptions.
package brainfile
