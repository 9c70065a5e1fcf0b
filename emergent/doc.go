// Package emergent computes the process-wide EmergentState: averages,
// pressures, and confidences recomputed from a graph+registry census at
// every propagation step and episode boundary. Every quantity here is a
// ratio over current system state — there are no hard-coded pruning limits
// or learning rates; competing pressures constrain each other into
// equilibrium, a circular self-regulation property.
//
// Averages are computed with gonum.org/v1/gonum/stat rather than hand-
// rolled accumulation.
package emergent
