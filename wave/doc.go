// Package wave is the top-level orchestrator: it owns one Graph per
// episode lifecycle and wires bytegraph, pattern, emergent, detect,
// propagate, selectout, and feedback into the control flow described in
// the control flow: clear output, inject input, step the propagator and
// emit one byte per step, then (on a supervised episode) detect patterns,
// apply feedback, and prune.
//
// This package is the library surface external collaborators use:
// Create, Destroy, RunEpisode, GetOutput, SaveBrain, LoadBrain, plus the
// inspection accessors tests and embedders read.
package wave
