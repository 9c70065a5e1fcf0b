// Package bytewave is a byte-level associative memory: it learns
// recurring input/output correspondences and reproduces them, one byte
// at a time, driven by nothing but repeated exposure and feedback.
//
// What is bytewave?
//
//	A fixed 256-node graph over byte values, plus a growing registry of
//	recurring subsequence patterns layered on top of it. Every supervised
//	episode nudges edge weights and pattern strengths toward whatever
//	just worked, and away from whatever didn't; every inference episode
//	propagates activation through both layers and reads a prediction back
//	out one byte at a time.
//
// Everything is organized under subpackages:
//
//	bytegraph/  — the fixed byte-node population and its weighted edges
//	pattern/    — recurring subsequences, BLANK generalization, hierarchy
//	emergent/   — the process-wide averages and pressures every other
//	              package reads back out, recomputed every step
//	detect/     — mines new patterns and pattern->pattern edges from a
//	              finished supervised episode
//	propagate/  — the three-pass activation cycle run once per step
//	selectout/  — turns current activation into the next output byte
//	feedback/   — the supervised weight update
//	brainfile/  — saves and restores the whole of the above to a single
//	              text file
//	wave/       — the orchestrator: owns one episode's state and exposes
//	              the library surface (Create, RunEpisode, GetOutput,
//	              SaveBrain, LoadBrain) plus inspection accessors
//	waveerr/    — the shared sentinel error taxonomy
package bytewave
