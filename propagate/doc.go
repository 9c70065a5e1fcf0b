// Package propagate implements the WavePropagator: one call to Step runs
// Pass A (pattern activation and prediction transfer), Pass B (edge
// activation flow weighted by a four-factor path quality), and Pass C
// (decay), in that order.
//
// None of the path-quality factors are ever allowed to default to zero —
// every factor with an undefined input (use_count==0, no pattern support,
// nothing in the input buffer) falls back to a neutral value in
// [0.3, 0.8], because the factors combine multiplicatively and a
// single zero would silently kill an entire path.
package propagate
