// Package feedback implements the FeedbackApplier: the supervised-step
// weight update that strengthens correct edges/predictions, weakens wrong
// ones, and mints input->target predictions.
package feedback
