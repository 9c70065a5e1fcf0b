// Package detect implements the PatternDetector: the supervised-step scan
// that mints new patterns from recurring subsequences, detects BLANK
// generalizations, speculatively tries active generalizations, and learns
// pattern->pattern sequence edges.
//
// Detect runs only after a supervised episode (target provided); inference
// episodes never mint or reshape patterns.
package detect
