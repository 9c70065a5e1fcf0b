// Package waveerr defines the sentinel error taxonomy shared by every
// bytewave package: MalformedInput, CapacityExhausted, BrainIoError, and
// BrainFormatError. All other internal conditions (missing edges, division
// by zero, empty outputs, zero patterns, unreachable targets) are normal
// operating conditions and are never surfaced as errors.
package waveerr

import "errors"

// Sentinel errors for the bytewave core. Callers should branch with
// errors.Is against these, not string comparison.
var (
	// ErrMalformedInput indicates an input or target byte sequence exceeded
	// the sanity cap. The call fails and the graph is left unchanged.
	ErrMalformedInput = errors.New("bytewave: malformed input")

	// ErrCapacityExhausted indicates a capacity-doubling allocation failed.
	// The graph is surfaced to the caller in a valid, possibly smaller state.
	ErrCapacityExhausted = errors.New("bytewave: capacity exhausted")

	// ErrBrainIO indicates a save/load file error.
	ErrBrainIO = errors.New("bytewave: brain file io error")

	// ErrBrainFormat indicates a brain file line that starts with a known
	// record keyword but whose fields this version cannot parse. Lines with
	// an unknown keyword are skipped, not reported.
	ErrBrainFormat = errors.New("bytewave: brain file format error")
)

// MaxByteLen is the sanity cap on input/target length.
const MaxByteLen = 1 << 20
