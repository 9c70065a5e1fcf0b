// File: graph.go
// Role: Graph — the library-facing episode owner.
package wave

import (
	"github.com/bytewave/bytewave/brainfile"
	"github.com/bytewave/bytewave/bytegraph"
	"github.com/bytewave/bytewave/detect"
	"github.com/bytewave/bytewave/emergent"
	"github.com/bytewave/bytewave/feedback"
	"github.com/bytewave/bytewave/pattern"
	"github.com/bytewave/bytewave/propagate"
	"github.com/bytewave/bytewave/selectout"
	"github.com/bytewave/bytewave/waveerr"
)

// Graph owns one episode's worth of core state: the byte-node graph, the
// pattern registry, and the emergent state, plus the most recent output
// buffer. It is not safe for concurrent use; an embedder serializes
// calls itself.
type Graph struct {
	g      *bytegraph.Graph
	reg    *pattern.Registry
	st     *emergent.State
	output []byte
}

// Create returns a fresh Graph with an empty population, registry, and
// emergent state, mirroring the library API's create().
func Create() *Graph {
	return &Graph{
		g:   bytegraph.NewGraph(),
		reg: pattern.NewRegistry(),
		st:  emergent.New(),
	}
}

// Destroy releases gr's reference to its core state. Go's garbage
// collector reclaims the memory; Destroy exists only so embedders written
// against the create/destroy/run_episode/... library shape have a call
// site to match against, and so a destroyed Graph's other
// methods fail fast rather than silently operating on stale state.
func Destroy(gr *Graph) {
	gr.g = nil
	gr.reg = nil
	gr.st = nil
	gr.output = nil
}

// RunEpisode executes one full episode: clear output, inject input,
// step the propagator (propagate + emit) up to the step budget, then —
// only when target is non-nil — detect patterns, apply feedback, and
// prune. target == nil means an inference-only episode: no minting, no
// feedback, no pruning.
func (gr *Graph) RunEpisode(input, target []byte) error {
	if len(input) > waveerr.MaxByteLen || len(target) > waveerr.MaxByteLen {
		return waveerr.ErrMalformedInput
	}

	gr.g.Reset()
	gr.output = gr.output[:0]

	if err := gr.g.Inject(input, 0); err != nil {
		return err
	}

	steps := propagate.StepBudget(len(input))
	maxOut := selectout.MaxOutput(len(input))

	for i := 0; i < steps; i++ {
		propagate.Step(gr.g, gr.reg, gr.st, toNodeIDs(gr.output))

		b, ok := selectout.Select(gr.g, gr.reg, gr.st, gr.output)
		if ok {
			gr.output = append(gr.output, b)
			gr.g.RecordEmission(bytegraph.NodeID(b))
		}

		// Emergent state recomputes at the end of every propagation step,
		// not only at episode boundaries — propagation itself reads
		// PatternConfidence and the activation ceiling back out of it on
		// the very next step.
		gr.st.Recompute(gr.g, gr.reg)

		if !ok || len(gr.output) >= maxOut {
			break
		}
	}

	if target != nil {
		detect.Detect(gr.g, gr.reg, gr.st, input, gr.output, target)
		feedback.Apply(gr.g, gr.reg, gr.st, input, gr.output, target)
		gr.st.UpdateErrorRate(mismatchRate(gr.output, target))
		gr.st.UpdateOutputStats(gr.output)
		gr.st.Recompute(gr.g, gr.reg)
		gr.reg.Prune()
		gr.g.PruneAll()
	} else {
		gr.st.UpdateOutputStats(gr.output)
		gr.st.Recompute(gr.g, gr.reg)
	}

	return nil
}

// GetOutput returns the most recent episode's output buffer. The slice is
// only valid until the next RunEpisode call.
func (gr *Graph) GetOutput() []byte {
	return gr.output
}

// SaveBrain writes gr's full state to path in the .m text format.
func (gr *Graph) SaveBrain(path string) error {
	return brainfile.Save(path, gr.g, gr.reg, gr.st)
}

// LoadBrain reads path and returns a new Graph with that state. opts may be
// nil to use the strict default (brainfile.DefaultLoadOptions).
func LoadBrain(path string, opts *brainfile.LoadOptions) (*Graph, error) {
	g, reg, st, err := brainfile.Load(path, opts)
	if err != nil {
		return nil, err
	}
	return &Graph{g: g, reg: reg, st: st}, nil
}

func mismatchRate(output, target []byte) float64 {
	n := len(output)
	if len(target) < n {
		n = len(target)
	}
	if n == 0 {
		return 1.0
	}
	matches := 0
	for i := 0; i < n; i++ {
		if output[i] == target[i] {
			matches++
		}
	}
	return 1.0 - float64(matches)/float64(n)
}

func toNodeIDs(buf []byte) []bytegraph.NodeID {
	out := make([]bytegraph.NodeID, len(buf))
	for i, b := range buf {
		out[i] = bytegraph.NodeID(b)
	}
	return out
}
