// File: writer.go
// Role: Save/Write — emit every record for a Graph+Registry+State.
package brainfile

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/bytewave/bytewave/bytegraph"
	"github.com/bytewave/bytewave/emergent"
	"github.com/bytewave/bytewave/pattern"
	"github.com/bytewave/bytewave/waveerr"
)

// Save writes the full brain state to path, creating or truncating it.
func Save(path string, g *bytegraph.Graph, reg *pattern.Registry, st *emergent.State) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("brainfile: save %s: %w", path, waveerr.ErrBrainIO)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := Write(w, g, reg, st); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("brainfile: save %s: %w", path, waveerr.ErrBrainIO)
	}
	return nil
}

// Write emits node, edge, pattern, pred, pedge, then a single state record,
// in that fixed order — the order the reader relies on for forward
// references (a pattern's "parent:" field may name a pattern written
// earlier or later, but pred/pedge always follow every pattern line).
func Write(w io.Writer, g *bytegraph.Graph, reg *pattern.Registry, st *emergent.State) error {
	if err := writeNodes(w, g); err != nil {
		return err
	}
	if err := writeEdges(w, g); err != nil {
		return err
	}
	live := reg.Live()
	if err := writePatterns(w, live); err != nil {
		return err
	}
	if err := writePredictions(w, live); err != nil {
		return err
	}
	if err := writePatternEdges(w, live); err != nil {
		return err
	}
	return writeState(w, st)
}

func writeNodes(w io.Writer, g *bytegraph.Graph) error {
	for id := 0; id < bytegraph.NodeCount; id++ {
		n := g.Nodes[id]
		if _, err := fmt.Fprintf(w, "node %d exists:%t energy:%s threshold:%s\n",
			id, n.Exists, formatFloat(n.Energy), formatFloat(n.Threshold)); err != nil {
			return fmt.Errorf("brainfile: write node %d: %w", id, waveerr.ErrBrainIO)
		}
	}
	return nil
}

func writeEdges(w io.Writer, g *bytegraph.Graph) error {
	for src := 0; src < bytegraph.NodeCount; src++ {
		for _, e := range g.Outgoing(bytegraph.NodeID(src)).Edges() {
			if _, err := fmt.Fprintf(w, "edge %d -> %d weight:%s use:%d success:%d\n",
				src, e.To, formatFloat(e.Weight), e.UseCount, e.SuccessCount); err != nil {
				return fmt.Errorf("brainfile: write edge %d->%d: %w", src, e.To, waveerr.ErrBrainIO)
			}
		}
	}
	return nil
}

func writePatterns(w io.Writer, live []*pattern.Pattern) error {
	for _, p := range live {
		parent := "-"
		if p.HasParent {
			parent = fmt.Sprintf("%d", p.ParentID)
		}
		if _, err := fmt.Fprintf(w, "pattern %d seq:%s strength:%s attempts:%d successes:%d depth:%d parent:%s meaning:%s\n",
			p.ID, encodeSequence(p.Sequence), formatFloat(p.Strength), p.PredictionAttempts,
			p.PredictionSuccesses, p.ChainDepth, parent, formatFloat(p.AccumulatedMeaning)); err != nil {
			return fmt.Errorf("brainfile: write pattern %d: %w", p.ID, waveerr.ErrBrainIO)
		}
	}
	return nil
}

func writePredictions(w io.Writer, live []*pattern.Pattern) error {
	for _, p := range live {
		for i, predID := range p.PredictedNodes {
			weight := 0.0
			if i < len(p.PredictionWeights) {
				weight = p.PredictionWeights[i]
			}
			if _, err := fmt.Fprintf(w, "pred %d -> %s weight:%s\n",
				p.ID, encodeNodeID(predID), formatFloat(weight)); err != nil {
				return fmt.Errorf("brainfile: write pred %d: %w", p.ID, waveerr.ErrBrainIO)
			}
		}
	}
	return nil
}

func writePatternEdges(w io.Writer, live []*pattern.Pattern) error {
	for _, p := range live {
		for _, e := range p.OutgoingPatterns.Edges() {
			if _, err := fmt.Fprintf(w, "pedge %d -> %d weight:%s use:%d success:%d\n",
				p.ID, e.To, formatFloat(e.Weight), e.UseCount, e.SuccessCount); err != nil {
				return fmt.Errorf("brainfile: write pedge %d->%d: %w", p.ID, e.To, waveerr.ErrBrainIO)
			}
		}
	}
	return nil
}

func writeState(w io.Writer, st *emergent.State) error {
	if _, err := fmt.Fprintf(w, "state error:%s step:%d\n", formatFloat(st.ErrorRate), st.Step); err != nil {
		return fmt.Errorf("brainfile: write state: %w", waveerr.ErrBrainIO)
	}
	return nil
}
