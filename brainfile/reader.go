// File: reader.go
// Role: Load/Read — the forward-compatible parser for the .m format.
package brainfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/bytewave/bytewave/bytegraph"
	"github.com/bytewave/bytewave/emergent"
	"github.com/bytewave/bytewave/pattern"
	"github.com/bytewave/bytewave/waveerr"
)

// LoadOptions controls how Load/Read react to a line they cannot parse.
type LoadOptions struct {
	// StrictMode, when true (the default if nil options are passed), makes
	// a malformed recognized-prefix line abort the load and surface
	// waveerr.ErrBrainFormat. When false, the caller has opted in to a
	// partial load: parsing stops at the bad line, a warning is logged, and
	// the state accumulated up to that point is returned with a nil error.
	StrictMode bool
}

// DefaultLoadOptions is strict: any malformed line aborts the load.
func DefaultLoadOptions() *LoadOptions { return &LoadOptions{StrictMode: true} }

// Load reads path and reconstructs a Graph, Registry, and State.
func Load(path string, opts *LoadOptions) (*bytegraph.Graph, *pattern.Registry, *emergent.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("brainfile: load %s: %w", path, waveerr.ErrBrainIO)
	}
	defer f.Close()
	return Read(f, opts)
}

// Read parses records from r. Lines whose leading keyword is not one of the
// six known record types are always skipped with a logged warning — that is
// the forward-compatibility path. Lines that DO start with a known keyword
// but fail to parse their fields are governed by opts.StrictMode.
func Read(r io.Reader, opts *LoadOptions) (*bytegraph.Graph, *pattern.Registry, *emergent.State, error) {
	if opts == nil {
		opts = DefaultLoadOptions()
	}

	g := bytegraph.NewGraph()
	reg := pattern.NewRegistry()
	st := emergent.New()

	maxParentID := -1
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := splitFields(line)
		if len(fields) == 0 {
			continue
		}

		var perr error
		switch fields[0] {
		case "node":
			perr = parseNode(g, fields)
		case "edge":
			perr = parseEdge(g, fields)
		case "pattern":
			perr = parsePattern(reg, fields, &maxParentID)
		case "pred":
			perr = parsePred(reg, fields)
		case "pedge":
			perr = parsePedge(reg, fields)
		case "state":
			perr = parseState(st, fields)
		default:
			logrus.WithField("line", lineNo).Warnf("brainfile: unknown line ignored: %q", fields[0])
			continue
		}

		if perr != nil {
			wrapped := fmt.Errorf("brainfile: line %d: %w: %v", lineNo, waveerr.ErrBrainFormat, perr)
			if opts.StrictMode {
				g.FinalizeLoad()
				return g, reg, st, wrapped
			}
			logrus.WithField("line", lineNo).WithError(perr).Warn("brainfile: malformed line, committing partial load")
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return g, reg, st, fmt.Errorf("brainfile: scan: %w", waveerr.ErrBrainIO)
	}

	if maxParentID+1 > reg.Count() {
		reg.PadTo(maxParentID + 1)
	}
	g.FinalizeLoad()
	return g, reg, st, nil
}

func parseNode(g *bytegraph.Graph, fields []string) error {
	if len(fields) != 5 {
		return fmt.Errorf("expected 5 fields, got %d", len(fields))
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil || id < 0 || id >= bytegraph.NodeCount {
		return fmt.Errorf("bad node id %q", fields[1])
	}
	for _, tok := range fields[2:] {
		key, val, ok := field(tok)
		if !ok {
			return fmt.Errorf("bad field %q", tok)
		}
		switch key {
		case "exists":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return err
			}
			g.Nodes[id].Exists = b
		case "energy":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return err
			}
			g.Nodes[id].Energy = f
		case "threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return err
			}
			g.Nodes[id].Threshold = f
		default:
			return fmt.Errorf("unknown node field %q", key)
		}
	}
	return nil
}

func parseEdge(g *bytegraph.Graph, fields []string) error {
	if len(fields) != 7 || fields[2] != "->" {
		return fmt.Errorf("malformed edge line")
	}
	src, err := strconv.Atoi(fields[1])
	if err != nil || src < 0 || src >= bytegraph.NodeCount {
		return fmt.Errorf("bad edge src %q", fields[1])
	}
	dst, err := strconv.Atoi(fields[3])
	if err != nil || dst < 0 || dst >= bytegraph.NodeCount {
		return fmt.Errorf("bad edge dst %q", fields[3])
	}
	var weight float64
	var use, success uint64
	for _, tok := range fields[4:] {
		key, val, ok := field(tok)
		if !ok {
			return fmt.Errorf("bad field %q", tok)
		}
		switch key {
		case "weight":
			weight, err = strconv.ParseFloat(val, 64)
		case "use":
			use, err = strconv.ParseUint(val, 10, 64)
		case "success":
			success, err = strconv.ParseUint(val, 10, 64)
		default:
			return fmt.Errorf("unknown edge field %q", key)
		}
		if err != nil {
			return err
		}
	}
	g.LoadEdge(bytegraph.NodeID(src), bytegraph.NodeID(dst), weight, use, success)
	return nil
}

func parsePattern(reg *pattern.Registry, fields []string, maxParentID *int) error {
	if len(fields) != 9 {
		return fmt.Errorf("expected 9 fields, got %d", len(fields))
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil || id < 0 {
		return fmt.Errorf("bad pattern id %q", fields[1])
	}

	var seq []bytegraph.NodeID
	var strength, meaning float64
	var attempts, successes uint64
	var depth int
	parentID := -1
	haveParent := false

	for _, tok := range fields[2:] {
		key, val, ok := field(tok)
		if !ok {
			return fmt.Errorf("bad field %q", tok)
		}
		switch key {
		case "seq":
			seq, err = decodeSequence(val)
		case "strength":
			strength, err = strconv.ParseFloat(val, 64)
		case "attempts":
			attempts, err = strconv.ParseUint(val, 10, 64)
		case "successes":
			successes, err = strconv.ParseUint(val, 10, 64)
		case "depth":
			depth, err = strconv.Atoi(val)
		case "parent":
			if val != "-" {
				parentID, err = strconv.Atoi(val)
				haveParent = true
			}
		case "meaning":
			meaning, err = strconv.ParseFloat(val, 64)
		default:
			return fmt.Errorf("unknown pattern field %q", key)
		}
		if err != nil {
			return err
		}
	}

	reg.LoadPattern(id, seq, strength, attempts, successes, depth, meaning)
	if haveParent {
		reg.LoadParent(id, parentID)
		if parentID > *maxParentID {
			*maxParentID = parentID
		}
	}
	return nil
}

func parsePred(reg *pattern.Registry, fields []string) error {
	if len(fields) != 5 || fields[2] != "->" {
		return fmt.Errorf("malformed pred line")
	}
	pid, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("bad pred pattern id %q", fields[1])
	}
	p := reg.Get(pid)
	if p == nil {
		return fmt.Errorf("pred references unknown pattern %d", pid)
	}
	node, err := decodeNodeID(fields[3])
	if err != nil {
		return err
	}
	key, val, ok := field(fields[4])
	if !ok || key != "weight" {
		return fmt.Errorf("bad field %q", fields[4])
	}
	weight, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return err
	}
	p.PredictedNodes = append(p.PredictedNodes, node)
	p.PredictionWeights = append(p.PredictionWeights, weight)
	return nil
}

func parsePedge(reg *pattern.Registry, fields []string) error {
	if len(fields) != 7 || fields[2] != "->" {
		return fmt.Errorf("malformed pedge line")
	}
	pid, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("bad pedge src pattern id %q", fields[1])
	}
	p := reg.Get(pid)
	if p == nil {
		return fmt.Errorf("pedge references unknown pattern %d", pid)
	}
	to, err := strconv.Atoi(fields[3])
	if err != nil {
		return fmt.Errorf("bad pedge dst pattern id %q", fields[3])
	}

	var weight float64
	var use, success uint64
	for _, tok := range fields[4:] {
		key, val, ok := field(tok)
		if !ok {
			return fmt.Errorf("bad field %q", tok)
		}
		switch key {
		case "weight":
			weight, err = strconv.ParseFloat(val, 64)
		case "use":
			use, err = strconv.ParseUint(val, 10, 64)
		case "success":
			success, err = strconv.ParseUint(val, 10, 64)
		default:
			return fmt.Errorf("unknown pedge field %q", key)
		}
		if err != nil {
			return err
		}
	}
	p.OutgoingPatterns.LoadEdge(to, weight, use, success)
	return nil
}

func parseState(st *emergent.State, fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	for _, tok := range fields[1:] {
		key, val, ok := field(tok)
		if !ok {
			return fmt.Errorf("bad field %q", tok)
		}
		var err error
		switch key {
		case "error":
			st.ErrorRate, err = strconv.ParseFloat(val, 64)
		case "step":
			st.Step, err = strconv.ParseUint(val, 10, 64)
		default:
			return fmt.Errorf("unknown state field %q", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
