// File: detector.go
// Role: Detect — the four-step supervised scan.
package detect

import (
	"github.com/bytewave/bytewave/bytegraph"
	"github.com/bytewave/bytewave/emergent"
	"github.com/bytewave/bytewave/pattern"
)

// minRecurrence is the repetition threshold below which a subsequence is
// not worth minting: it must recur at least twice.
const minRecurrence = 2

// Detect runs the full supervised-step scan over the concatenation of
// input, output, and target, mutating reg in place.
func Detect(g *bytegraph.Graph, reg *pattern.Registry, st *emergent.State, input, output, target []byte) {
	buf := concat(input, output, target)
	nodeBuf := toNodeIDs(buf)

	mintRecurring(reg, nodeBuf)
	detectGeneralizations(reg)
	activeGeneralization(g, reg, st, nodeBuf)
	learnSequences(reg, nodeBuf)
}

// mintRecurring scans subsequences of length 2..lmax and mints a pattern
// for every one that recurs at least minRecurrence times and isn't already
// represented by an existing concrete pattern.
func mintRecurring(reg *pattern.Registry, buf []bytegraph.NodeID) {
	lmax := maxSubsequenceLen(len(buf))
	total := float64(len(buf))
	if total < 1 {
		total = 1
	}

	for length := 2; length <= lmax; length++ {
		if length > len(buf) {
			break
		}
		counts := make(map[string]int)
		first := make(map[string][]bytegraph.NodeID)
		for pos := 0; pos+length <= len(buf); pos++ {
			sub := buf[pos : pos+length]
			key := string(toBytesLossy(sub))
			counts[key]++
			if _, ok := first[key]; !ok {
				seq := make([]bytegraph.NodeID, length)
				copy(seq, sub)
				first[key] = seq
			}
		}
		for key, count := range counts {
			if count < minRecurrence {
				continue
			}
			seq := first[key]
			if concreteExists(reg, seq) {
				continue
			}
			overhead := float64(length)
			benefit := (float64(count)*float64(length) - overhead) / total
			if benefit < 0 {
				benefit = 0
			}
			reg.Mint(seq, benefit)
		}
	}
}

// maxSubsequenceLen grows the longest candidate subsequence with buffer
// size, bounded to the typical [2,8] range.
func maxSubsequenceLen(bufLen int) int {
	l := bufLen / 3
	if l < 2 {
		l = 2
	}
	if l > 8 {
		l = 8
	}
	return l
}

// concreteExists reports whether an identical (non-generalized) sequence
// is already registered, live or dead.
func concreteExists(reg *pattern.Registry, seq []bytegraph.NodeID) bool {
	for _, p := range reg.All() {
		if sameSeq(p.Sequence, seq) {
			return true
		}
	}
	return false
}

// detectGeneralizations groups concrete patterns by length and mints a
// BLANK variant for any pair differing in exactly one position, wiring
// both concrete patterns as children of the new generalized pattern.
func detectGeneralizations(reg *pattern.Registry) {
	byLength := make(map[int][]*pattern.Pattern)
	for _, p := range reg.Live() {
		if p.IsGeneralized() {
			continue
		}
		byLength[p.Len()] = append(byLength[p.Len()], p)
	}

	for _, group := range byLength {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				pos, ok := singleDifference(group[i].Sequence, group[j].Sequence)
				if !ok {
					continue
				}
				if generalizedExists(reg, group[i].Sequence, pos) {
					continue
				}
				g := reg.MintGeneralized(group[i], pos)
				reg.SetParent(group[j].ID, g.ID)
			}
		}
	}
}

// singleDifference returns the one index where a and b differ, and true,
// when they are equal length and differ in exactly one position.
func singleDifference(a, b []bytegraph.NodeID) (int, bool) {
	if len(a) != len(b) {
		return 0, false
	}
	pos, diffs := -1, 0
	for i := range a {
		if a[i] != b[i] {
			diffs++
			pos = i
		}
	}
	if diffs != 1 {
		return 0, false
	}
	return pos, true
}

func generalizedExists(reg *pattern.Registry, seq []bytegraph.NodeID, blankPos int) bool {
	candidate := make([]bytegraph.NodeID, len(seq))
	copy(candidate, seq)
	candidate[blankPos] = bytegraph.Blank
	for _, p := range reg.All() {
		if sameSeq(p.Sequence, candidate) {
			return true
		}
	}
	return false
}

// activeGeneralization speculatively tries BLANK variants of strong
// patterns at 1-2 positions, retaining only those whose blank, if filled
// by the byte already present in the buffer at that offset, fills a node
// the graph already knows: a co-activation match against existing context.
func activeGeneralization(g *bytegraph.Graph, reg *pattern.Registry, st *emergent.State, buf []bytegraph.NodeID) {
	strongFloor := st.AvgPatternStrength
	for _, p := range reg.Live() {
		if p.IsGeneralized() || p.Strength <= strongFloor {
			continue
		}
		positions := p.Len()
		if positions > 2 {
			positions = 2
		}
		for pos := 0; pos < positions; pos++ {
			if generalizedExists(reg, p.Sequence, pos) {
				continue
			}
			if !speculativeFillKnown(g, buf, p.Sequence, pos) {
				continue
			}
			reg.MintGeneralized(p, pos)
		}
	}
}

// speculativeFillKnown checks whether, at some position the pattern
// (minus its blank slot) matches buf, the byte that would occupy the
// blank is a node the graph already knows about.
func speculativeFillKnown(g *bytegraph.Graph, buf, seq []bytegraph.NodeID, blankPos int) bool {
	length := len(seq)
	for pos := 0; pos+length <= len(buf); pos++ {
		ok := true
		for i, id := range seq {
			if i == blankPos {
				continue
			}
			if buf[pos+i] != id {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		fillByte := buf[pos+blankPos]
		if fillByte < bytegraph.NodeCount && g.Nodes[fillByte].Exists {
			return true
		}
	}
	return false
}

// learnSequences finds every (A,B) pair of live patterns where B matches
// immediately after A somewhere in buf, and strengthens A.OutgoingPatterns
// accordingly.
func learnSequences(reg *pattern.Registry, buf []bytegraph.NodeID) {
	live := reg.Live()
	for _, a := range live {
		for pos := 0; pos+a.Len() <= len(buf); pos++ {
			if !a.MatchAt(buf, pos) {
				continue
			}
			for _, b := range live {
				if a == b {
					continue
				}
				if pattern.FollowedBy(a, b, buf, pos) {
					a.OutgoingPatterns.Strengthen(b.ID, 1.0, 0.1, true)
				}
			}
		}
	}
}

func concat(bufs ...[]byte) []byte {
	total := 0
	for _, b := range bufs {
		total += len(b)
	}
	out := make([]byte, 0, total)
	for _, b := range bufs {
		out = append(out, b...)
	}
	return out
}

func toNodeIDs(buf []byte) []bytegraph.NodeID {
	out := make([]bytegraph.NodeID, len(buf))
	for i, b := range buf {
		out[i] = bytegraph.NodeID(b)
	}
	return out
}

func toBytesLossy(ids []bytegraph.NodeID) []byte {
	out := make([]byte, len(ids))
	for i, id := range ids {
		out[i] = byte(id)
	}
	return out
}

func sameSeq(a, b []bytegraph.NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
