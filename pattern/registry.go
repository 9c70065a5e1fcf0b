// File: registry.go
// Role: Registry — the dynamic pattern array, capacity doubling, minting,
// hierarchy (parent/child with cycle refusal), and pruning.
package pattern

import "github.com/bytewave/bytewave/bytegraph"

// initialCapacity is the starting backing-array size; Registry doubles it
// whenever minting would overflow, mirroring core/methods_edges.go's
// ensureAdjacency growth idiom.
const initialCapacity = 64

// Registry owns every live and dead Pattern. Dead patterns keep their slot
// (Dead=true) so IDs remain stable for callers holding them.
type Registry struct {
	patterns []*Pattern
	capacity int
}

// NewRegistry returns an empty Registry with initial capacity reserved.
func NewRegistry() *Registry {
	return &Registry{
		patterns: make([]*Pattern, 0, initialCapacity),
		capacity: initialCapacity,
	}
}

// Count returns the number of live (non-dead) patterns.
func (r *Registry) Count() int {
	n := 0
	for _, p := range r.patterns {
		if !p.Dead {
			n++
		}
	}
	return n
}

// All returns every pattern, live and dead, in ID order.
func (r *Registry) All() []*Pattern { return r.patterns }

// Live returns every non-dead pattern.
func (r *Registry) Live() []*Pattern {
	out := make([]*Pattern, 0, len(r.patterns))
	for _, p := range r.patterns {
		if !p.Dead {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the pattern with the given ID, or nil if out of range.
func (r *Registry) Get(id int) *Pattern {
	if id < 0 || id >= len(r.patterns) {
		return nil
	}
	return r.patterns[id]
}

// growCapacity doubles the backing capacity when the live slice is full.
// Go slices already grow automatically via append, but Registry needs an
// explicit, observable doubling policy, so it tracks and exposes capacity
// itself rather than relying on append's implicit growth.
func (r *Registry) growCapacity() {
	r.capacity *= 2
	grown := make([]*Pattern, len(r.patterns), r.capacity)
	copy(grown, r.patterns)
	r.patterns = grown
}

// Capacity reports the current backing capacity (test/inspection hook for
// the doubling policy).
func (r *Registry) Capacity() int { return r.capacity }

// Mint creates a new concrete pattern from seq with the given initial
// (mint-time) strength estimate. Capacity doubles first if the backing
// array is full.
func (r *Registry) Mint(seq []bytegraph.NodeID, mintStrength float64) *Pattern {
	if len(r.patterns) == cap(r.patterns) {
		r.growCapacity()
	}
	p := newPattern(len(r.patterns), seq, mintStrength)
	r.patterns = append(r.patterns, p)
	return p
}

// hasAncestor reports whether candidate is in child's parent chain,
// walking up to the root. Used to refuse edits that would close a cycle.
func (r *Registry) hasAncestor(child, candidate int) bool {
	cur := child
	seen := make(map[int]bool)
	for {
		p := r.Get(cur)
		if p == nil || !p.HasParent {
			return false
		}
		if p.ParentID == candidate {
			return true
		}
		if seen[p.ParentID] {
			return false // already-cyclic chain, refuse further growth
		}
		seen[p.ParentID] = true
		cur = p.ParentID
	}
}

// SetParent makes parentID the parent of childID, refusing the edit if it
// would close a cycle (parentID already descends from childID) or if
// either ID is unknown. Returns false on refusal.
func (r *Registry) SetParent(childID, parentID int) bool {
	child, parent := r.Get(childID), r.Get(parentID)
	if child == nil || parent == nil || childID == parentID {
		return false
	}
	if r.hasAncestor(parentID, childID) {
		return false // would close a cycle
	}
	child.HasParent = true
	child.ParentID = parentID
	child.ChainDepth = parent.ChainDepth + 1
	return true
}

// MintGeneralized mints a BLANK-wildcard generalization of concrete, with
// blankPos set to bytegraph.Blank, and wires the hierarchy: concrete
// becomes a child of the new generalized pattern, and the generalized
// pattern's accumulated meaning starts at concrete's * 1.2.
func (r *Registry) MintGeneralized(concrete *Pattern, blankPos int) *Pattern {
	seq := make([]bytegraph.NodeID, len(concrete.Sequence))
	copy(seq, concrete.Sequence)
	seq[blankPos] = bytegraph.Blank

	g := r.Mint(seq, concrete.Strength)
	g.AccumulatedMeaning = concrete.AccumulatedMeaning * 1.2
	r.SetParent(concrete.ID, g.ID)

	return g
}

// PadTo grows the registry with inert dead placeholder patterns up to
// length n. Used only by brainfile to realign IDs when a pattern that was
// dead (and so never saved) is still referenced as somebody's parent.
func (r *Registry) PadTo(n int) {
	for len(r.patterns) < n {
		if len(r.patterns) == cap(r.patterns) {
			r.growCapacity()
		}
		placeholder := newPattern(len(r.patterns), nil, 0)
		placeholder.Dead = true
		r.patterns = append(r.patterns, placeholder)
	}
}

// LoadPattern reconstructs a pattern at exactly the ID it held when saved,
// padding with PadTo first so the slot lines up even if earlier IDs were
// dead (and so unsaved) patterns. Used only by brainfile.
func (r *Registry) LoadPattern(id int, seq []bytegraph.NodeID, strength float64, attempts, successes uint64, depth int, meaning float64) *Pattern {
	r.PadTo(id)
	if len(r.patterns) == cap(r.patterns) {
		r.growCapacity()
	}
	p := newPattern(id, seq, strength)
	p.PredictionAttempts = attempts
	p.PredictionSuccesses = successes
	p.ChainDepth = depth
	p.AccumulatedMeaning = meaning
	r.patterns = append(r.patterns, p)
	return p
}

// LoadParent sets a direct parent link during load, bypassing the cycle
// check in SetParent (a file written by this package is acyclic already).
// Used only by brainfile.
func (r *Registry) LoadParent(childID, parentID int) {
	child := r.Get(childID)
	if child == nil {
		return
	}
	child.HasParent = true
	child.ParentID = parentID
}

// RecomputeUtilities runs the utility law over every live pattern. Called
// once per supervised feedback step.
func (r *Registry) RecomputeUtilities() {
	for _, p := range r.patterns {
		if p.Dead {
			continue
		}
		p.recomputeUtility()
	}
}

// Prune marks patterns dead when strength < 0.01/pattern_count AND
// prediction_attempts > 50 AND success rate < 0.2.
func (r *Registry) Prune() {
	count := r.Count()
	if count == 0 {
		return
	}
	floor := 0.01 / float64(count)
	for _, p := range r.patterns {
		if p.Dead || p.PredictionAttempts <= 50 {
			continue
		}
		successRate := float64(p.PredictionSuccesses) / float64(p.PredictionAttempts)
		if p.Strength < floor && successRate < 0.2 {
			p.Dead = true
			p.Strength = 0
		}
	}
}

// MatchingAt returns every live pattern that matches buf at pos.
func (r *Registry) MatchingAt(buf []bytegraph.NodeID, pos int) []*Pattern {
	var out []*Pattern
	for _, p := range r.patterns {
		if p.Dead {
			continue
		}
		if p.MatchAt(buf, pos) {
			out = append(out, p)
		}
	}
	return out
}

// FollowedBy reports whether pattern b matches buf immediately after
// pattern a (i.e. at pos_a+len_a), used by the sequence-learning step in
// package detect (learnSequences).
func FollowedBy(a, b *Pattern, buf []bytegraph.NodeID, posA int) bool {
	return b.MatchAt(buf, posA+a.Len())
}
