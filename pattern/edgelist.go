// File: edgelist.go
// Role: pattern->pattern adjacency. Deliberately not unified with
// bytegraph.EdgeList, even though the renormalization contract is
// identical — this EdgeList's keys are pattern indices, not NodeIDs, and
// the two owners are kept separate rather than merged.
package pattern

const edgeEpsilon = 1e-9

// Edge is a directed connection from an owning pattern to pattern index To.
type Edge struct {
	To           int
	Weight       float64
	UseCount     uint64
	SuccessCount uint64
	Active       bool
}

// EdgeList is one pattern's outgoing pattern->pattern adjacency.
type EdgeList struct {
	edges []*Edge
	byTo  map[int]*Edge
}

func newEdgeList() *EdgeList {
	return &EdgeList{byTo: make(map[int]*Edge)}
}

// Len returns the number of active edges.
func (el *EdgeList) Len() int {
	n := 0
	for _, e := range el.edges {
		if e.Active {
			n++
		}
	}
	return n
}

// Edges returns the active edges.
func (el *EdgeList) Edges() []*Edge {
	out := make([]*Edge, 0, len(el.edges))
	for _, e := range el.edges {
		if e.Active {
			out = append(out, e)
		}
	}
	return out
}

// Get returns the edge to a given pattern index, if any.
func (el *EdgeList) Get(to int) (*Edge, bool) {
	e, ok := el.byTo[to]
	return e, ok
}

// GetOrCreate obtains or creates the edge to "to", same contract as
// bytegraph.EdgeList.getOrCreate: a new edge starts at weight
// 1/(outgoing_count+1) and the list is renormalized.
func (el *EdgeList) GetOrCreate(to int) *Edge {
	if e, ok := el.byTo[to]; ok {
		e.Active = true
		return e
	}
	n := el.Len()
	e := &Edge{To: to, Weight: 1.0 / float64(n+1), Active: true}
	el.edges = append(el.edges, e)
	el.byTo[to] = e
	el.renormalize()
	return e
}

// Strengthen multiplies the edge's weight, renormalizes, and updates
// lifetime counters.
func (el *EdgeList) Strengthen(to int, factor, learningRate float64, success bool) {
	e := el.GetOrCreate(to)
	e.Weight *= 1 + factor*learningRate
	e.UseCount++
	if success {
		e.SuccessCount++
	}
	el.renormalize()
}

// LoadEdge appends a pattern->pattern edge in exactly the given state,
// without renormalizing the rest of the list. Used only by brainfile when
// restoring an already-normalized save.
func (el *EdgeList) LoadEdge(to int, weight float64, useCount, successCount uint64) {
	e := &Edge{To: to, Weight: weight, UseCount: useCount, SuccessCount: successCount, Active: true}
	el.edges = append(el.edges, e)
	el.byTo[to] = e
}

func (el *EdgeList) renormalize() {
	sum := 0.0
	for _, e := range el.edges {
		if e.Active {
			sum += e.Weight
		}
	}
	if sum < edgeEpsilon {
		return
	}
	for _, e := range el.edges {
		if e.Active {
			e.Weight /= sum
		}
	}
}
