package cycles

import (
	"slices"

	"go-cyclefinder/internal/graph"
)

// tarjan computes the strongly connected components of the subgraph of g
// induced by nodes for which in returns true. Roots are tried in the order
// of nodes and edges in insertion order. Each component is returned with its
// members sorted by node index; components are sorted by their first member.
func tarjan(g *graph.Graph, nodes []int, in func(int) bool) [][]int {
	t := tarjanState{
		g:       g,
		in:      in,
		index:   make(map[int]int, len(nodes)),
		low:     make(map[int]int, len(nodes)),
		onStack: make(map[int]bool, len(nodes)),
	}

	for _, v := range nodes {
		if _, seen := t.index[v]; !seen {
			t.strongConnect(v)
		}
	}

	for _, c := range t.components {
		slices.Sort(c)
	}
	slices.SortFunc(t.components, func(a, b []int) int { return a[0] - b[0] })

	return t.components
}

type tarjanState struct {
	g  *graph.Graph
	in func(int) bool

	next    int
	index   map[int]int
	low     map[int]int
	onStack map[int]bool
	stack   []int

	components [][]int
}

func (t *tarjanState) strongConnect(v int) {
	t.index[v] = t.next
	t.low[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, ei := range t.g.Out(v) {
		_, w := t.g.Endpoints(ei)
		if !t.in(w) {
			continue
		}
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			t.low[v] = min(t.low[v], t.low[w])
		} else if t.onStack[w] {
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	if t.low[v] != t.index[v] {
		return
	}

	var scc []int
	for {
		n := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[n] = false
		scc = append(scc, n)
		if n == v {
			break
		}
	}
	t.components = append(t.components, scc)
}

// hasSelfEdge reports whether v has an edge to itself.
func hasSelfEdge(g *graph.Graph, v int) bool {
	for _, ei := range g.Out(v) {
		if _, w := g.Endpoints(ei); w == v {
			return true
		}
	}
	return false
}

// nontrivial reports whether a component can hold a cycle.
func nontrivial(g *graph.Graph, scc []int) bool {
	return len(scc) > 1 || hasSelfEdge(g, scc[0])
}

// StronglyConnected returns the components of g that contain at least one
// cycle, each as sorted node indices, ordered by their first node.
func StronglyConnected(g *graph.Graph) [][]int {
	all := make([]int, g.Len())
	for i := range all {
		all[i] = i
	}

	var out [][]int
	for _, scc := range tarjan(g, all, func(int) bool { return true }) {
		if nontrivial(g, scc) {
			out = append(out, scc)
		}
	}
	return out
}
