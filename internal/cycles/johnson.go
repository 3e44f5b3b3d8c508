package cycles

import (
	"context"

	"go-cyclefinder/internal/collector"
	"go-cyclefinder/internal/graph"
)

// johnson enumerates the elementary cycles of one strongly connected
// component at a time with the blocking search of Johnson's algorithm.
// Its per-node slices are sized once for the whole graph and reset only for
// the nodes each search touches.
type johnson struct {
	g *graph.Graph

	allowed []bool
	blocked []bool
	b       []map[int]struct{}

	start int
	path  []int // edge indices

	limit   int
	emitted int
	stop    bool
	cycles  []Cycle
}

func newJohnson(g *graph.Graph, limit int) *johnson {
	return &johnson{
		g:       g,
		allowed: make([]bool, g.Len()),
		blocked: make([]bool, g.Len()),
		b:       make([]map[int]struct{}, g.Len()),
		limit:   limit,
	}
}

// component enumerates the cycles of scc, whose members are sorted by node
// index. Start nodes are taken in that order; every cycle is emitted once,
// from its least member.
func (j *johnson) component(ctx context.Context, scc []int) (Component, error) {
	j.emitted, j.stop, j.cycles = 0, false, nil

	comp := Component{Nodes: make([]collector.TypeID, len(scc))}
	for i, v := range scc {
		comp.Nodes[i] = j.g.Node(v).ID
	}

	member := make(map[int]bool, len(scc))
	for _, v := range scc {
		member[v] = true
	}

	for k, s := range scc {
		if err := ctx.Err(); err != nil {
			comp.Cycles = j.cycles
			return comp, err
		}

		part := j.subComponent(scc[k:], s, member)
		if part == nil {
			continue
		}

		for _, v := range part {
			j.allowed[v] = true
		}

		j.start = s
		j.circuit(s)

		for _, v := range part {
			j.allowed[v] = false
			j.blocked[v] = false
			j.b[v] = nil
		}
		j.path = j.path[:0]

		if j.stop {
			comp.Truncated = true
			break
		}
	}

	comp.Cycles = j.cycles
	return comp, nil
}

// subComponent returns the strongly connected component containing s in the
// subgraph induced by nodes, or nil when it holds no cycle.
func (j *johnson) subComponent(nodes []int, s int, member map[int]bool) []int {
	in := func(v int) bool { return member[v] && v >= s }
	for _, c := range tarjan(j.g, nodes, in) {
		if c[0] != s {
			continue
		}
		if len(c) == 1 && !hasSelfEdge(j.g, s) {
			return nil
		}
		return c
	}
	return nil
}

func (j *johnson) circuit(v int) bool {
	found := false
	j.blocked[v] = true

	for _, ei := range j.g.Out(v) {
		_, w := j.g.Endpoints(ei)
		if !j.allowed[w] {
			continue
		}

		if w == j.start {
			if !j.emit(ei) {
				return true
			}
			found = true
			continue
		}

		if !j.blocked[w] {
			j.path = append(j.path, ei)
			if j.circuit(w) {
				found = true
			}
			j.path = j.path[:len(j.path)-1]
			if j.stop {
				return found
			}
		}
	}

	if found {
		j.unblock(v)
		return true
	}

	for _, ei := range j.g.Out(v) {
		_, w := j.g.Endpoints(ei)
		if !j.allowed[w] {
			continue
		}
		if j.b[w] == nil {
			j.b[w] = make(map[int]struct{})
		}
		j.b[w][v] = struct{}{}
	}

	return false
}

func (j *johnson) unblock(u int) {
	j.blocked[u] = false
	for w := range j.b[u] {
		delete(j.b[u], w)
		if j.blocked[w] {
			j.unblock(w)
		}
	}
}

// emit records the cycle closed by edge ei. It returns false, and stops the
// search, when the cycle would exceed the limit.
func (j *johnson) emit(ei int) bool {
	if j.limit > 0 && j.emitted == j.limit {
		j.stop = true
		return false
	}
	j.emitted++

	c := make(Cycle, 0, len(j.path)+1)
	for _, pi := range j.path {
		c = append(c, j.g.Edge(pi))
	}
	c = append(c, j.g.Edge(ei))
	j.cycles = append(j.cycles, c)

	return true
}
