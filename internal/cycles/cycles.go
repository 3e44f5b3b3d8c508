// Package cycles enumerates the elementary cycles of a reference graph.
//
// The graph is split into strongly connected components first; cycles never
// cross component boundaries. Inside each component Johnson's algorithm
// emits every elementary cycle exactly once, rooted at its least node.
// Parallel edges yield distinct cycles and a cycle and its reverse are
// different cycles.
package cycles

import (
	"context"
	"strings"

	"go-cyclefinder/internal/collector"
	"go-cyclefinder/internal/graph"
)

// Cycle is a closed sequence of edges: each edge's target is the next
// edge's origin and the last edge's target is the first edge's origin.
type Cycle []graph.Edge

// Types returns the distinct origin types of the cycle in traversal order.
func (c Cycle) Types() []collector.TypeID {
	seen := make(map[collector.TypeID]bool, len(c))
	out := make([]collector.TypeID, 0, len(c))
	for _, e := range c {
		if !seen[e.Origin] {
			seen[e.Origin] = true
			out = append(out, e.Origin)
		}
	}
	return out
}

// Closed reports whether consecutive edges share their nodes and the cycle
// wraps around.
func (c Cycle) Closed() bool {
	if len(c) == 0 {
		return false
	}
	for i, e := range c {
		if e.Target != c[(i+1)%len(c)].Origin {
			return false
		}
	}
	return true
}

// String renders the cycle as [A--f-->B, B--g-->A].
func (c Cycle) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range c {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Origin.String())
		b.WriteString("--")
		b.WriteString(e.Label)
		b.WriteString("-->")
		b.WriteString(e.Target.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Component holds the cycles of one strongly connected component.
type Component struct {
	Nodes     []collector.TypeID
	Cycles    []Cycle
	Truncated bool // the search stopped at Options.MaxPerComponent
}

// Result is the outcome of [Find].
type Result struct {
	Components []Component
}

// Cycles returns all cycles in discovery order.
func (r *Result) Cycles() []Cycle {
	var out []Cycle
	for _, c := range r.Components {
		out = append(out, c.Cycles...)
	}
	return out
}

// Len returns the total number of cycles.
func (r *Result) Len() int {
	n := 0
	for _, c := range r.Components {
		n += len(c.Cycles)
	}
	return n
}

// Truncated returns the components whose search was capped.
func (r *Result) Truncated() []Component {
	var out []Component
	for _, c := range r.Components {
		if c.Truncated {
			out = append(out, c)
		}
	}
	return out
}

// Options configure [Find].
type Options struct {
	// MaxPerComponent caps the cycles emitted per component; zero means no
	// limit.
	MaxPerComponent int
}

// Find enumerates the elementary cycles of g. Cancellation of ctx is
// honored between components and between start nodes; the partial result
// is returned together with the context error.
func Find(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	res := &Result{}
	j := newJohnson(g, opts.MaxPerComponent)

	for _, scc := range StronglyConnected(g) {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		comp, err := j.component(ctx, scc)
		if len(comp.Cycles) > 0 || comp.Truncated {
			res.Components = append(res.Components, comp)
		}
		if err != nil {
			return res, err
		}
	}

	return res, nil
}
