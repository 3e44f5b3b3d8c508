package graphstore

import (
	"go-cyclefinder/internal/cycles"
	"go-cyclefinder/internal/graph"
)

// TypeRows converts the nodes of g into UNWIND rows.
func TypeRows(g *graph.Graph) []map[string]any {
	rows := make([]map[string]any, 0, g.Len())
	for _, n := range g.Nodes() {
		rows = append(rows, map[string]any{
			"key":      n.ID.String(),
			"name":     n.ID.Name,
			"arity":    int64(n.ID.Arity),
			"kind":     n.Kind.String(),
			"declared": n.Declared,
			"pos":      n.Pos,
		})
	}
	return rows
}

// ReferenceRows converts the edges of g into UNWIND rows.
func ReferenceRows(g *graph.Graph) []map[string]any {
	rows := make([]map[string]any, 0, g.NumEdges())
	for _, e := range g.Edges() {
		rows = append(rows, map[string]any{
			"origin": e.Origin.String(),
			"target": e.Target.String(),
			"label":  e.Label,
			"kind":   e.Kind.String(),
		})
	}
	return rows
}

// CycleRows converts the cycles of res into UNWIND rows. A cycle's key is
// its rendered edge list, which is stable across runs.
func CycleRows(res *cycles.Result) []map[string]any {
	all := res.Cycles()
	rows := make([]map[string]any, 0, len(all))
	for _, c := range all {
		steps := make([]map[string]any, 0, len(c))
		for i, e := range c {
			steps = append(steps, map[string]any{
				"seq":    int64(i),
				"origin": e.Origin.String(),
				"target": e.Target.String(),
				"label":  e.Label,
				"kind":   e.Kind.String(),
			})
		}

		types := make([]string, 0, len(c))
		for _, t := range c.Types() {
			types = append(types, t.String())
		}

		rows = append(rows, map[string]any{
			"key":    c.String(),
			"length": int64(len(c)),
			"types":  types,
			"steps":  steps,
		})
	}
	return rows
}
