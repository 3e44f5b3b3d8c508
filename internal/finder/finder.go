// Package finder exposes the two entry operations of the cycle finder:
// building the reference graph from declarations and finding its cycles
// under a whitelist.
package finder

import (
	"context"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/send"

	"go-cyclefinder/internal/collector"
	"go-cyclefinder/internal/cycles"
	"go-cyclefinder/internal/graph"
	"go-cyclefinder/internal/model"
	"go-cyclefinder/internal/whitelist"
)

// Options are passed explicitly to each entry operation.
type Options struct {
	Elements              graph.ElementPolicy
	MaxCyclesPerComponent int

	// Sender receives diagnostics. Nil selects grip's global sender.
	Sender send.Sender
}

func (o Options) log(p level.Priority, fields message.Fields) {
	s := o.Sender
	if s == nil {
		s = grip.GetSender()
	}
	s.Send(message.ConvertToComposer(p, fields))
}

// BuildGraph collects declarations and builds their reference graph.
// Unresolved references are modeled as opaque leaves and reported through
// the graph and the log; they never fail the build.
func BuildGraph(decls []model.TypeDecl, opts Options) *graph.Graph {
	table := collector.Collect(decls)
	g := graph.Build(table, graph.Options{Elements: opts.Elements})

	for _, u := range g.Unresolved() {
		opts.log(level.Debug, message.Fields{
			"message": "unresolved reference",
			"type":    u.Type.String(),
			"member":  u.Member,
			"reason":  u.Reason,
		})
	}

	declared := 0
	for _, n := range g.Nodes() {
		if !n.Leaf() {
			declared++
		}
	}

	if n := len(g.Unresolved()); n > 0 {
		opts.log(level.Warning, message.Fields{
			"message":    "some references could not be modeled precisely",
			"unresolved": n,
		})
	}

	opts.log(level.Info, message.Fields{
		"message":  "built reference graph",
		"types":    g.Len(),
		"declared": declared,
		"edges":    g.NumEdges(),
		"elements": opts.Elements.String(),
	})

	return g
}

// FindCycles removes whitelisted edges from g and enumerates the remaining
// elementary cycles. g itself is not modified.
func FindCycles(ctx context.Context, g *graph.Graph, wl *whitelist.Whitelist, opts Options) (*cycles.Result, error) {
	filtered := g.Filter(wl.Keep)

	opts.log(level.Debug, message.Fields{
		"message":    "applied whitelist",
		"rules":      wl.Len(),
		"suppressed": g.NumEdges() - filtered.NumEdges(),
	})

	res, err := cycles.Find(ctx, filtered, cycles.Options{MaxPerComponent: opts.MaxCyclesPerComponent})

	for _, c := range res.Truncated() {
		opts.log(level.Warning, message.Fields{
			"message":  "cycle search truncated",
			"types":    len(c.Nodes),
			"reported": len(c.Cycles),
			"first":    c.Nodes[0].String(),
		})
	}

	opts.log(level.Info, message.Fields{
		"message":    "cycle search finished",
		"components": len(res.Components),
		"cycles":     res.Len(),
		"complete":   err == nil,
	})

	return res, err
}

// Run builds the graph for decls and finds its cycles.
func Run(ctx context.Context, decls []model.TypeDecl, wl *whitelist.Whitelist, opts Options) (*graph.Graph, *cycles.Result, error) {
	g := BuildGraph(decls, opts)
	res, err := FindCycles(ctx, g, wl, opts)
	return g, res, err
}
