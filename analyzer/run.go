package analyzer

import (
	"context"
	"go/token"
	"strings"
	"sync"

	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/analysis"

	"go-cyclefinder/internal/finder"
	"go-cyclefinder/internal/gosource"
	"go-cyclefinder/internal/graph"
	"go-cyclefinder/internal/whitelist"
)

// state is the part of a run shared by all packages, built on first use
// after flags are parsed.
type state struct {
	once   sync.Once
	wl     *whitelist.Whitelist
	opts   finder.Options
	err    error
	sender send.Sender
}

func (r *runOptions) prepare() *state {
	s := &r.shared
	s.once.Do(func() { s.init(r) })
	return s
}

func (s *state) init(r *runOptions) {
	s.sender = send.MakeNative()
	s.sender.SetName(name)
	_ = s.sender.SetLevel(send.LevelInfo{Default: level.Info, Threshold: level.Warning})

	policy, err := graph.ParseElementPolicy(r.elements)
	if err != nil {
		s.err = err
		return
	}
	s.opts = finder.Options{
		Elements:              policy,
		MaxCyclesPerComponent: r.maxCycles,
		Sender:                s.sender,
	}

	var files []string
	for _, f := range strings.Split(r.whitelist, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}

	wl, diags, err := whitelist.ParseFiles(files...)
	if err != nil {
		s.err = err
		return
	}
	inline, more := whitelist.ParseString(r.rules, "inline rules")
	diags = append(diags, more...)

	for _, d := range diags {
		s.sender.Send(message.ConvertToComposer(level.Warning, message.Fields{
			"message": "skipping malformed whitelist rule",
			"source":  d.Source,
			"line":    d.Line,
			"reason":  d.Reason,
		}))
	}

	s.wl = wl.Merge(inline)
}

// run reports the reference cycles among the named types of one package.
func (r *runOptions) run(p *analysis.Pass) (any, error) {
	s := r.prepare()
	if s.err != nil {
		return nil, errors.Wrap(s.err, name)
	}

	c := gosource.NewCollector(p.Pkg.Path())
	c.CollectPackage(p.Fset, p.Pkg)
	if len(c.Decls) == 0 {
		return nil, nil
	}

	_, res, err := finder.Run(context.Background(), c.Decls, s.wl, s.opts)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	pos := func(id string) token.Pos {
		if at, ok := c.Positions[id]; ok && at.IsValid() {
			return at
		}
		if len(p.Files) > 0 {
			return p.Files[0].Package
		}
		return token.NoPos
	}

	for _, cy := range res.Cycles() {
		p.Reportf(pos(cy[0].Origin.Name), "reference cycle %s", cy)
	}

	for _, comp := range res.Truncated() {
		p.Reportf(pos(comp.Nodes[0].Name), "reference cycle search truncated: %d types, %d cycles reported",
			len(comp.Nodes), len(comp.Cycles))
	}

	return nil, nil
}
