package report

import (
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	"go-cyclefinder/internal/cycles"
	"go-cyclefinder/internal/graph"
)

const dotName = "refcycles"

type dotEdge struct {
	origin, target, label string
}

// Dot renders the edges taking part in any reported cycle as a directed
// graph. Edges shared by several cycles appear once. Node IDs are always
// quoted, since DOT keywords match case-insensitively.
func Dot(res *cycles.Result) (string, error) {
	dot := gographviz.NewGraph()
	if err := dot.SetName(dotName); err != nil {
		return "", errors.WithStack(err)
	}
	if err := dot.SetDir(true); err != nil {
		return "", errors.WithStack(err)
	}

	seen := make(map[dotEdge]bool)
	for _, c := range res.Cycles() {
		for _, e := range c {
			k := dotEdge{
				origin: strconv.Quote(e.Origin.String()),
				target: strconv.Quote(e.Target.String()),
				label:  e.Label,
			}
			if seen[k] {
				continue
			}
			seen[k] = true

			for _, n := range []string{k.origin, k.target} {
				if dot.IsNode(n) {
					continue
				}
				if err := dot.AddNode(dotName, n, nil); err != nil {
					return "", errors.Wrapf(err, "adding node '%s'", n)
				}
			}

			if err := dot.AddEdge(k.origin, k.target, true, edgeAttrs(e)); err != nil {
				return "", errors.Wrapf(err, "adding edge '%s'", e)
			}
		}
	}

	return dot.String(), nil
}

func edgeAttrs(e graph.Edge) map[string]string {
	attrs := map[string]string{"label": strconv.Quote(e.Label)}
	switch e.Kind {
	case graph.Element:
		attrs["style"] = "dashed"
	case graph.Supertype:
		attrs["arrowhead"] = "empty"
	case graph.Capture:
		attrs["style"] = "dotted"
	}
	return attrs
}

// WriteDot writes the DOT rendering of res.
func WriteDot(w io.Writer, res *cycles.Result) error {
	s, err := Dot(res)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return errors.Wrap(err, "writing dot output")
}
