package graph

import (
	"fmt"

	"github.com/pkg/errors"

	"go-cyclefinder/internal/collector"
)

// ElementPolicy decides how element targets of a field relate to the
// field's own static type.
type ElementPolicy uint8

const (
	// ElementsSupplement emits edges to both the container and its elements.
	ElementsSupplement ElementPolicy = iota
	// ElementsReplace emits only the element edges when a field has any.
	ElementsReplace
)

func (p ElementPolicy) String() string {
	switch p {
	case ElementsSupplement:
		return "supplement"
	case ElementsReplace:
		return "replace"
	default:
		return fmt.Sprintf("ElementPolicy(%d)", p)
	}
}

// ParseElementPolicy maps a policy name to its value. The empty string
// selects the default.
func ParseElementPolicy(s string) (ElementPolicy, error) {
	switch s {
	case "", "supplement":
		return ElementsSupplement, nil
	case "replace":
		return ElementsReplace, nil
	default:
		return ElementsSupplement, errors.Errorf("unknown element policy %q", s)
	}
}

// Options configure [Build].
type Options struct {
	Elements ElementPolicy
}

type edgeKey struct {
	origin, target collector.TypeID
	label          string
}

type builder struct {
	g    *Graph
	seen map[edgeKey]struct{}
}

// Build emits the reference edges of every declared node in t.
func Build(t *collector.Table, opts Options) *Graph {
	b := builder{
		g:    newGraph(t.Nodes()),
		seen: make(map[edgeKey]struct{}),
	}
	b.g.unresolved = t.Unresolved

	for _, n := range t.Nodes() {
		if n.Leaf() {
			continue
		}

		for _, f := range n.Fields {
			b.field(n, f, opts.Elements)
		}

		for _, s := range n.Supers {
			b.add(Edge{Origin: n.ID, Target: s, Label: SuperLabel, Kind: Supertype})
		}

		if n.Outer != nil && !n.WeakOuter {
			b.add(Edge{Origin: n.ID, Target: *n.Outer, Label: OuterLabel, Kind: Capture})
		}
	}

	return b.g
}

func (b *builder) field(n *collector.Node, f collector.Field, policy ElementPolicy) {
	// Static fields are process-lifetime roots; weak ones are non-owning.
	if f.Static || f.Weak {
		return
	}

	replace := policy == ElementsReplace && hasElements(f)
	for _, t := range f.Targets {
		kind := Field
		if t.Element {
			kind = Element
		} else if replace {
			continue
		}
		b.add(Edge{Origin: n.ID, Target: t.ID, Label: f.Name, Kind: kind})
	}
}

func hasElements(f collector.Field) bool {
	for _, t := range f.Targets {
		if t.Element {
			return true
		}
	}
	return false
}

func (b *builder) add(e Edge) {
	k := edgeKey{origin: e.Origin, target: e.Target, label: e.Label}
	if _, dup := b.seen[k]; dup {
		return
	}
	b.seen[k] = struct{}{}
	b.g.addEdge(e)
}
