// Package graph builds the directed reference multigraph over collected
// types.
package graph

import (
	"fmt"

	"go-cyclefinder/internal/collector"
)

// Labels of edges that do not stem from a field.
const (
	SuperLabel = "$super"
	OuterLabel = "$outer"
)

// Kind tells how an edge carries its reference.
type Kind uint8

const (
	Field     Kind = iota // direct field of the target type
	Element               // generic argument or array element of a field
	Supertype             // is-a relation to a direct supertype
	Capture               // implicit reference to the enclosing instance
)

var kindNames = [...]string{
	Field:     "field",
	Element:   "element",
	Supertype: "supertype",
	Capture:   "capture",
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindNames[k]
}

// Edge is one possible strong reference.
type Edge struct {
	Origin collector.TypeID
	Target collector.TypeID
	Label  string
	Kind   Kind
}

// IsElement reports whether the target is reached through a container
// rather than the field's static type.
func (e Edge) IsElement() bool { return e.Kind == Element }

func (e Edge) String() string {
	return fmt.Sprintf("%s -> (%s)", e.Origin, e.Description())
}

// Description renders the edge without its origin.
func (e Edge) Description() string {
	switch e.Kind {
	case Element:
		return fmt.Sprintf("field %s with element type %s", e.Label, e.Target)
	case Supertype:
		return fmt.Sprintf("supertype %s", e.Target)
	case Capture:
		return fmt.Sprintf("outer reference to %s", e.Target)
	default:
		return fmt.Sprintf("field %s with type %s", e.Label, e.Target)
	}
}

// Graph is a directed multigraph of types. Nodes keep the insertion order of
// the node table, edges their construction order.
type Graph struct {
	nodes []*collector.Node
	index map[collector.TypeID]int

	edges []Edge
	from  []int
	to    []int
	out   [][]int

	unresolved []collector.Unresolved
}

func newGraph(nodes []*collector.Node) *Graph {
	g := &Graph{
		nodes: nodes,
		index: make(map[collector.TypeID]int, len(nodes)),
		out:   make([][]int, len(nodes)),
	}
	for i, n := range nodes {
		g.index[n.ID] = i
	}
	return g
}

func (g *Graph) addEdge(e Edge) {
	from, to := g.index[e.Origin], g.index[e.Target]
	ei := len(g.edges)
	g.edges = append(g.edges, e)
	g.from = append(g.from, from)
	g.to = append(g.to, to)
	g.out[from] = append(g.out[from], ei)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node at index i.
func (g *Graph) Node(i int) *collector.Node { return g.nodes[i] }

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*collector.Node { return g.nodes }

// IndexOf returns the index of the node with the given identity.
func (g *Graph) IndexOf(id collector.TypeID) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Edge returns the edge at index ei.
func (g *Graph) Edge(ei int) Edge { return g.edges[ei] }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }

// Endpoints returns the node indices of edge ei.
func (g *Graph) Endpoints(ei int) (from, to int) { return g.from[ei], g.to[ei] }

// Out returns the indices of the edges leaving node i, in insertion order.
func (g *Graph) Out(i int) []int { return g.out[i] }

// Unresolved returns the references the collector could not model.
func (g *Graph) Unresolved() []collector.Unresolved { return g.unresolved }

// Filter returns a graph with the same nodes and only the edges keep accepts.
// The receiver is not modified.
func (g *Graph) Filter(keep func(Edge) bool) *Graph {
	f := &Graph{
		nodes:      g.nodes,
		index:      g.index,
		out:        make([][]int, len(g.nodes)),
		unresolved: g.unresolved,
	}
	for _, e := range g.edges {
		if keep(e) {
			f.addEdge(e)
		}
	}
	return f
}
