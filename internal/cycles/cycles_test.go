package cycles

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"go-cyclefinder/internal/collector"
	"go-cyclefinder/internal/graph"
	"go-cyclefinder/internal/model"
)

type ref struct {
	from, label, to string
}

// build creates one declaration per origin, with a field per reference.
// Nodes that only appear as targets are declared too, without fields.
func build(nodes []string, refs ...ref) *graph.Graph {
	byName := make(map[string]*model.TypeDecl)
	var decls []*model.TypeDecl
	for _, n := range nodes {
		d := &model.TypeDecl{Name: n}
		byName[n] = d
		decls = append(decls, d)
	}
	for _, r := range refs {
		d := byName[r.from]
		d.Fields = append(d.Fields, model.Field{Name: r.label, Type: model.Ref(r.to)})
	}

	out := make([]model.TypeDecl, 0, len(decls))
	for _, d := range decls {
		out = append(out, *d)
	}
	return graph.Build(collector.Collect(out), graph.Options{})
}

func find(t *testing.T, g *graph.Graph, limit int) *Result {
	t.Helper()
	res, err := Find(context.Background(), g, Options{MaxPerComponent: limit})
	require.NoError(t, err)
	return res
}

func rendered(res *Result) []string {
	var out []string
	for _, c := range res.Cycles() {
		out = append(out, c.String())
	}
	return out
}

func complete(n int) ([]string, []ref) {
	var nodes []string
	for i := range n {
		nodes = append(nodes, string(rune('A'+i)))
	}
	var refs []ref
	for _, a := range nodes {
		for _, b := range nodes {
			if a != b {
				refs = append(refs, ref{a, "to" + b, b})
			}
		}
	}
	return nodes, refs
}

func TestFindSelfReference(t *testing.T) {
	res := find(t, build([]string{"Node"}, ref{"Node", "next", "Node"}), 0)

	assert.Equal(t, []string{"[Node--next-->Node]"}, rendered(res))
	require.Len(t, res.Components, 1)
	assert.Equal(t, []collector.TypeID{{Name: "Node"}}, res.Components[0].Nodes)
	assert.False(t, res.Components[0].Truncated)
}

func TestFindMutualReference(t *testing.T) {
	res := find(t, build([]string{"Child", "Parent"},
		ref{"Parent", "child", "Child"},
		ref{"Child", "parent", "Parent"},
	), 0)

	assert.Equal(t, []string{"[Child--parent-->Parent, Parent--child-->Child]"}, rendered(res))
	assert.Equal(t, 1, res.Len())
}

func TestFindAcyclic(t *testing.T) {
	res := find(t, build([]string{"A", "B", "C", "D"},
		ref{"A", "b", "B"},
		ref{"A", "c", "C"},
		ref{"B", "d", "D"},
		ref{"C", "d", "D"},
	), 0)

	assert.Zero(t, res.Len())
	assert.Empty(t, res.Components)
	assert.Empty(t, res.Truncated())
}

func TestFindParallelEdges(t *testing.T) {
	res := find(t, build([]string{"A", "B"},
		ref{"A", "x", "B"},
		ref{"A", "y", "B"},
		ref{"B", "a", "A"},
	), 0)

	assert.Equal(t, []string{
		"[A--x-->B, B--a-->A]",
		"[A--y-->B, B--a-->A]",
	}, rendered(res))
}

func TestFindCompleteGraphs(t *testing.T) {
	for n, expected := range map[int]int{2: 1, 3: 5, 4: 20} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			nodes, refs := complete(n)
			res := find(t, build(nodes, refs...), 0)

			assert.Equal(t, expected, res.Len())
			require.Len(t, res.Components, 1)
			assert.Len(t, res.Components[0].Nodes, n)

			seen := make(map[string]bool)
			for _, c := range res.Cycles() {
				assert.True(t, c.Closed(), c.String())
				types := c.Types()
				least := slices.MinFunc(types, collector.TypeID.Compare)
				assert.Equal(t, least, c[0].Origin, "rooted at least member")

				assert.Len(t, types, len(c), "elementary")

				assert.False(t, seen[c.String()], "duplicate %s", c)
				seen[c.String()] = true
			}
		})
	}
}

func TestFindSeparateComponents(t *testing.T) {
	res := find(t, build([]string{"A", "B", "C", "D", "E"},
		ref{"A", "b", "B"},
		ref{"B", "a", "A"},
		ref{"B", "c", "C"},
		ref{"C", "d", "D"},
		ref{"D", "c", "C"},
		ref{"E", "e", "E"},
	), 0)

	require.Len(t, res.Components, 3)
	assert.Equal(t, []collector.TypeID{{Name: "A"}, {Name: "B"}}, res.Components[0].Nodes)
	assert.Equal(t, []collector.TypeID{{Name: "C"}, {Name: "D"}}, res.Components[1].Nodes)
	assert.Equal(t, []collector.TypeID{{Name: "E"}}, res.Components[2].Nodes)
	assert.Equal(t, 3, res.Len())
}

func TestFindTruncates(t *testing.T) {
	nodes, refs := complete(4)
	g := build(nodes, refs...)

	res := find(t, g, 3)
	assert.Equal(t, 3, res.Len())
	require.Len(t, res.Truncated(), 1)
	assert.True(t, res.Components[0].Truncated)

	exact := find(t, g, 20)
	assert.Equal(t, 20, exact.Len())
	assert.Empty(t, exact.Truncated())

	for _, c := range res.Cycles() {
		assert.True(t, c.Closed())
	}
}

func TestFindTruncationIsPerComponent(t *testing.T) {
	nodes, refs := complete(3)
	nodes = append(nodes, "X")
	refs = append(refs, ref{"X", "x", "X"})

	res := find(t, build(nodes, refs...), 2)
	require.Len(t, res.Components, 2)
	assert.True(t, res.Components[0].Truncated)
	assert.Len(t, res.Components[0].Cycles, 2)
	assert.False(t, res.Components[1].Truncated)
	assert.Len(t, res.Components[1].Cycles, 1)
}

func TestFindCancelled(t *testing.T) {
	nodes, refs := complete(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Find(ctx, build(nodes, refs...), Options{})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Zero(t, res.Len())
}

func TestFindOrderIndependent(t *testing.T) {
	nodes, refs := complete(4)
	refs = append(refs, ref{"A", "self", "A"})
	expected := rendered(find(t, build(nodes, refs...), 0))

	rnd := rand.New(rand.NewPCG(7, 11))
	for range 5 {
		shuffled := slices.Clone(nodes)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, expected, rendered(find(t, build(shuffled, refs...), 0)))
	}
}

func TestStronglyConnected(t *testing.T) {
	g := build([]string{"A", "B", "C", "D"},
		ref{"A", "b", "B"},
		ref{"B", "a", "A"},
		ref{"B", "c", "C"},
		ref{"D", "d", "D"},
	)

	assert.Equal(t, [][]int{{0, 1}, {3}}, StronglyConnected(g))
}

func TestCycleString(t *testing.T) {
	c := Cycle{
		{Origin: collector.TypeID{Name: "A"}, Target: collector.TypeID{Name: "List", Arity: 1}, Label: "items"},
		{Origin: collector.TypeID{Name: "List", Arity: 1}, Target: collector.TypeID{Name: "A"}, Label: "head"},
	}

	assert.Equal(t, "[A--items-->List<1>, List<1>--head-->A]", c.String())
	assert.True(t, c.Closed())
	assert.False(t, c[:1].Closed())
	assert.False(t, Cycle(nil).Closed())
}

// TestFindMatchesGonum compares cycle counts with gonum's implementation of
// Johnson's algorithm on random simple digraphs without self loops.
func TestFindMatchesGonum(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))

	for round := range 40 {
		n := 2 + rnd.IntN(7)
		p := 0.15 + rnd.Float64()*0.4

		var nodes []string
		for i := range n {
			nodes = append(nodes, fmt.Sprintf("N%02d", i))
		}

		oracle := simple.NewDirectedGraph()
		for i := range n {
			oracle.AddNode(simple.Node(i))
		}

		var refs []ref
		for i := range n {
			for j := range n {
				if i == j || rnd.Float64() >= p {
					continue
				}
				refs = append(refs, ref{nodes[i], fmt.Sprintf("f%d", j), nodes[j]})
				oracle.SetEdge(oracle.NewEdge(simple.Node(i), simple.Node(j)))
			}
		}

		res := find(t, build(nodes, refs...), 0)
		expected := len(topo.DirectedCyclesIn(oracle))
		assert.Equal(t, expected, res.Len(), "round %d: %d nodes, %d edges", round, n, len(refs))

		for _, c := range res.Cycles() {
			assert.True(t, c.Closed())
		}
	}
}
