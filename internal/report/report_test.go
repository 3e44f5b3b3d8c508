package report

import (
	"bytes"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/awalterschulze/gographviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cyclefinder/internal/collector"
	"go-cyclefinder/internal/cycles"
	"go-cyclefinder/internal/graph"
)

func tid(name string) collector.TypeID { return collector.TypeID{Name: name} }

func fieldEdge(origin, label, target string) graph.Edge {
	return graph.Edge{Origin: tid(origin), Target: tid(target), Label: label, Kind: graph.Field}
}

func parentChild() *cycles.Result {
	return &cycles.Result{Components: []cycles.Component{{
		Nodes: []collector.TypeID{tid("Child"), tid("Parent")},
		Cycles: []cycles.Cycle{{
			fieldEdge("Child", "parent", "Parent"),
			fieldEdge("Parent", "child", "Child"),
		}},
	}}}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, parentChild()))

	assert.Equal(t, `
***** Found reference cycle *****
Child -> (field parent with type Parent)
Parent -> (field child with type Child)
----- Full Types -----
Child
Parent

1 CYCLES FOUND.
`, buf.String())
}

func TestWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, &cycles.Result{}))
	assert.Equal(t, "\n0 CYCLES FOUND.\n", buf.String())
}

func TestWriteTextTruncated(t *testing.T) {
	res := parentChild()
	res.Components[0].Truncated = true

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, res))
	assert.Contains(t, buf.String(), "***** Cycle search truncated: component of 2 types, 1 cycles reported *****\n")
	assert.Contains(t, buf.String(), "\n1 CYCLES FOUND.\n")
}

func TestWriteJSON(t *testing.T) {
	assert := assert.New(t)

	res := parentChild()
	res.Components[0].Truncated = true

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(1, doc.Count)
	require.Len(t, doc.Cycles, 1)
	assert.Equal([]EdgeDoc{
		{Origin: "Child", Label: "parent", Kind: "field", Target: "Parent"},
		{Origin: "Parent", Label: "child", Kind: "field", Target: "Child"},
	}, doc.Cycles[0].Edges)
	assert.Equal([]string{"Child", "Parent"}, doc.Cycles[0].Types)
	assert.Equal([]TruncationDoc{{Types: []string{"Child", "Parent"}, Reported: 1}}, doc.Truncated)
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, &cycles.Result{}))
	assert.JSONEq(t, `{"cycles": [], "count": 0}`, buf.String())
}

func TestDot(t *testing.T) {
	assert := assert.New(t)

	res := parentChild()
	res.Components = append(res.Components,
		cycles.Component{
			Nodes: []collector.TypeID{tid("Node")},
			Cycles: []cycles.Cycle{
				{fieldEdge("Node", "next", "Node")},
				{fieldEdge("Node", "prev", "Node")},
				{fieldEdge("Node", "next", "Node")},
			},
		},
		cycles.Component{
			Nodes: []collector.TypeID{tid("Graph"), tid("strict")},
			Cycles: []cycles.Cycle{{
				{Origin: tid("Graph"), Target: tid("strict"), Label: graph.SuperLabel, Kind: graph.Supertype},
				fieldEdge("strict", "edge", "Graph"),
			}},
		},
	)

	out, err := Dot(res)
	require.NoError(t, err)

	parsed, err := gographviz.Read([]byte(out))
	require.NoError(t, err, out)

	assert.True(parsed.Directed)
	assert.Equal(dotName, parsed.Name)
	assert.Len(parsed.Nodes.Nodes, 5)
	for _, n := range []string{"Child", "Parent", "Node", "Graph", "strict"} {
		assert.Contains(parsed.Nodes.Lookup, strconv.Quote(n))
	}

	type pair struct{ src, dst, label string }
	var edges []pair
	for _, e := range parsed.Edges.Edges {
		edges = append(edges, pair{e.Src, e.Dst, e.Attrs["label"]})
	}
	assert.ElementsMatch([]pair{
		{`"Child"`, `"Parent"`, `"parent"`},
		{`"Parent"`, `"Child"`, `"child"`},
		{`"Node"`, `"Node"`, `"next"`},
		{`"Node"`, `"Node"`, `"prev"`},
		{`"Graph"`, `"strict"`, `"$super"`},
		{`"strict"`, `"Graph"`, `"edge"`},
	}, edges)
}

func TestParseFormat(t *testing.T) {
	assert := assert.New(t)

	for _, f := range []Format{Text, JSON, DOT} {
		parsed, err := ParseFormat(string(f))
		assert.NoError(err)
		assert.Equal(f, parsed)
	}

	f, err := ParseFormat("")
	assert.NoError(err)
	assert.Equal(Text, f)

	_, err = ParseFormat("xml")
	assert.Error(err)
}

func TestWriteDispatch(t *testing.T) {
	for format, prefix := range map[Format]string{
		Text: "\n***** Found reference cycle",
		JSON: "{",
		DOT:  "digraph",
	} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, format, parentChild()))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(prefix)), "%s: %q", format, buf.String())
	}
}
